package ast

import (
	"sort"

	deepcopy "github.com/tiendc/go-deepcopy"
)

// Variant is one capability-conditioned specialization of a Packet.
type Variant struct {
	Packet *Packet

	// PositiveCaps/NegativeCaps partition the capability set referenced
	// by the parent packet's fields. Disjoint; their union is every
	// capability name the packet's fields mention.
	PositiveCaps []string
	NegativeCaps []string

	// Index is the variant's stable tag, 100+position in the
	// deterministic (sorted-capability-name) enumeration order.
	Index int

	Fields      []Field
	KeyFields   []Field
	OtherFields []Field

	// DeltaEnabled/NoPacket/HandleViaPacket start from the parent
	// packet's values but can be independently forced by this
	// variant's own (possibly smaller, cap-filtered) field list —
	// mirrors generate_packets.py's Variant.__init__ re-applying the
	// same empty-field-list and five-field/ruleset rules per variant.
	DeltaEnabled    bool
	NoPacket        bool
	HandleViaPacket bool
}

// Condition describes one term of a variant's activation predicate:
// has_capability(Name, negotiated) if !Negate, else its negation.
type Condition struct {
	Name   string
	Negate bool
}

// Predicate returns the variant's activation predicate as an ordered
// list of capability conditions, ANDed together. A nil/empty result
// means the constant predicate `true` (spec.md §3: "the constant true
// when no capabilities are referenced").
func (v *Variant) Predicate() []Condition {
	conds := make([]Condition, 0, len(v.PositiveCaps)+len(v.NegativeCaps))
	for _, c := range v.PositiveCaps {
		conds = append(conds, Condition{Name: c})
	}
	for _, c := range v.NegativeCaps {
		conds = append(conds, Condition{Name: c, Negate: true})
	}
	return conds
}

// ExpandVariants enumerates the power set of capabilities referenced
// by p's fields in deterministic (sorted capability name) order and
// builds one Variant per subset, per spec.md §4.2. When p references
// no capabilities, it returns exactly one Variant with an empty
// Predicate (the constant-true activation).
func ExpandVariants(p *Packet) ([]*Variant, error) {
	capSet := map[string]bool{}
	for _, f := range p.Fields {
		if f.AddCap != "" {
			capSet[f.AddCap] = true
		}
		if f.RemoveCap != "" {
			capSet[f.RemoveCap] = true
		}
	}
	caps := make([]string, 0, len(capSet))
	for c := range capSet {
		caps = append(caps, c)
	}
	sort.Strings(caps)

	n := len(caps)
	variants := make([]*Variant, 0, 1<<uint(n))
	for mask := 0; mask < (1 << uint(n)); mask++ {
		pos := make(map[string]bool, n)
		neg := make(map[string]bool, n)
		var posList, negList []string
		for i, c := range caps {
			if mask&(1<<uint(i)) != 0 {
				pos[c] = true
				posList = append(posList, c)
			} else {
				neg[c] = true
				negList = append(negList, c)
			}
		}

		var fields []Field
		if err := deepcopy.Copy(&fields, &p.Fields); err != nil {
			return nil, err
		}
		filtered := fields[:0:0]
		for _, f := range fields {
			if f.SurvivesIn(pos, neg) {
				filtered = append(filtered, f)
			}
		}

		v := &Variant{
			Packet:          p,
			PositiveCaps:    posList,
			NegativeCaps:    negList,
			Index:           100 + mask,
			Fields:          filtered,
			DeltaEnabled:    p.DeltaEnabled,
			NoPacket:        p.Flags.NoPacket,
			HandleViaPacket: p.Flags.HandleViaPacket,
		}
		for _, f := range filtered {
			if f.IsKey {
				v.KeyFields = append(v.KeyFields, f)
			} else {
				v.OtherFields = append(v.OtherFields, f)
			}
		}
		if len(filtered) == 0 {
			v.DeltaEnabled = false
			v.NoPacket = true
		}
		if len(filtered) > 5 || secondToken(p.TagName) == "ruleset" {
			v.HandleViaPacket = true
		}

		variants = append(variants, v)
	}
	return variants, nil
}
