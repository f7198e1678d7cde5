package ast

import (
	"strings"

	"github.com/pkg/errors"
)

// Direction is one leg of a packet's direction set.
type Direction int

const (
	ClientToServer Direction = 1 << iota
	ServerToClient
)

// InfoMode classifies how aggressively a delta-enabled packet
// discards a send with no field changes.
type InfoMode int

const (
	InfoNone InfoMode = iota
	Info
	GameInfo
)

// Flags bundles the packet-level behavioral flags recognized by the
// parser (spec.md §6's packet flag list, minus sc/cs/is-info/
// is-game-info/cancel which have dedicated fields on Packet).
type Flags struct {
	PreSend        bool
	PostSend       bool
	PostRecv       bool
	NoDelta        bool
	NoPacket       bool
	HandleViaPacket bool
	HandlePerConn  bool
	NoHandle       bool
	DirectSend     bool
	ListSend       bool
	ForceSend      bool
}

// Packet is one `TAG = NUMBER; flags ... end` block.
type Packet struct {
	TagName    string
	TagNumber  uint16
	Directions Direction
	Info       InfoMode
	Flags      Flags
	CancelSet  []string
	Fields     []Field

	// DeltaEnabled is Flags.NoDelta negated, after the empty-field-list
	// invariant has forced it false.
	DeltaEnabled bool

	KeyFields   []Field
	OtherFields []Field
}

// NewPacket builds a Packet from its parsed pieces, applying spec.md
// §3's packet invariants. It is the Go analogue of
// generate_packets.py's Packet.__init__ cap/field bookkeeping.
func NewPacket(tagName string, tagNumber uint16, dirs Direction, info InfoMode, flags Flags, cancel []string, fields []Field) (*Packet, error) {
	if dirs == 0 {
		return nil, errors.Errorf("packet %s: direction set must be non-empty (need sc and/or cs)", tagName)
	}

	p := &Packet{
		TagName:    tagName,
		TagNumber:  tagNumber,
		Directions: dirs,
		Info:       info,
		Flags:      flags,
		CancelSet:  cancel,
		Fields:     fields,
	}
	p.DeltaEnabled = !flags.NoDelta

	if len(fields) == 0 {
		p.DeltaEnabled = false
		p.Flags.NoPacket = true
		if p.Flags.DirectSend {
			return nil, errors.Errorf("packet %s: dsend on a packet with no fields is not useful", tagName)
		}
	}

	if len(fields) > 5 || secondToken(tagName) == "ruleset" {
		p.Flags.HandleViaPacket = true
	}

	for _, f := range fields {
		if f.AddCap != "" && f.RemoveCap != "" {
			return nil, errors.Errorf("packet %s field %s: add-cap and remove-cap on the same field", tagName, f.Name)
		}
		if f.ArrayRank == 2 && (f.Type.Category() == CategoryString || f.Type.Category() == CategoryEstring) {
			return nil, errors.Errorf("packet %s field %s: string/estring arrays are only supported at rank 1", tagName, f.Name)
		}
	}

	p.KeyFields = nil
	p.OtherFields = nil
	for _, f := range fields {
		if f.IsKey {
			p.KeyFields = append(p.KeyFields, f)
		} else {
			p.OtherFields = append(p.OtherFields, f)
		}
	}
	if len(p.KeyFields) > 2 {
		// spec.md §9 open question: generalize or refuse. We refuse at
		// parse time, per the spec's own suggested resolution.
		return nil, errors.Errorf("packet %s: %d key fields declared, only 0, 1, or 2 are supported", tagName, len(p.KeyFields))
	}

	return p, nil
}

// secondToken returns the second underscore-delimited token of name,
// or "" if there is none. Mirrors generate_packets.py's
// `self.name.split("_")[1]` check, guarded against short names.
func secondToken(name string) string {
	parts := strings.Split(strings.ToLower(name), "_")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// HasDirection reports whether d is in the packet's direction set.
func (p *Packet) HasDirection(d Direction) bool {
	return p.Directions&d != 0
}

// SingleDirection reports the packet's lone direction and true, or
// (0, false) if it carries both directions.
func (p *Packet) SingleDirection() (Direction, bool) {
	switch p.Directions {
	case ClientToServer, ServerToClient:
		return p.Directions, true
	default:
		return 0, false
	}
}
