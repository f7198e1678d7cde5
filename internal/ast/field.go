// Package ast holds the immutable parsed model of a protocol
// description: type aliases, fields, packets, and the capability
// variants derived from them. Nothing in this package performs I/O;
// it is built once by internal/parse and consumed once by
// internal/gen.
package ast

import "strings"

// FieldType is the parsed shape of a TYPE(STORAGE) expansion.
type FieldType struct {
	// WireKind identifies the on-wire encoding family: "uint8",
	// "sint16", "string", "estring", "memory", "bitvector",
	// "worklist", "cm_parameter", "city_map", or a struct codec tag.
	WireKind string
	// StorageKind is the target-language representation hint: "int",
	// "bool", "float", or a struct tag (conventionally prefixed
	// "struct").
	StorageKind string
	// FloatFactor is the integer scale parsed from the trailing
	// digits of WireKind when StorageKind is "float" (e.g. "sint16"
	// with factor parsed separately is not a float kind; a kind like
	// "coord100" factors to WireKind "coord", FloatFactor 100). Zero
	// means "not a float field".
	FloatFactor int
}

// IsStruct reports whether this field's storage is a struct codec,
// i.e. has an Equal-hook naming convention (emitrt.Equatable) rather
// than a scalar comparison.
func (t FieldType) IsStruct() bool {
	return strings.HasPrefix(t.StorageKind, "struct")
}

// IsFloat reports whether this field carries an integer scale factor.
func (t FieldType) IsFloat() bool {
	return t.StorageKind == "float"
}

// Category classifies a field's wire kind into one of the handful of
// codec shapes spec.md §4.3's put/get/compare table distinguishes.
// Mirrors the dispatch the original performs across
// generate_specific_field/get_cmp_... by switching on dataio_type.
type Category int

const (
	CategoryScalar Category = iota
	CategoryString
	CategoryEstring
	CategoryMemory
	CategoryBitvector
	CategoryWorklist
	CategoryCMParameter
	CategoryCityMap
	CategoryStruct
)

func (t FieldType) Category() Category {
	switch t.WireKind {
	case "string":
		return CategoryString
	case "estring":
		return CategoryEstring
	case "memory":
		return CategoryMemory
	case "bitvector":
		return CategoryBitvector
	case "worklist":
		return CategoryWorklist
	case "cm_parameter":
		return CategoryCMParameter
	case "city_map":
		return CategoryCityMap
	}
	if t.IsStruct() {
		return CategoryStruct
	}
	return CategoryScalar
}

// NeedsEncoder reports whether a field of this category is put/get
// via the field value's own emitrt.Encoder/Decoder implementation
// rather than a Writer/Reader scalar method.
func (c Category) NeedsEncoder() bool {
	switch c {
	case CategoryStruct, CategoryWorklist, CategoryCityMap, CategoryCMParameter:
		return true
	default:
		return false
	}
}

// ArraySize is the (declared, used, old) size triple for one array
// dimension. Declared is the compile-time constant used in struct
// declarations. Used is the token for the runtime count to transmit:
// the declared token itself for a bare size, or the name of a sibling
// field for a "DECL:USED" size. Old is the same token, read off the
// cached prior value; the codec emitter turns both into Go
// expressions.
type ArraySize struct {
	Declared string
	Used     string
	Old      string
}

// Field is one member of a packet's field list.
type Field struct {
	Name string
	Type FieldType

	// ArrayRank is 0 (scalar), 1, or 2.
	ArrayRank int
	// Sizes holds ArrayRank entries, outermost dimension first.
	Sizes [2]ArraySize

	IsKey bool
	Diff  bool

	// AddCap/RemoveCap: at most one is non-empty (enforced at parse
	// time). A field with AddCap("X") exists only in variants whose
	// positive capability set contains X; RemoveCap is the mirror
	// image against the negative set.
	AddCap    string
	RemoveCap string
}

// HasCapFlag reports whether this field is capability-gated at all.
func (f Field) HasCapFlag() bool {
	return f.AddCap != "" || f.RemoveCap != ""
}

// SurvivesIn reports whether this field is present in a variant whose
// positive/negative capability sets are pos and neg.
func (f Field) SurvivesIn(pos, neg map[string]bool) bool {
	switch {
	case !f.HasCapFlag():
		return true
	case f.AddCap != "":
		return pos[f.AddCap]
	default:
		return neg[f.RemoveCap]
	}
}

// FoldableBool reports whether this field is a non-array, non-key
// bool eligible for the header-folding optimization (spec.md §4.3,
// the "fold rule"). Folding itself is an emission-context decision
// (driver.Options.FoldBoolIntoHeader), not a parsed-model property —
// this method only reports eligibility.
func (f Field) FoldableBool() bool {
	return f.ArrayRank == 0 && !f.IsKey && f.Type.StorageKind == "bool"
}
