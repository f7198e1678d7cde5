package gen

import (
	"strings"

	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

// GoType renders a field's full Go type, wrapping its base element
// type in one "[]" per array rank (spec.md §3: array_rank ∈ {0,1,2}).
// Slices, not fixed-size arrays, represent the declared size: the
// *declared* size still governs the wire-format truncation check
// (spec.md §4.3), it just isn't baked into the Go type itself.
func GoType(f ast.Field) string {
	return strings.Repeat("[]", f.ArrayRank) + baseGoType(f)
}

// baseGoType returns the element type ignoring array rank.
func baseGoType(f ast.Field) string {
	switch f.Type.Category() {
	case ast.CategoryString, ast.CategoryEstring:
		return "string"
	case ast.CategoryMemory:
		// A memory field is itself a variable-length blob, not a
		// single byte — array rank, if any, counts blobs (e.g. rank 1
		// is "array of memory fields", i.e. [][]byte), not bytes
		// within one blob.
		return "[]byte"
	case ast.CategoryBitvector:
		return "emitrt.Bitvector"
	}
	if f.Type.IsStruct() {
		return structTypeName(f.Type.StorageKind)
	}
	switch f.Type.StorageKind {
	case "bool":
		return "bool"
	case "float":
		return "float64"
	case "int":
		return scalarIntType(f.Type.WireKind)
	default:
		// An already-valid Go type name used verbatim, e.g. a type
		// alias expansion written directly in the protocol file.
		return f.Type.StorageKind
	}
}

// structTypeName derives a Go type name from a "struct..." storage
// kind token, e.g. "struct_unit" -> "Unit", "structWorklist" ->
// "Worklist". These types are supplied by the collaborator embedding
// packetgen's output (spec.md §1: "the user-written packet
// handlers" own them); packetgen only needs their names.
func structTypeName(storageKind string) string {
	rest := strings.TrimPrefix(storageKind, "struct")
	rest = strings.TrimPrefix(rest, "_")
	if rest == "" {
		return "Struct"
	}
	return emit.ExportedName(rest)
}

// scalarIntType maps a wire_kind integer family to a fixed-width Go
// integer type wide enough to hold it without truncation.
func scalarIntType(wireKind string) string {
	switch {
	case strings.HasPrefix(wireKind, "uint8"):
		return "uint8"
	case strings.HasPrefix(wireKind, "uint16"):
		return "uint16"
	case strings.HasPrefix(wireKind, "uint32"):
		return "uint32"
	case strings.HasPrefix(wireKind, "sint8"):
		return "int8"
	case strings.HasPrefix(wireKind, "sint16"):
		return "int16"
	case strings.HasPrefix(wireKind, "sint32"):
		return "int32"
	default:
		return "int32"
	}
}

// writerMethodSuffix maps a scalar wire_kind to the emitrt.Writer/
// Reader method suffix that serializes it, e.g. "uint8" -> "Uint8".
func writerMethodSuffix(wireKind string) string {
	switch {
	case strings.HasPrefix(wireKind, "uint8"):
		return "Uint8"
	case strings.HasPrefix(wireKind, "uint16"):
		return "Uint16"
	case strings.HasPrefix(wireKind, "uint32"):
		return "Uint32"
	case strings.HasPrefix(wireKind, "sint8"):
		return "Sint8"
	case strings.HasPrefix(wireKind, "sint16"):
		return "Sint16"
	case strings.HasPrefix(wireKind, "sint32"):
		return "Sint32"
	default:
		return "Sint32"
	}
}
