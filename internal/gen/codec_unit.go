package gen

import (
	"fmt"

	"github.com/freeciv21/packetgen/internal/ast"
)

// unitPutStmt renders the statement that serializes one unit of
// field f's base (array-rank-stripped) type. Every field category
// gets exactly one kind of "unit" — a memory/bitvector/struct-coded
// field's whole value is itself the unit even though it looks
// scalar; an array rank wraps this same unit call in one or two
// index loops (codec_array.go), so e.g. an array of memory blobs
// loops calling PutMemory once per blob rather than once per byte.
func unitPutStmt(f ast.Field, w, valueExpr string) string {
	switch f.Type.Category() {
	case ast.CategoryString:
		return fmt.Sprintf("%s.PutString(%s)", w, valueExpr)
	case ast.CategoryEstring:
		return fmt.Sprintf("%s.PutEstring(%s)", w, valueExpr)
	case ast.CategoryMemory:
		return fmt.Sprintf("%s.PutMemory(%s)", w, valueExpr)
	case ast.CategoryBitvector:
		return fmt.Sprintf("%s.PutBitvector(%s)", w, valueExpr)
	case ast.CategoryWorklist, ast.CategoryCityMap, ast.CategoryCMParameter, ast.CategoryStruct:
		return fmt.Sprintf("if err := (%s).EncodeTo(%s); err != nil { return err }", valueExpr, w)
	}
	switch f.Type.StorageKind {
	case "bool":
		return fmt.Sprintf("%s.PutBool(%s)", w, valueExpr)
	case "float":
		return fmt.Sprintf("%s.PutFloat(float64(%s), %d)", w, valueExpr, f.Type.FloatFactor)
	default:
		return fmt.Sprintf("%s.Put%s(%s(%s))", w, writerMethodSuffix(f.Type.WireKind), baseGoType(f), valueExpr)
	}
}

// unitGetStmt renders the statement(s) that deserialize one unit of
// field f's base type into destExpr, returning a *emitrt.FieldError
// on failure. fieldLabel is the human-readable field
// name used in the error.
func unitGetStmt(f ast.Field, r, destExpr, fieldLabel string) []string {
	errCheck := func(expr string) []string {
		return []string{
			fmt.Sprintf("v, err := %s", expr),
			fmt.Sprintf("if err != nil { return out, &emitrt.FieldError{Field: %s, Reason: err.Error()} }", quote(fieldLabel)),
			fmt.Sprintf("%s = v", destExpr),
		}
	}
	switch f.Type.Category() {
	case ast.CategoryString:
		return errCheck(fmt.Sprintf("%s.GetString()", r))
	case ast.CategoryEstring:
		return errCheck(fmt.Sprintf("%s.GetEstring()", r))
	case ast.CategoryMemory:
		return errCheck(fmt.Sprintf("%s.GetMemory(int(%s))", r, sizeExpr(f.Sizes[0], "used", exprReceiver(destExpr))))
	case ast.CategoryBitvector:
		return errCheck(fmt.Sprintf("%s.GetBitvector(int(%s))", r, sizeExpr(f.Sizes[0], "used", exprReceiver(destExpr))))
	case ast.CategoryWorklist, ast.CategoryCityMap, ast.CategoryCMParameter, ast.CategoryStruct:
		return []string{
			fmt.Sprintf("if err := (%s).DecodeFrom(%s); err != nil { return out, &emitrt.FieldError{Field: %s, Reason: err.Error()} }", destExpr, r, quote(fieldLabel)),
		}
	}
	switch f.Type.StorageKind {
	case "bool":
		return errCheck(fmt.Sprintf("%s.GetBool()", r))
	case "float":
		return errCheck(fmt.Sprintf("%s.GetFloat(%d)", r, f.Type.FloatFactor))
	default:
		return []string{
			fmt.Sprintf("v, err := %s.Get%s()", r, writerMethodSuffix(f.Type.WireKind)),
			"if err != nil { return out, &emitrt.FieldError{Field: " + quote(fieldLabel) + ", Reason: err.Error()} }",
			fmt.Sprintf("%s = %s(v)", destExpr, baseGoType(f)),
		}
	}
}

// unitEqualExpr renders a boolean Go expression comparing two unit
// values of field f's base type, per spec.md §4.3's per-kind
// comparison table.
func unitEqualExpr(f ast.Field, aExpr, bExpr string) string {
	switch f.Type.Category() {
	case ast.CategoryString, ast.CategoryEstring:
		return fmt.Sprintf("%s == %s", aExpr, bExpr)
	case ast.CategoryMemory:
		return fmt.Sprintf("bytes.Equal(%s, %s)", aExpr, bExpr)
	case ast.CategoryBitvector:
		return fmt.Sprintf("(%s).Equal(%s)", aExpr, bExpr)
	case ast.CategoryCMParameter:
		// Open question (spec.md §9): the original compares by address
		// identity (&a != &b), which for two distinct values is always
		// true — i.e. "equal" is always false, so the field always
		// reports as changed. Preserved rather than silently
		// introducing a real value-equality check.
		return "false"
	case ast.CategoryWorklist, ast.CategoryCityMap, ast.CategoryStruct:
		return fmt.Sprintf("(%s).Equal(%s)", aExpr, bExpr)
	}
	return fmt.Sprintf("%s == %s", aExpr, bExpr)
}

// cmParameterAlwaysDiffers reports whether a field's category treats
// every comparison as "changed" regardless of value, so callers can
// skip reading old/new values they'd otherwise never use.
func cmParameterAlwaysDiffers(f ast.Field) bool {
	return f.Type.Category() == ast.CategoryCMParameter
}
