package gen

import (
	"fmt"
	"strings"

	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

// arraySentinel is the diff-array terminator (spec.md §4.3/§6/§8):
// always emitted last, and an index of 255 on receive always ends the
// stream.
const arraySentinel = 255

// sizeExpr renders one of field f's array-size slots as a Go
// expression for use in put/get/differ code. A bare size token (no
// "DECL:USED" colon in the protocol description) is the same literal
// in every slot and passes through unchanged. A colon token instead
// names an already-declared sibling field whose *runtime* value
// carries the count (spec.md §3: "DECL:USED" expands to
// (DECL, real.USED, old.USED)); recv supplies the receiver that
// sibling field is read off of ("real", "out", or "snap", matching
// whichever copy of the packet is in scope at the call site).
func sizeExpr(sizes ast.ArraySize, slot, recv string) string {
	tok := sizes.Declared
	switch slot {
	case "used":
		tok = sizes.Used
	case "old":
		tok = sizes.Old
	}
	if tok == sizes.Declared {
		return tok
	}
	return recv + "." + emit.ExportedName(tok)
}

// exprReceiver recovers the receiver ("real", "out", "snap", ...) a
// put/get call site's oldExpr/newExpr/destExpr was built from. Every
// call site in this package builds those as recv+"."+FieldGoName(f),
// so this just undoes that.
func exprReceiver(expr string) string {
	if i := strings.IndexByte(expr, '.'); i >= 0 {
		return expr[:i]
	}
	return expr
}

// emitDifferStmt writes the statement(s) computing whether field f's
// value differs between oldExpr and newExpr, assigning a bool to
// outVar. Mirrors spec.md §4.3's per-kind compare table: for arrays,
// the used sizes are compared first (short-circuiting to false when
// the field has no DECL:USED sibling, since both sides then name the
// same declared constant), then elements up to the new used size.
func emitDifferStmt(p appender, f ast.Field, oldExpr, newExpr, outVar string) {
	if cmParameterAlwaysDiffers(f) {
		p.line("%s := true", outVar)
		return
	}
	if f.ArrayRank == 0 {
		p.line("%s := %s", outVar, negate(unitEqualExpr(f, oldExpr, newExpr)))
		return
	}
	oldRecv, newRecv := exprReceiver(oldExpr), exprReceiver(newExpr)
	oldUsed := sizeExpr(f.Sizes[0], "old", oldRecv)
	newUsed := sizeExpr(f.Sizes[0], "used", newRecv)
	p.line("%s := %s != %s", outVar, oldUsed, newUsed)
	p.line("if !%s {", outVar)
	p.line("\tfor i := 0; i < int(%s); i++ {", newUsed)
	if f.ArrayRank == 1 {
		p.line("\t\tif %s {", negate(unitEqualExpr(f, oldExpr+"[i]", newExpr+"[i]")))
		p.line("\t\t\t%s = true", outVar)
		p.line("\t\t\tbreak")
		p.line("\t\t}")
	} else {
		old2 := sizeExpr(f.Sizes[1], "old", oldRecv)
		new2 := sizeExpr(f.Sizes[1], "used", newRecv)
		p.line("\t\tif %s != %s {", old2, new2)
		p.line("\t\t\t%s = true", outVar)
		p.line("\t\t\tbreak")
		p.line("\t\t}")
		p.line("\t\tfor j := 0; j < int(%s); j++ {", new2)
		p.line("\t\t\tif %s {", negate(unitEqualExpr(f, oldExpr+"[i][j]", newExpr+"[i][j]")))
		p.line("\t\t\t\t%s = true", outVar)
		p.line("\t\t\t}")
		p.line("\t\t}")
		p.line("\t\tif %s {", outVar)
		p.line("\t\t\tbreak")
		p.line("\t\t}")
	}
	p.line("\t}")
	p.line("}")
}

func negate(expr string) string { return "!(" + expr + ")" }

// emitPutPayload writes the put-side payload for field f, reading
// from newExpr (rank 0/1/2 handled per spec.md §4.3). Non-diff arrays
// carry no length prefix on the wire at all: a bare-token field
// always transmits its full declared size, and a DECL:USED field
// transmits exactly the sibling field's current (real-packet) value,
// which the decoder already knows because that sibling was decoded
// earlier in the same packet.
func emitPutPayload(p appender, f ast.Field, w, oldExpr, newExpr string) {
	recv := exprReceiver(newExpr)
	switch {
	case f.ArrayRank == 0:
		p.line("%s", unitPutStmt(f, w, newExpr))
	case f.ArrayRank == 1 && f.Diff:
		emitPutDiffArray(p, f, w, oldExpr, newExpr)
	case f.ArrayRank == 1:
		used := sizeExpr(f.Sizes[0], "used", recv)
		p.line("for i := 0; i < int(%s); i++ {", used)
		p.line("\t%s", unitPutStmt(f, w, newExpr+"[i]"))
		p.line("}")
	default: // rank 2, non-diff (diff arrays are rank-1 only per spec.md §4.3)
		used1 := sizeExpr(f.Sizes[0], "used", recv)
		used2 := sizeExpr(f.Sizes[1], "used", recv)
		p.line("for i := 0; i < int(%s); i++ {", used1)
		p.line("\tfor j := 0; j < int(%s); j++ {", used2)
		p.line("\t\t%s", unitPutStmt(f, w, newExpr+"[i][j]"))
		p.line("\t}")
		p.line("}")
	}
}

// emitPutDiffArray writes the sparse (index, value)* + 255 sentinel
// stream for a diff-flagged rank-1 array (spec.md §4.3/§8). The used
// length must be < 255: the emitted code checks it at run time and
// returns an error before writing any pair. Neither the generator nor
// the emitted code checks the declared size against the sentinel at
// build time.
func emitPutDiffArray(p appender, f ast.Field, w, oldExpr, newExpr string) {
	used := sizeExpr(f.Sizes[0], "used", exprReceiver(newExpr))
	p.line("if int(%s) >= %d {", used, arraySentinel)
	p.line("\treturn fmt.Errorf(%s, %s)", quote("field "+f.Name+": used length %d reaches the diff-array sentinel"), used)
	p.line("}")
	p.line("for i := 0; i < int(%s); i++ {", used)
	p.line("\tif i >= len(%s) || %s {", oldExpr, negate(unitEqualExpr(f, oldExpr+"[i]", newExpr+"[i]")))
	p.line("\t\t%s.PutUint8(uint8(i))", w)
	p.line("\t\t%s", unitPutStmt(f, w, newExpr+"[i]"))
	p.line("\t}")
	p.line("}")
	p.line("%s.PutUint8(%d)", w, arraySentinel)
}

// emitGetPayload writes the get-side payload for field f, assigning
// into destExpr (an addressable lvalue such as "out.Foo").
func emitGetPayload(p appender, f ast.Field, r, destExpr, fieldLabel string) {
	switch {
	case f.ArrayRank == 0:
		for _, stmt := range unitGetStmt(f, r, destExpr, fieldLabel) {
			p.line("%s", stmt)
		}
	case f.ArrayRank == 1 && f.Diff:
		emitGetDiffArray(p, f, r, destExpr, fieldLabel)
	case f.ArrayRank == 1:
		emitGetPlainArray(p, f, r, destExpr, fieldLabel)
	default:
		emitGetPlain2DArray(p, f, r, destExpr, fieldLabel)
	}
}

func emitGetDiffArray(p appender, f ast.Field, r, destExpr, fieldLabel string) {
	used := sizeExpr(f.Sizes[0], "used", exprReceiver(destExpr))
	p.line("for {")
	p.line("\tidx, err := %s.GetUint8()", r)
	p.line("\tif err != nil { return out, &emitrt.FieldError{Field: %s, Reason: err.Error()} }", quote(fieldLabel))
	p.line("\tif idx == %d { break }", arraySentinel)
	p.line("\tif int(idx) >= int(%s) {", used)
	p.line("\t\treturn out, &emitrt.FieldError{Field: %s, Reason: %s}", quote(fieldLabel), quote("diff array index out of bounds"))
	p.line("\t}")
	p.line("\tfor len(%s) <= int(idx) { %s = append(%s, %s{}) }", destExpr, destExpr, destExpr, baseGoType(f))
	elemDest := fmt.Sprintf("%s[idx]", destExpr)
	for _, stmt := range unitGetStmt(f, r, elemDest, fieldLabel) {
		p.line("\t%s", stmt)
	}
	p.line("}")
}

// emitGetPlainArray reads a non-diff rank-1 array with no length
// prefix on the wire: the element count is exactly the field's used
// size (the declared constant for a bare-token field, or a sibling
// field's already-decoded value for a DECL:USED field), checked
// against the declared size only when the two can actually differ.
func emitGetPlainArray(p appender, f ast.Field, r, destExpr, fieldLabel string) {
	recv := exprReceiver(destExpr)
	used := sizeExpr(f.Sizes[0], "used", recv)
	if f.Sizes[0].Used != f.Sizes[0].Declared {
		p.line("if int(%s) > %s {", used, f.Sizes[0].Declared)
		p.line("\treturn out, &emitrt.FieldError{Field: %s, Reason: %s}", quote(fieldLabel), quote("truncation array"))
		p.line("}")
	}
	p.line("%s = make(%s, int(%s))", destExpr, GoType(f), used)
	p.line("for i := range %s {", destExpr)
	elemDest := fmt.Sprintf("%s[i]", destExpr)
	for _, stmt := range unitGetStmt(f, r, elemDest, fieldLabel) {
		p.line("\t%s", stmt)
	}
	p.line("}")
}

// emitGetPayloadScoped wraps emitGetPayload in its own braces block.
// Needed whenever more than one field's get sequence lands in the
// same enclosing scope (e.g. a packet's key-field list, or the
// no-delta full-field list): each rank-0 get introduces a fresh `v,
// err :=` pair, and without a block boundary the second field's
// declaration would collide with the first's (Go requires at least
// one new identifier on a `:=` line).
func emitGetPayloadScoped(p appender, f ast.Field, r, destExpr, fieldLabel string) {
	p.line("{")
	sub := &collectingAppender{}
	emitGetPayload(sub, f, r, destExpr, fieldLabel)
	for _, l := range sub.lines {
		p.line("\t%s", l)
	}
	p.line("}")
}

// emitGetPlain2DArray is emitGetPlainArray's rank-2 counterpart: both
// dimensions are read with no length prefix, each bounded by its own
// used size.
func emitGetPlain2DArray(p appender, f ast.Field, r, destExpr, fieldLabel string) {
	recv := exprReceiver(destExpr)
	used1 := sizeExpr(f.Sizes[0], "used", recv)
	used2 := sizeExpr(f.Sizes[1], "used", recv)
	if f.Sizes[0].Used != f.Sizes[0].Declared {
		p.line("if int(%s) > %s {", used1, f.Sizes[0].Declared)
		p.line("\treturn out, &emitrt.FieldError{Field: %s, Reason: %s}", quote(fieldLabel), quote("truncation array"))
		p.line("}")
	}
	if f.Sizes[1].Used != f.Sizes[1].Declared {
		p.line("if int(%s) > %s {", used2, f.Sizes[1].Declared)
		p.line("\treturn out, &emitrt.FieldError{Field: %s, Reason: %s}", quote(fieldLabel), quote("truncation array"))
		p.line("}")
	}
	p.line("%s = make(%s, int(%s))", destExpr, GoType(f), used1)
	p.line("for i := range %s {", destExpr)
	p.line("\t%s[i] = make([]%s, int(%s))", destExpr, baseGoType(f), used2)
	p.line("\tfor j := range %s[i] {", destExpr)
	elemDest := fmt.Sprintf("%s[i][j]", destExpr)
	for _, stmt := range unitGetStmt(f, r, elemDest, fieldLabel) {
		p.line("\t\t%s", stmt)
	}
	p.line("\t}")
	p.line("}")
}
