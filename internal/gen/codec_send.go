package gen

import (
	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

// EmitSend writes one variant's send routine, implementing spec.md
// §4.3's six-step send algorithm. The frame is assembled into a local
// scratch emitrt.Writer and only copied into the caller's w once the
// routine decides not to discard it — the Go equivalent of "opens a
// packet frame" / "closes the frame" bracketing a possible early
// discard, without needing a stateful open/close pair on w itself.
func EmitSend(p *emit.Printer, v *ast.Variant, siblings []*ast.Packet, opts Options) {
	pkt := v.Packet
	structName := PacketStructName(pkt)
	ap := &printerAppender{p: p}

	p.P("// ", sendFuncName(v), " sends ", quote(pkt.TagName), " under capabilities +[",
		joinCaps(v.PositiveCaps), "] -[", joinCaps(v.NegativeCaps), "].")
	p.P("func ", sendFuncName(v), "(w *emitrt.Writer, conn emitrt.Conn, pkt ", structName, ") error {")
	ap.line("real := pkt")
	if pkt.Flags.PreSend {
		ap.line("real = PreSend%s(real)", structName)
	}
	ap.line("frame := emitrt.NewWriter()")
	ap.line("frame.PutUint16(%d)", v.Index)

	switch {
	case !v.DeltaEnabled:
		// Diff arrays only make sense relative to a cached prior value
		// (spec.md §4.3 ties diff encoding to the delta-enabled send
		// path), so a no-delta send always emits the plain array form
		// even if the field carries the `diff` flag.
		for _, f := range v.Fields {
			f.Diff = false
			emitPutPayload(ap, f, "frame", "real."+FieldGoName(f), "real."+FieldGoName(f))
		}
	default:
		emitDeltaSend(ap, pkt, v, siblings, opts)
	}

	if pkt.Flags.PostSend {
		ap.line("%s(real)", "PostSend"+structName)
	}
	ap.line("w.PutMemory(frame.Bytes())")
	ap.line("return nil")
	p.P("}")
	p.P()
}

func emitDeltaSend(ap *printerAppender, pkt *ast.Packet, v *ast.Variant, siblings []*ast.Packet, opts Options) {
	structName := PacketStructName(pkt)
	ap.line("key := %s", keyExpr(pkt, "real"))
	ap.line("tbl := %s(conn)", sentTableAccessorName(pkt))
	ap.line("snap := tbl.Lookup(key)")
	ap.line("forceDiffer := false")
	ap.line("if snap == nil {")
	ap.line("\tzero := %s{}", structName)
	ap.line("\tsnap = &zero")
	ap.line("\ttbl.Store(key, snap)")
	ap.line("\tforceDiffer = true")
	ap.line("}")
	ap.line("bits := emitrt.NewBitvector(%d)", len(v.OtherFields))
	ap.line("changed := 0")

	for i, f := range v.OtherFields {
		folded := f.FoldableBool() && opts.FoldBoolIntoHeader
		old := "snap." + FieldGoName(f)
		cur := "real." + FieldGoName(f)
		differVar := sprintf("differ%d", i)
		emitDifferStmt(ap, f, old, cur, differVar)
		ap.line("if forceDiffer { %s = true }", differVar)
		if folded {
			// The fold rule only changes the bit's *meaning* (current
			// value instead of "differs") — differ still gates the
			// change counter, exactly like every other field (spec.md
			// §4.3).
			ap.line("if %s {", differVar)
			ap.line("\tchanged++")
			ap.line("}")
			ap.line("if %s {", cur)
			ap.line("\tbits.Set(%d)", i)
			ap.line("}")
			continue
		}
		ap.line("if %s {", differVar)
		ap.line("\tchanged++")
		ap.line("\tbits.Set(%d)", i)
		ap.line("}")
	}

	if pkt.Info != ast.InfoNone {
		ap.line("if changed == 0 {")
		ap.line("\treturn nil")
		ap.line("}")
	}

	ap.line("frame.PutBitvector(bits)")
	for _, f := range v.KeyFields {
		emitPutPayload(ap, f, "frame", "real."+FieldGoName(f), "real."+FieldGoName(f))
	}
	for i, f := range v.OtherFields {
		if f.FoldableBool() && opts.FoldBoolIntoHeader {
			continue
		}
		ap.line("if bits.IsSet(%d) {", i)
		emitPutPayloadIndented(ap, f, "frame", "snap."+FieldGoName(f), "real."+FieldGoName(f), "\t")
		ap.line("}")
	}
	ap.line("*snap = real")

	for _, tag := range pkt.CancelSet {
		target := findPacketByTag(siblings, tag)
		if target == nil || !target.DeltaEnabled {
			continue
		}
		ap.line("%s(conn).Delete(key)", sentTableAccessorName(target))
	}
}

// emitPutPayloadIndented is emitPutPayload with every emitted line
// prefixed by indent, for call sites nested one level inside an `if`.
func emitPutPayloadIndented(ap *printerAppender, f ast.Field, w, oldExpr, newExpr, indent string) {
	sub := &collectingAppender{}
	emitPutPayload(sub, f, w, oldExpr, newExpr)
	for _, l := range sub.lines {
		ap.line("%s%s", indent, l)
	}
}

// collectingAppender buffers lines instead of writing them straight
// to a Printer, so a caller can re-indent or otherwise post-process
// them before emission.
type collectingAppender struct {
	lines []string
}

func (c *collectingAppender) line(format string, args ...interface{}) {
	c.lines = append(c.lines, sprintf(format, args...))
}
