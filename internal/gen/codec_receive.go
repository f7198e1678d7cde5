package gen

import (
	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

// EmitReceive writes one variant's receive routine, implementing
// spec.md §4.3's receive algorithm. Every get-macro failure aborts
// with a *emitrt.FieldError naming the offending field (spec.md §7),
// returned alongside the best-effort partially-built packet value
// rather than a zero value, so a caller can still log what was
// recovered.
func EmitReceive(p *emit.Printer, v *ast.Variant, siblings []*ast.Packet, opts Options) {
	pkt := v.Packet
	structName := PacketStructName(pkt)
	ap := &printerAppender{p: p}

	p.P("// ", receiveFuncName(v), " receives ", quote(pkt.TagName), " under capabilities +[",
		joinCaps(v.PositiveCaps), "] -[", joinCaps(v.NegativeCaps), "].")
	p.P("func ", receiveFuncName(v), "(r *emitrt.Reader, conn emitrt.Conn) (", structName, ", error) {")
	ap.line("var out %s", structName)

	switch {
	case !v.DeltaEnabled:
		for _, f := range v.Fields {
			f.Diff = false
			emitGetPayloadScoped(ap, f, "r", "out."+FieldGoName(f), f.Name)
		}
	default:
		emitDeltaReceive(ap, pkt, v, siblings, opts)
	}

	if pkt.Flags.PostRecv {
		ap.line("out = PostRecv%s(out)", structName)
	}
	ap.line("return out, nil")
	p.P("}")
	p.P()
}

func emitDeltaReceive(ap *printerAppender, pkt *ast.Packet, v *ast.Variant, siblings []*ast.Packet, opts Options) {
	ap.line("bits, err := r.GetBitvector(%d)", len(v.OtherFields))
	ap.line("if err != nil { return out, &emitrt.FieldError{Field: %s, Reason: err.Error()} }", quote("<bitvector>"))

	for _, f := range v.KeyFields {
		emitGetPayloadScoped(ap, f, "r", "out."+FieldGoName(f), f.Name)
	}

	ap.line("key := %s", keyExpr(pkt, "out"))
	ap.line("tbl := %s(conn)", receivedTableAccessorName(pkt))
	ap.line("if snap := tbl.Lookup(key); snap != nil {")
	ap.line("\tkeyBackup := out")
	ap.line("\tout = *snap")
	ap.line("\t%s", restoreKeysStmt(pkt, "keyBackup"))
	ap.line("}")

	for i, f := range v.OtherFields {
		if f.FoldableBool() && opts.FoldBoolIntoHeader {
			ap.line("out.%s = bits.IsSet(%d)", FieldGoName(f), i)
			continue
		}
		ap.line("if bits.IsSet(%d) {", i)
		sub := &collectingAppender{}
		emitGetPayload(sub, f, "r", "out."+FieldGoName(f), f.Name)
		for _, l := range sub.lines {
			ap.line("\t%s", l)
		}
		ap.line("}")
	}

	ap.line("snapCopy := out")
	ap.line("tbl.Store(key, &snapCopy)")

	for _, tag := range pkt.CancelSet {
		target := findPacketByTag(siblings, tag)
		if target == nil || !target.DeltaEnabled {
			continue
		}
		ap.line("%s(conn).Delete(key)", receivedTableAccessorName(target))
	}
}

// restoreKeysStmt re-applies backup's key fields onto out after a
// snapshot value-copy, since the snapshot's own (stale) key values
// must not shadow the freshly-read keys that identify it (spec.md
// §4.3 receive step 2: "on hit, value-copies the snapshot into the
// output" followed implicitly by keeping the keys that were just
// read, matching the miss branch's explicit "restores the stashed key
// values on top").
func restoreKeysStmt(pkt *ast.Packet, backupExpr string) string {
	s := ""
	for i, f := range pkt.KeyFields {
		if i > 0 {
			s += " "
		}
		s += sprintf("out.%s = %s.%s;", FieldGoName(f), backupExpr, FieldGoName(f))
	}
	if s == "" {
		return "_ = " + backupExpr
	}
	return s
}
