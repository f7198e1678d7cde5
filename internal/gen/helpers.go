package gen

import (
	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

// sendSlotVar / receiveSlotVar name the package-level function-pointer
// slots an installer fills in and the packet's send dispatcher reads
// (spec.md §4.4/§4.5). One pair per packet regardless of variant
// count: a single-variant packet's slot is filled once by
// InstallInitialHandlers, a capability-gated packet's slot is filled
// by InstallCapabilityHandlers picking among its variants.
func sendSlotVar(p *ast.Packet) string    { return "sendSlot" + PacketStructName(p) }
func receiveSlotVar(p *ast.Packet) string { return "receiveSlot" + PacketStructName(p) }

// EmitPacketHelpers writes pkt's installed-handler slot declarations
// and its send dispatcher, plus the optional list-send/dsend/dlsend
// helpers spec.md §4.5 describes for packets that request them.
func EmitPacketHelpers(p *emit.Printer, pkt *ast.Packet, variants []*ast.Variant) {
	structName := PacketStructName(pkt)
	ap := &printerAppender{p: p}

	p.P("var ", sendSlotVar(pkt), " func(w *emitrt.Writer, conn emitrt.Conn, pkt ", structName, ") error")
	p.P("var ", receiveSlotVar(pkt), " func(r *emitrt.Reader, conn emitrt.Conn) (", structName, ", error)")
	p.P()

	p.P("// ", dispatchFuncName(pkt), " sends a ", quote(pkt.TagName), " over conn, forwarding to")
	p.P("// whichever variant an installer chose for this tag.")
	p.P("func ", dispatchFuncName(pkt), "(w *emitrt.Writer, conn emitrt.Conn, pkt ", structName, ") error {")
	ap.line("if !conn.Live() {")
	ap.line("\treturn fmt.Errorf(\"%s: connection %%s is not live\", conn)", pkt.TagName)
	ap.line("}")
	ap.line("if %s == nil {", sendSlotVar(pkt))
	ap.line("\treturn fmt.Errorf(%s)", quote("no send handler installed for packet "+pkt.TagName))
	ap.line("}")
	ap.line("return %s(w, conn, pkt)", sendSlotVar(pkt))
	p.P("}")
	p.P()

	if pkt.Flags.ListSend {
		emitListSend(p, pkt)
	}
	if pkt.Flags.DirectSend {
		emitDSend(p, pkt)
		if pkt.Flags.ListSend {
			emitDListSend(p, pkt)
		}
	}
}

// emitListSend writes the list-send helper: send the same packet
// value to every connection in conns. writerFor resolves each
// connection's own outbound emitrt.Writer — packetgen has no way to
// assume a connection exposes one directly, since emitrt.Conn is
// names-only (spec.md §1), so the caller supplies the mapping.
func emitListSend(p *emit.Printer, pkt *ast.Packet) {
	structName := PacketStructName(pkt)
	ap := &printerAppender{p: p}

	p.P("// ", listSendFuncName(pkt), " sends pkt to every connection in conns.")
	p.P("func ", listSendFuncName(pkt), "(conns []emitrt.Conn, writerFor func(emitrt.Conn) *emitrt.Writer, pkt ", structName, ") error {")
	ap.line("for _, conn := range conns {")
	ap.line("\tif err := %s(writerFor(conn), conn, pkt); err != nil {", dispatchFuncName(pkt))
	ap.line("\t\treturn err")
	ap.line("\t}")
	ap.line("}")
	ap.line("return nil")
	p.P("}")
	p.P()
}

// emitDSend writes the direct-send helper: one positional parameter
// per declared field, assembled into a stack-local packet value and
// forwarded to the dispatcher. Array fields (rank 1 or 2) get a fresh
// outer slice so the packet does not share the caller's top-level
// backing array (spec.md §4.5); the inner slices of a rank-2 array
// and every rank-0 field, including memory ([]byte) and bitvector
// values, are assigned as given.
func emitDSend(p *emit.Printer, pkt *ast.Packet) {
	structName := PacketStructName(pkt)
	ap := &printerAppender{p: p}

	params := ""
	for i, f := range pkt.Fields {
		if i > 0 {
			params += ", "
		}
		params += paramName(f.Name) + " " + GoType(f)
	}

	p.P("// ", dsendFuncName(pkt), " builds a ", structName, " from its field values and sends it.")
	p.P("func ", dsendFuncName(pkt), "(w *emitrt.Writer, conn emitrt.Conn, ", params, ") error {")
	ap.line("var pkt %s", structName)
	for _, f := range pkt.Fields {
		local := paramName(f.Name)
		field := FieldGoName(f)
		if f.ArrayRank > 0 {
			ap.line("pkt.%s = append(%s(nil), %s...)", field, GoType(f), local)
		} else {
			ap.line("pkt.%s = %s", field, local)
		}
	}
	ap.line("return %s(w, conn, pkt)", dispatchFuncName(pkt))
	p.P("}")
	p.P()
}

// emitDListSend writes the direct-list-send helper combining dsend's
// positional-parameter packet assembly with list-send's fan-out.
func emitDListSend(p *emit.Printer, pkt *ast.Packet) {
	structName := PacketStructName(pkt)
	ap := &printerAppender{p: p}

	params := ""
	for i, f := range pkt.Fields {
		if i > 0 {
			params += ", "
		}
		params += paramName(f.Name) + " " + GoType(f)
	}

	p.P("// ", dlsendFuncName(pkt), " builds a ", structName, " from its field values and sends it")
	p.P("// to every connection in conns.")
	p.P("func ", dlsendFuncName(pkt), "(conns []emitrt.Conn, writerFor func(emitrt.Conn) *emitrt.Writer, ", params, ") error {")
	ap.line("var pkt %s", structName)
	for _, f := range pkt.Fields {
		local := paramName(f.Name)
		field := FieldGoName(f)
		if f.ArrayRank > 0 {
			ap.line("pkt.%s = append(%s(nil), %s...)", field, GoType(f), local)
		} else {
			ap.line("pkt.%s = %s", field, local)
		}
	}
	ap.line("return %s(conns, writerFor, pkt)", listSendFuncName(pkt))
	p.P("}")
	p.P()
}
