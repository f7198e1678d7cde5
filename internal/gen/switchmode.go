package gen

import (
	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

// EmitClientHandlerInterface renders the declaration half of the
// `client` driver mode (spec.md §4.6): a handler interface with one
// method per server-to-client packet, excluding no_handle packets.
func EmitClientHandlerInterface(p *emit.Printer, packets []*ast.Packet) {
	p.P("import (")
	p.P("\t\"github.com/freeciv21/packetgen/internal/emitrt\"")
	p.P(")")
	p.P()

	p.P("// ClientHandlers is implemented by client code to react to every")
	p.P("// server-to-client packet this protocol description declares.")
	p.P("type ClientHandlers interface {")
	for _, pkt := range routedPackets(packets, ast.ServerToClient) {
		p.P("\t", handlerMethodName(pkt), "(pkt ", PacketStructName(pkt), ") error")
	}
	p.P("}")
	p.P()
}

// EmitClientDispatch renders the body half of the `client` driver
// mode: a switch that decodes a received tag's payload through its
// installed receive slot and forwards it to the matching
// ClientHandlers method.
func EmitClientDispatch(p *emit.Printer, packets []*ast.Packet) {
	p.P("import (")
	p.P("\t\"fmt\"")
	p.P()
	p.P("\t\"github.com/freeciv21/packetgen/internal/emitrt\"")
	p.P(")")
	p.P()

	routed := routedPackets(packets, ast.ServerToClient)

	p.P("// DispatchClientPacket decodes tag's payload from r using its")
	p.P("// installed receive slot and forwards it to the matching")
	p.P("// ClientHandlers method.")
	p.P("func DispatchClientPacket(tag PacketType, r *emitrt.Reader, conn emitrt.Conn, h ClientHandlers) error {")
	p.P("\tswitch tag {")
	for _, pkt := range routed {
		p.P("\tcase ", tagConstName(pkt), ":")
		p.P("\t\tif ", receiveSlotVar(pkt), " == nil {")
		p.P("\t\t\treturn fmt.Errorf(", quote("no receive handler installed for packet "+pkt.TagName), ")")
		p.P("\t\t}")
		p.P("\t\tpkt, err := ", receiveSlotVar(pkt), "(r, conn)")
		p.P("\t\tif err != nil {")
		p.P("\t\t\treturn err")
		p.P("\t\t}")
		p.P("\t\treturn h.", handlerMethodName(pkt), "(pkt)")
	}
	p.P("\tdefault:")
	p.P("\t\treturn fmt.Errorf(\"unhandled client packet tag %d\", tag)")
	p.P("\t}")
	p.P("}")
	p.P()
}

// EmitServerHandlerInterface renders the declaration half of the
// `server` driver mode: a handler interface with one method per
// client-to-server packet, excluding no_handle packets. A
// handle_per_conn packet's method additionally takes the originating
// connection, since its original C handler needed per-connection
// state the plain single-argument handler signature does not carry.
func EmitServerHandlerInterface(p *emit.Printer, packets []*ast.Packet) {
	p.P("import (")
	p.P("\t\"github.com/freeciv21/packetgen/internal/emitrt\"")
	p.P(")")
	p.P()

	p.P("// ServerHandlers is implemented by server code to react to every")
	p.P("// client-to-server packet this protocol description declares.")
	p.P("type ServerHandlers interface {")
	for _, pkt := range routedPackets(packets, ast.ClientToServer) {
		if pkt.Flags.HandlePerConn {
			p.P("\t", handlerMethodName(pkt), "(conn emitrt.Conn, pkt ", PacketStructName(pkt), ") error")
		} else {
			p.P("\t", handlerMethodName(pkt), "(pkt ", PacketStructName(pkt), ") error")
		}
	}
	p.P("}")
	p.P()
}

// EmitServerDispatch renders the body half of the `server` driver
// mode, mirroring EmitClientDispatch.
func EmitServerDispatch(p *emit.Printer, packets []*ast.Packet) {
	p.P("import (")
	p.P("\t\"fmt\"")
	p.P()
	p.P("\t\"github.com/freeciv21/packetgen/internal/emitrt\"")
	p.P(")")
	p.P()

	routed := routedPackets(packets, ast.ClientToServer)

	p.P("// DispatchServerPacket decodes tag's payload from r using its")
	p.P("// installed receive slot and forwards it to the matching")
	p.P("// ServerHandlers method.")
	p.P("func DispatchServerPacket(tag PacketType, r *emitrt.Reader, conn emitrt.Conn, h ServerHandlers) error {")
	p.P("\tswitch tag {")
	for _, pkt := range routed {
		p.P("\tcase ", tagConstName(pkt), ":")
		p.P("\t\tif ", receiveSlotVar(pkt), " == nil {")
		p.P("\t\t\treturn fmt.Errorf(", quote("no receive handler installed for packet "+pkt.TagName), ")")
		p.P("\t\t}")
		p.P("\t\tpkt, err := ", receiveSlotVar(pkt), "(r, conn)")
		p.P("\t\tif err != nil {")
		p.P("\t\t\treturn err")
		p.P("\t\t}")
		if pkt.Flags.HandlePerConn {
			p.P("\t\treturn h.", handlerMethodName(pkt), "(conn, pkt)")
		} else {
			p.P("\t\treturn h.", handlerMethodName(pkt), "(pkt)")
		}
	}
	p.P("\tdefault:")
	p.P("\t\treturn fmt.Errorf(\"unhandled server packet tag %d\", tag)")
	p.P("\t}")
	p.P("}")
	p.P()
}

// handlerMethodName is the exported ClientHandlers/ServerHandlers
// method name for a packet, e.g. "unit_move" -> "HandleUnitMove".
func handlerMethodName(p *ast.Packet) string {
	return "Handle" + PacketStructName(p)
}

// routedPackets returns packets carrying dir in their direction set,
// excluding no_handle packets, in tag order (spec.md §4.6).
func routedPackets(packets []*ast.Packet, dir ast.Direction) []*ast.Packet {
	var out []*ast.Packet
	for _, pkt := range sortedByTag(packets) {
		if pkt.Flags.NoHandle {
			continue
		}
		if pkt.HasDirection(dir) {
			out = append(out, pkt)
		}
	}
	return out
}
