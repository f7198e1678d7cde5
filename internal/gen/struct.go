package gen

import (
	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

// EmitStruct writes the Go struct declaration for a packet, holding
// every field the packet declares across all its capability variants
// (see PacketStructName). An empty field list (spec.md §8 scenario 1,
// the "empty flag-less packet" case) produces a legally zero-size
// struct — no dummy byte field, per the open-question decision
// recorded in DESIGN.md.
func EmitStruct(p *emit.Printer, pkt *ast.Packet) {
	p.P("// ", PacketStructName(pkt), " is packet ", quote(pkt.TagName), " (tag ", pkt.TagNumber, ").")
	p.P("type ", PacketStructName(pkt), " struct {")
	for _, f := range pkt.Fields {
		p.P("\t", FieldGoName(f), " ", GoType(f))
	}
	p.P("}")
	p.P()
}
