package gen

import (
	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

// sentTableAccessorName / receivedTableAccessorName name the
// lazily-initializing accessor functions each packet gets for its
// per-connection snapshot tables (spec.md §5: "lazily created on
// first use per tag"). Tables are indexed by connection identity in a
// package-level map rather than living as named fields on a concrete
// connection struct, since emitrt.Conn only promises String()/Live()
// — packetgen has no way to know what concrete fields a collaborator's
// connection type carries, matching spec.md §1's framing of the
// connection object as an external collaborator.
func sentTableAccessorName(p *ast.Packet) string {
	return "sentTableFor" + PacketStructName(p)
}

func receivedTableAccessorName(p *ast.Packet) string {
	return "receivedTableFor" + PacketStructName(p)
}

// EmitTables writes pkt's sent/received snapshot table registry and
// accessor functions. Only emitted for delta-enabled packets — a
// no-delta packet never consults a snapshot.
func EmitTables(p *emit.Printer, pkt *ast.Packet) {
	if !pkt.DeltaEnabled {
		return
	}
	structName := PacketStructName(pkt)
	keyType := KeyType(pkt)

	for _, kind := range []string{"sent", "received"} {
		varName := kind + "Tables" + structName
		accessor := "sentTableFor" + structName
		if kind == "received" {
			accessor = "receivedTableFor" + structName
		}
		p.P("var ", varName, " = map[emitrt.Conn]*emitrt.SnapshotTable[", keyType, ", ", structName, "]{}")
		p.P()
		p.P("func ", accessor, "(conn emitrt.Conn) *emitrt.SnapshotTable[", keyType, ", ", structName, "] {")
		p.P("\tif t, ok := ", varName, "[conn]; ok {")
		p.P("\t\treturn t")
		p.P("\t}")
		p.P("\tt := emitrt.NewSnapshotTable[", keyType, ", ", structName, "]()")
		p.P("\t", varName, "[conn] = t")
		p.P("\treturn t")
		p.P("}")
		p.P()
	}
}

// findPacketByTag resolves a cancel_set tag name against the full
// packet list a variant's enclosing Generate call was given. v's
// Packet carries no back-reference to its siblings, so the caller
// threads the full list through; this helper is a small linear scan
// since protocol descriptions declare at most a few hundred packets.
func findPacketByTag(siblings []*ast.Packet, tag string) *ast.Packet {
	for _, p := range siblings {
		if p.TagName == tag {
			return p
		}
	}
	return nil
}
