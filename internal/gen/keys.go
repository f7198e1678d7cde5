package gen

import (
	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

// KeyType names the Go type used as a packet's SnapshotTable key:
// struct{} for zero keys, the lone key field's type for one key, or a
// synthesized two-field struct for two keys. packetgen refuses more
// than two key fields at parse time (internal/ast.NewPacket), so this
// never needs to handle the 3+ case spec.md §9 flags as unsupported.
func KeyType(p *ast.Packet) string {
	switch len(p.KeyFields) {
	case 0:
		return "struct{}"
	case 1:
		return baseGoType(p.KeyFields[0])
	default:
		return KeyStructName(p)
	}
}

// EmitKeyStruct writes the two-field key struct for a two-key packet.
// No-op for 0- or 1-key packets, which need no declared type.
func EmitKeyStruct(p *emit.Printer, pkt *ast.Packet) {
	if len(pkt.KeyFields) != 2 {
		return
	}
	p.P("type ", KeyStructName(pkt), " struct {")
	for _, f := range pkt.KeyFields {
		p.P("\t", FieldGoName(f), " ", baseGoType(f))
	}
	p.P("}")
	p.P()
}

// keyExpr builds the Go expression constructing pkt's key value out
// of receiverExpr's key fields (e.g. "pkt.X", "pkt.Y").
func keyExpr(pkt *ast.Packet, receiverExpr string) string {
	switch len(pkt.KeyFields) {
	case 0:
		return "struct{}{}"
	case 1:
		return receiverExpr + "." + FieldGoName(pkt.KeyFields[0])
	default:
		s := KeyStructName(pkt) + "{"
		for i, f := range pkt.KeyFields {
			if i > 0 {
				s += ", "
			}
			s += FieldGoName(f) + ": " + receiverExpr + "." + FieldGoName(f)
		}
		return s + "}"
	}
}

// EmitHashFunc writes the packet's key hash function (spec.md §4.3:
// zero keys -> constant, one key -> the key's value, two keys ->
// (k1<<8)^k2). Key fields are assumed integer-valued, matching every
// concrete use in the protocol description grammar (spec.md §6
// examples key small unsigned integers); a non-integer two-key packet
// would fail to compile, same as the original's own (k1<<8)
// arithmetic would fail to make sense for non-integer keys.
func EmitHashFunc(p *emit.Printer, pkt *ast.Packet) {
	name := "hash" + KeyStructName(pkt)
	p.P("func ", name, "(k ", KeyType(pkt), ") uint64 {")
	switch len(pkt.KeyFields) {
	case 0:
		p.P("\treturn 0")
	case 1:
		p.P("\treturn uint64(k)")
	default:
		p.P("\treturn (uint64(k.", FieldGoName(pkt.KeyFields[0]), ") << 8) ^ uint64(k.", FieldGoName(pkt.KeyFields[1]), ")")
	}
	p.P("}")
	p.P()
}

// EmitCmpFunc writes the packet's key equality function (spec.md
// §4.3's Equality function: "all keys must compare equal").
func EmitCmpFunc(p *emit.Printer, pkt *ast.Packet) {
	name := "cmp" + KeyStructName(pkt)
	p.P("func ", name, "(a, b ", KeyType(pkt), ") bool {")
	p.P("\treturn a == b")
	p.P("}")
	p.P()
}
