// Package gen is the codec and dispatch emitter (spec.md §4.3, §4.4,
// §4.5): it turns parsed packets and their expanded variants
// (internal/ast) into Go source, written through internal/emit's
// Printer. Nothing here performs I/O beyond writing to a Printer, and
// nothing here knows about command-line flags or output file paths —
// that is internal/driver's job.
package gen

import (
	"fmt"
	"strings"

	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

// PacketStructName is the exported Go name of a packet's struct type,
// e.g. "unit_move" -> "UnitMove". Unlike the original's emitted C
// structs, packetgen declares exactly ONE Go struct per packet — not
// one per variant — holding the union of every field the packet ever
// declares across all its capability variants; a variant only decides
// which subset of that one struct's fields actually goes on the wire.
// This mirrors the original more closely than a per-variant struct
// would: the source's `struct packet_foo` is likewise declared once
// per packet, with variants living entirely in the generated
// send/receive *functions*, not in the struct layout.
func PacketStructName(p *ast.Packet) string {
	return emit.ExportedName(p.TagName)
}

// FieldGoName is the exported Go field name for a protocol field.
func FieldGoName(f ast.Field) string {
	return emit.ExportedName(f.Name)
}

// KeyStructName names the synthetic key-tuple struct for a two-key
// packet (used as a SnapshotTable's K type parameter). Key fields are
// assumed stable across a packet's variants (never themselves
// capability-gated); nothing rejects a capability-gated key field.
func KeyStructName(p *ast.Packet) string {
	return PacketStructName(p) + "Key"
}

// sendFuncName / receiveFuncName name the per-variant send/receive
// entry points the dispatch switches and installers route into.
func sendFuncName(v *ast.Variant) string {
	return fmt.Sprintf("send%sV%d", PacketStructName(v.Packet), v.Index)
}
func receiveFuncName(v *ast.Variant) string {
	return fmt.Sprintf("receive%sV%d", PacketStructName(v.Packet), v.Index)
}

func dispatchFuncName(p *ast.Packet) string { return "Send" + PacketStructName(p) }
func listSendFuncName(p *ast.Packet) string { return "ListSend" + PacketStructName(p) }
func dsendFuncName(p *ast.Packet) string    { return "DSend" + PacketStructName(p) }
func dlsendFuncName(p *ast.Packet) string   { return "DListSend" + PacketStructName(p) }

// tagConstName is the exported Go constant for a packet's enum entry,
// e.g. "unit_move" -> "PacketUnitMove".
func tagConstName(p *ast.Packet) string {
	return "Packet" + PacketStructName(p)
}

// paramName is a dsend/dlsend positional parameter name for a field,
// e.g. "unit_id" -> "unitId".
func paramName(fieldName string) string {
	return emit.UnexportedName(fieldName)
}

// quote renders s as a Go string literal the way P()'s no-space
// joining expects to be handed a single token.
func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// joinCaps renders a capability name list for a doc comment.
func joinCaps(caps []string) string {
	if len(caps) == 0 {
		return "(none)"
	}
	return strings.Join(caps, ", ")
}
