package gen

import (
	"sort"

	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

// EmitTagEnum writes the PacketType enum (spec.md §4.4): one constant
// per declared tag number, with synthetic gap constants filling any
// unused tag numbers so that PacketType values are always a dense
// 0..PacketLast-1 range usable as an array index, and a PacketLast
// sentinel one past the maximum declared tag.
func EmitTagEnum(p *emit.Printer, packets []*ast.Packet) {
	byNumber := map[uint16]*ast.Packet{}
	max := uint16(0)
	for _, pkt := range packets {
		byNumber[pkt.TagNumber] = pkt
		if pkt.TagNumber > max {
			max = pkt.TagNumber
		}
	}

	p.P("// PacketType is a packet's numeric tag, stable across")
	p.P("// regenerations as long as the protocol description keeps the")
	p.P("// same explicit tag numbers (spec.md §4.4).")
	p.P("type PacketType uint16")
	p.P()
	p.P("const (")
	for n := uint16(0); n <= max; n++ {
		if pkt, ok := byNumber[n]; ok {
			p.P("\t", tagConstName(pkt), " PacketType = ", fmtUint(n))
		} else {
			p.P("\tpacketGap", fmtUint(n), " PacketType = ", fmtUint(n), " // unused tag number")
		}
	}
	p.P("\tPacketLast PacketType = ", fmtUint(max+1))
	p.P(")")
	p.P()
}

func fmtUint(n uint16) string { return sprintf("%d", n) }

// EmitNameTable writes the tag-to-name lookup table (spec.md §4.4):
// "unknown" for any gap constant, the declared tag name otherwise.
func EmitNameTable(p *emit.Printer, packets []*ast.Packet) {
	p.P("var packetNames = [PacketLast]string{")
	for _, pkt := range sortedByTag(packets) {
		p.P("\t", tagConstName(pkt), ": ", quote(pkt.TagName), ",")
	}
	p.P("}")
	p.P()
	p.P("func init() {")
	p.P("\tfor i := range packetNames {")
	p.P("\t\tif packetNames[i] == \"\" {")
	p.P("\t\t\tpacketNames[i] = \"unknown\"")
	p.P("\t\t}")
	p.P("\t}")
	p.P("}")
	p.P()
	p.P("// PacketName returns t's declared tag name, or \"unknown\" for a")
	p.P("// tag number no packet declares.")
	p.P("func PacketName(t PacketType) string { return packetNames[t] }")
	p.P()
}

// EmitGameInfoTable writes the tag-to-game-info-flag table (spec.md
// §4.4): true exactly for packets declared with `is-game-info`.
func EmitGameInfoTable(p *emit.Printer, packets []*ast.Packet) {
	p.P("var packetIsGameInfo = [PacketLast]bool{")
	for _, pkt := range sortedByTag(packets) {
		if pkt.Info == ast.GameInfo {
			p.P("\t", tagConstName(pkt), ": true,")
		}
	}
	p.P("}")
	p.P()
	p.P("// PacketIsGameInfo reports whether t was declared is-game-info.")
	p.P("func PacketIsGameInfo(t PacketType) bool { return packetIsGameInfo[t] }")
	p.P()
}

func sortedByTag(packets []*ast.Packet) []*ast.Packet {
	out := append([]*ast.Packet(nil), packets...)
	sort.Slice(out, func(i, j int) bool { return out[i].TagNumber < out[j].TagNumber })
	return out
}

// EmitInitialInstaller writes InstallInitialHandlers (spec.md §4.4):
// for every packet with exactly one variant (no capability-gated
// fields), installs that variant's send/receive functions into the
// packet's slot pair, conditional on role where the packet's direction
// set restricts which side sends and which side receives.
func EmitInitialInstaller(p *emit.Printer, packets []*ast.Packet, allVariants []*ast.Variant) {
	variantsByPacket := groupVariants(allVariants)

	p.P("// InstallInitialHandlers installs the send/receive functions for")
	p.P("// every packet that has exactly one capability variant, i.e. its")
	p.P("// fields reference no add-cap/remove-cap capability names.")
	p.P("// Capability-gated packets are left uninstalled until")
	p.P("// InstallCapabilityHandlers runs with a negotiated capability")
	p.P("// string (spec.md §4.4).")
	p.P("func InstallInitialHandlers(role emitrt.Role) {")
	for _, pkt := range sortedByTag(packets) {
		variants := variantsByPacket[pkt.TagName]
		if len(variants) != 1 {
			continue
		}
		emitSlotAssignment(&printerAppender{p: p}, pkt, variants[0], "role", "\t")
	}
	p.P("}")
	p.P()
}

// EmitCapabilityInstaller writes InstallCapabilityHandlers (spec.md
// §4.4): for every packet with more than one variant, evaluates each
// variant's activation predicate in enumeration order against the
// negotiated capability string and installs the first match. A packet
// with no matching variant is logged and left uninstalled — a later
// send against it gets its dispatcher's "no send handler installed"
// error.
func EmitCapabilityInstaller(p *emit.Printer, packets []*ast.Packet, allVariants []*ast.Variant) {
	variantsByPacket := groupVariants(allVariants)

	p.P("var installLog = logx.NewLogEvery(nil, time.Second)")
	p.P()
	p.P("// InstallCapabilityHandlers installs the send/receive functions for")
	p.P("// every capability-gated packet, choosing among its variants by")
	p.P("// evaluating each one's has_capability predicate against capability")
	p.P("// in the deterministic order ExpandVariants produced them.")
	p.P("func InstallCapabilityHandlers(role emitrt.Role, capability string) {")
	for _, pkt := range sortedByTag(packets) {
		variants := variantsByPacket[pkt.TagName]
		if len(variants) <= 1 {
			continue
		}
		p.P("\t{")
		p.P("\t\tmatched := false")
		for _, v := range variants {
			cond := predicateExpr(v, "capability")
			p.P("\t\tif !matched && ", cond, " {")
			emitSlotAssignment(&printerAppender{p: p}, pkt, v, "role", "\t\t\t")
			p.P("\t\t\tmatched = true")
			p.P("\t\t}")
		}
		p.P("\t\tif !matched {")
		p.P("\t\t\tinstallLog.Println(\"no capability variant matched for packet \" + ", quote(pkt.TagName), ")")
		p.P("\t\t}")
		p.P("\t}")
	}
	p.P("}")
	p.P()
}

// emitSlotAssignment writes the role-conditional assignment(s) of
// v's send/receive functions into pkt's installed-handler slots.
// Bidirectional packets install both slots unconditionally; a
// single-direction packet installs its send slot only on the sending
// role and its receive slot only on the receiving role.
func emitSlotAssignment(ap appender, pkt *ast.Packet, v *ast.Variant, roleExpr, indent string) {
	_, single := pkt.SingleDirection()
	if !single {
		ap.line("%s%s = %s", indent, sendSlotVar(pkt), sendFuncName(v))
		ap.line("%s%s = %s", indent, receiveSlotVar(pkt), receiveFuncName(v))
		return
	}
	if pkt.HasDirection(ast.ClientToServer) {
		ap.line("%sif %s == emitrt.RoleClient { %s = %s }", indent, roleExpr, sendSlotVar(pkt), sendFuncName(v))
		ap.line("%sif %s == emitrt.RoleServer { %s = %s }", indent, roleExpr, receiveSlotVar(pkt), receiveFuncName(v))
		return
	}
	ap.line("%sif %s == emitrt.RoleServer { %s = %s }", indent, roleExpr, sendSlotVar(pkt), sendFuncName(v))
	ap.line("%sif %s == emitrt.RoleClient { %s = %s }", indent, roleExpr, receiveSlotVar(pkt), receiveFuncName(v))
}

// predicateExpr renders v's activation predicate as a Go boolean
// expression over emitrt.HasCapability calls, ANDed together; an empty
// predicate (no capabilities referenced) renders as the literal true.
func predicateExpr(v *ast.Variant, capExpr string) string {
	conds := v.Predicate()
	if len(conds) == 0 {
		return "true"
	}
	out := ""
	for i, c := range conds {
		if i > 0 {
			out += " && "
		}
		call := sprintf("emitrt.HasCapability(%s, %s)", quote(c.Name), capExpr)
		if c.Negate {
			call = "!" + call
		}
		out += call
	}
	return out
}

func groupVariants(all []*ast.Variant) map[string][]*ast.Variant {
	out := map[string][]*ast.Variant{}
	for _, v := range all {
		out[v.Packet.TagName] = append(out[v.Packet.TagName], v)
	}
	return out
}
