package gen

import (
	"fmt"

	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
)

// Options is the emission context (spec.md §9's second design note:
// parsed model and emission context are kept as two separate
// records). Nothing here is part of the parsed protocol description;
// it is all compile-time-switch territory, the Go analogue of the
// original generator's module-level globals like
// generate_fold_bool_into_header.
type Options struct {
	// FoldBoolIntoHeader enables the fold rule (spec.md §4.3): a
	// non-array, non-key bool field's bitvector bit carries its value
	// directly instead of a separate payload byte.
	FoldBoolIntoHeader bool
	// Package is the Go package name the generated file declares.
	Package emit.GoPackageName
}

// appender is satisfied by anything that can accept one fmt-style
// formatted statement line at a time: printerAppender writes straight
// to a Printer, collectingAppender buffers for later re-indentation.
type appender interface {
	line(format string, args ...interface{})
}

// printerAppender adapts emit.Printer to accept fmt-style format
// strings for the codec emitter's imperative statement bodies, where
// Printer.P's no-space-between-arguments joining would be awkward.
// The codec/dispatch emitters' structural pieces (struct fields,
// signatures) still call Printer.P directly.
type printerAppender struct {
	p *emit.Printer
}

func (a *printerAppender) line(format string, args ...interface{}) {
	a.p.P(sprintf(format, args...))
}

func sprintf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// ExpandAllVariants runs ast.ExpandVariants over every packet once,
// in packet order, producing the variant set a driver hands to
// EmitCommonImpl (and can reuse for its own reporting) without
// expanding twice. EmitCommonTypes takes no variants: the types file
// declares one struct per packet, not per variant.
func ExpandAllVariants(packets []*ast.Packet) ([]*ast.Variant, error) {
	var all []*ast.Variant
	for _, pkt := range packets {
		variants, err := ast.ExpandVariants(pkt)
		if err != nil {
			return nil, fmt.Errorf("packet %s: %w", pkt.TagName, err)
		}
		all = append(all, variants...)
	}
	return all, nil
}

func variantsForPacket(all []*ast.Variant, pkt *ast.Packet) []*ast.Variant {
	var out []*ast.Variant
	for _, v := range all {
		if v.Packet == pkt {
			out = append(out, v)
		}
	}
	return out
}

// EmitCommonTypes renders the declaration half of the `common` driver
// mode (spec.md §4.6): the packet tag enum, name/flag tables, and one
// struct (plus key struct, where applicable) per packet. This is the
// Go analogue of the original generator's write_common_header: the
// pieces a Go file doesn't strictly need split out by the language,
// but that this driver keeps separate anyway to mirror the three-file
// shape spec.md §6 calls for.
func EmitCommonTypes(p *emit.Printer, packets []*ast.Packet) {
	p.P("import (")
	p.P("\t\"github.com/freeciv21/packetgen/internal/emitrt\"")
	p.P(")")
	p.P()

	EmitTagEnum(p, packets)
	EmitNameTable(p, packets)
	EmitGameInfoTable(p, packets)

	for _, pkt := range packets {
		EmitStruct(p, pkt)
		EmitKeyStruct(p, pkt)
	}
}

// EmitCommonImpl renders the body half of the `common` driver mode
// (spec.md §4.6): hash/cmp functions, snapshot tables, every variant's
// send/receive routine, the per-packet helpers, and the initial and
// capability installers. The Go analogue of write_common_source.
func EmitCommonImpl(p *emit.Printer, packets []*ast.Packet, allVariants []*ast.Variant, opts Options) {
	p.P("import (")
	p.P("\t\"bytes\"")
	p.P("\t\"fmt\"")
	p.P("\t\"time\"")
	p.P()
	p.P("\t\"github.com/freeciv21/packetgen/internal/emitrt\"")
	p.P("\t\"github.com/m-lab/go/logx\"")
	p.P(")")
	p.P()

	for _, pkt := range packets {
		variants := variantsForPacket(allVariants, pkt)
		EmitHashFunc(p, pkt)
		EmitCmpFunc(p, pkt)
		EmitTables(p, pkt)
		for _, v := range variants {
			EmitSend(p, v, packets, opts)
			EmitReceive(p, v, packets, opts)
		}
		EmitPacketHelpers(p, pkt, variants)
	}

	EmitInitialInstaller(p, packets, allVariants)
	EmitCapabilityInstaller(p, packets, allVariants)
}
