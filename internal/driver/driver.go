// Package driver is packetgen's top-level entry point: it owns the
// three emission modes (spec.md §4.6) and the file I/O around them,
// the Go analogue of generate_packets.py's write_common_header/source,
// write_client_header/source, write_server_header/source, and _main.
// internal/ast, internal/parse, and internal/gen never touch the
// filesystem themselves; Generate is where that I/O happens.
package driver

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/freeciv21/packetgen/internal/ast"
	"github.com/freeciv21/packetgen/internal/emit"
	"github.com/freeciv21/packetgen/internal/gen"
	"github.com/freeciv21/packetgen/internal/metrics"
	"github.com/freeciv21/packetgen/internal/parse"
)

// Mode selects one of spec.md §4.6's three emission modes.
type Mode string

const (
	ModeCommon Mode = "common"
	ModeClient Mode = "client"
	ModeServer Mode = "server"
)

// Options is one Generate invocation's full configuration: the CLI's
// three positional paths plus its flags (spec.md §6).
type Options struct {
	InputPath string
	// TypesPath/ImplPath are Go's analogue of the original's
	// <name>.h/<name>.c pair: TypesPath gets struct/enum/interface
	// declarations, ImplPath gets method bodies and dispatch switches.
	TypesPath string
	ImplPath  string

	Mode    Mode
	Package emit.GoPackageName

	// FoldBoolIntoHeader enables the fold rule (spec.md §4.3).
	FoldBoolIntoHeader bool
	// Stats prints packet/variant counts to stderr after a successful
	// run (additive flag, spec.md §4.3a).
	Stats bool
	// DumpModel prints the parsed packet model as YAML to stderr
	// before emission, for inspecting what the parser produced
	// (additive flag, spec.md §4.1b).
	DumpModel bool
	// MetricsFile, if non-empty, receives a node_exporter textfile
	// collector dump of this run's packet/variant counts after a
	// successful generation.
	MetricsFile string
}

// Generate reads opts.InputPath, parses it, expands every packet's
// capability variants, and writes opts.TypesPath/opts.ImplPath
// according to opts.Mode.
func Generate(opts Options) error {
	proto, err := parseInput(opts.InputPath)
	if err != nil {
		metrics.GenerationErrors.WithLabelValues("parse").Inc()
		return err
	}

	if opts.DumpModel {
		if err := dumpModel(os.Stderr, proto); err != nil {
			return errors.Wrap(err, "dumping parsed model")
		}
	}

	allVariants, err := gen.ExpandAllVariants(proto.Packets)
	if err != nil {
		metrics.GenerationErrors.WithLabelValues("expand_variants").Inc()
		return errors.Wrap(err, "expanding capability variants")
	}

	typesPrinter := emit.NewPrinter(opts.TypesPath, opts.Package, "")
	implPrinter := emit.NewPrinter(opts.ImplPath, opts.Package, "")

	switch opts.Mode {
	case ModeCommon:
		gen.EmitCommonTypes(typesPrinter, proto.Packets)
		gen.EmitCommonImpl(implPrinter, proto.Packets, allVariants, gen.Options{
			FoldBoolIntoHeader: opts.FoldBoolIntoHeader,
			Package:            opts.Package,
		})
	case ModeClient:
		gen.EmitClientHandlerInterface(typesPrinter, proto.Packets)
		gen.EmitClientDispatch(implPrinter, proto.Packets)
	case ModeServer:
		gen.EmitServerHandlerInterface(typesPrinter, proto.Packets)
		gen.EmitServerDispatch(implPrinter, proto.Packets)
	default:
		metrics.GenerationErrors.WithLabelValues("mode_dispatch").Inc()
		return errors.Errorf("unknown mode %q (want common, client, or server)", opts.Mode)
	}

	if err := writePrinter(typesPrinter, opts.TypesPath); err != nil {
		metrics.GenerationErrors.WithLabelValues("write_types").Inc()
		return err
	}
	if err := writePrinter(implPrinter, opts.ImplPath); err != nil {
		metrics.GenerationErrors.WithLabelValues("write_impl").Inc()
		return err
	}

	recordMetrics(string(opts.Mode), proto.Packets, allVariants)
	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
			return errors.Wrapf(err, "writing metrics textfile %s", opts.MetricsFile)
		}
	}

	if opts.Stats {
		printStats(os.Stderr, proto.Packets, allVariants)
	}
	return nil
}

func recordMetrics(mode string, packets []*ast.Packet, allVariants []*ast.Variant) {
	delta := 0
	for _, pkt := range packets {
		if pkt.DeltaEnabled {
			delta++
		}
	}
	metrics.PacketsGenerated.WithLabelValues(mode).Set(float64(len(packets)))
	metrics.DeltaPacketsGenerated.WithLabelValues(mode).Set(float64(delta))
	metrics.VariantsGenerated.WithLabelValues(mode).Set(float64(len(allVariants)))
}

func parseInput(path string) (*parse.Protocol, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	proto, err := parse.Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return proto, nil
}

func writePrinter(p *emit.Printer, path string) error {
	content, err := p.Content()
	if err != nil {
		return errors.Wrapf(err, "formatting %s", path)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func printStats(w *os.File, packets []*ast.Packet, allVariants []*ast.Variant) {
	delta := 0
	for _, pkt := range packets {
		if pkt.DeltaEnabled {
			delta++
		}
	}
	fmt.Fprintf(w, "packetgen: %d packets, %d delta-enabled, %d capability variants\n",
		len(packets), delta, len(allVariants))
}
