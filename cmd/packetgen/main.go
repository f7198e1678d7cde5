// Command packetgen turns a freeciv-style protocol description into
// generated Go source implementing its delta-encoded wire protocol
// (spec.md §6). Usage:
//
//	packetgen [flags] INPUT TYPES_OUT IMPL_OUT
//
// INPUT is the protocol description; TYPES_OUT receives struct/enum/
// interface declarations; IMPL_OUT receives method bodies and dispatch
// switches, per --mode.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/m-lab/go/rtx"

	"github.com/freeciv21/packetgen/internal/driver"
	"github.com/freeciv21/packetgen/internal/emit"
)

func main() {
	mode := flag.String("mode", "common", "emission mode: common, client, or server")
	pkg := flag.String("package", "packets", "Go package name for the generated files")
	foldBool := flag.Bool("fold-bool-into-header", true, "fold non-array, non-key bool fields into the delta bitvector instead of a separate payload byte")
	stats := flag.Bool("stats", false, "print packet/variant counts to stderr after generating")
	dumpModel := flag.Bool("dump-model", false, "print the parsed packet model as YAML to stderr before generating")
	metricsFile := flag.String("metrics-file", "", "if set, write a prometheus textfile-collector dump of this run's counts to this path")
	flag.Parse()

	if flag.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "usage: packetgen [flags] INPUT TYPES_OUT IMPL_OUT")
		flag.PrintDefaults()
		os.Exit(2)
	}

	opts := driver.Options{
		InputPath:          flag.Arg(0),
		TypesPath:          flag.Arg(1),
		ImplPath:           flag.Arg(2),
		Mode:               driver.Mode(*mode),
		Package:            emit.PackageName(*pkg),
		FoldBoolIntoHeader: *foldBool,
		Stats:              *stats,
		DumpModel:          *dumpModel,
		MetricsFile:        *metricsFile,
	}

	rtx.Must(driver.Generate(opts), "packetgen: generation failed")
}
