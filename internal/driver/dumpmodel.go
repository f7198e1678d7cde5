package driver

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/freeciv21/packetgen/internal/parse"
)

// dumpModel writes proto's packets as YAML to w, for the --dump-model
// flag (spec.md §4.1b): a way to inspect exactly what the parser
// produced, ahead of any capability-variant expansion or emission.
func dumpModel(w io.Writer, proto *parse.Protocol) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(proto.Packets)
}
