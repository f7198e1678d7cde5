package parse

import (
	"io"
	"io/ioutil"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/freeciv21/packetgen/internal/ast"
)

var aliasRe = regexp.MustCompile(`^type\s+(\S+)\s*=\s*(.+)\s*$`)

// Protocol is the top-level parse result: every packet declared in
// the input, in declaration order.
type Protocol struct {
	Packets []*ast.Packet
}

// Parse reads a protocol description from r and returns its packets,
// per spec.md §4.1. Aliases are resolved internally and do not
// survive into the returned Protocol.
func Parse(r io.Reader) (*Protocol, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading protocol description")
	}
	content := stripComments(string(raw))
	lines := strings.Split(content, "\n")

	var aliasDefs []ast.TypeAlias
	var remaining []string
	for _, line := range lines {
		if m := aliasRe.FindStringSubmatch(line); m != nil {
			aliasDefs = append(aliasDefs, ast.TypeAlias{Name: m[1], Expansion: strings.TrimSpace(m[2])})
			continue
		}
		remaining = append(remaining, line)
	}

	aliases, err := ast.ResolveAliases(aliasDefs)
	if err != nil {
		return nil, err
	}

	var packets []*ast.Packet
	tagNumbers := map[uint16]string{}
	for len(remaining) > 0 {
		end := indexOf(remaining, "end")
		if end < 0 {
			return nil, errors.New("packet block missing terminating `end` line before EOF")
		}
		block := remaining[:end]
		remaining = remaining[end+1:]
		if len(strings.TrimSpace(strings.Join(block, ""))) == 0 {
			continue
		}

		p, err := parsePacket(block, aliases)
		if err != nil {
			return nil, err
		}
		if prev, dup := tagNumbers[p.TagNumber]; dup {
			return nil, errors.Errorf("packet %s: tag number %d already used by %s", p.TagName, p.TagNumber, prev)
		}
		tagNumbers[p.TagNumber] = p.TagName
		packets = append(packets, p)
	}

	if err := validateCapabilityUniverse(packets); err != nil {
		return nil, err
	}

	return &Protocol{Packets: packets}, nil
}

func indexOf(lines []string, target string) int {
	for i, l := range lines {
		if strings.TrimSpace(l) == target {
			return i
		}
	}
	return -1
}

// validateCapabilityUniverse checks that every cancel(TAG) target
// names a packet declared in the file, to catch a typo'd cancel
// target. Capability names are not checked: the capability universe
// is the set of names the file's fields reference, so every
// referenced name belongs to it.
func validateCapabilityUniverse(packets []*ast.Packet) error {
	byTag := make(map[string]bool, len(packets))
	for _, p := range packets {
		byTag[p.TagName] = true
	}
	for _, p := range packets {
		for _, tag := range p.CancelSet {
			if !byTag[tag] {
				return errors.Errorf("packet %s: cancel(%s) names an undeclared packet", p.TagName, tag)
			}
		}
	}
	return nil
}
