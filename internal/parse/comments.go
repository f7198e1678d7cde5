// Package parse implements the lexer/parser for a protocol
// description (spec.md §4.1): it consumes UTF-8 text and yields a
// list of type aliases and a list of packet definitions.
package parse

import (
	"regexp"
	"strings"
)

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	hashComment  = regexp.MustCompile(`(?m)^\s*#.*$`)
	slashComment = regexp.MustCompile(`(?m)^\s*//.*$`)
)

// stripComments removes block `/*…*/` comments and full-line `#…`/
// `//…` comments, then drops whitespace-only lines. Mirrors
// generate_packets.py's parse_packet_definitions preprocessing.
func stripComments(content string) string {
	content = blockComment.ReplaceAllString(content, "")
	content = hashComment.ReplaceAllString(content, "")
	content = slashComment.ReplaceAllString(content, "")

	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
