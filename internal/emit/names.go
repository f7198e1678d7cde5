package emit

import (
	"go/token"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/stoewer/go-strcase"
)

// GoIdent is a Go identifier, consisting of a name and import path.
type GoIdent struct {
	GoName       string
	GoImportPath GoImportPath
}

// GoImportPath is the import path of a Go package.
type GoImportPath string

func (p GoImportPath) String() string { return strconv.Quote(string(p)) }

// Ident returns a GoIdent with s as the GoName and p as the
// GoImportPath.
func (p GoImportPath) Ident(s string) GoIdent {
	return GoIdent{GoName: s, GoImportPath: p}
}

// GoPackageName is the name of a Go package.
type GoPackageName string

// PackageName converts a string (typically a --package flag value)
// to a valid Go package name.
func PackageName(name string) GoPackageName {
	return GoPackageName(cleanGoName(name))
}

// cleanGoName converts a string to a valid Go identifier: sanitizes
// to letters/digits/underscore, then escapes a Go-keyword collision
// or a non-letter lead character with a leading underscore. Kept
// verbatim from the teacher (protogen.cleanGoName) — go-strcase has
// no notion of Go keywords, so this check still needs go/token.
func cleanGoName(s string) string {
	rs := []rune(s)
	for i, c := range rs {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			rs[i] = '_'
		}
	}
	s = string(rs)
	r, _ := utf8.DecodeRuneInString(s)
	if token.Lookup(s).IsKeyword() || !unicode.IsLetter(r) {
		return "_" + s
	}
	return s
}

// ExportedName converts a snake_case or mixed protocol identifier
// (packet tag, field name) into an exported Go identifier, e.g.
// "unit_move" -> "UnitMove", "hp" -> "Hp". Replaces the teacher's
// hand-rolled camelCase state machine with go-strcase, the pack's
// answer to name-casing conversion (pulled in by the
// yaninyzwitty-hyperpb-go code generator).
func ExportedName(s string) string {
	return cleanGoName(strcase.UpperCamelCase(s))
}

// UnexportedName is ExportedName with the first rune lower-cased,
// for local variables derived from protocol names (e.g. a packet's
// receiver-local "real packet" binding).
func UnexportedName(s string) string {
	return cleanGoName(strcase.LowerCamelCase(s))
}
