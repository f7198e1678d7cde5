package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/freeciv21/packetgen/internal/ast"
)

var (
	fieldLineRe = regexp.MustCompile(`^\s*(\S+(?:\(.*\))?)\s+([^;()]*)\s*;\s*(.*?)\s*$`)
	typeShapeRe = regexp.MustCompile(`^(.*)\((.*)\)$`)
	floatKindRe = regexp.MustCompile(`^(\D+)(\d+)$`)
	rank2Re     = regexp.MustCompile(`^(.*)\[(.*)\]\[(.*)\]$`)
	rank1Re     = regexp.MustCompile(`^(.*)\[(.*)\]$`)
	addCapRe    = regexp.MustCompile(`^add-cap\((.*)\)$`)
	removeCapRe = regexp.MustCompile(`^remove-cap\((.*)\)$`)
)

// parseFields parses one field-declaration line of the form
// "TYPE name1, name2[SIZE], name3[SIZE1][SIZE2]; flags" and returns
// one ast.Field per comma-separated name, per spec.md §4.1. aliases
// maps a resolved alias name to its fixed-point expansion.
func parseFields(line string, aliases map[string]string) ([]ast.Field, error) {
	m := fieldLineRe.FindStringSubmatch(line)
	if m == nil {
		return nil, errors.Errorf("field line %q: missing `;` or malformed TYPE NAMES; FLAGS shape", line)
	}
	kindToken, namesToken, flagsToken := strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), strings.TrimSpace(m[3])

	kind := kindToken
	for {
		expansion, ok := aliases[kind]
		if !ok {
			break
		}
		kind = expansion
	}

	ft, err := parseFieldType(kind)
	if err != nil {
		return nil, errors.Wrapf(err, "field line %q", line)
	}

	flags, err := parseFieldFlags(flagsToken)
	if err != nil {
		return nil, errors.Wrapf(err, "field line %q", line)
	}

	var result []ast.Field
	for _, nameTok := range strings.Split(namesToken, ",") {
		nameTok = strings.TrimSpace(nameTok)
		if nameTok == "" {
			continue
		}
		f, err := parseFieldName(nameTok)
		if err != nil {
			return nil, errors.Wrapf(err, "field line %q", line)
		}
		f.Type = ft
		f.IsKey = flags.isKey
		f.Diff = flags.diff
		f.AddCap = flags.addCap
		f.RemoveCap = flags.removeCap
		result = append(result, f)
	}
	return result, nil
}

// parseFieldType parses a fully-resolved "WIRE(STORAGE)" expansion.
func parseFieldType(kind string) (ast.FieldType, error) {
	m := typeShapeRe.FindStringSubmatch(kind)
	if m == nil {
		return ast.FieldType{}, errors.Errorf("type expansion %q does not match WIRE(STORAGE)", kind)
	}
	ft := ast.FieldType{WireKind: m[1], StorageKind: m[2]}
	if ft.StorageKind == "float" {
		fm := floatKindRe.FindStringSubmatch(ft.WireKind)
		if fm == nil {
			return ast.FieldType{}, errors.Errorf("float wire kind %q has no trailing scale digits", ft.WireKind)
		}
		ft.WireKind = fm[1]
		factor, err := strconv.Atoi(fm[2])
		if err != nil {
			return ast.FieldType{}, errors.Wrapf(err, "float scale in %q", kind)
		}
		ft.FloatFactor = factor
	}
	return ft, nil
}

// parseFieldName parses one comma-separated name expression,
// including its optional one- or two-dimensional size suffix.
func parseFieldName(tok string) (ast.Field, error) {
	var f ast.Field
	if m := rank2Re.FindStringSubmatch(tok); m != nil {
		f.Name = strings.TrimSpace(m[1])
		f.ArrayRank = 2
		f.Sizes[0] = expandSize(m[2])
		f.Sizes[1] = expandSize(m[3])
		return f, nil
	}
	if m := rank1Re.FindStringSubmatch(tok); m != nil {
		f.Name = strings.TrimSpace(m[1])
		f.ArrayRank = 1
		f.Sizes[0] = expandSize(m[2])
		return f, nil
	}
	f.Name = tok
	f.ArrayRank = 0
	return f, nil
}

// expandSize expands a size token "S" to (S, S, S), or "DECL:USED"
// to (DECL, USED, USED) — the used/old fields carry the bare
// identifier; the codec emitter decides whether to read it off the
// current packet or the cached snapshot (spec.md §3: the used size is
// the runtime count to transmit, the old size is the same for the
// cached prior value).
func expandSize(tok string) ast.ArraySize {
	parts := strings.SplitN(tok, ":", 2)
	if len(parts) == 1 {
		return ast.ArraySize{Declared: tok, Used: tok, Old: tok}
	}
	return ast.ArraySize{Declared: parts[0], Used: parts[1], Old: parts[1]}
}

type fieldFlags struct {
	isKey     bool
	diff      bool
	addCap    string
	removeCap string
}

func parseFieldFlags(token string) (fieldFlags, error) {
	var ff fieldFlags
	for _, raw := range strings.Split(token, ",") {
		flag := strings.TrimSpace(raw)
		if flag == "" {
			continue
		}
		switch {
		case flag == "key":
			ff.isKey = true
		case flag == "diff":
			ff.diff = true
		case addCapRe.MatchString(flag):
			if ff.removeCap != "" {
				return ff, errors.Errorf("field carries both add-cap and remove-cap")
			}
			ff.addCap = addCapRe.FindStringSubmatch(flag)[1]
		case removeCapRe.MatchString(flag):
			if ff.addCap != "" {
				return ff, errors.Errorf("field carries both add-cap and remove-cap")
			}
			ff.removeCap = removeCapRe.FindStringSubmatch(flag)[1]
		default:
			return ff, errors.Errorf("unknown field flag %q", flag)
		}
	}
	return ff, nil
}
