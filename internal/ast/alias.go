package ast

import "github.com/pkg/errors"

// TypeAlias maps an alias token to its expansion, which may itself be
// another alias. ResolveAliases resolves each alias to a fixed point.
type TypeAlias struct {
	Name       string
	Expansion  string
}

// ResolveAliases repeatedly substitutes alias names in each
// expansion until none remain, failing if a cycle is detected.
// Mirrors generate_packets.py's parse_fields alias-lookup loop, but
// performed once for the whole alias table instead of once per field
// line.
func ResolveAliases(aliases []TypeAlias) (map[string]string, error) {
	byName := make(map[string]string, len(aliases))
	for _, a := range aliases {
		byName[a.Name] = a.Expansion
	}

	resolved := make(map[string]string, len(aliases))
	for _, a := range aliases {
		seen := map[string]bool{a.Name: true}
		cur := a.Expansion
		for {
			next, isAlias := byName[cur]
			if !isAlias {
				break
			}
			if seen[cur] {
				return nil, errors.Errorf("type alias %q: cyclic expansion", a.Name)
			}
			seen[cur] = true
			cur = next
		}
		resolved[a.Name] = cur
	}
	return resolved, nil
}
