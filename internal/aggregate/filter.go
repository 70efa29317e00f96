package aggregate

import (
	"sort"
	"strings"

	"demodash/internal/match"
)

// FilterByMap returns the matches played on mapName, compared
// case-insensitively. An empty filter returns the input unchanged.
func FilterByMap(matches []match.Match, mapName string) []match.Match {
	if mapName == "" {
		return matches
	}
	want := strings.ToLower(strings.TrimSpace(mapName))
	var out []match.Match
	for _, m := range matches {
		if strings.ToLower(strings.TrimSpace(m.MapName)) == want {
			out = append(out, m)
		}
	}
	return out
}

// MapNames returns the distinct map names across matches, sorted.
func MapNames(matches []match.Match) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range matches {
		if _, ok := seen[m.MapName]; ok {
			continue
		}
		seen[m.MapName] = struct{}{}
		names = append(names, m.MapName)
	}
	sort.Strings(names)
	return names
}

// TeamNames returns the distinct team names across matches, sorted.
func TeamNames(matches []match.Match) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range matches {
		for _, n := range []string{m.TeamA.Name, m.TeamB.Name} {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}
