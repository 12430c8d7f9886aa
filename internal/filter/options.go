package filter

import (
	"slices"
	"strings"
)

// ToggleOption adds option to the end of selected if absent and removes it
// otherwise. The result is a new slice.
func ToggleOption(selected []string, option string) []string {
	if slices.Contains(selected, option) {
		out := make([]string, 0, len(selected)-1)
		for _, v := range selected {
			if v != option {
				out = append(out, v)
			}
		}
		return out
	}
	out := make([]string, 0, len(selected)+1)
	out = append(out, selected...)
	return append(out, option)
}

// SearchOptions returns the options containing term, ignoring case.
func SearchOptions(options []string, term string) []string {
	term = strings.ToLower(term)
	matched := make([]string, 0, len(options))
	for _, o := range options {
		if strings.Contains(strings.ToLower(o), term) {
			matched = append(matched, o)
		}
	}
	return matched
}
