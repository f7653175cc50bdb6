package common

import (
	"math"
	"strings"
)

// RoundInt rounds half away from zero.
func RoundInt(v float64) int {
	return int(math.Round(v))
}

// SplitList splits a comma separated list, trimming blanks and dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
