package versions

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// weightedComponents is how many leading components of a label count.
const weightedComponents = 3

// Weight ranks a release label for display ordering. The label is split on
// '.' and '-', non-digits are stripped from each component, and the first
// three components contribute value * 10^(4-index). Empty or unparsable
// components contribute 0.
//
//	Weight("1.8.8")     == 18800
//	Weight("1.14-pre5") == 24500
func Weight(label string) int {
	parts := strings.Split(strings.ReplaceAll(label, "-", "."), ".")

	score := 0
	scale := 10000
	for i := 0; i < len(parts) && i < weightedComponents; i++ {
		digits := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) && r < unicode.MaxASCII {
				return r
			}
			return -1
		}, parts[i])

		if n, err := strconv.Atoi(digits); err == nil {
			score += n * scale
		}
		scale /= 10
	}

	return score
}

// Sort orders labels by ascending Weight. Labels of equal weight keep their
// relative order.
func Sort(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		return Weight(labels[i]) < Weight(labels[j])
	})
}
