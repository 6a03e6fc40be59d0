package versions

// Test Plan for version ordering:
// - Weight sums the first three numeric components scaled by 10^(4-index)
// - Pre-release components contribute their digits
// - Components past the third are ignored
// - Empty and non-numeric components contribute 0
// - Sort orders ascending and keeps equal weights stable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label    string
		expected int
	}{
		{label: "1.8.8", expected: 18800},
		{label: "1.13", expected: 23000},
		{label: "1.14.4", expected: 24400},
		{label: "1.14-pre5", expected: 24500},
		{label: "1.12.2.7", expected: 22200},
		{label: "1..2", expected: 10200},
		{label: "snapshot", expected: 0},
		{label: "", expected: 0},
		{label: "2", expected: 20000},
		{label: "1.20-rc1", expected: 30100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Weight(tt.label))
		})
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	labels := []string{"1.14.4", "1.8.8", "1.13", "beta", "alpha", "1.9"}

	Sort(labels)

	assert.Equal(t, []string{"beta", "alpha", "1.8.8", "1.9", "1.13", "1.14.4"}, labels)
}
