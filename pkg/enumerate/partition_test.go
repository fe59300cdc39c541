package enumerate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name  string
		start uint64
		count uint64
		parts int
		want  []Span
	}{
		{"even", 0, 9, 3, []Span{{0, 3}, {3, 3}, {6, 3}}},
		{"remainder goes first", 10, 81, 4, []Span{{10, 21}, {31, 20}, {51, 20}, {71, 20}}},
		{"more parts than items", 0, 2, 8, []Span{{0, 1}, {1, 1}}},
		{"no parts means one", 5, 4, 0, []Span{{5, 4}}},
		{"empty", 0, 0, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.start, tt.count, tt.parts)
			assert.Equal(t, tt.want, got)

			var total uint64
			for _, s := range got {
				total += s.Count
			}
			assert.Equal(t, tt.count, total)
		})
	}
}
