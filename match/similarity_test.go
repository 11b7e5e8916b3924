package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical vectors", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"zero vector left", []float64{0, 0, 0}, []float64{1, 2, 3}, 0},
		{"zero vector right", []float64{1, 2, 3}, []float64{0, 0, 0}, 0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestHybridScore(t *testing.T) {
	tests := []struct {
		name     string
		rule     int
		semantic float64
		want     int
	}{
		{"perfect both", 100, 1, 100},
		{"zero both", 0, 0, 0},
		{"blend rounds", 80, 0.5, 68},
		{"rule only", 50, 0, 30},
		{"semantic only", 0, 1, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HybridScore(tt.rule, tt.semantic))
		})
	}
}
