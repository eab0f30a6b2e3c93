package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearRegression(t *testing.T) {
	tests := []struct {
		name          string
		xs            []float64
		ys            []float64
		wantSlope     float64
		wantIntercept float64
	}{
		{
			name:          "perfect positive slope",
			xs:            []float64{0, 1, 2},
			ys:            []float64{100, 200, 300},
			wantSlope:     100,
			wantIntercept: 100,
		},
		{
			name:          "flat series",
			xs:            []float64{0, 1, 2, 3},
			ys:            []float64{50, 50, 50, 50},
			wantSlope:     0,
			wantIntercept: 50,
		},
		{
			name:          "negative slope",
			xs:            []float64{0, 1, 2},
			ys:            []float64{300, 200, 100},
			wantSlope:     -100,
			wantIntercept: 300,
		},
		{
			name:          "single point has no slope",
			xs:            []float64{0},
			ys:            []float64{42},
			wantSlope:     0,
			wantIntercept: 42,
		},
		{
			name: "empty input",
			xs:   []float64{},
			ys:   []float64{},
		},
		{
			name:          "noisy series",
			xs:            []float64{0, 1, 2, 3},
			ys:            []float64{10, 30, 20, 40},
			wantSlope:     8,
			wantIntercept: 13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slope, intercept := linearRegression(tt.xs, tt.ys)
			assert.InDelta(t, tt.wantSlope, slope, 1e-9)
			assert.InDelta(t, tt.wantIntercept, intercept, 1e-9)
		})
	}
}
