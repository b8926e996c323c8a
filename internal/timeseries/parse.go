// Package timeseries converts the string-encoded numeric series returned by
// the Visualizer download endpoint.
package timeseries

import (
	"math"
	"strconv"
	"strings"
)

// Parse converts each token to a float64, keeping length and order.
// Tokens that are not numbers become NaN.
func Parse(tokens []string) []float64 {
	out := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// Last returns the final value of a series, or 0 when the series is empty
// or ends in NaN.
func Last(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	v := series[len(series)-1]
	if math.IsNaN(v) {
		return 0
	}
	return v
}
