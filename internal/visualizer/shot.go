package visualizer

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"coffee_sync/internal/models"
	"coffee_sync/internal/timeseries"
)

// ExtractionTime is the last timeframe offset, i.e. total elapsed seconds.
func ExtractionTime(shot models.Shot) float64 {
	return timeseries.Last(shot.Timeframe)
}

// token renders a raw JSON scalar as text: strings are unquoted, numbers
// keep their literal form, null becomes "".
func token(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func parseNumber(raw json.RawMessage) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(token(raw)), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseSeries(raw []json.RawMessage) []float64 {
	tokens := make([]string, len(raw))
	for i, r := range raw {
		tokens[i] = token(r)
	}
	return timeseries.Parse(tokens)
}

func asStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	ok := errors.As(err, &se)
	return se, ok
}
