package models

import (
	"encoding/json"
	"math"
	"testing"
)

func TestShotRecordFields_DropsNonFiniteNumbers(t *testing.T) {
	cases := []struct {
		name           string
		yield, elapsed float64
	}{
		{"nan yield", math.NaN(), 28.5},
		{"inf extraction time", 36.2, math.Inf(1)},
		{"both non-finite", math.Inf(-1), math.NaN()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := ShotRecord{ShotID: "a", Yield: tc.yield, ExtractionTime: tc.elapsed}.Fields()

			_, hasYield := fields[FieldYield]
			_, hasElapsed := fields[FieldExtractionTime]
			if hasYield != finite(tc.yield) || hasElapsed != finite(tc.elapsed) {
				t.Fatalf("yield present=%v elapsed present=%v: %v", hasYield, hasElapsed, fields)
			}
			if _, err := json.Marshal(fields); err != nil {
				t.Fatalf("fields must always encode: %v", err)
			}
		})
	}
}

func TestShotRecordFields_Attachments(t *testing.T) {
	rec := ShotRecord{ShotID: "a", Yield: 36, ExtractionTime: 28}
	if _, ok := rec.Fields()[FieldAttachments]; ok {
		t.Fatal("no attachments expected")
	}
	rec.Attachments = []Attachment{{Filename: "a.png", URL: "https://img/a"}}
	got, ok := rec.Fields()[FieldAttachments].([]Attachment)
	if !ok || len(got) != 1 || got[0].Filename != "a.png" {
		t.Fatalf("attachments = %#v", rec.Fields()[FieldAttachments])
	}
}
