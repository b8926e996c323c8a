package models

// ShotID is the lightweight reference returned by the Visualizer list endpoint.
type ShotID struct {
	ID    string `json:"id"`
	Clock int64  `json:"clock"`
}

// Shot is a single espresso extraction with its parsed sensor series.
type Shot struct {
	ID           string               `json:"id"`
	StartTime    string               `json:"start_time"`
	ProfileTitle string               `json:"profile_title"`
	UserID       string               `json:"user_id"`
	DrinkWeight  float64              `json:"drink_weight"`
	Timeframe    []float64            `json:"timeframe"`     // seconds since start
	Data         map[string][]float64 `json:"data"`          // espresso_pressure, espresso_flow, ...
	ImagePreview string               `json:"image_preview"` // empty when absent
}
