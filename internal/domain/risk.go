package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Level is the discrete risk bucket derived from a score.
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// Placeholders for readings that have no upstream source yet.
const (
	DefaultRiverKM    = 5.0
	DefaultPopDensity = 1000.0
)

const (
	rainCeilingMM = 10.0
	windCeilingMS = 20.0
	elevCeilingM  = 500.0
	riverReachKM  = 5.0

	rainWeight  = 0.35
	windWeight  = 0.25
	elevWeight  = 0.25
	riverWeight = 0.15

	highThreshold   = 0.65
	mediumThreshold = 0.4

	scorePlaces = 3
)

var (
	lowProbs    = [3]float64{0.7, 0.2, 0.1}
	mediumProbs = [3]float64{0.2, 0.6, 0.2}
	highProbs   = [3]float64{0.1, 0.2, 0.7}
)

// RiskFactors holds the raw environmental readings for one location.
// All fields are expected to be non-negative.
type RiskFactors struct {
	Rain1h     float64 `json:"rain_1h"`
	WindMS     float64 `json:"wind_ms"`
	ElevationM float64 `json:"elevation_m"`
	RiverKM    float64 `json:"river_km"`
	PopDensity float64 `json:"pop_density"`
}

// Sanitized replaces negative and NaN readings with zero. Providers report
// below-sea-level terrain as negative elevation, which would otherwise push
// the score above 1.
func (f RiskFactors) Sanitized() RiskFactors {
	return RiskFactors{
		Rain1h:     nonNegative(f.Rain1h),
		WindMS:     nonNegative(f.WindMS),
		ElevationM: nonNegative(f.ElevationM),
		RiverKM:    nonNegative(f.RiverKM),
		PopDensity: nonNegative(f.PopDensity),
	}
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// RiskPrediction is the scored result for one location.
type RiskPrediction struct {
	Score float64    `json:"score"`
	Level Level      `json:"level"`
	Probs [3]float64 `json:"probs"` // [Low, Medium, High]
	Lat   float64    `json:"lat"`
	Lng   float64    `json:"lng"`
}

// Score computes the risk prediction for the given readings. It is pure and
// safe for concurrent use.
//
// The level is classified from the rounded score, so the reported score and
// level always agree: a raw 0.400199 rounds to 0.4 and is Low, not Medium.
func Score(f RiskFactors, lat, lng float64) RiskPrediction {
	rainN := math.Min(f.Rain1h/rainCeilingMM, 1)
	windN := math.Min(f.WindMS/windCeilingMS, 1)
	elevN := math.Min(f.ElevationM/elevCeilingM, 1)
	riverN := math.Max(0, (riverReachKM-f.RiverKM)/riverReachKM)

	raw := rainWeight*rainN +
		windWeight*windN +
		elevWeight*(1-elevN) +
		riverWeight*riverN

	score := Round(raw, scorePlaces)
	level, probs := classify(score)

	return RiskPrediction{
		Score: score,
		Level: level,
		Probs: probs,
		Lat:   lat,
		Lng:   lng,
	}
}

// classify buckets a rounded score. NaN falls through to Low.
func classify(score float64) (Level, [3]float64) {
	switch {
	case score > highThreshold:
		return LevelHigh, highProbs
	case score > mediumThreshold:
		return LevelMedium, mediumProbs
	default:
		return LevelLow, lowProbs
	}
}

// Round rounds v to the given number of decimal places, half away from zero.
// Non-finite values are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// LevelToColor maps a level name to its display color. Unknown levels get
// neutral gray.
func LevelToColor(level string) string {
	switch Level(level) {
	case LevelHigh:
		return "#dc2626"
	case LevelMedium:
		return "#f59e0b"
	case LevelLow:
		return "#10b981"
	default:
		return "#6b7280"
	}
}
