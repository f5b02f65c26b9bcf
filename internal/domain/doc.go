// Package domain models flood and storm risk for locations in India.
//
// # Risk Model
//
// A location's risk is a weighted sum of four normalized environmental
// factors. Each raw reading is divided by an assumed ceiling and capped so
// that it contributes at most its full weight:
//
//	Rain (mm in the last hour):    rain_n  = min(rain_1h / 10, 1)      weight 0.35
//	Wind (m/s):                    wind_n  = min(wind_ms / 20, 1)      weight 0.25
//	Elevation (m above sea level): elev_n  = min(elevation_m / 500, 1) weight 0.25, inverted
//	River proximity (km):          river_n = max(0, (5 - river_km) / 5) weight 0.15
//
// Elevation is inverted: low-lying ground contributes more risk. Weights sum
// to 1.0, so for non-negative readings the score always lies in [0, 1].
//
// Population density is carried on [RiskFactors] and echoed in responses but
// is not weighted into the score.
//
// # Levels
//
// The score is rounded to three decimals (half away from zero) and bucketed
// with strict upper comparisons:
//
//	score > 0.65         High    probs [0.10, 0.20, 0.70]
//	0.4 < score <= 0.65  Medium  probs [0.20, 0.60, 0.20]
//	score <= 0.4         Low     probs [0.70, 0.20, 0.10]
//
// The probability triple is a fixed pseudo-distribution over
// [Low, Medium, High], not a calibrated model output.
//
// # Invalid Input
//
// [Score] does not validate. A NaN reading propagates through the
// arithmetic and, because every comparison against NaN is false, lands in
// the Low bucket. [NewAssessment] clamps negative and NaN readings to 0
// before scoring, so served assessments never carry them.
//
// # Data Sources
//
// Rain and wind come from the OpenWeather current-weather endpoint
// ("rain.1h" and "wind.speed"; a missing rain block means no rain).
// Elevation comes from Open-Elevation. River distance and population density
// have no upstream source yet and are filled with the placeholders
// [DefaultRiverKM] and [DefaultPopDensity].
//
// Alerts come from the GDACS event list, whose point geometries are ordered
// [lng, lat]. Only events inside [IndiaBounds] are kept.
package domain
