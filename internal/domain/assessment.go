package domain

import "time"

// Assessment is a scored point together with the readings behind the score.
type Assessment struct {
	RiskPrediction
	Factors    RiskFactors `json:"factors"`
	AssessedAt time.Time   `json:"-"`
}

// NewAssessment scores sanitized factors and stamps the result with the
// package clock.
func NewAssessment(f RiskFactors, lat, lng float64) Assessment {
	f = f.Sanitized()
	return Assessment{
		RiskPrediction: Score(f, lat, lng),
		Factors:        f,
		AssessedAt:     Now(),
	}
}
