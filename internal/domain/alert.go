package domain

import (
	"fmt"
	"time"
)

// MaxAlerts caps how many alerts a single listing returns.
const MaxAlerts = 20

// AlertFeature is one event as reported by the alert source, before
// filtering. Empty strings mean the source omitted the field.
type AlertFeature struct {
	EventID     string
	Name        string
	EventType   string
	AlertLevel  string
	FromDate    string
	Country     string
	Description string
	Coordinates []float64 // [lng, lat, ...]; nil when the feature has no point geometry
}

// DisasterAlert is an active event inside India, shaped for the dashboard.
type DisasterAlert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Coordinates []float64 `json:"coordinates,omitempty"`
}

// FilterIndiaAlerts keeps features located inside IndiaBounds, fills in
// defaults for missing fields, and returns at most limit alerts in source
// order. A non-positive limit means no cap.
func FilterIndiaAlerts(features []AlertFeature, now time.Time, limit int) []DisasterAlert {
	alerts := make([]DisasterAlert, 0, min(len(features), max(limit, 0)))
	for _, f := range features {
		if limit > 0 && len(alerts) >= limit {
			break
		}
		if len(f.Coordinates) < 2 {
			continue
		}
		lng, lat := f.Coordinates[0], f.Coordinates[1]
		if !InIndia(lat, lng) {
			continue
		}
		alerts = append(alerts, toAlert(f, len(alerts), now))
	}
	return alerts
}

func toAlert(f AlertFeature, idx int, now time.Time) DisasterAlert {
	return DisasterAlert{
		ID:          orDefault(f.EventID, fmt.Sprintf("alert-%d", idx)),
		Title:       orDefault(f.Name, "Disaster Alert"),
		Type:        orDefault(f.EventType, "Unknown"),
		Severity:    orDefault(f.AlertLevel, "medium"),
		Date:        orDefault(f.FromDate, now.UTC().Format(time.RFC3339)),
		Location:    orDefault(f.Country, "India"),
		Description: orDefault(f.Description, "No description available"),
		Coordinates: f.Coordinates,
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
