package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
	"github.com/couchcryptid/disaster-risk-service/internal/service"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// Upstream failures are logged in full but never echoed to clients.
const (
	msgInternal     = "upstream request failed"
	msgAlertsFailed = "failed to fetch disaster alerts"
)

// API groups the operations served under /v1.
type API struct {
	Risk    RiskAssessor
	Heatmap HeatmapBuilder
	India   IndiaHeatmapper
	Nearby  NearbyFinder
	Alerts  AlertLister
	Geocode PlaceResolver
}

// RiskAssessor scores a single point.
type RiskAssessor interface {
	Assess(ctx context.Context, lat, lng float64) (domain.Assessment, error)
}

// HeatmapBuilder scores a sampled grid over a bounding box.
type HeatmapBuilder interface {
	Heatmap(ctx context.Context, bbox domain.BoundingBox) ([]service.HeatmapPoint, error)
}

// IndiaHeatmapper builds the state-level temperature or pollution layer.
type IndiaHeatmapper interface {
	IndiaHeatmap(ctx context.Context, kind service.Kind) (service.IndiaHeatmap, error)
}

type NearbyFinder interface {
	Nearby(ctx context.Context, lat, lng float64, types []string) ([]domain.EmergencyService, error)
}

type AlertLister interface {
	Alerts(ctx context.Context) ([]domain.DisasterAlert, error)
}

// PlaceResolver resolves place names and coordinates.
type PlaceResolver interface {
	Search(ctx context.Context, query string) (domain.GeocodingResult, error)
	Reverse(ctx context.Context, lat, lng float64) (domain.GeocodingResult, error)
}

func (s *Server) routes(r chi.Router) {
	r.Get("/risk", s.handleRisk)
	r.Post("/heatmap", s.handleHeatmap)
	r.Post("/india-heatmap", s.handleIndiaHeatmap)
	r.Post("/nearby", s.handleNearby)
	r.Get("/alerts", s.handleAlerts)
	r.Get("/geocode", s.handleGeocode)
	r.Get("/reverse-geocode", s.handleReverseGeocode)
	r.Get("/levels/{level}/color", handleLevelColor)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	lat, lng, err := queryCoordinate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.api.Risk.Assess(r.Context(), lat, lng)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type heatmapRequest struct {
	BBox string `json:"bbox"`
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	var req heatmapRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	bbox, err := domain.ParseBBox(req.BBox)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidInput, err))
		return
	}
	points, err := s.api.Heatmap.Heatmap(r.Context(), bbox)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"heatmap": points})
}

type indiaHeatmapRequest struct {
	Type string `json:"type"`
}

func (s *Server) handleIndiaHeatmap(w http.ResponseWriter, r *http.Request) {
	var req indiaHeatmapRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	kind, err := service.ParseKind(req.Type)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hm, err := s.api.India.IndiaHeatmap(r.Context(), kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hm)
}

type nearbyRequest struct {
	Lat   *float64    `json:"lat"`
	Lng   *float64    `json:"lng"`
	Types amenityList `json:"types"`
}

// amenityList accepts either "hospital,police" or ["hospital","police"].
type amenityList []string

func (l *amenityList) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = nil
		for _, t := range strings.Split(s, ",") {
			if t = strings.TrimSpace(t); t != "" {
				*l = append(*l, t)
			}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return errors.New("types must be a comma-separated string or an array of strings")
	}
	*l = list
	return nil
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	var req nearbyRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Lat == nil || req.Lng == nil {
		s.writeError(w, r, fmt.Errorf("%w: lat and lng are required", service.ErrInvalidInput))
		return
	}
	services, err := s.api.Nearby.Nearby(r.Context(), *req.Lat, *req.Lng, req.Types)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.api.Alerts.Alerts(r.Context())
	if err != nil {
		s.logger.Error("fetching alerts failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":  msgAlertsFailed,
			"alerts": []domain.DisasterAlert{},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	result, err := s.api.Geocode.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, lng, err := queryCoordinate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.api.Geocode.Reverse(r.Context(), lat, lng)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func handleLevelColor(w http.ResponseWriter, r *http.Request) {
	level := chi.URLParam(r, "level")
	writeJSON(w, http.StatusOK, map[string]string{
		"level": level,
		"color": domain.LevelToColor(level),
	})
}

// queryCoordinate reads the lat and lng query parameters.
func queryCoordinate(r *http.Request) (lat, lng float64, err error) {
	q := r.URL.Query()
	lat, err = strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: lat must be a number", service.ErrInvalidInput)
	}
	lng, err = strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: lng must be a number", service.ErrInvalidInput)
	}
	return lat, lng, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode request body: %w", service.ErrInvalidInput, err)
	}
	return nil
}

// writeError maps service errors to a status code and a JSON error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := msgInternal

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrNoData):
		msg = "No data received from APIs"
	case errors.Is(err, service.ErrProviderNotConfigured):
		msg = service.ErrProviderNotConfigured.Error()
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
