package analytics

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cattery-site/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/analytics", func(ar chi.Router) {
		// el sitio público se trackea a sí mismo, sin auth
		ar.Post("/visits", trackVisitHandler(svc))

		// lecturas del dashboard admin
		ar.Get("/summary", summaryHandler(svc))
		ar.Get("/daily", dailyStatsHandler(svc))
		ar.Get("/pages", pageStatsHandler(svc))
		ar.Get("/devices", deviceStatsHandler(svc))
		ar.Get("/synthetic", listSyntheticHandler(svc))

		// lo llama el runner diario (o un admin a mano)
		ar.Post("/synthetic", createSyntheticHandler(svc))
	})
}

type trackVisitRequest struct {
	Path       string `json:"path"`
	Referrer   string `json:"referrer"`
	UserAgent  string `json:"user_agent"`
	SessionID  string `json:"session_id"`
	DeviceType string `json:"device_type"`

	Language         string `json:"language"`
	ScreenResolution string `json:"screen_resolution"`
}

func trackVisitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trackVisitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ua := req.UserAgent
		if strings.TrimSpace(ua) == "" {
			ua = r.UserAgent()
		}

		v, err := svc.TrackVisit(r.Context(), TrackInput{
			Path:             req.Path,
			Referrer:         req.Referrer,
			UserAgent:        ua,
			SessionID:        req.SessionID,
			DeviceType:       DeviceType(req.DeviceType),
			Language:         req.Language,
			ScreenResolution: req.ScreenResolution,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"id": v.ID})
	}
}

func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		s, err := svc.Summary(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func dailyStatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		days := 0
		if v := r.URL.Query().Get("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "days must be a positive integer", http.StatusBadRequest)
				return
			}
			days = n
		}

		stats, err := svc.DailyStats(r.Context(), days)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func pageStatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		stats, err := svc.PageStats(r.Context(), r.URL.Query().Get("path"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func deviceStatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		stats, err := svc.DeviceStats(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

type syntheticVisitResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

func listSyntheticHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		items, err := svc.ListSynthetic(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]syntheticVisitResponse, 0, len(items))
		for _, sv := range items {
			out = append(out, syntheticVisitResponse{
				ID:        sv.ID,
				Date:      sv.Date,
				Count:     sv.Count,
				CreatedAt: sv.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type createSyntheticRequest struct {
	Date string `json:"date"`
}

func createSyntheticHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req createSyntheticRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		res, err := svc.CreateDailySynthetic(r.Context(), req.Date)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Success=false no es un error: el refuerzo del día ya existía.
		writeJSON(w, http.StatusOK, res)
	}
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.AdminID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// writeJSON duplicado a propósito entre módulos, igual que en cats.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
