package announcements

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
	r.Route("/announcements", func(ar chi.Router) {
		// lecturas públicas
		ar.Get("/", listHandler(svc))
		ar.Get("/published", listPublishedHandler(svc))
		ar.Get("/latest", latestHandler(svc))
		ar.Get("/slug/{slug}", getBySlugHandler(svc))
		ar.Get("/{announcementID}", getByIDHandler(svc))

		// mutaciones solo admin
		ar.Post("/", createHandler(svc))
		ar.Patch("/{announcementID}", updateHandler(svc))
		ar.Delete("/{announcementID}", deleteHandler(svc))
		ar.Post("/{announcementID}/toggle-publication", togglePublicationHandler(svc))
		ar.Post("/sort-order", sortOrderHandler(svc))
	})
}

type createAnnouncementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`

	FeaturedImage string   `json:"featured_image"`
	Gallery       []string `json:"gallery"`

	IsPublished bool `json:"is_published"`
	SortOrder   int  `json:"sort_order"`

	MetaDescription string `json:"meta_description"`
	MetaKeywords    string `json:"meta_keywords"`
}

type updateAnnouncementRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`

	FeaturedImage *string   `json:"featured_image"`
	Gallery       *[]string `json:"gallery"`

	IsPublished *bool `json:"is_published"`
	SortOrder   *int  `json:"sort_order"`

	MetaDescription *string `json:"meta_description"`
	MetaKeywords    *string `json:"meta_keywords"`
}

type announcementResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`

	FeaturedImage string   `json:"featured_image,omitempty"`
	Gallery       []string `json:"gallery,omitempty"`

	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	SortOrder   int        `json:"sort_order"`

	Slug            string `json:"slug"`
	MetaDescription string `json:"meta_description,omitempty"`
	MetaKeywords    string `json:"meta_keywords,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req createAnnouncementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			Title:           req.Title,
			Content:         req.Content,
			FeaturedImage:   req.FeaturedImage,
			Gallery:         req.Gallery,
			IsPublished:     req.IsPublished,
			SortOrder:       req.SortOrder,
			MetaDescription: req.MetaDescription,
			MetaKeywords:    req.MetaKeywords,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(a))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req updateAnnouncementRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "announcementID"), UpdateInput{
			Title:           req.Title,
			Content:         req.Content,
			FeaturedImage:   req.FeaturedImage,
			Gallery:         req.Gallery,
			IsPublished:     req.IsPublished,
			SortOrder:       req.SortOrder,
			MetaDescription: req.MetaDescription,
			MetaKeywords:    req.MetaKeywords,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "announcementID")); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func togglePublicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		a, err := svc.TogglePublication(r.Context(), chi.URLParam(r, "announcementID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

type sortOrderRequest struct {
	Updates []struct {
		ID        string `json:"id"`
		SortOrder int    `json:"sort_order"`
	} `json:"updates"`
}

func sortOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req sortOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updates := make([]SortOrderUpdate, 0, len(req.Updates))
		for _, u := range req.Updates {
			updates = append(updates, SortOrderUpdate{ID: u.ID, SortOrder: u.SortOrder})
		}

		items, err := svc.UpdateSortOrder(r.Context(), updates)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func getByIDHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "announcementID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func getBySlugHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func listPublishedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPublished(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func latestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		items, err := svc.Latest(r.Context(), limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func toResponse(a Announcement) announcementResponse {
	res := announcementResponse{
		ID:              a.ID,
		Title:           a.Title,
		Content:         a.Content,
		FeaturedImage:   a.FeaturedImage,
		Gallery:         a.Gallery,
		IsPublished:     a.IsPublished,
		SortOrder:       a.SortOrder,
		Slug:            a.Slug,
		MetaDescription: a.MetaDescription,
		MetaKeywords:    a.MetaKeywords,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if !a.PublishedAt.IsZero() {
		t := a.PublishedAt
		res.PublishedAt = &t
	}
	return res
}

func toResponses(items []Announcement) []announcementResponse {
	out := make([]announcementResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toResponse(a))
	}
	return out
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.AdminID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "announcement not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON duplicado a propósito entre módulos, igual que en cats.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
