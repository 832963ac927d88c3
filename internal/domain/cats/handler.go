package cats

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
	r.Route("/cats", func(cr chi.Router) {
		// lecturas públicas (el sitio consume estos endpoints)
		cr.Get("/", listCatsHandler(svc))
		cr.Get("/displayed", listDisplayedCatsHandler(svc))
		cr.Get("/search", searchCatsHandler(svc))
		cr.Get("/stats", catStatisticsHandler(svc))
		cr.Get("/recent", recentCatsHandler(svc))
		cr.Get("/{catID}", getCatHandler(svc))

		// mutaciones solo admin
		cr.Post("/", createCatHandler(svc))
		cr.Patch("/{catID}", updateCatHandler(svc))
		cr.Delete("/{catID}", deleteCatHandler(svc))
		cr.Post("/{catID}/toggle-display", toggleCatDisplayHandler(svc))
		cr.Post("/bulk/display", bulkUpdateDisplayHandler(svc))
		cr.Post("/bulk/category", bulkUpdateCategoryHandler(svc))
	})
}

type catRequest struct {
	Name        string   `json:"name"`
	Subtitle    string   `json:"subtitle"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Age         string   `json:"age"`
	Color       string   `json:"color"`
	Status      string   `json:"status"`
	Gallery     []string `json:"gallery"`
	Gender      string   `json:"gender"`
	BirthDate   string   `json:"birth_date"`

	RegistrationNumber string `json:"registration_number"`
	IsDisplayed        *bool  `json:"is_displayed"` // opcional: ausente = true
	FreeText           string `json:"free_text"`
	InternalNotes      string `json:"internal_notes"`
	Category           string `json:"category"`
}

type updateCatRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name        *string   `json:"name"`
	Subtitle    *string   `json:"subtitle"`
	Image       *string   `json:"image"`
	Description *string   `json:"description"`
	Age         *string   `json:"age"`
	Color       *string   `json:"color"`
	Status      *string   `json:"status"`
	Gallery     *[]string `json:"gallery"`
	Gender      *string   `json:"gender"`
	BirthDate   *string   `json:"birth_date"`

	RegistrationNumber *string `json:"registration_number"`
	IsDisplayed        *bool   `json:"is_displayed"`
	FreeText           *string `json:"free_text"`
	InternalNotes      *string `json:"internal_notes"`
	Category           *string `json:"category"`
}

type catResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Subtitle    string   `json:"subtitle"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Age         string   `json:"age"`
	Color       string   `json:"color"`
	Status      string   `json:"status"`
	Gallery     []string `json:"gallery"`
	Gender      string   `json:"gender"`
	BirthDate   string   `json:"birth_date"`

	RegistrationNumber string `json:"registration_number,omitempty"`
	IsDisplayed        bool   `json:"is_displayed"`
	FreeText           string `json:"free_text,omitempty"`
	InternalNotes      string `json:"internal_notes,omitempty"`
	Category           string `json:"category,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type statisticsResponse struct {
	Total      int     `json:"total"`
	Displayed  int     `json:"displayed"`
	Hidden     int     `json:"hidden"`
	Males      int     `json:"males"`
	Females    int     `json:"females"`
	AverageAge float64 `json:"average_age"`
}

func createCatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req catRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			Name:               req.Name,
			Subtitle:           req.Subtitle,
			Image:              req.Image,
			Description:        req.Description,
			Age:                req.Age,
			Color:              req.Color,
			Status:             req.Status,
			Gallery:            req.Gallery,
			Gender:             Gender(req.Gender),
			BirthDate:          req.BirthDate,
			RegistrationNumber: req.RegistrationNumber,
			IsDisplayed:        req.IsDisplayed,
			FreeText:           req.FreeText,
			InternalNotes:      req.InternalNotes,
			Category:           Category(req.Category),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toCatResponse(c))
	}
}

func updateCatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req updateCatRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:               req.Name,
			Subtitle:           req.Subtitle,
			Image:              req.Image,
			Description:        req.Description,
			Age:                req.Age,
			Color:              req.Color,
			Status:             req.Status,
			Gallery:            req.Gallery,
			BirthDate:          req.BirthDate,
			RegistrationNumber: req.RegistrationNumber,
			IsDisplayed:        req.IsDisplayed,
			FreeText:           req.FreeText,
			InternalNotes:      req.InternalNotes,
		}
		if req.Gender != nil {
			g := Gender(*req.Gender)
			in.Gender = &g
		}
		if req.Category != nil {
			cat := Category(*req.Category)
			in.Category = &cat
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "catID"), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCatResponse(c))
	}
}

func getCatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "catID"))
		if err != nil {
			http.Error(w, "cat not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toCatResponse(c))
	}
}

func listCatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toCatResponses(items))
	}
}

func listDisplayedCatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListDisplayed(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toCatResponses(items))
	}
}

func searchCatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		in := SearchInput{Term: q.Get("term")}

		if v := q.Get("gender"); v != "" {
			g := Gender(v)
			in.Gender = &g
		}
		if v := q.Get("displayed"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "displayed must be true or false", http.StatusBadRequest)
				return
			}
			in.IsDisplayed = &b
		}
		if v := q.Get("category"); v != "" {
			cat := Category(v)
			in.Category = &cat
		}
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			in.Limit = n
		}

		items, err := svc.Search(r.Context(), in)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toCatResponses(items))
	}
}

func recentCatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		items, err := svc.Recent(r.Context(), limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toCatResponses(items))
	}
}

func catStatisticsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Statistics(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, statisticsResponse{
			Total:      st.Total,
			Displayed:  st.Displayed,
			Hidden:     st.Hidden,
			Males:      st.Males,
			Females:    st.Females,
			AverageAge: st.AverageAge,
		})
	}
}

func toggleCatDisplayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		c, err := svc.ToggleDisplay(r.Context(), chi.URLParam(r, "catID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCatResponse(c))
	}
}

func deleteCatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "catID")); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

type bulkDisplayRequest struct {
	CatIDs      []string `json:"cat_ids"`
	IsDisplayed bool     `json:"is_displayed"`
}

func bulkUpdateDisplayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req bulkDisplayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		items, err := svc.BulkUpdateDisplay(r.Context(), req.CatIDs, req.IsDisplayed)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toCatResponses(items))
	}
}

type bulkCategoryRequest struct {
	CatIDs   []string `json:"cat_ids"`
	Category string   `json:"category"`
}

func bulkUpdateCategoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req bulkCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		items, err := svc.BulkUpdateCategory(r.Context(), req.CatIDs, Category(req.Category))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toCatResponses(items))
	}
}

func toCatResponse(c Cat) catResponse {
	return catResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Subtitle:           c.Subtitle,
		Image:              c.Image,
		Description:        c.Description,
		Age:                c.Age,
		Color:              c.Color,
		Status:             c.Status,
		Gallery:            c.Gallery,
		Gender:             string(c.Gender),
		BirthDate:          c.BirthDate,
		RegistrationNumber: c.RegistrationNumber,
		IsDisplayed:        c.IsDisplayed,
		FreeText:           c.FreeText,
		InternalNotes:      c.InternalNotes,
		Category:           string(c.Category),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func toCatResponses(items []Cat) []catResponse {
	out := make([]catResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toCatResponse(c))
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
		http.Error(w, "cat not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado entre handlers de distintos módulos a propósito,
// igual que en el resto de los módulos: todavía no hay suficiente repetición
// como para justificar un paquete de helpers compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
