package pedigree

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cattery-site/internal/domain/cats"
	"cattery-site/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pedigree", func(pr chi.Router) {
		// lecturas públicas: la página del gato muestra su árbol
		pr.Get("/connections", listConnectionsHandler(svc))
		pr.Get("/tree/{catID}", buildTreeHandler(svc))
		pr.Get("/trees/{catID}", getSavedTreeHandler(svc))

		// mutaciones solo admin
		pr.Post("/connections", connectHandler(svc))
		pr.Delete("/connections/{connectionID}", disconnectHandler(svc))
		pr.Post("/trees", saveTreeHandler(svc))
	})
}

type connectRequest struct {
	ParentID string `json:"parent_id"`
	ChildID  string `json:"child_id"`
	Role     string `json:"role"`
}

type connectionResponse struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id"`
	ChildID   string    `json:"child_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type saveTreeRequest struct {
	RootCatID   string `json:"root_cat_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxDepth    int    `json:"max_depth"`
}

type treeResponse struct {
	ID          string    `json:"id"`
	RootCatID   string    `json:"root_cat_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TreeData    string    `json:"tree_data"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func connectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req connectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Connect(r.Context(), req.ParentID, req.ChildID, Role(req.Role))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toConnectionResponse(c))
	}
}

func disconnectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		if err := svc.Disconnect(r.Context(), chi.URLParam(r, "connectionID")); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// listConnectionsHandler espera ?parent=<id> o ?child=<id> (exactamente uno).
func listConnectionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		parent := strings.TrimSpace(q.Get("parent"))
		child := strings.TrimSpace(q.Get("child"))

		if (parent == "") == (child == "") {
			http.Error(w, "exactly one of parent or child is required", http.StatusBadRequest)
			return
		}

		var (
			items []Connection
			err   error
		)
		if parent != "" {
			items, err = svc.ListByParent(r.Context(), parent)
		} else {
			items, err = svc.ListByChild(r.Context(), child)
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]connectionResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toConnectionResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func buildTreeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		depth := 0
		if v := r.URL.Query().Get("depth"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "depth must be a positive integer", http.StatusBadRequest)
				return
			}
			depth = n
		}

		node, err := svc.BuildAncestorTree(r.Context(), chi.URLParam(r, "catID"), depth)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, node)
	}
}

func saveTreeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req saveTreeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.SaveTree(r.Context(), SaveTreeInput{
			RootCatID:   req.RootCatID,
			Name:        req.Name,
			Description: req.Description,
			MaxDepth:    req.MaxDepth,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toTreeResponse(t))
	}
}

func getSavedTreeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetTreeByRoot(r.Context(), chi.URLParam(r, "catID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTreeResponse(t))
	}
}

func toConnectionResponse(c Connection) connectionResponse {
	return connectionResponse{
		ID:        c.ID,
		ParentID:  c.ParentID,
		ChildID:   c.ChildID,
		Role:      string(c.Role),
		CreatedAt: c.CreatedAt,
	}
}

func toTreeResponse(t Tree) treeResponse {
	return treeResponse{
		ID:          t.ID,
		RootCatID:   t.RootCatID,
		Name:        t.Name,
		Description: t.Description,
		TreeData:    t.TreeData,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
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

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, cats.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
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
