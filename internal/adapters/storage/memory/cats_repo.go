package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cattery-site/internal/domain/cats"
)

type catsRepo struct {
	s *Store
}

func NewCatsRepo(s *Store) cats.Repository {
	return &catsRepo{s: s}
}

func (r *catsRepo) Create(ctx context.Context, c cats.Cat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("cat id required")
	}
	if _, exists := r.s.cats[c.ID]; exists {
		return errors.New("cat already exists")
	}
	r.s.cats[c.ID] = c
	return nil
}

func (r *catsRepo) Update(ctx context.Context, c cats.Cat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.cats[c.ID]; !exists {
		return cats.ErrNotFound
	}
	r.s.cats[c.ID] = c
	return nil
}

func (r *catsRepo) GetByID(ctx context.Context, id string) (cats.Cat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.cats[id]
	if !ok {
		return cats.Cat{}, cats.ErrNotFound
	}
	return c, nil
}

func (r *catsRepo) List(ctx context.Context) ([]cats.Cat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.collect(func(cats.Cat) bool { return true }, 0), nil
}

func (r *catsRepo) ListDisplayed(ctx context.Context) ([]cats.Cat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.collect(func(c cats.Cat) bool { return c.IsDisplayed }, 0), nil
}

func (r *catsRepo) Search(ctx context.Context, f cats.SearchFilter) ([]cats.Cat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.collect(func(c cats.Cat) bool {
		if f.Gender != nil && c.Gender != *f.Gender {
			return false
		}
		if f.IsDisplayed != nil && c.IsDisplayed != *f.IsDisplayed {
			return false
		}
		if f.Category != nil && c.Category != *f.Category {
			return false
		}
		return true
	}, f.Limit), nil
}

func (r *catsRepo) Recent(ctx context.Context, limit int) ([]cats.Cat, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := r.collect(func(cats.Cat) bool { return true }, 0)
	// collect ordena created_at asc; para recent damos vuelta
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteCascade hace toda la limpieza bajo un solo write-lock: conexiones
// donde el gato es padre o hijo, árboles con el gato como raíz y la fila
// del gato. Ningún lector puede ver un estado intermedio.
func (r *catsRepo) DeleteCascade(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.cats[id]; !exists {
		return cats.ErrNotFound
	}

	kept := r.s.connOrder[:0]
	for _, connID := range r.s.connOrder {
		c := r.s.connections[connID]
		if c.ParentID == id || c.ChildID == id {
			delete(r.s.connections, connID)
			continue
		}
		kept = append(kept, connID)
	}
	r.s.connOrder = kept

	delete(r.s.trees, id)
	delete(r.s.cats, id)
	return nil
}

// collect filtra y devuelve ordenado por created_at asc (orden estable
// para dev; el adapter de Postgres ordena igual).
func (r *catsRepo) collect(keep func(cats.Cat) bool, limit int) []cats.Cat {
	out := make([]cats.Cat, 0)
	for _, c := range r.s.cats {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
