package memory

import (
	"context"
	"errors"
	"strings"

	"cattery-site/internal/domain/pedigree"
)

type pedigreeRepo struct {
	s *Store
}

func NewPedigreeRepo(s *Store) pedigree.Repository {
	return &pedigreeRepo{s: s}
}

func (r *pedigreeRepo) CreateConnection(ctx context.Context, c pedigree.Connection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("connection id required")
	}
	if _, exists := r.s.connections[c.ID]; exists {
		return errors.New("connection already exists")
	}
	r.s.connections[c.ID] = c
	r.s.connOrder = append(r.s.connOrder, c.ID)
	return nil
}

func (r *pedigreeRepo) DeleteConnection(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.connections[id]; !exists {
		return pedigree.ErrNotFound
	}
	delete(r.s.connections, id)

	for i, connID := range r.s.connOrder {
		if connID == id {
			r.s.connOrder = append(r.s.connOrder[:i], r.s.connOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *pedigreeRepo) ListByParent(ctx context.Context, catID string) ([]pedigree.Connection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.listWhere(func(c pedigree.Connection) bool { return c.ParentID == catID }), nil
}

func (r *pedigreeRepo) ListByChild(ctx context.Context, catID string) ([]pedigree.Connection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.listWhere(func(c pedigree.Connection) bool { return c.ChildID == catID }), nil
}

// listWhere recorre connOrder para devolver siempre orden de inserción.
func (r *pedigreeRepo) listWhere(keep func(pedigree.Connection) bool) []pedigree.Connection {
	out := make([]pedigree.Connection, 0)
	for _, id := range r.s.connOrder {
		if c, ok := r.s.connections[id]; ok && keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (r *pedigreeRepo) SaveTree(ctx context.Context, t pedigree.Tree) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(t.RootCatID) == "" {
		return errors.New("tree root cat id required")
	}
	// un árbol por root: el nuevo pisa al anterior
	r.s.trees[t.RootCatID] = t
	return nil
}

func (r *pedigreeRepo) GetTreeByRoot(ctx context.Context, rootCatID string) (pedigree.Tree, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.trees[rootCatID]
	if !ok {
		return pedigree.Tree{}, pedigree.ErrNotFound
	}
	return t, nil
}
