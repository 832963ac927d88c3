package pedigree

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"cattery-site/internal/domain/cats"
)

const (
	// DefaultTreeDepth son las generaciones que se arman si el caller no
	// pide una profundidad explícita.
	DefaultTreeDepth = 4
	// MaxTreeDepth acota cualquier pedido del caller.
	MaxTreeDepth = 10
)

// BuildAncestorTree arma el árbol de ancestros del gato root hasta maxDepth
// generaciones. Para cada gato se buscan sus aristas como hijo, se reparten
// por rol en los slots madre/padre y se recursa sobre cada progenitor.
//
// Decisiones del recorrido:
//   - Si un hijo tiene dos aristas con el mismo rol, gana la primera por
//     orden de inserción (determinístico, los repos listan en ese orden).
//   - Un ciclo en el grafo (gato ancestro de sí mismo) corta esa rama, no
//     el recorrido entero: se lleva un visited-set por camino.
//   - Una arista colgante (el progenitor ya no existe) también corta solo
//     esa rama.
func (s *Service) BuildAncestorTree(ctx context.Context, rootCatID string, maxDepth int) (*TreeNode, error) {
	rootCatID = strings.TrimSpace(rootCatID)
	if rootCatID == "" {
		return nil, ErrInvalidInput
	}

	if maxDepth <= 0 {
		maxDepth = DefaultTreeDepth
	}
	if maxDepth > MaxTreeDepth {
		maxDepth = MaxTreeDepth
	}

	root, err := s.cats.GetByID(ctx, rootCatID)
	if err != nil {
		return nil, err
	}

	visited := map[string]bool{rootCatID: true}
	return s.buildNode(ctx, rootCatID, maxDepth, visited, root)
}

func (s *Service) buildNode(ctx context.Context, catID string, depth int, visited map[string]bool, cat cats.Cat) (*TreeNode, error) {
	node := &TreeNode{Cat: newTreeCat(cat)}
	if depth == 0 {
		return node, nil
	}

	edges, err := s.repo.ListByChild(ctx, catID)
	if err != nil {
		return nil, err
	}

	for _, e := range edges {
		var slot **TreeNode
		switch e.Role {
		case RoleMother:
			slot = &node.Mother
		case RoleFather:
			slot = &node.Father
		default:
			continue
		}
		if *slot != nil {
			// rol duplicado: ya ganó la primera arista
			continue
		}
		if visited[e.ParentID] {
			// ciclo: se corta la rama, el resto del árbol sigue
			continue
		}

		parent, err := s.cats.GetByID(ctx, e.ParentID)
		if err != nil {
			if errors.Is(err, cats.ErrNotFound) {
				// arista colgante, se salta la rama
				continue
			}
			return nil, err
		}

		visited[e.ParentID] = true
		sub, err := s.buildNode(ctx, e.ParentID, depth-1, visited, parent)
		delete(visited, e.ParentID)
		if err != nil {
			return nil, err
		}
		*slot = sub
	}

	return node, nil
}

// SerializeTree serializa el árbol a JSON. El formato es estable: misma
// entrada, mismo string, y deserializar+serializar devuelve lo mismo.
func SerializeTree(t *TreeNode) (string, error) {
	if t == nil {
		return "", ErrInvalidInput
	}
	b, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DeserializeTree(data string) (*TreeNode, error) {
	if strings.TrimSpace(data) == "" {
		return nil, ErrInvalidInput
	}
	var t TreeNode
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, err
	}
	return &t, nil
}
