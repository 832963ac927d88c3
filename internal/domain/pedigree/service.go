package pedigree

import (
	"context"
	"errors"
	"strings"
	"time"

	"cattery-site/internal/domain/cats"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// CatGetter es lo único que este módulo necesita del módulo de gatos.
type CatGetter interface {
	GetByID(ctx context.Context, id string) (cats.Cat, error)
}

type Service struct {
	repo Repository
	cats CatGetter
	now  func() time.Time
}

func NewService(repo Repository, catGetter CatGetter) *Service {
	return &Service{
		repo: repo,
		cats: catGetter,
		now:  time.Now,
	}
}

// Connect crea la arista padre→hijo sin validar roles duplicados, ciclos ni
// existencia de los gatos: es una escritura incondicional, el admin arma el
// árbol a mano y el assembler se defiende solo (ver tree.go). La integridad
// referencial la mantiene únicamente el borrado en cascada de gatos.
func (s *Service) Connect(ctx context.Context, parentID, childID string, role Role) (Connection, error) {
	parentID = strings.TrimSpace(parentID)
	childID = strings.TrimSpace(childID)

	if parentID == "" || childID == "" {
		return Connection{}, ErrInvalidInput
	}
	if role != RoleMother && role != RoleFather {
		return Connection{}, ErrInvalidInput
	}

	c := Connection{
		ID:        uuid.NewString(),
		ParentID:  parentID,
		ChildID:   childID,
		Role:      role,
		CreatedAt: s.now(),
	}

	if err := s.repo.CreateConnection(ctx, c); err != nil {
		return Connection{}, err
	}
	return c, nil
}

func (s *Service) Disconnect(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteConnection(ctx, id)
}

func (s *Service) ListByParent(ctx context.Context, catID string) ([]Connection, error) {
	return s.repo.ListByParent(ctx, strings.TrimSpace(catID))
}

func (s *Service) ListByChild(ctx context.Context, catID string) ([]Connection, error) {
	return s.repo.ListByChild(ctx, strings.TrimSpace(catID))
}

type SaveTreeInput struct {
	RootCatID   string
	Name        string
	Description string
	MaxDepth    int
}

// SaveTree arma el árbol del root, lo serializa y lo persiste. Si ya había
// un árbol guardado para ese root, se reemplaza; hasta entonces la foto
// guardada es inmutable.
func (s *Service) SaveTree(ctx context.Context, in SaveTreeInput) (Tree, error) {
	if strings.TrimSpace(in.RootCatID) == "" || strings.TrimSpace(in.Name) == "" {
		return Tree{}, ErrInvalidInput
	}

	node, err := s.BuildAncestorTree(ctx, in.RootCatID, in.MaxDepth)
	if err != nil {
		return Tree{}, err
	}

	data, err := SerializeTree(node)
	if err != nil {
		return Tree{}, err
	}

	now := s.now()
	t := Tree{
		ID:          uuid.NewString(),
		RootCatID:   strings.TrimSpace(in.RootCatID),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		TreeData:    data,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.SaveTree(ctx, t); err != nil {
		return Tree{}, err
	}
	return t, nil
}

func (s *Service) GetTreeByRoot(ctx context.Context, rootCatID string) (Tree, error) {
	rootCatID = strings.TrimSpace(rootCatID)
	if rootCatID == "" {
		return Tree{}, ErrInvalidInput
	}
	return s.repo.GetTreeByRoot(ctx, rootCatID)
}
