package cats

import "context"

// SearchFilter aplica solo filtros de igualdad. Limit <= 0 = sin tope
// (el service decide cuándo pedir sin tope para filtrar por término).
type SearchFilter struct {
	Gender      *Gender
	IsDisplayed *bool
	Category    *Category
	Limit       int
}

type Repository interface {
	Create(ctx context.Context, c Cat) error
	Update(ctx context.Context, c Cat) error
	GetByID(ctx context.Context, id string) (Cat, error)
	List(ctx context.Context) ([]Cat, error)
	ListDisplayed(ctx context.Context) ([]Cat, error)
	Search(ctx context.Context, f SearchFilter) ([]Cat, error)
	Recent(ctx context.Context, limit int) ([]Cat, error)

	// DeleteCascade borra el gato junto con sus conexiones de pedigree
	// (como padre y como hijo) y los árboles guardados con este gato como
	// raíz, todo dentro de una misma unidad atómica del storage.
	DeleteCascade(ctx context.Context, id string) error
}
