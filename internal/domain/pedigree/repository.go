package pedigree

import "context"

type Repository interface {
	CreateConnection(ctx context.Context, c Connection) error
	DeleteConnection(ctx context.Context, id string) error

	// ListByParent / ListByChild devuelven las aristas en orden de
	// inserción, para que la resolución de roles duplicados sea estable.
	ListByParent(ctx context.Context, catID string) ([]Connection, error)
	ListByChild(ctx context.Context, catID string) ([]Connection, error)

	// SaveTree reemplaza el árbol guardado del mismo root si ya existe.
	SaveTree(ctx context.Context, t Tree) error
	GetTreeByRoot(ctx context.Context, rootCatID string) (Tree, error)
}
