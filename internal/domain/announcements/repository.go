package announcements

import "context"

type Repository interface {
	Create(ctx context.Context, a Announcement) error
	Update(ctx context.Context, a Announcement) error
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (Announcement, error)
	GetBySlug(ctx context.Context, slug string) (Announcement, error)

	// List devuelve todo, ordenado por sort_order asc (panel admin).
	List(ctx context.Context) ([]Announcement, error)
	// ListPublished ordena por published_at desc (sitio público).
	ListPublished(ctx context.Context) ([]Announcement, error)
}
