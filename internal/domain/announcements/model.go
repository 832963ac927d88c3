package announcements

import "time"

// Announcement es una noticia simple para la portada del sitio.
type Announcement struct {
	ID string

	Title   string
	Content string

	FeaturedImage string
	Gallery       []string

	IsPublished bool
	// PublishedAt queda en cero hasta la primera publicación y se conserva
	// aunque la noticia se despublique.
	PublishedAt time.Time

	SortOrder int

	// Slug para URLs amigables, generado desde el título y único.
	Slug            string
	MetaDescription string
	MetaKeywords    string

	CreatedAt time.Time
	UpdatedAt time.Time
}
