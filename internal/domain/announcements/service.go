package announcements

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("announcement not found")
)

const defaultLatestLimit = 3

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

var (
	slugStripRe  = regexp.MustCompile(`[^\w\s-]`)
	slugSpacesRe = regexp.MustCompile(`\s+`)
	slugDashesRe = regexp.MustCompile(`-+`)
)

// generateSlug normaliza el título a un slug estilo URL: minúsculas, sin
// caracteres especiales, espacios a guiones.
func generateSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpacesRe.ReplaceAllString(s, "-")
	s = slugDashesRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// uniqueSlug agrega sufijos -1, -2, ... hasta que el slug no choque con
// otra noticia (excludeID permite re-slugear la misma fila).
func (s *Service) uniqueSlug(ctx context.Context, title, excludeID string) (string, error) {
	base := generateSlug(title)
	if base == "" {
		base = "noticia"
	}

	slug := base
	for counter := 1; ; counter++ {
		existing, err := s.repo.GetBySlug(ctx, slug)
		if errors.Is(err, ErrNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		if existing.ID == excludeID {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

type CreateInput struct {
	Title   string
	Content string

	FeaturedImage string
	Gallery       []string

	IsPublished bool
	SortOrder   int

	MetaDescription string
	MetaKeywords    string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Announcement, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Announcement{}, ErrInvalidInput
	}

	slug, err := s.uniqueSlug(ctx, in.Title, "")
	if err != nil {
		return Announcement{}, err
	}

	now := s.now()
	a := Announcement{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(in.Title),
		Content:         in.Content,
		FeaturedImage:   strings.TrimSpace(in.FeaturedImage),
		Gallery:         in.Gallery,
		IsPublished:     in.IsPublished,
		SortOrder:       in.SortOrder,
		Slug:            slug,
		MetaDescription: in.MetaDescription,
		MetaKeywords:    in.MetaKeywords,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.IsPublished {
		a.PublishedAt = now
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Announcement{}, err
	}
	return a, nil
}

// UpdateInput es un patch disperso como en cats: nil = no tocar.
type UpdateInput struct {
	Title   *string
	Content *string

	FeaturedImage *string
	Gallery       *[]string

	IsPublished *bool
	SortOrder   *int

	MetaDescription *string
	MetaKeywords    *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Announcement, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Announcement{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Announcement{}, err
	}

	now := s.now()

	if in.Title != nil && strings.TrimSpace(*in.Title) != a.Title {
		if strings.TrimSpace(*in.Title) == "" {
			return Announcement{}, ErrInvalidInput
		}
		a.Title = strings.TrimSpace(*in.Title)
		// el título cambió: se re-slugea manteniendo unicidad
		slug, err := s.uniqueSlug(ctx, a.Title, a.ID)
		if err != nil {
			return Announcement{}, err
		}
		a.Slug = slug
	}
	if in.Content != nil {
		a.Content = *in.Content
	}
	if in.FeaturedImage != nil {
		a.FeaturedImage = strings.TrimSpace(*in.FeaturedImage)
	}
	if in.Gallery != nil {
		a.Gallery = *in.Gallery
	}
	if in.IsPublished != nil {
		a.IsPublished = *in.IsPublished
		// se conserva la primera fecha de publicación
		if a.IsPublished && a.PublishedAt.IsZero() {
			a.PublishedAt = now
		}
	}
	if in.SortOrder != nil {
		a.SortOrder = *in.SortOrder
	}
	if in.MetaDescription != nil {
		a.MetaDescription = *in.MetaDescription
	}
	if in.MetaKeywords != nil {
		a.MetaKeywords = *in.MetaKeywords
	}

	a.UpdatedAt = now

	if err := s.repo.Update(ctx, a); err != nil {
		return Announcement{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) TogglePublication(ctx context.Context, id string) (Announcement, error) {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Announcement{}, err
	}

	now := s.now()
	a.IsPublished = !a.IsPublished
	if a.IsPublished && a.PublishedAt.IsZero() {
		a.PublishedAt = now
	}
	a.UpdatedAt = now

	if err := s.repo.Update(ctx, a); err != nil {
		return Announcement{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Announcement, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

// GetBySlug solo devuelve noticias publicadas (es la ruta pública).
func (s *Service) GetBySlug(ctx context.Context, slug string) (Announcement, error) {
	a, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return Announcement{}, err
	}
	if !a.IsPublished {
		return Announcement{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) List(ctx context.Context) ([]Announcement, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListPublished(ctx context.Context) ([]Announcement, error) {
	return s.repo.ListPublished(ctx)
}

func (s *Service) Latest(ctx context.Context, limit int) ([]Announcement, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	items, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

type SortOrderUpdate struct {
	ID        string
	SortOrder int
}

// UpdateSortOrder aplica el reordenamiento manual del panel admin.
// Tolerante con ids inexistentes, igual que los bulk de cats.
func (s *Service) UpdateSortOrder(ctx context.Context, updates []SortOrderUpdate) ([]Announcement, error) {
	out := make([]Announcement, 0, len(updates))
	for _, u := range updates {
		a, err := s.repo.GetByID(ctx, strings.TrimSpace(u.ID))
		if err != nil {
			continue
		}
		a.SortOrder = u.SortOrder
		a.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
