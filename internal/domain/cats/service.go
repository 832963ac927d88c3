package cats

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("cat not found")
)

// DefaultSearchLimit acota las respuestas de búsqueda cuando el caller
// no pide un límite explícito.
const DefaultSearchLimit = 100

const defaultRecentLimit = 10

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

type CreateInput struct {
	Name        string
	Subtitle    string
	Image       string
	Description string
	Age         string
	Color       string
	Status      string
	Gallery     []string
	Gender      Gender
	BirthDate   string

	RegistrationNumber string
	IsDisplayed        *bool // nil = true por defecto
	FreeText           string
	InternalNotes      string
	Category           Category
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Cat, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Cat{}, ErrInvalidInput
	}
	if in.Gender != GenderMale && in.Gender != GenderFemale {
		return Cat{}, ErrInvalidInput
	}

	displayed := true
	if in.IsDisplayed != nil {
		displayed = *in.IsDisplayed
	}

	gallery := in.Gallery
	if gallery == nil {
		gallery = []string{}
	}

	now := s.now()
	c := Cat{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(in.Name),
		Subtitle:           strings.TrimSpace(in.Subtitle),
		Image:              strings.TrimSpace(in.Image),
		Description:        in.Description,
		Age:                strings.TrimSpace(in.Age),
		Color:              strings.TrimSpace(in.Color),
		Status:             strings.TrimSpace(in.Status),
		Gallery:            gallery,
		Gender:             in.Gender,
		BirthDate:          strings.TrimSpace(in.BirthDate),
		RegistrationNumber: strings.TrimSpace(in.RegistrationNumber),
		IsDisplayed:        displayed,
		FreeText:           in.FreeText,
		InternalNotes:      in.InternalNotes,
		Category:           in.Category,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Cat{}, err
	}
	return c, nil
}

// UpdateInput es un patch disperso: nil = no tocar el campo.
// Nunca se limpia un campo de forma implícita.
type UpdateInput struct {
	Name        *string
	Subtitle    *string
	Image       *string
	Description *string
	Age         *string
	Color       *string
	Status      *string
	Gallery     *[]string
	Gender      *Gender
	BirthDate   *string

	RegistrationNumber *string
	IsDisplayed        *bool
	FreeText           *string
	InternalNotes      *string
	Category           *Category
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Cat, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Cat{}, ErrInvalidInput
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Cat{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Cat{}, ErrInvalidInput
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Subtitle != nil {
		c.Subtitle = strings.TrimSpace(*in.Subtitle)
	}
	if in.Image != nil {
		c.Image = strings.TrimSpace(*in.Image)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Age != nil {
		c.Age = strings.TrimSpace(*in.Age)
	}
	if in.Color != nil {
		c.Color = strings.TrimSpace(*in.Color)
	}
	if in.Status != nil {
		c.Status = strings.TrimSpace(*in.Status)
	}
	if in.Gallery != nil {
		c.Gallery = *in.Gallery
	}
	if in.Gender != nil {
		if *in.Gender != GenderMale && *in.Gender != GenderFemale {
			return Cat{}, ErrInvalidInput
		}
		c.Gender = *in.Gender
	}
	if in.BirthDate != nil {
		c.BirthDate = strings.TrimSpace(*in.BirthDate)
	}
	if in.RegistrationNumber != nil {
		c.RegistrationNumber = strings.TrimSpace(*in.RegistrationNumber)
	}
	if in.IsDisplayed != nil {
		c.IsDisplayed = *in.IsDisplayed
	}
	if in.FreeText != nil {
		c.FreeText = *in.FreeText
	}
	if in.InternalNotes != nil {
		c.InternalNotes = *in.InternalNotes
	}
	if in.Category != nil {
		c.Category = *in.Category
	}

	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return Cat{}, err
	}
	return c, nil
}

// GetByID con id vacío devuelve not found (el front a veces consulta sin id).
func (s *Service) GetByID(ctx context.Context, id string) (Cat, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context) ([]Cat, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListDisplayed(ctx context.Context) ([]Cat, error) {
	return s.repo.ListDisplayed(ctx)
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Cat, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.repo.Recent(ctx, limit)
}

type SearchInput struct {
	Term        string
	Gender      *Gender
	IsDisplayed *bool
	Category    *Category
	Limit       int
}

// Search aplica primero los filtros de igualdad y después el filtro por
// término. Cuando hay término se consulta sin tope y el límite se aplica
// sobre los resultados ya filtrados, para no perder coincidencias que
// caerían fuera de las primeras N filas.
func (s *Service) Search(ctx context.Context, in SearchInput) ([]Cat, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	f := SearchFilter{
		Gender:      in.Gender,
		IsDisplayed: in.IsDisplayed,
		Category:    in.Category,
	}
	// category=all equivale a no filtrar
	if f.Category != nil && *f.Category == CategoryAll {
		f.Category = nil
	}

	term := strings.ToLower(strings.TrimSpace(in.Term))
	if term == "" {
		f.Limit = limit
		return s.repo.Search(ctx, f)
	}

	rows, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]Cat, 0)
	for _, c := range rows {
		if matchesTerm(c, term) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func matchesTerm(c Cat, term string) bool {
	return strings.Contains(strings.ToLower(c.Name), term) ||
		strings.Contains(strings.ToLower(c.Subtitle), term) ||
		strings.Contains(strings.ToLower(c.Color), term) ||
		strings.Contains(strings.ToLower(c.RegistrationNumber), term) ||
		strings.Contains(strings.ToLower(c.Description), term)
}

// ToggleDisplay invierte la visibilidad del gato en el sitio público.
func (s *Service) ToggleDisplay(ctx context.Context, id string) (Cat, error) {
	c, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Cat{}, err
	}

	c.IsDisplayed = !c.IsDisplayed
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return Cat{}, err
	}
	return c, nil
}

// BulkUpdateDisplay tolera ids que ya no existen (se saltan,
// no cortan el lote completo).
func (s *Service) BulkUpdateDisplay(ctx context.Context, ids []string, displayed bool) ([]Cat, error) {
	out := make([]Cat, 0, len(ids))
	for _, id := range ids {
		c, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
		if err != nil {
			continue
		}
		c.IsDisplayed = displayed
		c.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Service) BulkUpdateCategory(ctx context.Context, ids []string, category Category) ([]Cat, error) {
	out := make([]Cat, 0, len(ids))
	for _, id := range ids {
		c, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
		if err != nil {
			continue
		}
		c.Category = category
		c.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Delete borra el gato en cascada: conexiones de pedigree donde participa
// y árboles guardados con este gato como raíz caen junto con la fila.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.DeleteCascade(ctx, id)
}

func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Statistics{}, err
	}

	st := Statistics{Total: len(all)}

	var ageSum float64
	for _, c := range all {
		if c.IsDisplayed {
			st.Displayed++
			// la edad es texto libre ("2 años"); cuenta el número inicial,
			// y sin número la fila suma 0
			ageSum += leadingFloat(c.Age)
		}
		switch c.Gender {
		case GenderMale:
			st.Males++
		case GenderFemale:
			st.Females++
		}
	}
	st.Hidden = st.Total - st.Displayed

	if st.Displayed > 0 {
		st.AverageAge = math.Round(ageSum/float64(st.Displayed)*100) / 100
	}

	return st, nil
}

var leadingNumRe = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)`)

// leadingFloat extrae el número con el que empieza un texto de edad
// ("2 años" => 2, "8.5 meses" => 8.5). Sin número al inicio devuelve 0.
func leadingFloat(s string) float64 {
	m := leadingNumRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return n
}
