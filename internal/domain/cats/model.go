package cats

import "time"

// Gender define el sexo del gato.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Category agrupa gatos para los filtros de la galería pública.
// Es independiente de la edad calculada a partir de birth_date.
type Category string

const (
	CategoryKitten Category = "kitten"
	CategoryAdult  Category = "adult"
	CategoryAll    Category = "all"
)

// Cat representa un gato del criadero.
type Cat struct {
	ID string

	Name        string
	Subtitle    string
	Image       string
	Description string

	Age    string // texto libre ("2 años", "8 meses")
	Color  string
	Status string // texto libre ("disponible", "reservado", etc)

	Gallery []string

	Gender    Gender
	BirthDate string // YYYY-MM-DD

	RegistrationNumber string

	// IsDisplayed controla si el gato aparece en el sitio público.
	IsDisplayed bool

	FreeText      string
	InternalNotes string // notas internas, nunca se muestran en el sitio público

	Category Category // opcional; "" = sin categoría asignada

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Statistics resume los totales del criadero para el dashboard admin.
type Statistics struct {
	Total      int
	Displayed  int
	Hidden     int
	Males      int
	Females    int
	AverageAge float64 // promedio sobre gatos visibles, 2 decimales
}
