package pedigree

import (
	"time"

	"cattery-site/internal/domain/cats"
)

// Role define el lado del vínculo padre→hijo.
// @Enum mother, father
type Role string

const (
	RoleMother Role = "mother"
	RoleFather Role = "father"
)

// Connection es una arista dirigida padre→hijo. Por convención un hijo
// debería tener como mucho una arista "mother" y una "father", pero el
// storage no lo impone: el assembler resuelve los duplicados (ver tree.go).
type Connection struct {
	ID       string
	ParentID string
	ChildID  string
	Role     Role

	CreatedAt time.Time
}

// Tree es una foto guardada de un árbol de ancestros, serializada para
// no tener que recalcularla en cada render del canvas.
type Tree struct {
	ID          string
	RootCatID   string
	Name        string
	Description string
	TreeData    string // JSON del árbol (ver SerializeTree)

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TreeNode es un nodo del árbol de ancestros: el gato más sus dos
// subárboles opcionales (madre y padre).
type TreeNode struct {
	Cat    TreeCat   `json:"cat"`
	Mother *TreeNode `json:"mother,omitempty"`
	Father *TreeNode `json:"father,omitempty"`
}

// TreeCat es la proyección del gato que viaja y se persiste dentro del
// árbol, con los mismos nombres snake_case que el resto de la API.
type TreeCat struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description,omitempty"`
	Age         string   `json:"age,omitempty"`
	Color       string   `json:"color,omitempty"`
	Status      string   `json:"status,omitempty"`
	Gallery     []string `json:"gallery,omitempty"`
	Gender      string   `json:"gender"`
	BirthDate   string   `json:"birth_date,omitempty"`

	RegistrationNumber string `json:"registration_number,omitempty"`
	Category           string `json:"category,omitempty"`
}

func newTreeCat(c cats.Cat) TreeCat {
	return TreeCat{
		ID:                 c.ID,
		Name:               c.Name,
		Subtitle:           c.Subtitle,
		Image:              c.Image,
		Description:        c.Description,
		Age:                c.Age,
		Color:              c.Color,
		Status:             c.Status,
		Gallery:            c.Gallery,
		Gender:             string(c.Gender),
		BirthDate:          c.BirthDate,
		RegistrationNumber: c.RegistrationNumber,
		Category:           string(c.Category),
	}
}
