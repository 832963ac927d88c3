package memory

import (
	"sync"

	"cattery-site/internal/domain/analytics"
	"cattery-site/internal/domain/announcements"
	"cattery-site/internal/domain/cats"
	"cattery-site/internal/domain/pedigree"
)

// Store es el storage in-memory compartido por todos los repos (dev/tests).
// Un único RWMutex cubre todas las tablas: así el borrado en cascada de un
// gato (conexiones + árboles + fila del gato) sale en una sola sección
// crítica, igual que la mutación atómica que da el storage real.
type Store struct {
	mu sync.RWMutex

	cats map[string]cats.Cat

	connections map[string]pedigree.Connection
	connOrder   []string // orden de inserción, para listados estables

	trees map[string]pedigree.Tree // key = root cat id

	visits    []analytics.PageVisit
	synthetic map[string]analytics.SyntheticVisit // key = fecha YYYY-MM-DD

	announcements map[string]announcements.Announcement
}

func NewStore() *Store {
	return &Store{
		cats:          make(map[string]cats.Cat),
		connections:   make(map[string]pedigree.Connection),
		trees:         make(map[string]pedigree.Tree),
		synthetic:     make(map[string]analytics.SyntheticVisit),
		announcements: make(map[string]announcements.Announcement),
	}
}
