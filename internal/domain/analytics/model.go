package analytics

import "time"

// DeviceType clasifica el dispositivo del visitante.
// @Enum mobile, tablet, desktop, unknown
type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
	DeviceUnknown DeviceType = "unknown"
)

// PageVisit es una vista de página registrada desde el sitio público.
// Append-only: nunca se muta ni se borra en operación normal.
type PageVisit struct {
	ID        string
	Path      string
	Referrer  string
	UserAgent string

	// SessionID lo genera el cliente, sin autenticar; agrupa las vistas
	// de una misma sesión de navegador.
	SessionID string

	Timestamp  time.Time
	DeviceType DeviceType

	Language         string
	ScreenResolution string
}

// SyntheticVisit es el refuerzo de visitantes de un día calendario.
// Como mucho una fila por fecha.
type SyntheticVisit struct {
	ID        string
	Date      string // YYYY-MM-DD
	Count     int    // entre 20 y 30 inclusive
	CreatedAt time.Time
}

// WindowStats combina visitantes reales y sintéticos de una ventana.
// real = sesiones distintas, no filas; nunca se deduplican entre sí.
type WindowStats struct {
	Real      int `json:"real"`
	Synthetic int `json:"synthetic"`
	Total     int `json:"total"`
}

type Summary struct {
	Today      WindowStats `json:"today"`
	Last7Days  WindowStats `json:"last7Days"`
	Last30Days WindowStats `json:"last30Days"`
	AllTime    WindowStats `json:"allTime"`
}

// DailyStat es la fila de un día del gráfico del dashboard.
// PageViews son filas crudas (vistas), no sesiones.
type DailyStat struct {
	Date      string `json:"date"`
	Real      int    `json:"real"`
	Synthetic int    `json:"synthetic"`
	Total     int    `json:"total"`
	PageViews int    `json:"pageViews"`
}

type PageStat struct {
	Path           string `json:"path"`
	Views          int    `json:"views"`
	UniqueVisitors int    `json:"uniqueVisitors"`
}

type DeviceStat struct {
	Device DeviceType `json:"device"`
	Count  int        `json:"count"`
}

// SyntheticResult reporta el alta diaria idempotente: si ya había fila para
// la fecha, Success=false con la fila existente, sin error duro (el
// scheduler no debe quedar como fallido).
type SyntheticResult struct {
	Success  bool            `json:"success"`
	Count    int             `json:"count,omitempty"`
	Message  string          `json:"message,omitempty"`
	Existing *SyntheticVisit `json:"existing,omitempty"`
}
