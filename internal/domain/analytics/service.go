package analytics

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	// Rango del refuerzo diario de visitantes, inclusive en ambos extremos.
	syntheticCountMin = 20
	syntheticCountMax = 30

	defaultDailyStatsDays = 30
)

type Service struct {
	repo Repository
	now  func() time.Time

	// randCount se inyecta en tests; por defecto uniforme en [20,30].
	randCount func() int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
		randCount: func() int {
			return syntheticCountMin + rand.Intn(syntheticCountMax-syntheticCountMin+1)
		},
	}
}

type TrackInput struct {
	Path       string
	Referrer   string
	UserAgent  string
	SessionID  string
	DeviceType DeviceType

	Language         string
	ScreenResolution string
}

// TrackVisit registra una vista con timestamp del servidor.
func (s *Service) TrackVisit(ctx context.Context, in TrackInput) (PageVisit, error) {
	if strings.TrimSpace(in.Path) == "" || strings.TrimSpace(in.SessionID) == "" {
		return PageVisit{}, ErrInvalidInput
	}

	device := in.DeviceType
	switch device {
	case DeviceMobile, DeviceTablet, DeviceDesktop, DeviceUnknown:
	default:
		device = DeviceUnknown
	}

	v := PageVisit{
		ID:               uuid.NewString(),
		Path:             strings.TrimSpace(in.Path),
		Referrer:         strings.TrimSpace(in.Referrer),
		UserAgent:        strings.TrimSpace(in.UserAgent),
		SessionID:        strings.TrimSpace(in.SessionID),
		Timestamp:        s.now(),
		DeviceType:       device,
		Language:         strings.TrimSpace(in.Language),
		ScreenResolution: strings.TrimSpace(in.ScreenResolution),
	}

	if err := s.repo.CreateVisit(ctx, v); err != nil {
		return PageVisit{}, err
	}
	return v, nil
}

// startOfDay devuelve la medianoche local de hace daysAgo días.
func (s *Service) startOfDay(daysAgo int) time.Time {
	now := s.now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -daysAgo)
}

// dateString devuelve YYYY-MM-DD de hace daysAgo días (día local del server,
// el mismo criterio que usan las ventanas).
func (s *Service) dateString(daysAgo int) string {
	return s.startOfDay(daysAgo).Format("2006-01-02")
}

func countUniqueSessions(visits []PageVisit) int {
	seen := make(map[string]struct{}, len(visits))
	for _, v := range visits {
		seen[v.SessionID] = struct{}{}
	}
	return len(seen)
}

// Summary arma las cuatro ventanas (hoy, 7 días, 30 días, histórico), cada
// una calculada de forma independiente sobre las mismas tablas planas.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	allVisits, err := s.repo.ListVisits(ctx)
	if err != nil {
		return Summary{}, err
	}
	allSynthetic, err := s.repo.ListSynthetic(ctx)
	if err != nil {
		return Summary{}, err
	}

	syntheticByDate := make(map[string]int, len(allSynthetic))
	allTimeSynthetic := 0
	for _, sv := range allSynthetic {
		syntheticByDate[sv.Date] = sv.Count
		allTimeSynthetic += sv.Count
	}

	windowStats := func(days int) WindowStats {
		start := s.startOfDay(days - 1)
		inWindow := make([]PageVisit, 0)
		for _, v := range allVisits {
			if !v.Timestamp.Before(start) {
				inWindow = append(inWindow, v)
			}
		}

		synthetic := 0
		for i := 0; i < days; i++ {
			synthetic += syntheticByDate[s.dateString(i)]
		}

		real := countUniqueSessions(inWindow)
		return WindowStats{Real: real, Synthetic: synthetic, Total: real + synthetic}
	}

	allReal := countUniqueSessions(allVisits)

	return Summary{
		Today:      windowStats(1),
		Last7Days:  windowStats(7),
		Last30Days: windowStats(30),
		AllTime: WindowStats{
			Real:      allReal,
			Synthetic: allTimeSynthetic,
			Total:     allReal + allTimeSynthetic,
		},
	}, nil
}

// DailyStats devuelve una fila por día de los últimos N días, la más vieja
// primero.
func (s *Service) DailyStats(ctx context.Context, days int) ([]DailyStat, error) {
	if days <= 0 {
		days = defaultDailyStatsDays
	}

	visits, err := s.repo.ListVisitsSince(ctx, s.startOfDay(days-1))
	if err != nil {
		return nil, err
	}
	allSynthetic, err := s.repo.ListSynthetic(ctx)
	if err != nil {
		return nil, err
	}

	syntheticByDate := make(map[string]int, len(allSynthetic))
	for _, sv := range allSynthetic {
		syntheticByDate[sv.Date] = sv.Count
	}

	out := make([]DailyStat, 0, days)
	for i := days - 1; i >= 0; i-- {
		dayStart := s.startOfDay(i)
		dayEnd := s.startOfDay(i - 1)

		dayVisits := make([]PageVisit, 0)
		for _, v := range visits {
			if !v.Timestamp.Before(dayStart) && v.Timestamp.Before(dayEnd) {
				dayVisits = append(dayVisits, v)
			}
		}

		real := countUniqueSessions(dayVisits)
		synthetic := syntheticByDate[s.dateString(i)]

		out = append(out, DailyStat{
			Date:      s.dateString(i),
			Real:      real,
			Synthetic: synthetic,
			Total:     real + synthetic,
			PageViews: len(dayVisits),
		})
	}

	return out, nil
}

// PageStats agrupa vistas por path; con path se limita a esa página.
// Ordenado por vistas descendente.
func (s *Service) PageStats(ctx context.Context, path string) ([]PageStat, error) {
	var (
		visits []PageVisit
		err    error
	)
	path = strings.TrimSpace(path)
	if path != "" {
		visits, err = s.repo.ListVisitsByPath(ctx, path)
	} else {
		visits, err = s.repo.ListVisits(ctx)
	}
	if err != nil {
		return nil, err
	}

	type agg struct {
		views    int
		sessions map[string]struct{}
	}
	byPath := make(map[string]*agg)
	for _, v := range visits {
		a, ok := byPath[v.Path]
		if !ok {
			a = &agg{sessions: make(map[string]struct{})}
			byPath[v.Path] = a
		}
		a.views++
		a.sessions[v.SessionID] = struct{}{}
	}

	out := make([]PageStat, 0, len(byPath))
	for p, a := range byPath {
		out = append(out, PageStat{Path: p, Views: a.views, UniqueVisitors: len(a.sessions)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].Path < out[j].Path
	})

	return out, nil
}

// DeviceStats cuenta vistas por tipo de dispositivo. Los buckets en cero
// se omiten de la salida.
func (s *Service) DeviceStats(ctx context.Context) ([]DeviceStat, error) {
	visits, err := s.repo.ListVisits(ctx)
	if err != nil {
		return nil, err
	}

	counts := map[DeviceType]int{}
	for _, v := range visits {
		counts[v.DeviceType]++
	}

	out := make([]DeviceStat, 0, 4)
	for _, d := range []DeviceType{DeviceMobile, DeviceTablet, DeviceDesktop, DeviceUnknown} {
		if counts[d] > 0 {
			out = append(out, DeviceStat{Device: d, Count: counts[d]})
		}
	}
	return out, nil
}

// CreateDailySynthetic crea el refuerzo del día de forma idempotente: si ya
// existe fila para la fecha devuelve Success=false sin tocar nada. La invoca
// el runner diario; acá no se agenda nada.
func (s *Service) CreateDailySynthetic(ctx context.Context, date string) (SyntheticResult, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = s.dateString(0)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return SyntheticResult{}, ErrInvalidInput
	}

	existing, err := s.repo.GetSyntheticByDate(ctx, date)
	if err == nil {
		return SyntheticResult{
			Success:  false,
			Message:  "synthetic visits already exist for this date",
			Existing: &existing,
		}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return SyntheticResult{}, err
	}

	sv := SyntheticVisit{
		ID:        uuid.NewString(),
		Date:      date,
		Count:     s.randCount(),
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateSynthetic(ctx, sv); err != nil {
		return SyntheticResult{}, err
	}

	return SyntheticResult{Success: true, Count: sv.Count}, nil
}

func (s *Service) ListSynthetic(ctx context.Context) ([]SyntheticVisit, error) {
	return s.repo.ListSynthetic(ctx)
}
