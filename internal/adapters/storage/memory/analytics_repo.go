package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cattery-site/internal/domain/analytics"
)

type analyticsRepo struct {
	s *Store
}

func NewAnalyticsRepo(s *Store) analytics.Repository {
	return &analyticsRepo{s: s}
}

func (r *analyticsRepo) CreateVisit(ctx context.Context, v analytics.PageVisit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("visit id required")
	}
	r.s.visits = append(r.s.visits, v)
	return nil
}

func (r *analyticsRepo) ListVisits(ctx context.Context) ([]analytics.PageVisit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]analytics.PageVisit, len(r.s.visits))
	copy(out, r.s.visits)
	return out, nil
}

func (r *analyticsRepo) ListVisitsSince(ctx context.Context, since time.Time) ([]analytics.PageVisit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]analytics.PageVisit, 0)
	for _, v := range r.s.visits {
		if !v.Timestamp.Before(since) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *analyticsRepo) ListVisitsByPath(ctx context.Context, path string) ([]analytics.PageVisit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]analytics.PageVisit, 0)
	for _, v := range r.s.visits {
		if v.Path == path {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *analyticsRepo) CreateSynthetic(ctx context.Context, sv analytics.SyntheticVisit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(sv.Date) == "" {
		return errors.New("synthetic visit date required")
	}
	if _, exists := r.s.synthetic[sv.Date]; exists {
		// la fecha es única, como el índice del adapter de Postgres
		return errors.New("synthetic visit already exists for date")
	}
	r.s.synthetic[sv.Date] = sv
	return nil
}

func (r *analyticsRepo) GetSyntheticByDate(ctx context.Context, date string) (analytics.SyntheticVisit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sv, ok := r.s.synthetic[date]
	if !ok {
		return analytics.SyntheticVisit{}, analytics.ErrNotFound
	}
	return sv, nil
}

func (r *analyticsRepo) ListSynthetic(ctx context.Context) ([]analytics.SyntheticVisit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]analytics.SyntheticVisit, 0, len(r.s.synthetic))
	for _, sv := range r.s.synthetic {
		out = append(out, sv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
