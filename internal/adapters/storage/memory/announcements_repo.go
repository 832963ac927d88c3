package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cattery-site/internal/domain/announcements"
)

type announcementsRepo struct {
	s *Store
}

func NewAnnouncementsRepo(s *Store) announcements.Repository {
	return &announcementsRepo{s: s}
}

func (r *announcementsRepo) Create(ctx context.Context, a announcements.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("announcement id required")
	}
	if _, exists := r.s.announcements[a.ID]; exists {
		return errors.New("announcement already exists")
	}
	r.s.announcements[a.ID] = a
	return nil
}

func (r *announcementsRepo) Update(ctx context.Context, a announcements.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.announcements[a.ID]; !exists {
		return announcements.ErrNotFound
	}
	r.s.announcements[a.ID] = a
	return nil
}

func (r *announcementsRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.announcements[id]; !exists {
		return announcements.ErrNotFound
	}
	delete(r.s.announcements, id)
	return nil
}

func (r *announcementsRepo) GetByID(ctx context.Context, id string) (announcements.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.announcements[id]
	if !ok {
		return announcements.Announcement{}, announcements.ErrNotFound
	}
	return a, nil
}

func (r *announcementsRepo) GetBySlug(ctx context.Context, slug string) (announcements.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.announcements {
		if a.Slug == slug {
			return a, nil
		}
	}
	return announcements.Announcement{}, announcements.ErrNotFound
}

func (r *announcementsRepo) List(ctx context.Context) ([]announcements.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]announcements.Announcement, 0, len(r.s.announcements))
	for _, a := range r.s.announcements {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *announcementsRepo) ListPublished(ctx context.Context) ([]announcements.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]announcements.Announcement, 0)
	for _, a := range r.s.announcements {
		if a.IsPublished {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out, nil
}
