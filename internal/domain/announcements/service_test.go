package announcements

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Announcement
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Announcement{}}
}

func (r *testRepo) Create(ctx context.Context, a Announcement) error {
	if _, ok := r.byID[a.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(ctx context.Context, a Announcement) error {
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Announcement, error) {
	a, ok := r.byID[id]
	if !ok {
		return Announcement{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) GetBySlug(ctx context.Context, slug string) (Announcement, error) {
	for _, a := range r.byID {
		if a.Slug == slug {
			return a, nil
		}
	}
	return Announcement{}, ErrNotFound
}

func (r *testRepo) List(ctx context.Context) ([]Announcement, error) {
	out := make([]Announcement, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *testRepo) ListPublished(ctx context.Context) ([]Announcement, error) {
	out := make([]Announcement, 0)
	for _, a := range r.byID {
		if a.IsPublished {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestGenerateSlug(t *testing.T) {
	for in, want := range map[string]string{
		"New Kittens Available!": "new-kittens-available",
		"  Litter   B & Spring ": "litter-b-spring",
		"100% British???":        "100-british",
		"---":                    "",
	} {
		if got := generateSlug(in); got != want {
			t.Fatalf("generateSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestService_Create_GeneratesUniqueSlug(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	a1, err := svc.Create(context.Background(), CreateInput{Title: "New Kittens"})
	if err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}
	if a1.Slug != "new-kittens" {
		t.Fatalf("expected slug new-kittens, got %q", a1.Slug)
	}

	a2, err := svc.Create(context.Background(), CreateInput{Title: "New Kittens"})
	if err != nil {
		t.Fatalf("Create #2 error: %v", err)
	}
	if a2.Slug != "new-kittens-1" {
		t.Fatalf("expected suffixed slug new-kittens-1, got %q", a2.Slug)
	}

	a3, err := svc.Create(context.Background(), CreateInput{Title: "New Kittens"})
	if err != nil {
		t.Fatalf("Create #3 error: %v", err)
	}
	if a3.Slug != "new-kittens-2" {
		t.Fatalf("expected suffixed slug new-kittens-2, got %q", a3.Slug)
	}
}

func TestService_Create_PublishedSetsPublishedAt(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, err := svc.Create(context.Background(), CreateInput{Title: "Hello", IsPublished: true})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if a.PublishedAt != now {
		t.Fatalf("expected PublishedAt=now, got %v", a.PublishedAt)
	}

	draft, err := svc.Create(context.Background(), CreateInput{Title: "Draft"})
	if err != nil {
		t.Fatalf("Create draft error: %v", err)
	}
	if !draft.PublishedAt.IsZero() {
		t.Fatalf("expected zero PublishedAt for draft, got %v", draft.PublishedAt)
	}
}

func TestService_Update_TitleChangeReslugs(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	a, err := svc.Create(context.Background(), CreateInput{Title: "Old Title"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	newTitle := "Fresh Title"
	updated, err := svc.Update(context.Background(), a.ID, UpdateInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Slug != "fresh-title" {
		t.Fatalf("expected reslugged, got %q", updated.Slug)
	}

	// mismo título otra vez: no choca consigo mismo
	updated2, err := svc.Update(context.Background(), a.ID, UpdateInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update #2 error: %v", err)
	}
	if updated2.Slug != "fresh-title" {
		t.Fatalf("expected slug stable on same title, got %q", updated2.Slug)
	}
}

func TestService_TogglePublication_PreservesFirstPublishedAt(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	first := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	a, err := svc.Create(context.Background(), CreateInput{Title: "Hello"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// publica
	a, err = svc.TogglePublication(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Toggle #1 error: %v", err)
	}
	if !a.IsPublished || a.PublishedAt != first {
		t.Fatalf("expected published at first toggle, got %+v", a)
	}

	// despublica y vuelve a publicar más tarde: PublishedAt no cambia
	later := first.Add(48 * time.Hour)
	svc.now = func() time.Time { return later }

	a, err = svc.TogglePublication(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Toggle #2 error: %v", err)
	}
	if a.IsPublished {
		t.Fatalf("expected unpublished after second toggle")
	}
	if a.PublishedAt != first {
		t.Fatalf("expected PublishedAt preserved while unpublished, got %v", a.PublishedAt)
	}

	a, err = svc.TogglePublication(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Toggle #3 error: %v", err)
	}
	if !a.IsPublished || a.PublishedAt != first {
		t.Fatalf("expected original PublishedAt kept on republish, got %v", a.PublishedAt)
	}
}

func TestService_GetBySlug_OnlyPublished(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	draft, err := svc.Create(context.Background(), CreateInput{Title: "Secret Draft"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.GetBySlug(context.Background(), draft.Slug); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for draft slug, got %v", err)
	}

	if _, err := svc.TogglePublication(context.Background(), draft.ID); err != nil {
		t.Fatalf("Toggle error: %v", err)
	}
	got, err := svc.GetBySlug(context.Background(), draft.Slug)
	if err != nil {
		t.Fatalf("GetBySlug after publish error: %v", err)
	}
	if got.ID != draft.ID {
		t.Fatalf("expected same announcement, got %s", got.ID)
	}
}

func TestService_Latest_DefaultLimit(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return ts }
		if _, err := svc.Create(context.Background(), CreateInput{
			Title:       "News " + string(rune('A'+i)),
			IsPublished: true,
		}); err != nil {
			t.Fatalf("Create #%d error: %v", i, err)
		}
	}

	out, err := svc.Latest(context.Background(), 0)
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected default 3 latest, got %d", len(out))
	}
	if out[0].Title != "News E" {
		t.Fatalf("expected newest first, got %s", out[0].Title)
	}
}

func TestService_UpdateSortOrder_SkipsMissing(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	a, err := svc.Create(context.Background(), CreateInput{Title: "One"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	out, err := svc.UpdateSortOrder(context.Background(), []SortOrderUpdate{
		{ID: a.ID, SortOrder: 7},
		{ID: "ghost", SortOrder: 1},
	})
	if err != nil {
		t.Fatalf("UpdateSortOrder error: %v", err)
	}
	if len(out) != 1 || out[0].SortOrder != 7 {
		t.Fatalf("expected single update with sort order 7, got %+v", out)
	}
}
