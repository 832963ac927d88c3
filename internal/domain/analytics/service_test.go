package analytics

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	visits    []PageVisit
	synthetic map[string]SyntheticVisit
}

func newTestRepo() *testRepo {
	return &testRepo{synthetic: map[string]SyntheticVisit{}}
}

func (r *testRepo) CreateVisit(ctx context.Context, v PageVisit) error {
	r.visits = append(r.visits, v)
	return nil
}

func (r *testRepo) ListVisits(ctx context.Context) ([]PageVisit, error) {
	return append([]PageVisit(nil), r.visits...), nil
}

func (r *testRepo) ListVisitsSince(ctx context.Context, since time.Time) ([]PageVisit, error) {
	out := make([]PageVisit, 0)
	for _, v := range r.visits {
		if !v.Timestamp.Before(since) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *testRepo) ListVisitsByPath(ctx context.Context, path string) ([]PageVisit, error) {
	out := make([]PageVisit, 0)
	for _, v := range r.visits {
		if v.Path == path {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *testRepo) CreateSynthetic(ctx context.Context, sv SyntheticVisit) error {
	if _, ok := r.synthetic[sv.Date]; ok {
		return errors.New("repo: date already exists")
	}
	r.synthetic[sv.Date] = sv
	return nil
}

func (r *testRepo) GetSyntheticByDate(ctx context.Context, date string) (SyntheticVisit, error) {
	sv, ok := r.synthetic[date]
	if !ok {
		return SyntheticVisit{}, ErrNotFound
	}
	return sv, nil
}

func (r *testRepo) ListSynthetic(ctx context.Context) ([]SyntheticVisit, error) {
	out := make([]SyntheticVisit, 0, len(r.synthetic))
	for _, sv := range r.synthetic {
		out = append(out, sv)
	}
	return out, nil
}

// fixedNow deja los tests anclados a un mediodía local conocido.
var fixedNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.Local)

func newTestService(repo *testRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func seedVisit(t *testing.T, repo *testRepo, sessionID, path string, ts time.Time) {
	t.Helper()
	err := repo.CreateVisit(context.Background(), PageVisit{
		ID:         "v-" + sessionID + "-" + ts.Format("150405"),
		Path:       path,
		SessionID:  sessionID,
		Timestamp:  ts,
		DeviceType: DeviceDesktop,
	})
	if err != nil {
		t.Fatalf("seed visit: %v", err)
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_TrackVisit_ServerTimestampAndDeviceFallback(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	v, err := svc.TrackVisit(context.Background(), TrackInput{
		Path:       "/cats",
		SessionID:  "sess-1",
		DeviceType: DeviceType("fridge"),
	})
	if err != nil {
		t.Fatalf("TrackVisit returned error: %v", err)
	}
	if v.Timestamp != fixedNow {
		t.Fatalf("expected server timestamp, got %v", v.Timestamp)
	}
	if v.DeviceType != DeviceUnknown {
		t.Fatalf("expected unknown device for bad input, got %s", v.DeviceType)
	}
	if len(repo.visits) != 1 {
		t.Fatalf("expected 1 stored visit, got %d", len(repo.visits))
	}
}

func TestService_TrackVisit_RequiresPathAndSession(t *testing.T) {
	svc := newTestService(newTestRepo())

	if _, err := svc.TrackVisit(context.Background(), TrackInput{SessionID: "s"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without path, got %v", err)
	}
	if _, err := svc.TrackVisit(context.Background(), TrackInput{Path: "/"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without session, got %v", err)
	}
}

func TestService_Summary_CountsDistinctSessions(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	// tres vistas hoy de dos sesiones, una vista de hace 10 días
	seedVisit(t, repo, "sess-a", "/", fixedNow.Add(-2*time.Hour))
	seedVisit(t, repo, "sess-a", "/cats", fixedNow.Add(-1*time.Hour))
	seedVisit(t, repo, "sess-b", "/", fixedNow.Add(-30*time.Minute))
	seedVisit(t, repo, "sess-old", "/", fixedNow.AddDate(0, 0, -10))

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	if sum.Today.Real != 2 {
		t.Fatalf("expected 2 real today, got %d", sum.Today.Real)
	}
	if sum.Last7Days.Real != 2 {
		t.Fatalf("expected 2 real last 7 days, got %d", sum.Last7Days.Real)
	}
	if sum.Last30Days.Real != 3 {
		t.Fatalf("expected 3 real last 30 days, got %d", sum.Last30Days.Real)
	}
	if sum.AllTime.Real != 3 {
		t.Fatalf("expected 3 real all time, got %d", sum.AllTime.Real)
	}
}

func TestService_Summary_AddsSyntheticByWindow(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	today := fixedNow.Format("2006-01-02")
	fiveDaysAgo := fixedNow.AddDate(0, 0, -5).Format("2006-01-02")
	twentyDaysAgo := fixedNow.AddDate(0, 0, -20).Format("2006-01-02")

	for date, count := range map[string]int{today: 25, fiveDaysAgo: 22, twentyDaysAgo: 30} {
		if err := repo.CreateSynthetic(context.Background(), SyntheticVisit{
			ID: "sv-" + date, Date: date, Count: count, CreatedAt: fixedNow,
		}); err != nil {
			t.Fatalf("seed synthetic: %v", err)
		}
	}

	seedVisit(t, repo, "sess-a", "/", fixedNow.Add(-time.Hour))

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	if sum.Today.Synthetic != 25 {
		t.Fatalf("expected 25 synthetic today, got %d", sum.Today.Synthetic)
	}
	if sum.Today.Total != 26 {
		t.Fatalf("expected total 26 today, got %d", sum.Today.Total)
	}
	if sum.Last7Days.Synthetic != 47 {
		t.Fatalf("expected 47 synthetic last 7 days, got %d", sum.Last7Days.Synthetic)
	}
	if sum.Last30Days.Synthetic != 77 {
		t.Fatalf("expected 77 synthetic last 30 days, got %d", sum.Last30Days.Synthetic)
	}
	if sum.AllTime.Synthetic != 77 {
		t.Fatalf("expected 77 synthetic all time, got %d", sum.AllTime.Synthetic)
	}
}

func TestService_DailyStats_OldestFirstWithPageViews(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	// dos vistas hoy (misma sesión), una ayer
	seedVisit(t, repo, "sess-a", "/", fixedNow.Add(-2*time.Hour))
	seedVisit(t, repo, "sess-a", "/cats", fixedNow.Add(-1*time.Hour))
	seedVisit(t, repo, "sess-b", "/", fixedNow.AddDate(0, 0, -1))

	stats, err := svc.DailyStats(context.Background(), 3)
	if err != nil {
		t.Fatalf("DailyStats returned error: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(stats))
	}

	// la más vieja primero, hoy al final
	if stats[2].Date != fixedNow.Format("2006-01-02") {
		t.Fatalf("expected today last, got %s", stats[2].Date)
	}
	if stats[2].Real != 1 || stats[2].PageViews != 2 {
		t.Fatalf("today: expected 1 real / 2 page views, got %+v", stats[2])
	}
	if stats[1].Real != 1 || stats[1].PageViews != 1 {
		t.Fatalf("yesterday: expected 1 real / 1 page view, got %+v", stats[1])
	}
	if stats[0].Real != 0 || stats[0].PageViews != 0 {
		t.Fatalf("two days ago: expected empty row, got %+v", stats[0])
	}
}

func TestService_PageStats_SortedByViews(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	seedVisit(t, repo, "sess-a", "/", fixedNow.Add(-3*time.Hour))
	seedVisit(t, repo, "sess-b", "/", fixedNow.Add(-2*time.Hour))
	seedVisit(t, repo, "sess-a", "/", fixedNow.Add(-1*time.Hour))
	seedVisit(t, repo, "sess-a", "/cats", fixedNow.Add(-30*time.Minute))

	stats, err := svc.PageStats(context.Background(), "")
	if err != nil {
		t.Fatalf("PageStats returned error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(stats))
	}
	if stats[0].Path != "/" || stats[0].Views != 3 || stats[0].UniqueVisitors != 2 {
		t.Fatalf("unexpected top page: %+v", stats[0])
	}
	if stats[1].Path != "/cats" || stats[1].Views != 1 || stats[1].UniqueVisitors != 1 {
		t.Fatalf("unexpected second page: %+v", stats[1])
	}
}

func TestService_DeviceStats_OmitsZeroBuckets(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	seedVisit(t, repo, "sess-a", "/", fixedNow.Add(-2*time.Hour))
	repo.visits[0].DeviceType = DeviceMobile
	seedVisit(t, repo, "sess-b", "/", fixedNow.Add(-1*time.Hour))

	stats, err := svc.DeviceStats(context.Background())
	if err != nil {
		t.Fatalf("DeviceStats returned error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 buckets, got %+v", stats)
	}
	// orden fijo: mobile antes que desktop
	if stats[0].Device != DeviceMobile || stats[0].Count != 1 {
		t.Fatalf("unexpected first bucket: %+v", stats[0])
	}
	if stats[1].Device != DeviceDesktop || stats[1].Count != 1 {
		t.Fatalf("unexpected second bucket: %+v", stats[1])
	}
}

func TestService_CreateDailySynthetic_WithinRange(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	res, err := svc.CreateDailySynthetic(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateDailySynthetic returned error: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Count < 20 || res.Count > 30 {
		t.Fatalf("count out of range [20,30]: %d", res.Count)
	}

	sv, err := repo.GetSyntheticByDate(context.Background(), fixedNow.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("expected stored synthetic for today: %v", err)
	}
	if sv.Count != res.Count {
		t.Fatalf("stored count mismatch: %d vs %d", sv.Count, res.Count)
	}
}

func TestService_CreateDailySynthetic_Idempotent(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)
	svc.randCount = func() int { return 23 }

	res1, err := svc.CreateDailySynthetic(context.Background(), "2026-05-20")
	if err != nil {
		t.Fatalf("CreateDailySynthetic #1 error: %v", err)
	}
	if !res1.Success || res1.Count != 23 {
		t.Fatalf("unexpected first result: %+v", res1)
	}

	res2, err := svc.CreateDailySynthetic(context.Background(), "2026-05-20")
	if err != nil {
		t.Fatalf("CreateDailySynthetic #2 error: %v", err)
	}
	if res2.Success {
		t.Fatalf("expected success=false on repeat, got %+v", res2)
	}
	if res2.Existing == nil || res2.Existing.Count != 23 {
		t.Fatalf("expected existing row echoed back, got %+v", res2.Existing)
	}
	if len(repo.synthetic) != 1 {
		t.Fatalf("expected exactly 1 synthetic row, got %d", len(repo.synthetic))
	}
}

func TestService_CreateDailySynthetic_RejectsBadDate(t *testing.T) {
	svc := newTestService(newTestRepo())

	if _, err := svc.CreateDailySynthetic(context.Background(), "20-05-2026"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad date, got %v", err)
	}
}
