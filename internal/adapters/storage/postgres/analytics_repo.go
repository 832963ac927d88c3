package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"cattery-site/internal/domain/analytics"
)

type AnalyticsRepo struct {
	db *sql.DB
}

func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

func (r *AnalyticsRepo) CreateVisit(ctx context.Context, v analytics.PageVisit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO page_visits (
			id, path, referrer, user_agent, session_id,
			ts, device_type, language, screen_resolution
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		v.ID,
		v.Path,
		v.Referrer,
		v.UserAgent,
		v.SessionID,
		v.Timestamp,
		string(v.DeviceType),
		v.Language,
		v.ScreenResolution,
	)
	return err
}

func (r *AnalyticsRepo) ListVisits(ctx context.Context) ([]analytics.PageVisit, error) {
	return r.queryVisits(ctx, `
		SELECT id, path, referrer, user_agent, session_id,
		       ts, device_type, language, screen_resolution
		FROM page_visits
		ORDER BY ts ASC
	`)
}

func (r *AnalyticsRepo) ListVisitsSince(ctx context.Context, since time.Time) ([]analytics.PageVisit, error) {
	return r.queryVisits(ctx, `
		SELECT id, path, referrer, user_agent, session_id,
		       ts, device_type, language, screen_resolution
		FROM page_visits
		WHERE ts >= $1
		ORDER BY ts ASC
	`, since)
}

func (r *AnalyticsRepo) ListVisitsByPath(ctx context.Context, path string) ([]analytics.PageVisit, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	return r.queryVisits(ctx, `
		SELECT id, path, referrer, user_agent, session_id,
		       ts, device_type, language, screen_resolution
		FROM page_visits
		WHERE path = $1
		ORDER BY ts ASC
	`, path)
}

func (r *AnalyticsRepo) queryVisits(ctx context.Context, q string, args ...any) ([]analytics.PageVisit, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]analytics.PageVisit, 0)
	for rows.Next() {
		var v analytics.PageVisit
		var device string
		if err := rows.Scan(
			&v.ID,
			&v.Path,
			&v.Referrer,
			&v.UserAgent,
			&v.SessionID,
			&v.Timestamp,
			&device,
			&v.Language,
			&v.ScreenResolution,
		); err != nil {
			return nil, err
		}
		v.DeviceType = analytics.DeviceType(device)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) CreateSynthetic(ctx context.Context, sv analytics.SyntheticVisit) error {
	// date tiene UNIQUE: un insert repetido para la misma fecha falla acá
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO synthetic_visits (id, date, count, created_at)
		VALUES ($1,$2,$3,$4)
	`,
		sv.ID,
		sv.Date,
		sv.Count,
		sv.CreatedAt,
	)
	return err
}

func (r *AnalyticsRepo) GetSyntheticByDate(ctx context.Context, date string) (analytics.SyntheticVisit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date, count, created_at
		FROM synthetic_visits
		WHERE date = $1
	`, date)

	var sv analytics.SyntheticVisit
	if err := row.Scan(&sv.ID, &sv.Date, &sv.Count, &sv.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return analytics.SyntheticVisit{}, analytics.ErrNotFound
		}
		return analytics.SyntheticVisit{}, err
	}
	return sv, nil
}

func (r *AnalyticsRepo) ListSynthetic(ctx context.Context) ([]analytics.SyntheticVisit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, count, created_at
		FROM synthetic_visits
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]analytics.SyntheticVisit, 0)
	for rows.Next() {
		var sv analytics.SyntheticVisit
		if err := rows.Scan(&sv.ID, &sv.Date, &sv.Count, &sv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}
