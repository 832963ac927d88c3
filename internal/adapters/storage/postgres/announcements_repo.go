package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"cattery-site/internal/domain/announcements"
)

type AnnouncementsRepo struct {
	db *sql.DB
}

func NewAnnouncementsRepo(db *sql.DB) *AnnouncementsRepo {
	return &AnnouncementsRepo{db: db}
}

const announcementColumns = `
	id, title, content, featured_image, gallery,
	is_published, published_at, sort_order,
	slug, meta_description, meta_keywords,
	created_at, updated_at
`

func (r *AnnouncementsRepo) Create(ctx context.Context, a announcements.Announcement) error {
	gallery, err := json.Marshal(a.Gallery)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO announcements (`+announcementColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		a.ID,
		a.Title,
		a.Content,
		a.FeaturedImage,
		gallery,
		a.IsPublished,
		nullableTime(a.PublishedAt),
		a.SortOrder,
		a.Slug,
		a.MetaDescription,
		a.MetaKeywords,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AnnouncementsRepo) Update(ctx context.Context, a announcements.Announcement) error {
	gallery, err := json.Marshal(a.Gallery)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE announcements SET
			title = $2,
			content = $3,
			featured_image = $4,
			gallery = $5,
			is_published = $6,
			published_at = $7,
			sort_order = $8,
			slug = $9,
			meta_description = $10,
			meta_keywords = $11,
			updated_at = $12
		WHERE id = $1
	`,
		a.ID,
		a.Title,
		a.Content,
		a.FeaturedImage,
		gallery,
		a.IsPublished,
		nullableTime(a.PublishedAt),
		a.SortOrder,
		a.Slug,
		a.MetaDescription,
		a.MetaKeywords,
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return announcements.ErrNotFound
	}
	return nil
}

func (r *AnnouncementsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return announcements.ErrNotFound
	}
	return nil
}

func (r *AnnouncementsRepo) GetByID(ctx context.Context, id string) (announcements.Announcement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id)
	return scanAnnouncement(row)
}

func (r *AnnouncementsRepo) GetBySlug(ctx context.Context, slug string) (announcements.Announcement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE slug = $1`, slug)
	return scanAnnouncement(row)
}

func (r *AnnouncementsRepo) List(ctx context.Context) ([]announcements.Announcement, error) {
	return r.queryAnnouncements(ctx, `
		SELECT `+announcementColumns+`
		FROM announcements
		ORDER BY sort_order ASC, created_at ASC
	`)
}

func (r *AnnouncementsRepo) ListPublished(ctx context.Context) ([]announcements.Announcement, error) {
	return r.queryAnnouncements(ctx, `
		SELECT `+announcementColumns+`
		FROM announcements
		WHERE is_published
		ORDER BY published_at DESC
	`)
}

func (r *AnnouncementsRepo) queryAnnouncements(ctx context.Context, q string, args ...any) ([]announcements.Announcement, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]announcements.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAnnouncement(row rowScanner) (announcements.Announcement, error) {
	var a announcements.Announcement
	var gallery []byte
	var publishedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&a.FeaturedImage,
		&gallery,
		&a.IsPublished,
		&publishedAt,
		&a.SortOrder,
		&a.Slug,
		&a.MetaDescription,
		&a.MetaKeywords,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return announcements.Announcement{}, announcements.ErrNotFound
		}
		return announcements.Announcement{}, err
	}
	if len(gallery) > 0 {
		if err := json.Unmarshal(gallery, &a.Gallery); err != nil {
			return announcements.Announcement{}, err
		}
	}
	if publishedAt.Valid {
		a.PublishedAt = publishedAt.Time
	}
	return a, nil
}

// nullableTime mapea el cero de time.Time a NULL (published_at hasta la
// primera publicación).
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
