package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"cattery-site/internal/domain/cats"
)

type CatsRepo struct {
	db *sql.DB
}

func NewCatsRepo(db *sql.DB) *CatsRepo {
	return &CatsRepo{db: db}
}

const catColumns = `
	id, name, subtitle, image, description,
	age, color, status, gallery,
	gender, birth_date, registration_number,
	is_displayed, free_text, internal_notes, category,
	created_at, updated_at`

func (r *CatsRepo) Create(ctx context.Context, c cats.Cat) error {
	gallery, err := json.Marshal(c.Gallery)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cats (
			id, name, subtitle, image, description,
			age, color, status, gallery,
			gender, birth_date, registration_number,
			is_displayed, free_text, internal_notes, category,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`,
		c.ID,
		c.Name,
		c.Subtitle,
		c.Image,
		c.Description,
		c.Age,
		c.Color,
		c.Status,
		gallery,
		string(c.Gender),
		c.BirthDate,
		c.RegistrationNumber,
		c.IsDisplayed,
		c.FreeText,
		c.InternalNotes,
		string(c.Category),
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *CatsRepo) Update(ctx context.Context, c cats.Cat) error {
	gallery, err := json.Marshal(c.Gallery)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE cats
		SET
			name = $2,
			subtitle = $3,
			image = $4,
			description = $5,
			age = $6,
			color = $7,
			status = $8,
			gallery = $9,
			gender = $10,
			birth_date = $11,
			registration_number = $12,
			is_displayed = $13,
			free_text = $14,
			internal_notes = $15,
			category = $16,
			updated_at = $17
		WHERE id = $1
	`,
		c.ID,
		c.Name,
		c.Subtitle,
		c.Image,
		c.Description,
		c.Age,
		c.Color,
		c.Status,
		gallery,
		string(c.Gender),
		c.BirthDate,
		c.RegistrationNumber,
		c.IsDisplayed,
		c.FreeText,
		c.InternalNotes,
		string(c.Category),
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return cats.ErrNotFound
	}
	return nil
}

func (r *CatsRepo) GetByID(ctx context.Context, id string) (cats.Cat, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cats.Cat{}, cats.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+catColumns+`
		FROM cats
		WHERE id = $1
	`, id)

	c, err := scanCat(row)
	if err == sql.ErrNoRows {
		return cats.Cat{}, cats.ErrNotFound
	}
	return c, err
}

func (r *CatsRepo) List(ctx context.Context) ([]cats.Cat, error) {
	return r.query(ctx, `
		SELECT `+catColumns+`
		FROM cats
		ORDER BY created_at ASC
	`)
}

func (r *CatsRepo) ListDisplayed(ctx context.Context) ([]cats.Cat, error) {
	return r.query(ctx, `
		SELECT `+catColumns+`
		FROM cats
		WHERE is_displayed = TRUE
		ORDER BY created_at ASC
	`)
}

func (r *CatsRepo) Search(ctx context.Context, f cats.SearchFilter) ([]cats.Cat, error) {
	conds := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if f.Gender != nil {
		args = append(args, string(*f.Gender))
		conds = append(conds, fmt.Sprintf("gender = $%d", len(args)))
	}
	if f.IsDisplayed != nil {
		args = append(args, *f.IsDisplayed)
		conds = append(conds, fmt.Sprintf("is_displayed = $%d", len(args)))
	}
	if f.Category != nil {
		args = append(args, string(*f.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}

	q := `SELECT ` + catColumns + ` FROM cats`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at ASC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return r.query(ctx, q, args...)
}

func (r *CatsRepo) Recent(ctx context.Context, limit int) ([]cats.Cat, error) {
	return r.query(ctx, `
		SELECT `+catColumns+`
		FROM cats
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
}

// DeleteCascade borra conexiones, árboles y la fila del gato en una sola
// transacción: o sale todo o no sale nada.
func (r *CatsRepo) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM pedigree_connections
		WHERE parent_id = $1 OR child_id = $1
	`, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM pedigree_trees
		WHERE root_cat_id = $1
	`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM cats WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return cats.ErrNotFound
	}

	return tx.Commit()
}

func (r *CatsRepo) query(ctx context.Context, q string, args ...any) ([]cats.Cat, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]cats.Cat, 0)
	for rows.Next() {
		c, err := scanCat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCat(row rowScanner) (cats.Cat, error) {
	var c cats.Cat
	var gallery []byte
	var gender, category string

	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Subtitle,
		&c.Image,
		&c.Description,
		&c.Age,
		&c.Color,
		&c.Status,
		&gallery,
		&gender,
		&c.BirthDate,
		&c.RegistrationNumber,
		&c.IsDisplayed,
		&c.FreeText,
		&c.InternalNotes,
		&category,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return cats.Cat{}, err
	}

	c.Gender = cats.Gender(gender)
	c.Category = cats.Category(category)

	if len(gallery) > 0 {
		if err := json.Unmarshal(gallery, &c.Gallery); err != nil {
			return cats.Cat{}, err
		}
	}
	if c.Gallery == nil {
		c.Gallery = []string{}
	}

	return c, nil
}
