package postgres

import (
	"context"
	"database/sql"
	"strings"

	"cattery-site/internal/domain/pedigree"
)

type PedigreeRepo struct {
	db *sql.DB
}

func NewPedigreeRepo(db *sql.DB) *PedigreeRepo {
	return &PedigreeRepo{db: db}
}

func (r *PedigreeRepo) CreateConnection(ctx context.Context, c pedigree.Connection) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pedigree_connections (id, parent_id, child_id, role, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		c.ID,
		c.ParentID,
		c.ChildID,
		string(c.Role),
		c.CreatedAt,
	)
	return err
}

func (r *PedigreeRepo) DeleteConnection(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM pedigree_connections WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pedigree.ErrNotFound
	}
	return nil
}

func (r *PedigreeRepo) ListByParent(ctx context.Context, catID string) ([]pedigree.Connection, error) {
	return r.listWhere(ctx, "parent_id", catID)
}

func (r *PedigreeRepo) ListByChild(ctx context.Context, catID string) ([]pedigree.Connection, error) {
	return r.listWhere(ctx, "child_id", catID)
}

// listWhere ordena por created_at asc para que el slot mother/father del
// assembler se resuelva siempre igual ante aristas duplicadas.
func (r *PedigreeRepo) listWhere(ctx context.Context, column, catID string) ([]pedigree.Connection, error) {
	catID = strings.TrimSpace(catID)
	if catID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, parent_id, child_id, role, created_at
		FROM pedigree_connections
		WHERE `+column+` = $1
		ORDER BY created_at ASC, id ASC
	`, catID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pedigree.Connection, 0)
	for rows.Next() {
		var c pedigree.Connection
		var role string
		if err := rows.Scan(&c.ID, &c.ParentID, &c.ChildID, &role, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Role = pedigree.Role(role)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PedigreeRepo) SaveTree(ctx context.Context, t pedigree.Tree) error {
	// un árbol por root: el upsert reemplaza la foto anterior
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pedigree_trees (id, root_cat_id, name, description, tree_data, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (root_cat_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			tree_data = EXCLUDED.tree_data,
			updated_at = EXCLUDED.updated_at
	`,
		t.ID,
		t.RootCatID,
		t.Name,
		t.Description,
		t.TreeData,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *PedigreeRepo) GetTreeByRoot(ctx context.Context, rootCatID string) (pedigree.Tree, error) {
	rootCatID = strings.TrimSpace(rootCatID)
	if rootCatID == "" {
		return pedigree.Tree{}, pedigree.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, root_cat_id, name, description, tree_data, created_at, updated_at
		FROM pedigree_trees
		WHERE root_cat_id = $1
	`, rootCatID)

	var t pedigree.Tree
	if err := row.Scan(
		&t.ID,
		&t.RootCatID,
		&t.Name,
		&t.Description,
		&t.TreeData,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return pedigree.Tree{}, pedigree.ErrNotFound
		}
		return pedigree.Tree{}, err
	}

	return t, nil
}
