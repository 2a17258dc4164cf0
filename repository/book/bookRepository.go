package bookrepo

import (
	"context"
	"database/sql"

	"github.com/delak101/librarysystem/model"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ByID(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Exists(ctx context.Context, id int64) (bool, error)

	// Availability is owned by the borrow core. ClaimAvailable is the
	// compare-and-swap used by Approve: it flips is_available to false only
	// if it is currently true, reporting whether a row was claimed.
	ClaimAvailable(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)
	Release(ctx context.Context, tx *sql.Tx, bookID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO books(name, description, shelf, department, assigned_year, image, is_available)
		VALUES ($1,$2,$3,$4,$5,$6,TRUE)
		RETURNING id`,
		b.Name, b.Description, b.Shelf, b.Department, b.AssignedYear, b.Image,
	).Scan(&b.ID)
}

// Update writes the descriptive columns only; is_available is never touched
// by catalog edits.
func (r *repo) Update(ctx context.Context, b *model.Book) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET name = $2,
			description = $3,
			shelf = $4,
			department = $5,
			assigned_year = $6,
			image = $7
		WHERE id = $1`,
		b.ID, b.Name, b.Description, b.Shelf, b.Department, b.AssignedYear, b.Image)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, shelf, department, assigned_year, image, is_available
		FROM books
		WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Name, &b.Description, &b.Shelf, &b.Department, &b.AssignedYear, &b.Image, &b.IsAvailable)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) List(ctx context.Context) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, shelf, department, assigned_year, image, is_available
		FROM books
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Shelf, &b.Department,
			&b.AssignedYear, &b.Image, &b.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

func (r *repo) ClaimAvailable(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
	// Guard: a concurrent approve that committed first leaves zero rows here.
	const q = `
		UPDATE books
		SET is_available = FALSE
		WHERE id = $1
		AND is_available = TRUE`
	res, err := tx.ExecContext(ctx, q, bookID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) Release(ctx context.Context, tx *sql.Tx, bookID int64) error {
	const q = `
		UPDATE books
		SET is_available = TRUE
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, bookID)
	return err
}
