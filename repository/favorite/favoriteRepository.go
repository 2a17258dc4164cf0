package favrepo

import (
	"context"
	"database/sql"

	"github.com/delak101/librarysystem/model"
)

// FavoriteView is the favorite joined with book display fields.
type FavoriteView struct {
	ID          int64  `json:"id"`
	BookID      int64  `json:"book_id"`
	BookTitle   string `json:"book_title"`
	BookShelf   string `json:"book_shelf"`
	BookImage   string `json:"book_image,omitempty"`
	IsAvailable bool   `json:"is_available"`
}

type Repo interface {
	Add(ctx context.Context, f *model.Favorite) (bool, error)
	Remove(ctx context.Context, userID, bookID int64) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]FavoriteView, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

// Add reports false when the book is already favorited.
func (r *repo) Add(ctx context.Context, f *model.Favorite) (bool, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO favorites (user_id, book_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, book_id) DO NOTHING
		RETURNING id, created_at`,
		f.UserID, f.BookID,
	).Scan(&f.ID, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *repo) Remove(ctx context.Context, userID, bookID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE user_id = $1
		AND book_id = $2`,
		userID, bookID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) ListForUser(ctx context.Context, userID int64) ([]FavoriteView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.book_id, b.name, b.shelf, b.image, b.is_available
		FROM favorites f
		JOIN books b ON b.id = f.book_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FavoriteView{}
	for rows.Next() {
		var v FavoriteView
		if err := rows.Scan(&v.ID, &v.BookID, &v.BookTitle, &v.BookShelf, &v.BookImage, &v.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
