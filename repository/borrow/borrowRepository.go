package borrowrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/delak101/librarysystem/model"
)

// BorrowView is the denormalized row served to dashboards: the borrow joined
// with user and book display fields, no entity graph.
type BorrowView struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	UserName   string     `json:"user_name"`
	BookID     int64      `json:"book_id"`
	BookTitle  string     `json:"book_title"`
	BookShelf  string     `json:"book_shelf"`
	BookImage  string     `json:"book_image,omitempty"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     string     `json:"status"`
}

const viewSelect = `
	SELECT
		br.id          AS id,
		br.user_id     AS user_id,
		u.name         AS user_name,
		br.book_id     AS book_id,
		b.name         AS book_title,
		b.shelf        AS book_shelf,
		b.image        AS book_image,
		br.borrow_date AS borrow_date,
		br.due_date    AS due_date,
		br.return_date AS return_date,
		br.status      AS status
	FROM borrows br
	JOIN users u ON u.id = br.user_id
	JOIN books b ON b.id = br.book_id`

type Repo interface {
	Insert(ctx context.Context, br *model.Borrow) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, borrowID int64) (*model.Borrow, error)
	SetStatus(ctx context.Context, tx *sql.Tx, borrowID int64, status model.BorrowStatus) error
	MarkReturned(ctx context.Context, tx *sql.Tx, borrowID int64, returnedAt time.Time) error

	// HasOpen reports whether the user already has a Pending or Approved
	// borrow for the book.
	HasOpen(ctx context.Context, userID, bookID int64) (bool, error)

	ListPending(ctx context.Context) ([]BorrowView, error)
	ListBorrowed(ctx context.Context) ([]BorrowView, error)
	ListOverdue(ctx context.Context, now time.Time) ([]BorrowView, error)
	ListUserHistory(ctx context.Context, userID int64) ([]BorrowView, error)

	// ListDueBetween feeds the due-soon reminder scan: Approved, unreturned
	// borrows whose due date falls in [from, to].
	ListDueBetween(ctx context.Context, from, to time.Time) ([]BorrowView, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, br *model.Borrow) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO borrows (user_id, book_id, borrow_date, due_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		br.UserID, br.BookID, br.BorrowDate, br.DueDate, br.Status,
	).Scan(&br.ID)
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, borrowID int64) (*model.Borrow, error) {
	const q = `
		SELECT id, user_id, book_id, borrow_date, due_date, return_date, status
		FROM borrows
		WHERE id = $1
		FOR UPDATE`
	br := &model.Borrow{}
	err := tx.QueryRowContext(ctx, q, borrowID).Scan(
		&br.ID, &br.UserID, &br.BookID, &br.BorrowDate, &br.DueDate, &br.ReturnDate, &br.Status)
	if err != nil {
		return nil, err
	}
	return br, nil
}

func (r *repo) SetStatus(ctx context.Context, tx *sql.Tx, borrowID int64, status model.BorrowStatus) error {
	const q = `
		UPDATE borrows
		SET status = $2
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, borrowID, status)
	return err
}

func (r *repo) MarkReturned(ctx context.Context, tx *sql.Tx, borrowID int64, returnedAt time.Time) error {
	const q = `
		UPDATE borrows
		SET status = 'RETURNED',
			return_date = $2
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, borrowID, returnedAt)
	return err
}

func (r *repo) HasOpen(ctx context.Context, userID, bookID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM borrows
			WHERE user_id = $1
			AND book_id = $2
			AND status IN ('PENDING', 'APPROVED'))`,
		userID, bookID).Scan(&ok)
	return ok, err
}

func (r *repo) ListPending(ctx context.Context) ([]BorrowView, error) {
	return r.queryViews(ctx, viewSelect+`
		WHERE br.status = 'PENDING'
		ORDER BY br.borrow_date, br.id`)
}

func (r *repo) ListBorrowed(ctx context.Context) ([]BorrowView, error) {
	return r.queryViews(ctx, viewSelect+`
		WHERE br.status = 'APPROVED'
		ORDER BY br.due_date, br.id`)
}

func (r *repo) ListOverdue(ctx context.Context, now time.Time) ([]BorrowView, error) {
	return r.queryViews(ctx, viewSelect+`
		WHERE br.status = 'APPROVED'
		AND br.due_date < $1
		ORDER BY br.due_date, br.id`, now)
}

func (r *repo) ListUserHistory(ctx context.Context, userID int64) ([]BorrowView, error) {
	return r.queryViews(ctx, viewSelect+`
		WHERE br.user_id = $1
		ORDER BY br.borrow_date DESC, br.id DESC`, userID)
}

func (r *repo) ListDueBetween(ctx context.Context, from, to time.Time) ([]BorrowView, error) {
	return r.queryViews(ctx, viewSelect+`
		WHERE br.status = 'APPROVED'
		AND br.return_date IS NULL
		AND br.due_date >= $1
		AND br.due_date <= $2
		ORDER BY br.due_date, br.id`, from, to)
}

func (r *repo) queryViews(ctx context.Context, q string, args ...any) ([]BorrowView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BorrowView{}
	for rows.Next() {
		var v BorrowView
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.UserName, &v.BookID, &v.BookTitle, &v.BookShelf,
			&v.BookImage, &v.BorrowDate, &v.DueDate, &v.ReturnDate, &v.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
