package analyticsrepo

import (
	"context"
	"database/sql"
	"time"
)

// Stats is the dashboard counters row.
type Stats struct {
	TotalBooks      int64 `json:"total_books"`
	AvailableBooks  int64 `json:"available_books"`
	BorrowedBooks   int64 `json:"borrowed_books"`
	PendingRequests int64 `json:"pending_requests"`
	OverdueBooks    int64 `json:"overdue_books"`
	TotalUsers      int64 `json:"total_users"`
}

type Repo interface {
	Collect(ctx context.Context, now time.Time) (*Stats, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Collect(ctx context.Context, now time.Time) (*Stats, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM books),
			(SELECT COUNT(*) FROM books WHERE is_available),
			(SELECT COUNT(*) FROM borrows WHERE status = 'APPROVED'),
			(SELECT COUNT(*) FROM borrows WHERE status = 'PENDING'),
			(SELECT COUNT(*) FROM borrows WHERE status = 'APPROVED' AND due_date < $1),
			(SELECT COUNT(*) FROM users)`
	s := &Stats{}
	err := r.db.QueryRowContext(ctx, q, now).Scan(
		&s.TotalBooks, &s.AvailableBooks, &s.BorrowedBooks,
		&s.PendingRequests, &s.OverdueBooks, &s.TotalUsers)
	if err != nil {
		return nil, err
	}
	return s, nil
}
