package borrowsvc

import (
	"context"
	"log/slog"
	"time"
)

// Reminder scans approved borrows for due-soon and overdue loans and pushes a
// notification per record. It never mutates state; returning an overdue book
// still takes an explicit Return.
type Reminder interface {
	Run(ctx context.Context) error
}

type reminder struct {
	borrows  Repo
	notifier Notifier
	log      *slog.Logger

	now func() time.Time
}

func NewReminder(borrows Repo, n Notifier, log *slog.Logger) Reminder {
	return &reminder{borrows: borrows, notifier: n, log: log, now: time.Now}
}

// Run performs one scan. A failed notification is logged and the scan moves
// on; the next scheduled tick is the only retry.
func (r *reminder) Run(ctx context.Context) error {
	today := midnightUTC(r.now())

	// Due in the next 1-2 days.
	from := today.AddDate(0, 0, 1)
	to := today.AddDate(0, 0, 2)
	dueSoon, err := r.borrows.ListDueBetween(ctx, from, to)
	if err != nil {
		return err
	}
	for _, v := range dueSoon {
		if err := r.notifier.NotifyDueSoon(ctx, v.UserID, v.BookTitle, v.DueDate); err != nil {
			r.log.Error("due-soon reminder failed", "borrow_id", v.ID, "user_id", v.UserID, "err", err)
			continue
		}
		r.log.Info("sent due reminder", "borrow_id", v.ID, "user_id", v.UserID, "book", v.BookTitle)
	}

	overdue, err := r.borrows.ListOverdue(ctx, today)
	if err != nil {
		return err
	}
	for _, v := range overdue {
		if err := r.notifier.NotifyOverdue(ctx, v.UserID, v.BookTitle, v.DueDate); err != nil {
			r.log.Error("overdue reminder failed", "borrow_id", v.ID, "user_id", v.UserID, "err", err)
			continue
		}
		r.log.Info("sent overdue notification", "borrow_id", v.ID, "user_id", v.UserID, "book", v.BookTitle)
	}

	return nil
}
