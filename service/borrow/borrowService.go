package borrowsvc

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	borrowrepo "github.com/delak101/librarysystem/repository/borrow"

	"github.com/delak101/librarysystem/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrUserNotFound     ErrCode = "USER_NOT_FOUND"
	ErrBookNotFound     ErrCode = "BOOK_NOT_FOUND"
	ErrBookUnavailable  ErrCode = "BOOK_UNAVAILABLE"
	ErrDuplicateRequest ErrCode = "DUPLICATE_REQUEST"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// BorrowView = repository shape
type BorrowView = borrowrepo.BorrowView

type Repo interface {
	Insert(ctx context.Context, br *model.Borrow) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, borrowID int64) (*model.Borrow, error)
	SetStatus(ctx context.Context, tx *sql.Tx, borrowID int64, status model.BorrowStatus) error
	MarkReturned(ctx context.Context, tx *sql.Tx, borrowID int64, returnedAt time.Time) error
	HasOpen(ctx context.Context, userID, bookID int64) (bool, error)

	ListPending(ctx context.Context) ([]BorrowView, error)
	ListBorrowed(ctx context.Context) ([]BorrowView, error)
	ListOverdue(ctx context.Context, now time.Time) ([]BorrowView, error)
	ListUserHistory(ctx context.Context, userID int64) ([]BorrowView, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]BorrowView, error)
}

type BookRepo interface {
	ByID(ctx context.Context, id int64) (*model.Book, error)
	ClaimAvailable(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)
	Release(ctx context.Context, tx *sql.Tx, bookID int64) error
}

type UserRepo interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

// Notifier is the fan-out side channel. Delivery failures never fail a
// transition; callers log and move on.
type Notifier interface {
	NotifyBorrowApproved(ctx context.Context, userID int64, bookTitle string, due time.Time) error
	NotifyBorrowReturned(ctx context.Context, userID int64, bookTitle string) error
	NotifyDueSoon(ctx context.Context, userID int64, bookTitle string, due time.Time) error
	NotifyOverdue(ctx context.Context, userID int64, bookTitle string, due time.Time) error
}

type Service interface {
	// Request creates a Pending borrow. A Pending request does not reserve
	// the book; availability is only claimed on Approve.
	Request(ctx context.Context, userID, bookID int64) (*BorrowView, error)

	// Approve moves Pending -> Approved and locks the book, atomically.
	// false means the precondition failed (no such borrow, not Pending, or
	// the book is no longer available); error means persistence trouble.
	Approve(ctx context.Context, borrowID int64) (bool, error)

	// Deny moves Pending -> Denied. The book was never locked.
	Deny(ctx context.Context, borrowID int64) (bool, error)

	// Return moves Approved -> Returned, stamps ReturnDate and frees the
	// book, atomically.
	Return(ctx context.Context, borrowID int64) (bool, error)

	Pending(ctx context.Context) ([]BorrowView, error)
	Borrowed(ctx context.Context) ([]BorrowView, error)
	Overdue(ctx context.Context) ([]BorrowView, error)
	UserHistory(ctx context.Context, userID int64) ([]BorrowView, error)
}

type Config struct {
	// AllowDuplicateRequests permits a second open request for the same
	// user+book pair. Default policy rejects it.
	AllowDuplicateRequests bool
}

// ----- Service implementation -----

type service struct {
	db       *sql.DB
	borrows  Repo
	books    BookRepo
	users    UserRepo
	notifier Notifier
	log      *slog.Logger
	cfg      Config

	now func() time.Time
}

func New(db *sql.DB, borrows Repo, books BookRepo, users UserRepo, n Notifier, log *slog.Logger, cfg Config) Service {
	return &service{
		db:       db,
		borrows:  borrows,
		books:    books,
		users:    users,
		notifier: n,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *service) Request(ctx context.Context, userID, bookID int64) (*BorrowView, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		return nil, err
	}

	book, err := s.books.ByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}
	if !book.IsAvailable {
		return nil, makeErr(ErrBookUnavailable)
	}

	if !s.cfg.AllowDuplicateRequests {
		open, err := s.borrows.HasOpen(ctx, userID, bookID)
		if err != nil {
			return nil, err
		}
		if open {
			return nil, makeErr(ErrDuplicateRequest)
		}
	}

	today := midnightUTC(s.now())
	br := &model.Borrow{
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: today,
		DueDate:    today.Add(model.LoanPeriod),
		Status:     model.BorrowPending,
	}
	if err := s.borrows.Insert(ctx, br); err != nil {
		return nil, err
	}

	return &BorrowView{
		ID:         br.ID,
		UserID:     user.ID,
		UserName:   user.Name,
		BookID:     book.ID,
		BookTitle:  book.Name,
		BookShelf:  book.Shelf,
		BookImage:  book.Image,
		BorrowDate: br.BorrowDate,
		DueDate:    br.DueDate,
		Status:     string(br.Status),
	}, nil
}

func (s *service) Approve(ctx context.Context, borrowID int64) (ok bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	br, err := s.borrows.GetForUpdate(ctx, tx, borrowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if br.Status != model.BorrowPending {
		return false, nil
	}

	// First committed approve wins: a book already claimed by a concurrent
	// approve leaves zero rows here and this request stays Pending.
	claimed, err := s.books.ClaimAvailable(ctx, tx, br.BookID)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}

	if err = s.borrows.SetStatus(ctx, tx, borrowID, model.BorrowApproved); err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	committed = true

	s.notifyApproved(ctx, br)
	return true, nil
}

func (s *service) Deny(ctx context.Context, borrowID int64) (ok bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	br, err := s.borrows.GetForUpdate(ctx, tx, borrowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if br.Status != model.BorrowPending {
		return false, nil
	}

	if err = s.borrows.SetStatus(ctx, tx, borrowID, model.BorrowDenied); err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	return true, nil
}

func (s *service) Return(ctx context.Context, borrowID int64) (ok bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	br, err := s.borrows.GetForUpdate(ctx, tx, borrowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if br.Status != model.BorrowApproved {
		return false, nil
	}

	if err = s.borrows.MarkReturned(ctx, tx, borrowID, s.now().UTC()); err != nil {
		return false, err
	}
	if err = s.books.Release(ctx, tx, br.BookID); err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	committed = true

	s.notifyReturned(ctx, br)
	return true, nil
}

func (s *service) Pending(ctx context.Context) ([]BorrowView, error) {
	return s.borrows.ListPending(ctx)
}

func (s *service) Borrowed(ctx context.Context) ([]BorrowView, error) {
	return s.borrows.ListBorrowed(ctx)
}

func (s *service) Overdue(ctx context.Context) ([]BorrowView, error) {
	return s.borrows.ListOverdue(ctx, s.now().UTC())
}

func (s *service) UserHistory(ctx context.Context, userID int64) ([]BorrowView, error) {
	return s.borrows.ListUserHistory(ctx, userID)
}

// notification fan-out, best effort

func (s *service) notifyApproved(ctx context.Context, br *model.Borrow) {
	title := s.bookTitle(ctx, br.BookID)
	if err := s.notifier.NotifyBorrowApproved(ctx, br.UserID, title, br.DueDate); err != nil {
		s.log.Error("borrow approved notification failed", "borrow_id", br.ID, "user_id", br.UserID, "err", err)
	}
}

func (s *service) notifyReturned(ctx context.Context, br *model.Borrow) {
	title := s.bookTitle(ctx, br.BookID)
	if err := s.notifier.NotifyBorrowReturned(ctx, br.UserID, title); err != nil {
		s.log.Error("return notification failed", "borrow_id", br.ID, "user_id", br.UserID, "err", err)
	}
}

func (s *service) bookTitle(ctx context.Context, bookID int64) string {
	book, err := s.books.ByID(ctx, bookID)
	if err != nil {
		s.log.Error("book lookup for notification failed", "book_id", bookID, "err", err)
		return ""
	}
	return book.Name
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
