package borrowsvc

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/delak101/librarysystem/model"
)

// fakeStore is an in-memory Repo/BookRepo/UserRepo for whole-lifecycle
// scenarios. Transaction handles are ignored; the state machine's ordering is
// what is under test here.
type fakeStore struct {
	borrows map[int64]*model.Borrow
	books   map[int64]*model.Book
	users   map[int64]*model.User
	nextID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		borrows: map[int64]*model.Borrow{},
		books:   map[int64]*model.Book{},
		users:   map[int64]*model.User{},
		nextID:  1,
	}
}

func (f *fakeStore) Insert(ctx context.Context, br *model.Borrow) error {
	br.ID = f.nextID
	f.nextID++
	cp := *br
	f.borrows[br.ID] = &cp
	return nil
}

func (f *fakeStore) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Borrow, error) {
	br, ok := f.borrows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *br
	return &cp, nil
}

func (f *fakeStore) SetStatus(ctx context.Context, tx *sql.Tx, id int64, st model.BorrowStatus) error {
	f.borrows[id].Status = st
	return nil
}

func (f *fakeStore) MarkReturned(ctx context.Context, tx *sql.Tx, id int64, at time.Time) error {
	f.borrows[id].Status = model.BorrowReturned
	f.borrows[id].ReturnDate = &at
	return nil
}

func (f *fakeStore) HasOpen(ctx context.Context, userID, bookID int64) (bool, error) {
	for _, br := range f.borrows {
		if br.UserID == userID && br.BookID == bookID &&
			(br.Status == model.BorrowPending || br.Status == model.BorrowApproved) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListPending(ctx context.Context) ([]BorrowView, error)  { return nil, nil }
func (f *fakeStore) ListBorrowed(ctx context.Context) ([]BorrowView, error) { return nil, nil }
func (f *fakeStore) ListOverdue(ctx context.Context, now time.Time) ([]BorrowView, error) {
	var out []BorrowView
	for _, br := range f.borrows {
		if br.Status == model.BorrowApproved && br.DueDate.Before(now) {
			out = append(out, f.view(br))
		}
	}
	return out, nil
}
func (f *fakeStore) ListUserHistory(ctx context.Context, userID int64) ([]BorrowView, error) {
	return nil, nil
}
func (f *fakeStore) ListDueBetween(ctx context.Context, from, to time.Time) ([]BorrowView, error) {
	var out []BorrowView
	for _, br := range f.borrows {
		if br.Status == model.BorrowApproved && br.ReturnDate == nil &&
			!br.DueDate.Before(from) && !br.DueDate.After(to) {
			out = append(out, f.view(br))
		}
	}
	return out, nil
}

func (f *fakeStore) view(br *model.Borrow) BorrowView {
	return BorrowView{
		ID:         br.ID,
		UserID:     br.UserID,
		UserName:   f.users[br.UserID].Name,
		BookID:     br.BookID,
		BookTitle:  f.books[br.BookID].Name,
		BorrowDate: br.BorrowDate,
		DueDate:    br.DueDate,
		ReturnDate: br.ReturnDate,
		Status:     string(br.Status),
	}
}

// BookRepo

func (f *fakeStore) ByID(ctx context.Context, id int64) (*model.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) ClaimAvailable(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
	b, ok := f.books[bookID]
	if !ok || !b.IsAvailable {
		return false, nil
	}
	b.IsAvailable = false
	return true, nil
}

func (f *fakeStore) Release(ctx context.Context, tx *sql.Tx, bookID int64) error {
	f.books[bookID].IsAvailable = true
	return nil
}

type fakeUsers struct{ f *fakeStore }

func (u fakeUsers) ByID(ctx context.Context, id int64) (*model.User, error) {
	usr, ok := u.f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *usr
	return &cp, nil
}

// checkAvailabilityInvariant: a book is available iff it has no Approved
// borrow.
func checkAvailabilityInvariant(t *testing.T, f *fakeStore) {
	t.Helper()
	for id, b := range f.books {
		approved := false
		for _, br := range f.borrows {
			if br.BookID == id && br.Status == model.BorrowApproved {
				approved = true
			}
		}
		if b.IsAvailable == approved {
			t.Fatalf("availability invariant violated for book %d: available=%v approved-borrow=%v",
				id, b.IsAvailable, approved)
		}
	}
}

func newLifecycleService(t *testing.T, f *fakeStore, transitions int) Service {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Every transition opens one tx; let them all begin and finish either way.
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < transitions; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}

	svc := New(db, f, f, fakeUsers{f}, &mockNotifier{}, slog.Default(), Config{}).(*service)
	svc.now = func() time.Time { return testTime }
	return svc
}

func TestLifecycle_RequestApproveReturnRequest(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	f.users[1] = &model.User{ID: 1, Name: "Sara"}
	f.books[2] = &model.Book{ID: 2, Name: "SICP", IsAvailable: true}
	svc := newLifecycleService(t, f, 4)

	view, err := svc.Request(ctx, 1, 2)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if !f.books[2].IsAvailable {
		t.Fatal("pending request must not reserve the book")
	}
	checkAvailabilityInvariant(t, f)

	ok, err := svc.Approve(ctx, view.ID)
	if err != nil || !ok {
		t.Fatalf("approve: ok=%v err=%v", ok, err)
	}
	if f.books[2].IsAvailable {
		t.Fatal("book still available after approval")
	}
	if f.borrows[view.ID].Status != model.BorrowApproved {
		t.Fatalf("borrow status %s; want APPROVED", f.borrows[view.ID].Status)
	}
	checkAvailabilityInvariant(t, f)

	ok, err = svc.Return(ctx, view.ID)
	if err != nil || !ok {
		t.Fatalf("return: ok=%v err=%v", ok, err)
	}
	if !f.books[2].IsAvailable {
		t.Fatal("book not released after return")
	}
	if f.borrows[view.ID].ReturnDate == nil {
		t.Fatal("return date not set")
	}
	checkAvailabilityInvariant(t, f)

	// The book is free again, so a fresh request goes through.
	if _, err := svc.Request(ctx, 1, 2); err != nil {
		t.Fatalf("second request after return: %v", err)
	}
}

func TestLifecycle_TwoPendingOneBook(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	f.users[1] = &model.User{ID: 1, Name: "Sara"}
	f.users[2] = &model.User{ID: 2, Name: "Omar"}
	f.books[5] = &model.Book{ID: 5, Name: "TAOCP", IsAvailable: true}
	svc := newLifecycleService(t, f, 4)

	first, err := svc.Request(ctx, 1, 5)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := svc.Request(ctx, 2, 5)
	if err != nil {
		t.Fatalf("second request: %v", err)
	}

	ok, err := svc.Approve(ctx, first.ID)
	if err != nil || !ok {
		t.Fatalf("first approve: ok=%v err=%v", ok, err)
	}

	// First writer won; the second approval loses the availability check.
	ok, err = svc.Approve(ctx, second.ID)
	if err != nil || ok {
		t.Fatalf("second approve: ok=%v err=%v; want false nil", ok, err)
	}
	if f.borrows[second.ID].Status != model.BorrowPending {
		t.Fatalf("losing request status %s; want PENDING", f.borrows[second.ID].Status)
	}
	if f.books[5].IsAvailable {
		t.Fatal("book must stay unavailable")
	}
	checkAvailabilityInvariant(t, f)

	// The loser stays Pending until an operator denies it.
	ok, err = svc.Deny(ctx, second.ID)
	if err != nil || !ok {
		t.Fatalf("deny loser: ok=%v err=%v", ok, err)
	}
	if f.borrows[second.ID].Status != model.BorrowDenied {
		t.Fatalf("status %s; want DENIED", f.borrows[second.ID].Status)
	}
	checkAvailabilityInvariant(t, f)
}

func TestLifecycle_RequestWhileBorrowed(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	f.users[1] = &model.User{ID: 1, Name: "Sara"}
	f.users[2] = &model.User{ID: 2, Name: "Omar"}
	f.books[5] = &model.Book{ID: 5, Name: "TAOCP", IsAvailable: true}
	svc := newLifecycleService(t, f, 2)

	first, err := svc.Request(ctx, 1, 5)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if ok, err := svc.Approve(ctx, first.ID); err != nil || !ok {
		t.Fatalf("approve: ok=%v err=%v", ok, err)
	}

	// Requesting a checked-out book fails with a conflict for any requester.
	if _, err := svc.Request(ctx, 2, 5); Code(err) != ErrBookUnavailable {
		t.Fatalf("got %v; want BOOK_UNAVAILABLE", err)
	}
}
