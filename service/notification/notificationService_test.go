package notifsvc

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/delak101/librarysystem/model"
	pushrepo "github.com/delak101/librarysystem/repository/push"
)

type mockRepo struct {
	inserted []*model.Notification
	tokens   []string

	insertErr error
	tokensErr error
}

func (m *mockRepo) Insert(ctx context.Context, n *model.Notification) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	n.ID = int64(len(m.inserted) + 1)
	m.inserted = append(m.inserted, n)
	return nil
}
func (m *mockRepo) ListForUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	return nil, nil
}
func (m *mockRepo) MarkRead(ctx context.Context, userID, notifID int64) (bool, error) {
	return true, nil
}
func (m *mockRepo) UpsertDeviceToken(ctx context.Context, t *model.DeviceToken) error {
	t.ID = 1
	return nil
}
func (m *mockRepo) ActiveTokens(ctx context.Context, userID int64) ([]string, error) {
	return m.tokens, m.tokensErr
}
func (m *mockRepo) DeactivateToken(ctx context.Context, token string) error { return nil }

type mockPush struct {
	sent []pushrepo.Message
	err  error
}

func (m *mockPush) Send(ctx context.Context, msg pushrepo.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func TestNotifyBorrowApproved_PersistsAndPushes(t *testing.T) {
	r := &mockRepo{tokens: []string{"tok-1", "tok-2"}}
	p := &mockPush{}
	s := New(r, p, slog.Default())

	due := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	err := s.NotifyBorrowApproved(context.Background(), 7, "SICP", due)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(r.inserted) != 1 {
		t.Fatalf("stored %d notifications; want 1", len(r.inserted))
	}
	n := r.inserted[0]
	if n.Kind != model.NotifBorrowApproved || n.UserID != 7 {
		t.Errorf("stored notification: %+v", n)
	}
	if n.Payload.BookTitle != "SICP" || !n.Payload.DueDate.Equal(due) {
		t.Errorf("payload: %+v", n.Payload)
	}

	if len(p.sent) != 1 {
		t.Fatalf("pushed %d messages; want 1", len(p.sent))
	}
	msg := p.sent[0]
	if len(msg.Tokens) != 2 || msg.Data["kind"] != string(model.NotifBorrowApproved) {
		t.Errorf("push message: %+v", msg)
	}
}

func TestDispatch_NoTokensStillStores(t *testing.T) {
	r := &mockRepo{}
	p := &mockPush{}
	s := New(r, p, slog.Default())

	err := s.NotifyBorrowReturned(context.Background(), 7, "SICP")
	if err != nil {
		t.Fatalf("notify without tokens should succeed: %v", err)
	}
	if len(r.inserted) != 1 {
		t.Fatalf("stored %d notifications; want 1", len(r.inserted))
	}
	if len(p.sent) != 0 {
		t.Fatalf("pushed with no tokens: %+v", p.sent)
	}
}

func TestDispatch_PushErrorSurfaces(t *testing.T) {
	r := &mockRepo{tokens: []string{"tok-1"}}
	p := &mockPush{err: errors.New("fcm 503")}
	s := New(r, p, slog.Default())

	err := s.NotifyOverdue(context.Background(), 7, "SICP", time.Now())
	if err == nil {
		t.Fatal("expected push error to surface")
	}
	// Row is kept even when delivery fails.
	if len(r.inserted) != 1 {
		t.Fatalf("stored %d notifications; want 1", len(r.inserted))
	}
}

func TestDispatch_InsertErrorSkipsPush(t *testing.T) {
	r := &mockRepo{tokens: []string{"tok-1"}, insertErr: errors.New("db down")}
	p := &mockPush{}
	s := New(r, p, slog.Default())

	err := s.NotifyDueSoon(context.Background(), 7, "SICP", time.Now())
	if err == nil {
		t.Fatal("expected insert error")
	}
	if len(p.sent) != 0 {
		t.Fatal("pushed despite failed insert")
	}
}
