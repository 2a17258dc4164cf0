package notifsvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/delak101/librarysystem/model"
	pushrepo "github.com/delak101/librarysystem/repository/push"
)

type Repo interface {
	Insert(ctx context.Context, n *model.Notification) error
	ListForUser(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notifID int64) (bool, error)

	UpsertDeviceToken(ctx context.Context, t *model.DeviceToken) error
	ActiveTokens(ctx context.Context, userID int64) ([]string, error)
	DeactivateToken(ctx context.Context, token string) error
}

type Service interface {
	// Borrow-core fan-out. Each call persists a notification row and pushes
	// it to the user's active devices.
	NotifyBorrowApproved(ctx context.Context, userID int64, bookTitle string, due time.Time) error
	NotifyBorrowReturned(ctx context.Context, userID int64, bookTitle string) error
	NotifyDueSoon(ctx context.Context, userID int64, bookTitle string, due time.Time) error
	NotifyOverdue(ctx context.Context, userID int64, bookTitle string, due time.Time) error

	RegisterDevice(ctx context.Context, userID int64, token, deviceType string) (*model.DeviceToken, error)
	UnregisterDevice(ctx context.Context, token string) error
	ListForUser(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notifID int64) (bool, error)
}

type service struct {
	r    Repo
	push pushrepo.Repo
	log  *slog.Logger
}

func New(r Repo, push pushrepo.Repo, log *slog.Logger) Service {
	return &service{r: r, push: push, log: log}
}

func (s *service) NotifyBorrowApproved(ctx context.Context, userID int64, bookTitle string, due time.Time) error {
	return s.dispatch(ctx, &model.Notification{
		UserID: userID,
		Kind:   model.NotifBorrowApproved,
		Title:  "Borrow Request Approved",
		Body:   fmt.Sprintf("Your request for '%s' was approved. Due back on %s.", bookTitle, due.Format("2006-01-02")),
		Payload: model.BorrowPayload{
			BookTitle: bookTitle,
			DueDate:   due,
		},
	})
}

func (s *service) NotifyBorrowReturned(ctx context.Context, userID int64, bookTitle string) error {
	return s.dispatch(ctx, &model.Notification{
		UserID: userID,
		Kind:   model.NotifBookReturned,
		Title:  "Book Returned",
		Body:   fmt.Sprintf("You returned '%s'. Thanks!", bookTitle),
		Payload: model.BorrowPayload{
			BookTitle: bookTitle,
		},
	})
}

func (s *service) NotifyDueSoon(ctx context.Context, userID int64, bookTitle string, due time.Time) error {
	return s.dispatch(ctx, &model.Notification{
		UserID: userID,
		Kind:   model.NotifDueSoon,
		Title:  "Book Due Soon",
		Body:   fmt.Sprintf("'%s' is due on %s.", bookTitle, due.Format("2006-01-02")),
		Payload: model.BorrowPayload{
			BookTitle: bookTitle,
			DueDate:   due,
		},
	})
}

func (s *service) NotifyOverdue(ctx context.Context, userID int64, bookTitle string, due time.Time) error {
	return s.dispatch(ctx, &model.Notification{
		UserID: userID,
		Kind:   model.NotifOverdue,
		Title:  "Book Overdue",
		Body:   fmt.Sprintf("'%s' was due on %s. Please return it.", bookTitle, due.Format("2006-01-02")),
		Payload: model.BorrowPayload{
			BookTitle: bookTitle,
			DueDate:   due,
		},
	})
}

// dispatch stores the notification, then pushes it to active devices. The
// stored row is the source of truth; a push failure is reported but the row
// stays.
func (s *service) dispatch(ctx context.Context, n *model.Notification) error {
	if err := s.r.Insert(ctx, n); err != nil {
		return err
	}

	tokens, err := s.r.ActiveTokens(ctx, n.UserID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		s.log.Warn("no device tokens for user", "user_id", n.UserID, "kind", n.Kind)
		return nil
	}

	return s.push.Send(ctx, pushrepo.Message{
		Tokens: tokens,
		Title:  n.Title,
		Body:   n.Body,
		Data: map[string]string{
			"kind":       string(n.Kind),
			"book_title": n.Payload.BookTitle,
		},
	})
}

func (s *service) RegisterDevice(ctx context.Context, userID int64, token, deviceType string) (*model.DeviceToken, error) {
	t := &model.DeviceToken{
		UserID:     userID,
		Token:      token,
		DeviceType: deviceType,
		IsActive:   true,
	}
	if err := s.r.UpsertDeviceToken(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("device token registered", "user_id", userID, "device_type", deviceType)
	return t, nil
}

func (s *service) UnregisterDevice(ctx context.Context, token string) error {
	return s.r.DeactivateToken(ctx, token)
}

func (s *service) ListForUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	return s.r.ListForUser(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, userID, notifID int64) (bool, error) {
	return s.r.MarkRead(ctx, userID, notifID)
}
