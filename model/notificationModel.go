// model/notification.go
package model

import "time"

type NotificationKind string

const (
	NotifBorrowApproved NotificationKind = "BORROW_APPROVED"
	NotifBookReturned   NotificationKind = "BOOK_RETURNED"
	NotifDueSoon        NotificationKind = "DUE_SOON"
	NotifOverdue        NotificationKind = "OVERDUE"
)

// BorrowPayload is the typed payload carried by every borrow-related
// notification kind.
type BorrowPayload struct {
	BookTitle string    `json:"book_title"`
	DueDate   time.Time `json:"due_date,omitempty"`
}

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Payload   BorrowPayload    `json:"payload"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

type DeviceToken struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Token       string    `json:"token"`
	DeviceType  string    `json:"device_type"` // ios | android | web
	IsActive    bool      `json:"is_active"`
	LastUpdated time.Time `json:"last_updated"`
}
