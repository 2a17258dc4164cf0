// model/borrow.go
package model

import "time"

type BorrowStatus string

const (
	BorrowPending  BorrowStatus = "PENDING"
	BorrowApproved BorrowStatus = "APPROVED"
	BorrowDenied   BorrowStatus = "DENIED"
	BorrowReturned BorrowStatus = "RETURNED"
)

// LoanPeriod is the fixed loan length: DueDate = BorrowDate + LoanPeriod.
const LoanPeriod = 7 * 24 * time.Hour

type Borrow struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id"`
	BookID     int64        `json:"book_id"`
	BorrowDate time.Time    `json:"borrow_date"`
	DueDate    time.Time    `json:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	Status     BorrowStatus `json:"status"`
}
