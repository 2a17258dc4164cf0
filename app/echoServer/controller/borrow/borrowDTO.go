package borrow

type RequestBorrowReq struct {
	UserID int64 `query:"userId" json:"user_id" validate:"required,gt=0"`
	BookID int64 `query:"bookId" json:"book_id" validate:"required,gt=0"`
}
