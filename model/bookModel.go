// model/book.go
package model

type Book struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Shelf        string `json:"shelf,omitempty"`
	Department   string `json:"department,omitempty"`
	AssignedYear *int   `json:"assigned_year,omitempty"`
	Image        string `json:"image,omitempty"`

	// Owned by the borrow core. Catalog edits never write this column.
	IsAvailable bool `json:"is_available"`
}
