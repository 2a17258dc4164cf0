package booksvc

import (
	"context"
	"errors"

	"github.com/delak101/librarysystem/model"
)

type Book = model.Book

type Repo interface {
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ByID(ctx context.Context, id int64) (*Book, error)
	List(ctx context.Context) ([]Book, error)
}

type Service interface {
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Detail(ctx context.Context, id int64) (*Book, error)
	List(ctx context.Context) ([]Book, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, b *Book) error {
	if b.Name == "" {
		return errors.New("invalid payload")
	}
	return s.r.Create(ctx, b)
}

// Update touches descriptive fields only; availability belongs to the
// borrow core and has no catalog path.
func (s *service) Update(ctx context.Context, b *Book) (bool, error) {
	if b.ID <= 0 || b.Name == "" {
		return false, errors.New("invalid payload")
	}
	return s.r.Update(ctx, b)
}

func (s *service) Delete(ctx context.Context, id int64) (bool, error) { return s.r.Delete(ctx, id) }
func (s *service) Detail(ctx context.Context, id int64) (*Book, error) {
	return s.r.ByID(ctx, id)
}
func (s *service) List(ctx context.Context) ([]Book, error) { return s.r.List(ctx) }
