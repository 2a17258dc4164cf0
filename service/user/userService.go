package usersvc

import (
	"context"

	"github.com/delak101/librarysystem/model"
)

type Repo interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	Profile(ctx context.Context, id int64) (*model.User, error)

	// Purge deletes the account with its borrow history, favorites, device
	// tokens and notifications. Any book the user still holds is released.
	Purge(ctx context.Context, id int64) (bool, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Profile(ctx context.Context, id int64) (*model.User, error) {
	return s.r.ByID(ctx, id)
}

func (s *service) Purge(ctx context.Context, id int64) (bool, error) {
	exists, err := s.r.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := s.r.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}
