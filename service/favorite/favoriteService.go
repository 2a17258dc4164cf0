package favsvc

import (
	"context"

	"github.com/delak101/librarysystem/model"
	favrepo "github.com/delak101/librarysystem/repository/favorite"
)

type FavoriteView = favrepo.FavoriteView

type Repo interface {
	Add(ctx context.Context, f *model.Favorite) (bool, error)
	Remove(ctx context.Context, userID, bookID int64) (bool, error)
	ListForUser(ctx context.Context, userID int64) ([]FavoriteView, error)
}

type BookRepo interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Add(ctx context.Context, userID, bookID int64) (bool, error)
	Remove(ctx context.Context, userID, bookID int64) (bool, error)
	List(ctx context.Context, userID int64) ([]FavoriteView, error)
}

type service struct {
	r     Repo
	books BookRepo
}

func New(r Repo, books BookRepo) Service { return &service{r: r, books: books} }

// Add reports false when the book does not exist or is already a favorite.
func (s *service) Add(ctx context.Context, userID, bookID int64) (bool, error) {
	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	return s.r.Add(ctx, &model.Favorite{UserID: userID, BookID: bookID})
}

func (s *service) Remove(ctx context.Context, userID, bookID int64) (bool, error) {
	return s.r.Remove(ctx, userID, bookID)
}

func (s *service) List(ctx context.Context, userID int64) ([]FavoriteView, error) {
	return s.r.ListForUser(ctx, userID)
}
