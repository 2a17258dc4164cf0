package analyticssvc

import (
	"context"
	"time"

	analyticsrepo "github.com/delak101/librarysystem/repository/analytics"
)

type Stats = analyticsrepo.Stats

type Repo interface {
	Collect(ctx context.Context, now time.Time) (*Stats, error)
}

type Service interface {
	Dashboard(ctx context.Context) (*Stats, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Dashboard(ctx context.Context) (*Stats, error) {
	return s.r.Collect(ctx, time.Now().UTC())
}
