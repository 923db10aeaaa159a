package mocks

import (
	"context"

	"github.com/cinehall/cinehall/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	GetByTitleLikeFunc func(ctx context.Context, search string, pagination domain.Pagination) ([]domain.Movie, *domain.Metadata, error)
}

func (m *MockMovieRepo) GetByTitleLike(ctx context.Context, search string, pagination domain.Pagination) ([]domain.Movie, *domain.Metadata, error) {
	return m.GetByTitleLikeFunc(ctx, search, pagination)
}
