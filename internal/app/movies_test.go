package app

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/cinehall/cinehall/internal/mocks"
	"github.com/stretchr/testify/suite"
)

type MovieHandlersTestSuite struct {
	suite.Suite
	app *Application
}

func (s *MovieHandlersTestSuite) SetupTest() {
	s.app = newTestApplication()
}

func TestMovieHandlersSuite(t *testing.T) {
	suite.Run(t, new(MovieHandlersTestSuite))
}

func (s *MovieHandlersTestSuite) createMovie(title string) movieResponse {
	w := serve(s.T(), s.app, http.MethodPost, "/movies", createMovieRequest{
		Title:           title,
		Director:        "Someone",
		DurationMinutes: 100,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	return decodeResponse[movieResponse](s.T(), w)
}

func (s *MovieHandlersTestSuite) TestCreateMovie() {
	movie := s.createMovie("The Matrix")
	s.NotZero(movie.ID)
	s.Equal("The Matrix", movie.Title)
	s.Equal(100, movie.DurationMinutes)
}

func (s *MovieHandlersTestSuite) TestCreateMovieValidation() {
	w := serve(s.T(), s.app, http.MethodPost, "/movies", createMovieRequest{
		Title:    "No Duration",
		Director: "Someone",
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Contains(errorMessage(s.T(), w), "DurationMinutes is required")
}

func (s *MovieHandlersTestSuite) TestSearchMovies() {
	s.createMovie("The Matrix")
	s.createMovie("Alien")

	tests := []struct {
		name       string
		query      string
		wantTitles []string
	}{
		{
			name:       "should match ignoring leading article and case",
			query:      "matrix",
			wantTitles: []string{"The Matrix"},
		},
		{
			name:       "should match ignoring punctuation",
			query:      "MATRIX!",
			wantTitles: []string{"The Matrix"},
		},
		{
			name:       "should return all movies for empty query",
			query:      "",
			wantTitles: []string{"The Matrix", "Alien"},
		},
		{
			name:       "should return nothing for an unknown title",
			query:      "inception",
			wantTitles: nil,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := serve(s.T(), s.app, http.MethodGet, "/movies?title="+tt.query, nil)
			s.Equal(http.StatusOK, w.Code)

			resp := decodeResponse[struct {
				Movies []movieResponse `json:"movies"`
			}](s.T(), w)

			titles := make([]string, 0, len(resp.Movies))
			for _, m := range resp.Movies {
				titles = append(titles, m.Title)
			}
			s.ElementsMatch(tt.wantTitles, titles)
		})
	}
}

func (s *MovieHandlersTestSuite) TestSearchMoviesRepositoryError() {
	app := newTestApplication(func(a *Application) {
		a.movieRepo = &mocks.MockMovieRepo{
			GetByTitleLikeFunc: func(ctx context.Context, search string, p domain.Pagination) ([]domain.Movie, *domain.Metadata, error) {
				return nil, nil, fmt.Errorf("connection refused")
			},
		}
	})

	w := serve(s.T(), app, http.MethodGet, "/movies?title=x", nil)
	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *MovieHandlersTestSuite) TestDeleteMovie() {
	movie := s.createMovie("Short Lived")

	w := serve(s.T(), s.app, http.MethodDelete, fmt.Sprintf("/movies/%d", movie.ID), nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = serve(s.T(), s.app, http.MethodGet, fmt.Sprintf("/movies/%d/screenings", movie.ID), nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *MovieHandlersTestSuite) TestDeleteMovieUnknown() {
	w := serve(s.T(), s.app, http.MethodDelete, "/movies/999", nil)
	s.Equal(http.StatusNotFound, w.Code)
}
