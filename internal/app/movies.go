package app

import (
	"net/http"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
)

type createMovieRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Director        string `json:"director" validate:"required,max=100"`
	Synopsis        string `json:"synopsis" validate:"max=2000"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=1,max=600"`
}

type movieResponse struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Director        string `json:"director"`
	Synopsis        string `json:"synopsis"`
	DurationMinutes int    `json:"durationMinutes"`
}

func (app *Application) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req createMovieRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !app.validateRequest(w, r, req) {
		return
	}

	movie := &domain.Movie{
		Title:    req.Title,
		Director: req.Director,
		Synopsis: req.Synopsis,
		Duration: time.Duration(req.DurationMinutes) * time.Minute,
	}
	if err := app.movieRepo.Create(r.Context(), movie); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, toMovieResponse(*movie), nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// SearchMovies matches on normalized titles, so "the matrix", "Matrix!" and
// "MATRIX" all find the same movie.
func (app *Application) SearchMovies(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("title")

	movies, metadata, err := app.movieRepo.GetByTitleLike(r.Context(), search, app.readPagination(r))
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := struct {
		Movies   []movieResponse  `json:"movies"`
		Metadata *domain.Metadata `json:"metadata"`
	}{
		Movies:   make([]movieResponse, len(movies)),
		Metadata: metadata,
	}
	for i, m := range movies {
		resp.Movies[i] = toMovieResponse(m)
	}

	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.scheduler.DeleteMovie(r.Context(), movieID); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toMovieResponse(m domain.Movie) movieResponse {
	return movieResponse{
		ID:              m.ID,
		Title:           m.Title,
		Director:        m.Director,
		Synopsis:        m.Synopsis,
		DurationMinutes: int(m.Duration.Minutes()),
	}
}
