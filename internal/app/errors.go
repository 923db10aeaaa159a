package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/go-chi/chi/v5/middleware"
)

type errorResponseBody struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := errorResponseBody{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource not found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// domainErrorResponse maps the engine's typed errors onto HTTP statuses:
// unknown entity 404, structural violations 422, schedule and uniqueness
// clashes 409, state-dependent rejections 409, anything else 500.
func (app *Application) domainErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFoundErr   *domain.NotFoundError
		validationErr *domain.ValidationError
		clashErr      *domain.ClashError
		invalidErr    *domain.InvalidActionError
	)

	switch {
	case errors.As(err, &notFoundErr):
		app.errorResponse(w, r, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &validationErr):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, validationErr.Error())
	case errors.As(err, &clashErr):
		app.errorResponse(w, r, http.StatusConflict, clashErr.Error())
	case errors.As(err, &invalidErr):
		app.errorResponse(w, r, http.StatusConflict, invalidErr.Error())
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
