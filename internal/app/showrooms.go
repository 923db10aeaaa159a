package app

import (
	"errors"
	"net/http"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/cinehall/cinehall/internal/validator"
	govalidator "github.com/go-playground/validator/v10"
)

type createShowroomRequest struct {
	Letter      string `json:"letter" validate:"required,showroom_letter"`
	Rows        int    `json:"rows" validate:"required,min=1,max=26"`
	SeatsPerRow int    `json:"seatsPerRow" validate:"required,min=1,max=50"`
}

type showroomResponse struct {
	ID          int    `json:"id"`
	Letter      string `json:"letter"`
	Rows        int    `json:"rows"`
	SeatsPerRow int    `json:"seatsPerRow"`
}

type seatResponse struct {
	ID          int    `json:"id"`
	Designation string `json:"designation"`
	RowLetter   string `json:"rowLetter"`
	SeatNumber  int    `json:"seatNumber"`
}

func (app *Application) CreateShowroom(w http.ResponseWriter, r *http.Request) {
	var req createShowroomRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !app.validateRequest(w, r, req) {
		return
	}

	id, err := app.layout.CreateShowroom(r.Context(), req.Letter, req.Rows, req.SeatsPerRow)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := showroomResponse{ID: id, Letter: req.Letter, Rows: req.Rows, SeatsPerRow: req.SeatsPerRow}
	if err := app.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListShowrooms(w http.ResponseWriter, r *http.Request) {
	if letter := r.URL.Query().Get("letter"); letter != "" {
		showroom, err := app.layout.ShowroomByLetter(r.Context(), letter)
		if err != nil {
			app.domainErrorResponse(w, r, err)
			return
		}
		resp := []showroomResponse{{ID: showroom.ID, Letter: showroom.Letter, Rows: showroom.Rows, SeatsPerRow: showroom.SeatsPerRow}}
		if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	showrooms, err := app.layout.Showrooms(r.Context())
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := make([]showroomResponse, len(showrooms))
	for i, s := range showrooms {
		resp[i] = showroomResponse{ID: s.ID, Letter: s.Letter, Rows: s.Rows, SeatsPerRow: s.SeatsPerRow}
	}

	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowroomSeats(w http.ResponseWriter, r *http.Request) {
	showroomID, err := app.readIDParam(r, "showroomID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seats, err := app.layout.SeatsOf(r.Context(), showroomID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, toSeatResponses(seats), nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type deletionInfoResponse struct {
	SeatsToDelete      int    `json:"seatsToDelete"`
	ScreeningsToDelete int    `json:"screeningsToDelete"`
	TicketsToRefund    int    `json:"ticketsToRefund"`
	RefundTotal        string `json:"refundTotal"`
}

func (app *Application) GetShowroomDeletionInfo(w http.ResponseWriter, r *http.Request) {
	showroomID, err := app.readIDParam(r, "showroomID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	impact, err := app.layout.ShowroomDeletionImpact(r.Context(), showroomID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := deletionInfoResponse{
		SeatsToDelete:      impact.SeatsToDelete,
		ScreeningsToDelete: impact.ScreeningsToDelete,
		TicketsToRefund:    impact.TicketsToRefund,
		RefundTotal:        impact.RefundTotal.StringFixed(2),
	}
	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteShowroom(w http.ResponseWriter, r *http.Request) {
	showroomID, err := app.readIDParam(r, "showroomID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.layout.DeleteShowroom(r.Context(), showroomID); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// validateRequest runs struct validation and writes a 422 with per-field
// messages on failure.
func (app *Application) validateRequest(w http.ResponseWriter, r *http.Request, req any) bool {
	err := app.validator.Struct(req)
	if err == nil {
		return true
	}

	var fieldErrs govalidator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		app.serverErrorResponse(w, r, err)
		return false
	}

	violations := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		violations[i] = fe.Field() + " " + validator.ValidationMessage(fe)
	}

	app.errorResponse(w, r, http.StatusUnprocessableEntity, domain.NewValidationError(violations...).Error())
	return false
}

func toSeatResponses(seats []domain.ShowroomSeat) []seatResponse {
	resp := make([]seatResponse, len(seats))
	for i, seat := range seats {
		resp[i] = seatResponse{
			ID:          seat.ID,
			Designation: seat.Designation(),
			RowLetter:   seat.RowLetter,
			SeatNumber:  seat.SeatNumber,
		}
	}
	return resp
}
