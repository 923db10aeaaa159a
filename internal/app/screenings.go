package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
)

type createScreeningRequest struct {
	MovieID    int       `json:"movieId" validate:"required,min=1"`
	ShowroomID int       `json:"showroomId" validate:"required,min=1"`
	ShowTime   time.Time `json:"showTime" validate:"required"`
}

type screeningResponse struct {
	ID         int       `json:"id"`
	MovieID    int       `json:"movieId"`
	ShowroomID int       `json:"showroomId"`
	ShowTime   time.Time `json:"showTime"`
	EndTime    time.Time `json:"endTime"`
}

type screeningSeatResponse struct {
	ID             int  `json:"id"`
	ShowroomSeatID int  `json:"showroomSeatId"`
	Booked         bool `json:"booked"`
	Held           bool `json:"held,omitempty"`
}

func (app *Application) CreateScreening(w http.ResponseWriter, r *http.Request) {
	var req createScreeningRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !app.validateRequest(w, r, req) {
		return
	}

	id, err := app.scheduler.ScheduleScreening(r.Context(), req.MovieID, req.ShowroomID, req.ShowTime)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	screening, err := app.screeningRepo.GetByID(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, toScreeningResponse(*screening), nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetScreenings lists screenings, optionally bounded to a time window via the
// from and to query parameters (RFC 3339).
func (app *Application) GetScreenings(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid from parameter"))
			return
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid to parameter"))
			return
		}
		to = &t
	}

	screenings, metadata, err := app.scheduler.ScreeningsInWindow(r.Context(), from, to, app.readPagination(r))
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := struct {
		Screenings []screeningResponse `json:"screenings"`
		Metadata   *domain.Metadata    `json:"metadata"`
	}{
		Screenings: toScreeningResponses(screenings),
		Metadata:   metadata,
	}

	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetScreeningsOfShowroom(w http.ResponseWriter, r *http.Request) {
	showroomID, err := app.readIDParam(r, "showroomID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	screenings, err := app.scheduler.ScreeningsByShowroom(r.Context(), showroomID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := struct {
		Screenings []screeningResponse `json:"screenings"`
	}{
		Screenings: toScreeningResponses(screenings),
	}

	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetScreeningsOfMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	screenings, metadata, err := app.scheduler.ScreeningsByMovie(r.Context(), movieID, app.readPagination(r))
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := struct {
		Screenings []screeningResponse `json:"screenings"`
		Metadata   *domain.Metadata    `json:"metadata"`
	}{
		Screenings: toScreeningResponses(screenings),
		Metadata:   metadata,
	}

	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CheckOverlap probes a candidate slot without creating anything.
func (app *Application) CheckOverlap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	showroomID, err := atoiPositive(q.Get("showroomId"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid showroomId parameter"))
		return
	}
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid start parameter"))
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil || !end.After(start) {
		app.badRequestResponse(w, r, fmt.Errorf("invalid end parameter"))
		return
	}

	conflict, err := app.scheduler.FindOverlapping(r.Context(), showroomID, start, end)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := struct {
		Overlaps bool               `json:"overlaps"`
		Conflict *screeningResponse `json:"conflict,omitempty"`
	}{}
	if conflict != nil {
		resp.Overlaps = true
		c := toScreeningResponse(*conflict)
		resp.Conflict = &c
	}

	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetScreeningSeats(w http.ResponseWriter, r *http.Request) {
	screeningID, err := app.readIDParam(r, "screeningID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seats, err := app.scheduler.SeatsOfScreening(r.Context(), screeningID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	held := make(map[int]bool)
	if app.seatHolds != nil {
		heldIDs, err := app.seatHolds.HeldSeats(r.Context(), screeningID)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		for _, id := range heldIDs {
			held[int(id)] = true
		}
	}

	resp := make([]screeningSeatResponse, len(seats))
	for i, seat := range seats {
		resp[i] = screeningSeatResponse{
			ID:             seat.ID,
			ShowroomSeatID: seat.ShowroomSeatID,
			Booked:         seat.Booked(),
			Held:           held[seat.ID],
		}
	}

	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type holdSeatRequest struct {
	CustomerID int `json:"customerId" validate:"required,min=1"`
}

// HoldSeat gives the customer a short exclusive checkout window on the seat.
func (app *Application) HoldSeat(w http.ResponseWriter, r *http.Request) {
	screeningID, err := app.readIDParam(r, "screeningID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	seatID, err := app.readIDParam(r, "seatID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req holdSeatRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !app.validateRequest(w, r, req) {
		return
	}

	seat, err := app.screeningSeatRepo.GetByID(r.Context(), seatID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}
	if seat.ScreeningID != screeningID {
		app.notFoundResponse(w, r)
		return
	}
	if seat.Booked() {
		app.domainErrorResponse(w, r, domain.NewInvalidActionError("seat is already booked"))
		return
	}

	ok, err := app.seatHolds.Hold(r.Context(), screeningID, seatID, req.CustomerID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !ok {
		app.domainErrorResponse(w, r, domain.NewInvalidActionError("seat is held by another customer"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetScreeningDeletionInfo(w http.ResponseWriter, r *http.Request) {
	screeningID, err := app.readIDParam(r, "screeningID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	impact, err := app.scheduler.ScreeningDeletionImpact(r.Context(), screeningID)
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

func (app *Application) DeleteScreening(w http.ResponseWriter, r *http.Request) {
	screeningID, err := app.readIDParam(r, "screeningID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.scheduler.DeleteScreening(r.Context(), screeningID); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toScreeningResponse(s domain.Screening) screeningResponse {
	return screeningResponse{
		ID:         s.ID,
		MovieID:    s.MovieID,
		ShowroomID: s.ShowroomID,
		ShowTime:   s.ShowTime,
		EndTime:    s.EndTime,
	}
}

func toScreeningResponses(screenings []domain.Screening) []screeningResponse {
	resp := make([]screeningResponse, len(screenings))
	for i, s := range screenings {
		resp[i] = toScreeningResponse(s)
	}
	return resp
}
