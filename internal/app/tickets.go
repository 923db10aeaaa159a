package app

import (
	"net/http"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/cinehall/cinehall/internal/service"
	qrcode "github.com/skip2/go-qrcode"
)

type purchaseTicketRequest struct {
	CustomerID      int    `json:"customerId" validate:"required,min=1"`
	ScreeningSeatID int    `json:"screeningSeatId" validate:"required,min=1"`
	PaymentCardID   *int   `json:"paymentCardId" validate:"omitempty,min=1"`
	Type            string `json:"type" validate:"required,ticket_type"`
	TokensToApply   int    `json:"tokensToApply" validate:"min=0"`
}

type ticketResponse struct {
	ID              int       `json:"id"`
	RefCode         string    `json:"refCode"`
	CustomerID      int       `json:"customerId"`
	ScreeningSeatID int       `json:"screeningSeatId"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	Price           string    `json:"price"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ticketDetailResponse struct {
	ID              int       `json:"id"`
	RefCode         string    `json:"refCode"`
	MovieTitle      string    `json:"movieTitle"`
	ShowroomLetter  string    `json:"showroomLetter"`
	SeatDesignation string    `json:"seatDesignation"`
	ShowTime        time.Time `json:"showTime"`
	Type            string    `json:"type"`
	Status          string    `json:"status"`
	Price           string    `json:"price"`
}

func (app *Application) PurchaseTicket(w http.ResponseWriter, r *http.Request) {
	var req purchaseTicketRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !app.validateRequest(w, r, req) {
		return
	}

	ticket, err := app.booking.BookSeat(r.Context(), service.BookSeatParams{
		CustomerID:      req.CustomerID,
		ScreeningSeatID: req.ScreeningSeatID,
		PaymentCardID:   req.PaymentCardID,
		Type:            domain.TicketType(req.Type),
		TokensToApply:   req.TokensToApply,
	})
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	// Drop any checkout hold left on the seat; the claim is now permanent.
	if app.seatHolds != nil {
		seat, err := app.screeningSeatRepo.GetByID(r.Context(), ticket.ScreeningSeatID)
		if err == nil {
			if err := app.seatHolds.Release(r.Context(), seat.ScreeningID, seat.ID); err != nil {
				app.logger.Warn("failed to release seat hold", "seat_id", seat.ID, "error", err)
			}
		}
	}

	resp := ticketResponse{
		ID:              ticket.ID,
		RefCode:         ticket.RefCode.String(),
		CustomerID:      ticket.CustomerID,
		ScreeningSeatID: ticket.ScreeningSeatID,
		Type:            string(ticket.Type),
		Status:          string(ticket.Status),
		Price:           ticket.Type.Price().StringFixed(2),
		CreatedAt:       ticket.CreatedAt,
	}
	if err := app.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := app.readIDParam(r, "ticketID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.booking.TicketDetail(r.Context(), ticketID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := ticketDetailResponse{
		ID:              detail.TicketID,
		RefCode:         detail.RefCode.String(),
		MovieTitle:      detail.MovieTitle,
		ShowroomLetter:  detail.ShowroomLetter,
		SeatDesignation: detail.SeatDesignation,
		ShowTime:        detail.ShowTime,
		Type:            string(detail.Type),
		Status:          string(detail.Status),
		Price:           detail.Type.Price().StringFixed(2),
	}
	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) RefundTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := app.readIDParam(r, "ticketID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.booking.RefundTicket(r.Context(), ticketID); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TrashTicket voids the ticket without a refund. The seat claim stays in
// place so the seat cannot be resold.
func (app *Application) TrashTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := app.readIDParam(r, "ticketID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.booking.TrashTicket(r.Context(), ticketID); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetTicketRefundable(w http.ResponseWriter, r *http.Request) {
	ticketID, err := app.readIDParam(r, "ticketID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	refundable, err := app.booking.IsRefundable(r.Context(), ticketID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := struct {
		Refundable bool `json:"refundable"`
	}{Refundable: refundable}

	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetTicketQR renders the ticket's reference code as a PNG QR code for gate
// scanning.
func (app *Application) GetTicketQR(w http.ResponseWriter, r *http.Request) {
	ticketID, err := app.readIDParam(r, "ticketID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.booking.TicketDetail(r.Context(), ticketID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	png, err := qrcode.Encode(detail.RefCode.String(), qrcode.Medium, 256)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
