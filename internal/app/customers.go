package app

import (
	"net/http"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/cinehall/cinehall/internal/service"
)

type createCustomerRequest struct {
	UserID int    `json:"userId" validate:"required,min=1"`
	Email  string `json:"email" validate:"required,email"`
}

type customerResponse struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Email  string `json:"email"`
	Tokens int    `json:"tokens"`
}

func (app *Application) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !app.validateRequest(w, r, req) {
		return
	}

	customer := &domain.Customer{
		UserID:         req.UserID,
		Email:          req.Email,
		AuthorityValid: true,
	}
	if err := app.customerRepo.Create(r.Context(), customer); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := customerResponse{
		ID:     customer.ID,
		UserID: customer.UserID,
		Email:  customer.Email,
		Tokens: customer.Tokens,
	}
	if err := app.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTokenBalance(w http.ResponseWriter, r *http.Request) {
	customerID, err := app.readIDParam(r, "customerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	customer, err := app.customerRepo.GetByID(r.Context(), customerID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := struct {
		Tokens int `json:"tokens"`
	}{Tokens: customer.Tokens}

	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetCustomerTickets(w http.ResponseWriter, r *http.Request) {
	customerID, err := app.readIDParam(r, "customerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	tickets, err := app.booking.TicketsOfCustomer(r.Context(), customerID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := make([]ticketResponse, len(tickets))
	for i, t := range tickets {
		resp[i] = ticketResponse{
			ID:              t.ID,
			RefCode:         t.RefCode.String(),
			CustomerID:      t.CustomerID,
			ScreeningSeatID: t.ScreeningSeatID,
			Type:            string(t.Type),
			Status:          string(t.Status),
			Price:           t.Type.Price().StringFixed(2),
			CreatedAt:       t.CreatedAt,
		}
	}

	if err := app.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := app.readIDParam(r, "customerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.customerRepo.GetByID(r.Context(), customerID); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.cascade.Delete(r.Context(), service.KindCustomer, customerID); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type addPaymentCardRequest struct {
	CustomerID      int    `json:"customerId" validate:"required,min=1"`
	CardNumber      string `json:"cardNumber" validate:"required,min=12,max=19,numeric"`
	ExpirationMonth int    `json:"expirationMonth" validate:"required,min=1,max=12"`
	ExpirationYear  int    `json:"expirationYear" validate:"required,min=2000"`
}

type paymentCardResponse struct {
	ID              int    `json:"id"`
	CustomerID      int    `json:"customerId"`
	Last4           string `json:"last4"`
	ExpirationMonth int    `json:"expirationMonth"`
	ExpirationYear  int    `json:"expirationYear"`
}

func (app *Application) AddPaymentCard(w http.ResponseWriter, r *http.Request) {
	var req addPaymentCardRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if !app.validateRequest(w, r, req) {
		return
	}

	if _, err := app.customerRepo.GetByID(r.Context(), req.CustomerID); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	card := &domain.PaymentCard{
		CustomerID:      req.CustomerID,
		EncodedNumber:   domain.EncodeCardNumber(req.CardNumber),
		Last4:           req.CardNumber[len(req.CardNumber)-4:],
		ExpirationMonth: time.Month(req.ExpirationMonth),
		ExpirationYear:  req.ExpirationYear,
	}
	if err := app.cardRepo.Create(r.Context(), card); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := paymentCardResponse{
		ID:              card.ID,
		CustomerID:      card.CustomerID,
		Last4:           card.Last4,
		ExpirationMonth: int(card.ExpirationMonth),
		ExpirationYear:  card.ExpirationYear,
	}
	if err := app.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeletePaymentCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := app.readIDParam(r, "cardID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.cardRepo.GetByID(r.Context(), cardID); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if err := app.cascade.Delete(r.Context(), service.KindPaymentCard, cardID); err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
