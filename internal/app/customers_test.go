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

type CustomerHandlersTestSuite struct {
	suite.Suite
	app *Application
}

func (s *CustomerHandlersTestSuite) SetupTest() {
	s.app = newTestApplication()
}

func TestCustomerHandlersSuite(t *testing.T) {
	suite.Run(t, new(CustomerHandlersTestSuite))
}

func (s *CustomerHandlersTestSuite) TestCreateCustomer() {
	tests := []struct {
		name           string
		body           createCustomerRequest
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:       "should create customer with valid input",
			body:       createCustomerRequest{UserID: 42, Email: "alice@example.com"},
			wantStatus: http.StatusCreated,
		},
		{
			name:           "should fail with invalid email",
			body:           createCustomerRequest{UserID: 42, Email: "not-an-email"},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "Email must be a valid email address",
		},
		{
			name:           "should fail without user reference",
			body:           createCustomerRequest{Email: "alice@example.com"},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "UserID is required",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			w := serve(s.T(), s.app, http.MethodPost, "/customers", tt.body)
			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				resp := decodeResponse[customerResponse](s.T(), w)
				s.NotZero(resp.ID)
				s.Equal(42, resp.UserID)
				s.Zero(resp.Tokens)
				return
			}

			s.Contains(errorMessage(s.T(), w), tt.wantErrMessage)
		})
	}
}

func (s *CustomerHandlersTestSuite) TestCreateCustomerRepositoryError() {
	app := newTestApplication(func(a *Application) {
		a.customerRepo = &mocks.MockCustomerRepo{
			CreateFunc: func(ctx context.Context, customer *domain.Customer) error {
				return fmt.Errorf("connection refused")
			},
		}
	})

	w := serve(s.T(), app, http.MethodPost, "/customers", createCustomerRequest{UserID: 1, Email: "a@b.com"})
	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *CustomerHandlersTestSuite) TestGetCustomerTicketsRepositoryError() {
	app := newTestApplication(func(a *Application) {
		a.ticketRepo = &mocks.MockTicketRepo{
			GetByCustomerFunc: func(ctx context.Context, customerID int) ([]domain.Ticket, error) {
				return nil, fmt.Errorf("connection refused")
			},
		}
	})

	customer := seedCustomer(s.T(), app, "ivan@example.com", 0)

	w := serve(s.T(), app, http.MethodGet, fmt.Sprintf("/customers/%d/tickets", customer.ID), nil)
	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *CustomerHandlersTestSuite) TestGetTokenBalance() {
	customer := seedCustomer(s.T(), s.app, "bob@example.com", 17)

	w := serve(s.T(), s.app, http.MethodGet, fmt.Sprintf("/customers/%d/tokens", customer.ID), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(17, decodeResponse[struct {
		Tokens int `json:"tokens"`
	}](s.T(), w).Tokens)
}

func (s *CustomerHandlersTestSuite) TestGetTokenBalanceUnknownCustomer() {
	w := serve(s.T(), s.app, http.MethodGet, "/customers/999/tokens", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *CustomerHandlersTestSuite) TestGetCustomerTickets() {
	customer := seedCustomer(s.T(), s.app, "carol@example.com", 0)

	w := serve(s.T(), s.app, http.MethodGet, fmt.Sprintf("/customers/%d/tickets", customer.ID), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Empty(decodeResponse[[]ticketResponse](s.T(), w))
}

func (s *CustomerHandlersTestSuite) TestDeleteCustomer() {
	customer := seedCustomer(s.T(), s.app, "dave@example.com", 0)
	seedCard(s.T(), s.app, customer.ID)

	w := serve(s.T(), s.app, http.MethodDelete, fmt.Sprintf("/customers/%d", customer.ID), nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = serve(s.T(), s.app, http.MethodGet, fmt.Sprintf("/customers/%d/tokens", customer.ID), nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *CustomerHandlersTestSuite) TestDeleteCustomerUnknown() {
	w := serve(s.T(), s.app, http.MethodDelete, "/customers/999", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *CustomerHandlersTestSuite) TestAddPaymentCard() {
	customer := seedCustomer(s.T(), s.app, "erin@example.com", 0)

	w := serve(s.T(), s.app, http.MethodPost, "/payment-cards", addPaymentCardRequest{
		CustomerID:      customer.ID,
		CardNumber:      "4242424242424242",
		ExpirationMonth: 12,
		ExpirationYear:  2030,
	})
	s.Equal(http.StatusCreated, w.Code)

	resp := decodeResponse[paymentCardResponse](s.T(), w)
	s.NotZero(resp.ID)
	s.Equal("4242", resp.Last4)
	s.Equal(customer.ID, resp.CustomerID)
}

func (s *CustomerHandlersTestSuite) TestAddPaymentCardValidation() {
	customer := seedCustomer(s.T(), s.app, "frank@example.com", 0)

	w := serve(s.T(), s.app, http.MethodPost, "/payment-cards", addPaymentCardRequest{
		CustomerID:      customer.ID,
		CardNumber:      "not-a-number",
		ExpirationMonth: 13,
		ExpirationYear:  2030,
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	msg := errorMessage(s.T(), w)
	s.Contains(msg, "CardNumber")
	s.Contains(msg, "ExpirationMonth must be at most 12")
}

func (s *CustomerHandlersTestSuite) TestAddPaymentCardCap() {
	customer := seedCustomer(s.T(), s.app, "grace@example.com", 0)

	for i := 0; i < 5; i++ {
		w := serve(s.T(), s.app, http.MethodPost, "/payment-cards", addPaymentCardRequest{
			CustomerID:      customer.ID,
			CardNumber:      fmt.Sprintf("424242424242424%d", i),
			ExpirationMonth: 12,
			ExpirationYear:  2030,
		})
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	w := serve(s.T(), s.app, http.MethodPost, "/payment-cards", addPaymentCardRequest{
		CustomerID:      customer.ID,
		CardNumber:      "4242424242424299",
		ExpirationMonth: 12,
		ExpirationYear:  2030,
	})
	s.Equal(http.StatusConflict, w.Code)
	s.Contains(errorMessage(s.T(), w), "customer already has 5 payment cards")
}

func (s *CustomerHandlersTestSuite) TestDeletePaymentCard() {
	customer := seedCustomer(s.T(), s.app, "heidi@example.com", 0)
	card := seedCard(s.T(), s.app, customer.ID)

	w := serve(s.T(), s.app, http.MethodDelete, fmt.Sprintf("/payment-cards/%d", card.ID), nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = serve(s.T(), s.app, http.MethodDelete, fmt.Sprintf("/payment-cards/%d", card.ID), nil)
	s.Equal(http.StatusNotFound, w.Code)
}
