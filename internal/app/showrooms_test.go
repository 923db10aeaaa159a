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

type ShowroomHandlersTestSuite struct {
	suite.Suite
	app *Application
}

func (s *ShowroomHandlersTestSuite) SetupTest() {
	s.app = newTestApplication()
}

func TestShowroomHandlersSuite(t *testing.T) {
	suite.Run(t, new(ShowroomHandlersTestSuite))
}

func (s *ShowroomHandlersTestSuite) TestCreateShowroom() {
	tests := []struct {
		name           string
		body           any
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:       "should create showroom with valid input",
			body:       createShowroomRequest{Letter: "A", Rows: 2, SeatsPerRow: 3},
			wantStatus: http.StatusCreated,
		},
		{
			name:           "should fail when letter is lowercase",
			body:           createShowroomRequest{Letter: "a", Rows: 2, SeatsPerRow: 3},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "Letter must be a single letter A-Z",
		},
		{
			name:           "should fail when rows exceed the grid bound",
			body:           createShowroomRequest{Letter: "B", Rows: 27, SeatsPerRow: 3},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "Rows must be at most 26",
		},
		{
			name:           "should fail when body is malformed",
			body:           "not an object",
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "body contains incorrect JSON type",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			w := serve(s.T(), s.app, http.MethodPost, "/showrooms", tt.body)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				resp := decodeResponse[showroomResponse](s.T(), w)
				s.NotZero(resp.ID)
				s.Equal("A", resp.Letter)
				return
			}

			s.Contains(errorMessage(s.T(), w), tt.wantErrMessage)
		})
	}
}

func (s *ShowroomHandlersTestSuite) TestCreateShowroomDuplicateLetter() {
	w := serve(s.T(), s.app, http.MethodPost, "/showrooms", createShowroomRequest{Letter: "A", Rows: 1, SeatsPerRow: 1})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = serve(s.T(), s.app, http.MethodPost, "/showrooms", createShowroomRequest{Letter: "A", Rows: 2, SeatsPerRow: 2})
	s.Equal(http.StatusConflict, w.Code)
	s.Contains(errorMessage(s.T(), w), "showroom with room letter A already exists")
}

func (s *ShowroomHandlersTestSuite) TestListShowrooms() {
	for _, letter := range []string{"A", "B"} {
		w := serve(s.T(), s.app, http.MethodPost, "/showrooms", createShowroomRequest{Letter: letter, Rows: 1, SeatsPerRow: 2})
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	w := serve(s.T(), s.app, http.MethodGet, "/showrooms", nil)
	s.Equal(http.StatusOK, w.Code)

	resp := decodeResponse[[]showroomResponse](s.T(), w)
	s.Len(resp, 2)
	s.Equal("A", resp[0].Letter)
	s.Equal("B", resp[1].Letter)
}

func (s *ShowroomHandlersTestSuite) TestListShowroomsByLetter() {
	for _, letter := range []string{"A", "B"} {
		w := serve(s.T(), s.app, http.MethodPost, "/showrooms", createShowroomRequest{Letter: letter, Rows: 1, SeatsPerRow: 2})
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	w := serve(s.T(), s.app, http.MethodGet, "/showrooms?letter=B", nil)
	s.Equal(http.StatusOK, w.Code)

	resp := decodeResponse[[]showroomResponse](s.T(), w)
	s.Require().Len(resp, 1)
	s.Equal("B", resp[0].Letter)

	w = serve(s.T(), s.app, http.MethodGet, "/showrooms?letter=Z", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ShowroomHandlersTestSuite) TestListShowroomsRepositoryError() {
	app := newTestApplication(func(a *Application) {
		a.showroomRepo = &mocks.MockShowroomRepo{
			GetAllFunc: func(ctx context.Context) ([]domain.Showroom, error) {
				return nil, fmt.Errorf("connection refused")
			},
		}
	})

	w := serve(s.T(), app, http.MethodGet, "/showrooms", nil)
	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *ShowroomHandlersTestSuite) TestGetShowroomSeats() {
	w := serve(s.T(), s.app, http.MethodPost, "/showrooms", createShowroomRequest{Letter: "C", Rows: 2, SeatsPerRow: 2})
	s.Require().Equal(http.StatusCreated, w.Code)
	created := decodeResponse[showroomResponse](s.T(), w)

	w = serve(s.T(), s.app, http.MethodGet, fmt.Sprintf("/showrooms/%d/seats", created.ID), nil)
	s.Equal(http.StatusOK, w.Code)

	seats := decodeResponse[[]seatResponse](s.T(), w)
	s.Require().Len(seats, 4)
	s.Equal("A-1", seats[0].Designation)
	s.Equal("B-2", seats[3].Designation)
}

func (s *ShowroomHandlersTestSuite) TestGetShowroomSeatsUnknownShowroom() {
	w := serve(s.T(), s.app, http.MethodGet, "/showrooms/999/seats", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Contains(errorMessage(s.T(), w), "no showroom found with id 999")
}

func (s *ShowroomHandlersTestSuite) TestDeleteShowroom() {
	w := serve(s.T(), s.app, http.MethodPost, "/showrooms", createShowroomRequest{Letter: "D", Rows: 1, SeatsPerRow: 1})
	s.Require().Equal(http.StatusCreated, w.Code)
	created := decodeResponse[showroomResponse](s.T(), w)

	w = serve(s.T(), s.app, http.MethodDelete, fmt.Sprintf("/showrooms/%d", created.ID), nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = serve(s.T(), s.app, http.MethodGet, fmt.Sprintf("/showrooms/%d/seats", created.ID), nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ShowroomHandlersTestSuite) TestDeleteShowroomInvalidID() {
	w := serve(s.T(), s.app, http.MethodDelete, "/showrooms/abc", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(errorMessage(s.T(), w), "invalid showroomID parameter")
}

func (s *ShowroomHandlersTestSuite) TestGetShowroomDeletionInfo() {
	w := serve(s.T(), s.app, http.MethodPost, "/showrooms", createShowroomRequest{Letter: "E", Rows: 2, SeatsPerRow: 3})
	s.Require().Equal(http.StatusCreated, w.Code)
	created := decodeResponse[showroomResponse](s.T(), w)

	w = serve(s.T(), s.app, http.MethodGet, fmt.Sprintf("/showrooms/%d/deletion-info", created.ID), nil)
	s.Equal(http.StatusOK, w.Code)

	info := decodeResponse[deletionInfoResponse](s.T(), w)
	s.Equal(6, info.SeatsToDelete)
	s.Equal(0, info.ScreeningsToDelete)
	s.Equal(0, info.TicketsToRefund)
	s.Equal("0.00", info.RefundTotal)
}
