package integration_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ShowroomLifecycleSuite struct {
	BaseSuite
}

func TestShowroomLifecycleSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(ShowroomLifecycleSuite))
}

func (s *ShowroomLifecycleSuite) TestShowroomLifecycle() {
	scenarios := []Scenario{
		{
			Name:           "creates a showroom with its seat grid",
			Method:         http.MethodPost,
			URL:            "/showrooms",
			Body:           strings.NewReader(`{"letter": "A", "rows": 2, "seatsPerRow": 3}`),
			ExpectedStatus: http.StatusCreated,
			ExpectedResponse: `{
				"id": 1,
				"letter": "A",
				"rows": 2,
				"seatsPerRow": 3
			}`,
		},
		{
			Name:           "rejects a duplicate room letter",
			Method:         http.MethodPost,
			URL:            "/showrooms",
			Body:           strings.NewReader(`{"letter": "A", "rows": 1, "seatsPerRow": 1}`),
			ExpectedStatus: http.StatusConflict,
			ExpectedResponse: `{
				"message": "showroom with room letter A already exists"
			}`,
		},
		{
			Name:           "rejects a lowercase room letter",
			Method:         http.MethodPost,
			URL:            "/showrooms",
			Body:           strings.NewReader(`{"letter": "b", "rows": 1, "seatsPerRow": 1}`),
			ExpectedStatus: http.StatusUnprocessableEntity,
			ExpectedResponse: `{
				"message": "Letter must be a single letter A-Z"
			}`,
		},
		{
			Name:           "lists the generated seats in row order",
			Method:         http.MethodGet,
			URL:            "/showrooms/1/seats",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var seats []struct {
					Designation string `json:"designation"`
					RowLetter   string `json:"rowLetter"`
					SeatNumber  int    `json:"seatNumber"`
				}
				require.NoError(t, json.NewDecoder(res.Body).Decode(&seats))
				require.Len(t, seats, 6)
				assert.Equal(t, "A-1", seats[0].Designation)
				assert.Equal(t, "B-3", seats[5].Designation)
			},
		},
		{
			Name:           "reports the deletion impact of an empty showroom",
			Method:         http.MethodGet,
			URL:            "/showrooms/1/deletion-info",
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: `{
				"seatsToDelete": 6,
				"screeningsToDelete": 0,
				"ticketsToRefund": 0,
				"refundTotal": "0.00"
			}`,
		},
		{
			Name:           "deletes the showroom",
			Method:         http.MethodDelete,
			URL:            "/showrooms/1",
			ExpectedStatus: http.StatusNoContent,
		},
		{
			Name:           "returns not found once the showroom is gone",
			Method:         http.MethodGet,
			URL:            "/showrooms/1/seats",
			ExpectedStatus: http.StatusNotFound,
			ExpectedResponse: `{
				"message": "no showroom found with id 1"
			}`,
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}
