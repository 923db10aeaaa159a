package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/stretchr/testify/suite"
)

type BookingTestSuite struct {
	suite.Suite
	f        *fixture
	customer *domain.Customer
	showTime time.Time
	seats    []domain.ScreeningSeat
}

func (s *BookingTestSuite) SetupTest() {
	s.f = newFixture()

	movie := s.f.addMovie("Dune", 2*time.Hour)
	showroomID, err := s.f.layout.CreateShowroom(context.Background(), "A", 2, 2)
	s.Require().NoError(err)

	s.showTime = time.Date(2026, time.December, 1, 19, 0, 0, 0, time.UTC)
	_, s.seats = s.f.mustSchedule(movie.ID, showroomID, s.showTime)

	s.customer = s.f.addCustomer("alice@example.com", 20)

	// A month before the screening, well inside the sale window.
	s.f.booking.now = func() time.Time { return s.showTime.Add(-30 * 24 * time.Hour) }
}

func TestBookingSuite(t *testing.T) {
	suite.Run(t, new(BookingTestSuite))
}

func (s *BookingTestSuite) book(params BookSeatParams) (*domain.Ticket, error) {
	if params.CustomerID == 0 {
		params.CustomerID = s.customer.ID
	}
	if params.ScreeningSeatID == 0 {
		params.ScreeningSeatID = s.seats[0].ID
	}
	if params.Type == "" {
		params.Type = domain.TicketTypeAdult
	}
	return s.f.booking.BookSeat(context.Background(), params)
}

func (s *BookingTestSuite) TestBookSeat() {
	ticket, err := s.book(BookSeatParams{})
	s.Require().NoError(err)

	s.Positive(ticket.ID)
	s.NotEqual("00000000-0000-0000-0000-000000000000", ticket.RefCode.String())
	s.Equal(domain.TicketStatusValid, ticket.Status)

	seat, err := s.f.store.ScreeningSeats().GetByID(context.Background(), s.seats[0].ID)
	s.Require().NoError(err)
	s.Require().True(seat.Booked())
	s.Equal(ticket.ID, *seat.TicketID)
}

func (s *BookingTestSuite) TestBookSeatPreconditions() {
	expiredCard := s.f.addCard(s.customer.ID, time.January, 2026)
	validCard := s.f.addCard(s.customer.ID, time.December, 2030)

	other := s.f.addCustomer("bob@example.com", 0)
	foreignCard := s.f.addCard(other.ID, time.December, 2030)

	censored := s.f.addCensoredCustomer("carol@example.com")

	tests := []struct {
		name           string
		params         BookSeatParams
		wantValidation bool
		wantInvalid    string
		wantNotFound   bool
	}{
		{
			name:           "should fail with unknown ticket type",
			params:         BookSeatParams{Type: "STUDENT"},
			wantValidation: true,
		},
		{
			name:           "should fail with negative tokens",
			params:         BookSeatParams{TokensToApply: -1},
			wantValidation: true,
		},
		{
			name:        "should fail with more tokens than balance",
			params:      BookSeatParams{TokensToApply: 21},
			wantInvalid: "cannot apply 21 tokens",
		},
		{
			name:         "should fail with unknown customer",
			params:       BookSeatParams{CustomerID: 404},
			wantNotFound: true,
		},
		{
			name:        "should fail with censored customer",
			params:      BookSeatParams{CustomerID: censored.ID},
			wantInvalid: "not permitted",
		},
		{
			name:         "should fail with unknown payment card",
			params:       BookSeatParams{PaymentCardID: ptr(404)},
			wantNotFound: true,
		},
		{
			name:        "should fail with another customer's payment card",
			params:      BookSeatParams{PaymentCardID: ptr(foreignCard.ID)},
			wantInvalid: "does not belong",
		},
		{
			name:        "should fail with expired payment card",
			params:      BookSeatParams{PaymentCardID: ptr(expiredCard.ID)},
			wantInvalid: "expired payment card",
		},
		{
			name:   "should book with valid payment card",
			params: BookSeatParams{PaymentCardID: ptr(validCard.ID)},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.book(tt.params)

			switch {
			case tt.wantValidation:
				var validationErr *domain.ValidationError
				s.ErrorAs(err, &validationErr)
			case tt.wantNotFound:
				var notFoundErr *domain.NotFoundError
				s.ErrorAs(err, &notFoundErr)
			case tt.wantInvalid != "":
				var invalidErr *domain.InvalidActionError
				s.Require().ErrorAs(err, &invalidErr)
				s.Contains(invalidErr.Reason, tt.wantInvalid)
			default:
				s.NoError(err)
			}
		})
	}
}

func (s *BookingTestSuite) TestBookSeatExpiredCardCurrentMonthStillValid() {
	now := s.f.booking.now()
	card := s.f.addCard(s.customer.ID, now.Month(), now.Year())

	_, err := s.book(BookSeatParams{PaymentCardID: ptr(card.ID)})
	s.NoError(err)
}

func (s *BookingTestSuite) TestBookSeatForPastScreening() {
	s.f.booking.now = func() time.Time { return s.showTime.Add(time.Minute) }

	_, err := s.book(BookSeatParams{})

	var invalidErr *domain.InvalidActionError
	s.Require().ErrorAs(err, &invalidErr)
	s.Contains(invalidErr.Reason, "past screening")
}

func (s *BookingTestSuite) TestBookSeatAlreadyBooked() {
	_, err := s.book(BookSeatParams{})
	s.Require().NoError(err)

	_, err = s.book(BookSeatParams{})

	var invalidErr *domain.InvalidActionError
	s.Require().ErrorAs(err, &invalidErr)
	s.Contains(invalidErr.Reason, "seat is already booked")
}

func (s *BookingTestSuite) TestBookSeatDebitsTokens() {
	_, err := s.book(BookSeatParams{TokensToApply: 5})
	s.Require().NoError(err)

	refreshed, err := s.f.store.Customers().GetByID(context.Background(), s.customer.ID)
	s.Require().NoError(err)
	s.Equal(15, refreshed.Tokens)
}

func (s *BookingTestSuite) TestConcurrentBookingSameSeat() {
	bob := s.f.addCustomer("bob@example.com", 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	customers := []int{s.customer.ID, bob.ID}
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.book(BookSeatParams{CustomerID: customers[i]})
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var invalidErr *domain.InvalidActionError
		s.Require().ErrorAs(err, &invalidErr)
		s.Contains(invalidErr.Reason, "seat is already booked")
		conflicts++
	}
	s.Equal(1, successes)
	s.Equal(1, conflicts)

	seat, err := s.f.store.ScreeningSeats().GetByID(context.Background(), s.seats[0].ID)
	s.Require().NoError(err)
	s.True(seat.Booked())
}

func (s *BookingTestSuite) TestIsRefundable() {
	ticket, err := s.book(BookSeatParams{})
	s.Require().NoError(err)

	boundary := s.showTime.Add(-3 * 24 * time.Hour)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"well before the window closes", s.showTime.Add(-30 * 24 * time.Hour), true},
		{"one second before the boundary", boundary.Add(-time.Second), true},
		{"exactly at the boundary", boundary, false},
		{"one second past the boundary", boundary.Add(time.Second), false},
		{"after the screening", s.showTime.Add(time.Hour), false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.f.booking.now = func() time.Time { return tt.now }

			got, err := s.f.booking.IsRefundable(context.Background(), ticket.ID)
			s.Require().NoError(err)
			s.Equal(tt.want, got)
		})
	}
}

func (s *BookingTestSuite) TestRefundTicket() {
	ticket, err := s.book(BookSeatParams{TokensToApply: 0})
	s.Require().NoError(err)

	s.Require().NoError(s.f.booking.RefundTicket(context.Background(), ticket.ID))

	// Seat is free again and the ticket is gone.
	seat, err := s.f.store.ScreeningSeats().GetByID(context.Background(), s.seats[0].ID)
	s.Require().NoError(err)
	s.False(seat.Booked())

	var notFoundErr *domain.NotFoundError
	_, err = s.f.booking.TicketDetail(context.Background(), ticket.ID)
	s.ErrorAs(err, &notFoundErr)

	// The token-funded purchase came back as tokens.
	refreshed, err := s.f.store.Customers().GetByID(context.Background(), s.customer.ID)
	s.Require().NoError(err)
	s.Equal(20+domain.TicketTypeAdult.TokenValue(), refreshed.Tokens)
}

func (s *BookingTestSuite) TestRefundTicketCardBacked() {
	card := s.f.addCard(s.customer.ID, time.December, 2030)

	ticket, err := s.book(BookSeatParams{PaymentCardID: ptr(card.ID)})
	s.Require().NoError(err)

	s.Require().NoError(s.f.booking.RefundTicket(context.Background(), ticket.ID))

	seat, err := s.f.store.ScreeningSeats().GetByID(context.Background(), s.seats[0].ID)
	s.Require().NoError(err)
	s.False(seat.Booked())

	// The card refund happens outside this system, so no tokens appear.
	refreshed, err := s.f.store.Customers().GetByID(context.Background(), s.customer.ID)
	s.Require().NoError(err)
	s.Equal(20, refreshed.Tokens)
}

func (s *BookingTestSuite) TestRefundTicketCardExpiredSincePurchase() {
	// Usable at purchase time, expired by the time of the refund.
	card := s.f.addCard(s.customer.ID, time.October, 2026)

	s.f.booking.now = func() time.Time { return time.Date(2026, time.October, 2, 12, 0, 0, 0, time.UTC) }
	ticket, err := s.book(BookSeatParams{PaymentCardID: ptr(card.ID)})
	s.Require().NoError(err)

	s.f.booking.now = func() time.Time { return time.Date(2026, time.November, 21, 12, 0, 0, 0, time.UTC) }
	s.Require().NoError(s.f.booking.RefundTicket(context.Background(), ticket.ID))

	refreshed, err := s.f.store.Customers().GetByID(context.Background(), s.customer.ID)
	s.Require().NoError(err)
	s.Equal(20+domain.TicketTypeAdult.TokenValue(), refreshed.Tokens)
}

func (s *BookingTestSuite) TestRefundTicketInsideThreeDays() {
	ticket, err := s.book(BookSeatParams{})
	s.Require().NoError(err)

	s.f.booking.now = func() time.Time { return s.showTime.Add(-24 * time.Hour) }

	err = s.f.booking.RefundTicket(context.Background(), ticket.ID)

	var invalidErr *domain.InvalidActionError
	s.Require().ErrorAs(err, &invalidErr)
	s.Contains(invalidErr.Reason, "more than 3 days")

	// Nothing changed.
	seat, err := s.f.store.ScreeningSeats().GetByID(context.Background(), s.seats[0].ID)
	s.Require().NoError(err)
	s.True(seat.Booked())
}

func (s *BookingTestSuite) TestTrashTicket() {
	ticket, err := s.book(BookSeatParams{})
	s.Require().NoError(err)

	s.Require().NoError(s.f.booking.TrashTicket(context.Background(), ticket.ID))

	detail, err := s.f.booking.TicketDetail(context.Background(), ticket.ID)
	s.Require().NoError(err)
	s.Equal(domain.TicketStatusAdminTrashed, detail.Status)

	// The seat stays claimed.
	seat, err := s.f.store.ScreeningSeats().GetByID(context.Background(), s.seats[0].ID)
	s.Require().NoError(err)
	s.True(seat.Booked())

	err = s.f.booking.TrashTicket(context.Background(), ticket.ID)
	var invalidErr *domain.InvalidActionError
	s.ErrorAs(err, &invalidErr)
}

func ptr(v int) *int {
	return &v
}
