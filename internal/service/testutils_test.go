package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/cinehall/cinehall/internal/memstore"
)

// spyNotifier records deliveries so tests can assert on them without a mail
// server.
type spyNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

type sentNotification struct {
	Recipient string
	Subject   string
	Body      string
}

func (n *spyNotifier) Notify(_ context.Context, recipient, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

func (n *spyNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// fixture wires every service against one shared in-memory store.
type fixture struct {
	store     *memstore.Store
	notifier  *spyNotifier
	cascade   *CascadeCoordinator
	layout    *LayoutService
	scheduler *SchedulerService
	booking   *BookingService
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()
	notifier := &spyNotifier{}

	cascade := NewCascadeCoordinator(
		logger,
		store,
		store.Showrooms(),
		store.ShowroomSeats(),
		store.Movies(),
		store.Screenings(),
		store.ScreeningSeats(),
		store.Tickets(),
		store.Customers(),
		store.PaymentCards(),
		store.Reviews(),
		store.ReviewVotes(),
	)

	layout := NewLayoutService(
		logger,
		store,
		store.Showrooms(),
		store.ShowroomSeats(),
		store.Screenings(),
		store.Tickets(),
		store.Customers(),
		cascade,
	)

	scheduler := NewSchedulerService(
		logger,
		store,
		store.Movies(),
		store.Showrooms(),
		store.ShowroomSeats(),
		store.Screenings(),
		store.ScreeningSeats(),
		store.Tickets(),
		store.Customers(),
		cascade,
	)

	booking := NewBookingService(
		logger,
		store,
		store.Screenings(),
		store.ScreeningSeats(),
		store.ShowroomSeats(),
		store.Tickets(),
		store.Customers(),
		store.PaymentCards(),
		cascade,
		notifier,
	)

	return &fixture{
		store:     store,
		notifier:  notifier,
		cascade:   cascade,
		layout:    layout,
		scheduler: scheduler,
		booking:   booking,
	}
}

func (f *fixture) addMovie(title string, duration time.Duration) *domain.Movie {
	movie := &domain.Movie{Title: title, Director: "Test Director", Duration: duration}
	if err := f.store.Movies().Create(context.Background(), movie); err != nil {
		panic(err)
	}
	return movie
}

func (f *fixture) addCustomer(email string, tokens int) *domain.Customer {
	customer := &domain.Customer{
		UserID:         1000,
		Email:          email,
		Tokens:         tokens,
		AuthorityValid: true,
	}
	if err := f.store.Customers().Create(context.Background(), customer); err != nil {
		panic(err)
	}
	return customer
}

func (f *fixture) addCensoredCustomer(email string) *domain.Customer {
	customer := &domain.Customer{UserID: 1000, Email: email}
	if err := f.store.Customers().Create(context.Background(), customer); err != nil {
		panic(err)
	}
	return customer
}

func (f *fixture) addCard(customerID int, month time.Month, year int) *domain.PaymentCard {
	card := &domain.PaymentCard{
		CustomerID:      customerID,
		EncodedNumber:   "tok_4242",
		Last4:           "4242",
		ExpirationMonth: month,
		ExpirationYear:  year,
	}
	if err := f.store.PaymentCards().Create(context.Background(), card); err != nil {
		panic(err)
	}
	return card
}

// mustSchedule creates a showroom and movie if needed and places a screening,
// returning its seats.
func (f *fixture) mustSchedule(movieID, showroomID int, showTime time.Time) (int, []domain.ScreeningSeat) {
	ctx := context.Background()
	screeningID, err := f.scheduler.ScheduleScreening(ctx, movieID, showroomID, showTime)
	if err != nil {
		panic(err)
	}
	seats, err := f.scheduler.SeatsOfScreening(ctx, screeningID)
	if err != nil {
		panic(err)
	}
	return screeningID, seats
}
