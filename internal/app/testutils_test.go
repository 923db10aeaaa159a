package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/cinehall/cinehall/internal/memstore"
	"github.com/cinehall/cinehall/internal/notifier"
	"github.com/cinehall/cinehall/internal/validator"
)

func newTestApplication(opts ...func(*Application)) *Application {
	store := memstore.New()

	app := &Application{
		config:    Config{Env: "test"},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator: validator.NewValidator(),
		notifier:  &notifier.MockNotifier{},
		seatHolds: memstore.NewSeatHoldStore(time.Minute),

		tx:                store,
		showroomRepo:      store.Showrooms(),
		showroomSeatRepo:  store.ShowroomSeats(),
		movieRepo:         store.Movies(),
		screeningRepo:     store.Screenings(),
		screeningSeatRepo: store.ScreeningSeats(),
		ticketRepo:        store.Tickets(),
		customerRepo:      store.Customers(),
		cardRepo:          store.PaymentCards(),
		reviewRepo:        store.Reviews(),
		reviewVoteRepo:    store.ReviewVotes(),
	}

	for _, opt := range opts {
		opt(app)
	}

	app.initServices()

	return app
}

// serve routes the request through the full router so URL parameters resolve.
func serve(t *testing.T, app *Application, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	app.Routes().ServeHTTP(w, r)

	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	return decodeResponse[errorResponseBody](t, w).Message
}

func seedCustomer(t *testing.T, app *Application, email string, tokens int) *domain.Customer {
	t.Helper()

	customer := &domain.Customer{
		UserID:         tokens + 1000,
		Email:          email,
		Tokens:         tokens,
		AuthorityValid: true,
	}
	if err := app.customerRepo.Create(context.Background(), customer); err != nil {
		t.Fatal(err)
	}
	return customer
}

func seedCard(t *testing.T, app *Application, customerID int) *domain.PaymentCard {
	t.Helper()

	card := &domain.PaymentCard{
		CustomerID:      customerID,
		EncodedNumber:   domain.EncodeCardNumber("4242424242424242"),
		Last4:           "4242",
		ExpirationMonth: time.December,
		ExpirationYear:  time.Now().Year() + 2,
	}
	if err := app.cardRepo.Create(context.Background(), card); err != nil {
		t.Fatal(err)
	}
	return card
}

func ptr[T any](v T) *T {
	return &v
}
