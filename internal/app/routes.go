package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(app.recoverPanic)

	r.Get("/healthcheck", app.GetHealth)

	r.Route("/showrooms", func(r chi.Router) {
		r.Get("/", app.ListShowrooms)
		r.Post("/", app.CreateShowroom)
		r.Delete("/{showroomID}", app.DeleteShowroom)
		r.Get("/{showroomID}/seats", app.GetShowroomSeats)
		r.Get("/{showroomID}/deletion-info", app.GetShowroomDeletionInfo)
		r.Get("/{showroomID}/screenings", app.GetScreeningsOfShowroom)
	})

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", app.SearchMovies)
		r.Post("/", app.CreateMovie)
		r.Delete("/{movieID}", app.DeleteMovie)
		r.Get("/{movieID}/screenings", app.GetScreeningsOfMovie)
	})

	r.Route("/screenings", func(r chi.Router) {
		r.Get("/", app.GetScreenings)
		r.Post("/", app.CreateScreening)
		r.Get("/overlap", app.CheckOverlap)
		r.Delete("/{screeningID}", app.DeleteScreening)
		r.Get("/{screeningID}/seats", app.GetScreeningSeats)
		r.Get("/{screeningID}/deletion-info", app.GetScreeningDeletionInfo)
		r.Post("/{screeningID}/seats/{seatID}/hold", app.HoldSeat)
	})

	r.Route("/tickets", func(r chi.Router) {
		r.Post("/", app.PurchaseTicket)
		r.Get("/{ticketID}", app.GetTicket)
		r.Delete("/{ticketID}", app.RefundTicket)
		r.Post("/{ticketID}/trash", app.TrashTicket)
		r.Get("/{ticketID}/refundable", app.GetTicketRefundable)
		r.Get("/{ticketID}/qr", app.GetTicketQR)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", app.CreateCustomer)
		r.Delete("/{customerID}", app.DeleteCustomer)
		r.Get("/{customerID}/tokens", app.GetTokenBalance)
		r.Get("/{customerID}/tickets", app.GetCustomerTickets)
	})

	r.Route("/payment-cards", func(r chi.Router) {
		r.Post("/", app.AddPaymentCard)
		r.Delete("/{cardID}", app.DeletePaymentCard)
	})

	return r
}
