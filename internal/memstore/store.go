// Package memstore provides in-memory repository implementations backed by a
// single mutex, with snapshot-based transaction rollback. It exists for
// service-level tests that need real conditional-write semantics without a
// database.
package memstore

import (
	"context"
	"maps"
	"sync"

	"github.com/cinehall/cinehall/internal/domain"
)

type txKey struct{}

type state struct {
	showrooms      map[int]domain.Showroom
	showroomSeats  map[int]domain.ShowroomSeat
	movies         map[int]domain.Movie
	screenings     map[int]domain.Screening
	screeningSeats map[int]domain.ScreeningSeat
	tickets        map[int]domain.Ticket
	customers      map[int]domain.Customer
	paymentCards   map[int]domain.PaymentCard
	reviews        map[int]domain.Review
	reviewVotes    map[int]domain.ReviewVote

	seq int
}

func (st *state) clone() *state {
	return &state{
		showrooms:      maps.Clone(st.showrooms),
		showroomSeats:  maps.Clone(st.showroomSeats),
		movies:         maps.Clone(st.movies),
		screenings:     maps.Clone(st.screenings),
		screeningSeats: maps.Clone(st.screeningSeats),
		tickets:        maps.Clone(st.tickets),
		customers:      maps.Clone(st.customers),
		paymentCards:   maps.Clone(st.paymentCards),
		reviews:        maps.Clone(st.reviews),
		reviewVotes:    maps.Clone(st.reviewVotes),
		seq:            st.seq,
	}
}

// Store holds all entities behind one mutex. Transactions take the mutex for
// their whole duration, so anything observed inside RunInTx is serialized
// with every other transaction and standalone call.
type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{
		st: &state{
			showrooms:      map[int]domain.Showroom{},
			showroomSeats:  map[int]domain.ShowroomSeat{},
			movies:         map[int]domain.Movie{},
			screenings:     map[int]domain.Screening{},
			screeningSeats: map[int]domain.ScreeningSeat{},
			tickets:        map[int]domain.Ticket{},
			customers:      map[int]domain.Customer{},
			paymentCards:   map[int]domain.PaymentCard{},
			reviews:        map[int]domain.Review{},
			reviewVotes:    map[int]domain.ReviewVote{},
		},
	}
}

// acquire takes the store mutex unless the context already runs inside a
// transaction, which holds it for the transaction's lifetime.
func (s *Store) acquire(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) nextID() int {
	s.st.seq++
	return s.st.seq
}

// RunInTx implements domain.TxManager. A nested call joins the enclosing
// transaction; its error still rolls the whole transaction back.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) Showrooms() domain.ShowroomRepository           { return showroomRepo{s} }
func (s *Store) ShowroomSeats() domain.ShowroomSeatRepository   { return showroomSeatRepo{s} }
func (s *Store) Movies() domain.MovieRepository                 { return movieRepo{s} }
func (s *Store) Screenings() domain.ScreeningRepository         { return screeningRepo{s} }
func (s *Store) ScreeningSeats() domain.ScreeningSeatRepository { return screeningSeatRepo{s} }
func (s *Store) Tickets() domain.TicketRepository               { return ticketRepo{s} }
func (s *Store) Customers() domain.CustomerRepository           { return customerRepo{s} }
func (s *Store) PaymentCards() domain.PaymentCardRepository     { return paymentCardRepo{s} }
func (s *Store) Reviews() domain.ReviewRepository               { return reviewRepo{s} }
func (s *Store) ReviewVotes() domain.ReviewVoteRepository       { return reviewVoteRepo{s} }

func paginate[T any](items []T, p domain.Pagination) ([]T, *domain.Metadata) {
	total := len(items)
	meta := domain.NewMetadata(total, p.Page, p.PageSize)

	start := p.Offset()
	if start >= total {
		return []T{}, meta
	}
	end := start + p.Limit()
	if end > total {
		end = total
	}
	return items[start:end], meta
}
