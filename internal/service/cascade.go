package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cinehall/cinehall/internal/domain"
)

// Kind identifies an entity kind in the ownership graph.
type Kind string

const (
	KindMovie         Kind = "movie"
	KindShowroom      Kind = "showroom"
	KindScreening     Kind = "screening"
	KindShowroomSeat  Kind = "showroom_seat"
	KindScreeningSeat Kind = "screening_seat"
	KindTicket        Kind = "ticket"
	KindCustomer      Kind = "customer"
	KindPaymentCard   Kind = "payment_card"
	KindReview        Kind = "review"
	KindReviewVote    Kind = "review_vote"
)

// childSet is one batch of owned children of a single kind, in deletion order.
type childSet struct {
	kind Kind
	ids  []int
}

// kindSpec declares how one entity kind is torn down: which weak references
// pointing at it must be nulled, which children it exclusively owns, and how
// the record itself is removed. Owned-children lists are computed at visit
// time, so a child already removed by an earlier branch of the same cascade
// simply no longer appears.
type kindSpec struct {
	detach        func(ctx context.Context, id int) error
	ownedChildren func(ctx context.Context, id int) ([]childSet, error)
	remove        func(ctx context.Context, id int) error
}

// CascadeCoordinator is the single delete path of the system. Given a root
// entity it detaches every weak reference to it, recursively deletes
// everything it exclusively owns, and finally removes the root, all inside
// one transaction, so a failure anywhere leaves the graph untouched.
type CascadeCoordinator struct {
	logger *slog.Logger
	tx     domain.TxManager

	showrooms      domain.ShowroomRepository
	showroomSeats  domain.ShowroomSeatRepository
	movies         domain.MovieRepository
	screenings     domain.ScreeningRepository
	screeningSeats domain.ScreeningSeatRepository
	tickets        domain.TicketRepository
	customers      domain.CustomerRepository
	cards          domain.PaymentCardRepository
	reviews        domain.ReviewRepository
	reviewVotes    domain.ReviewVoteRepository

	table map[Kind]kindSpec
}

func NewCascadeCoordinator(
	logger *slog.Logger,
	tx domain.TxManager,
	showrooms domain.ShowroomRepository,
	showroomSeats domain.ShowroomSeatRepository,
	movies domain.MovieRepository,
	screenings domain.ScreeningRepository,
	screeningSeats domain.ScreeningSeatRepository,
	tickets domain.TicketRepository,
	customers domain.CustomerRepository,
	cards domain.PaymentCardRepository,
	reviews domain.ReviewRepository,
	reviewVotes domain.ReviewVoteRepository,
) *CascadeCoordinator {
	c := &CascadeCoordinator{
		logger:         logger,
		tx:             tx,
		showrooms:      showrooms,
		showroomSeats:  showroomSeats,
		movies:         movies,
		screenings:     screenings,
		screeningSeats: screeningSeats,
		tickets:        tickets,
		customers:      customers,
		cards:          cards,
		reviews:        reviews,
		reviewVotes:    reviewVotes,
	}
	c.table = c.buildTable()

	return c
}

func (c *CascadeCoordinator) buildTable() map[Kind]kindSpec {
	return map[Kind]kindSpec{
		KindMovie: {
			ownedChildren: func(ctx context.Context, id int) ([]childSet, error) {
				reviews, err := c.reviews.GetByMovie(ctx, id)
				if err != nil {
					return nil, err
				}
				screenings, _, err := c.screenings.GetByMovie(ctx, id, allPages)
				if err != nil {
					return nil, err
				}
				return []childSet{
					{KindReview, reviewIDs(reviews)},
					{KindScreening, screeningIDs(screenings)},
				}, nil
			},
			remove: c.movies.Delete,
		},
		KindShowroom: {
			ownedChildren: func(ctx context.Context, id int) ([]childSet, error) {
				seats, err := c.showroomSeats.GetByShowroom(ctx, id)
				if err != nil {
					return nil, err
				}
				screenings, err := c.screenings.GetByShowroom(ctx, id)
				if err != nil {
					return nil, err
				}
				return []childSet{
					{KindShowroomSeat, showroomSeatIDs(seats)},
					{KindScreening, screeningIDs(screenings)},
				}, nil
			},
			remove: c.showrooms.Delete,
		},
		KindScreening: {
			// Movie and showroom hold no materialized collections in this
			// model; removing the row detaches both weak relations.
			ownedChildren: func(ctx context.Context, id int) ([]childSet, error) {
				seats, err := c.screeningSeats.GetByScreening(ctx, id)
				if err != nil {
					return nil, err
				}
				return []childSet{{KindScreeningSeat, screeningSeatIDs(seats)}}, nil
			},
			remove: c.screenings.Delete,
		},
		KindShowroomSeat: {
			ownedChildren: func(ctx context.Context, id int) ([]childSet, error) {
				seats, err := c.screeningSeats.GetByShowroomSeat(ctx, id)
				if err != nil {
					return nil, err
				}
				return []childSet{{KindScreeningSeat, screeningSeatIDs(seats)}}, nil
			},
			remove: c.showroomSeats.Delete,
		},
		KindScreeningSeat: {
			// A booked seat takes its ticket down with it; the ticket step
			// releases the seat, nulling both sides of the reference.
			ownedChildren: func(ctx context.Context, id int) ([]childSet, error) {
				seat, err := c.screeningSeats.GetByID(ctx, id)
				if err != nil {
					return nil, err
				}
				if seat.TicketID == nil {
					return nil, nil
				}
				return []childSet{{KindTicket, []int{*seat.TicketID}}}, nil
			},
			remove: c.screeningSeats.Delete,
		},
		KindTicket: {
			detach: func(ctx context.Context, id int) error {
				ticket, err := c.tickets.GetByID(ctx, id)
				if err != nil {
					return err
				}
				return c.screeningSeats.Release(ctx, ticket.ScreeningSeatID)
			},
			remove: c.tickets.Delete,
		},
		KindCustomer: {
			// The censored-by relation lives on the customer row itself and
			// the user authority mapping is a plain foreign key; removing the
			// row detaches both.
			ownedChildren: func(ctx context.Context, id int) ([]childSet, error) {
				reviews, err := c.reviews.GetByCustomer(ctx, id)
				if err != nil {
					return nil, err
				}
				votes, err := c.reviewVotes.GetByCustomer(ctx, id)
				if err != nil {
					return nil, err
				}
				tickets, err := c.tickets.GetByCustomer(ctx, id)
				if err != nil {
					return nil, err
				}
				cards, err := c.cards.GetByCustomer(ctx, id)
				if err != nil {
					return nil, err
				}
				return []childSet{
					{KindReview, reviewIDs(reviews)},
					{KindReviewVote, voteIDs(votes)},
					{KindTicket, ticketIDs(tickets)},
					{KindPaymentCard, cardIDs(cards)},
				}, nil
			},
			remove: c.customers.Delete,
		},
		KindPaymentCard: {
			detach: func(ctx context.Context, id int) error {
				// Tickets funded by the card survive as token-backed.
				return c.tickets.DetachPaymentCard(ctx, id)
			},
			remove: c.cards.Delete,
		},
		KindReview: {
			ownedChildren: func(ctx context.Context, id int) ([]childSet, error) {
				votes, err := c.reviewVotes.GetByReview(ctx, id)
				if err != nil {
					return nil, err
				}
				return []childSet{{KindReviewVote, voteIDs(votes)}}, nil
			},
			remove: c.reviews.Delete,
		},
		KindReviewVote: {
			remove: c.reviewVotes.Delete,
		},
	}
}

// Delete removes the entity and its owned subtree. It opens a transaction
// unless the context already carries one, in which case it joins it.
func (c *CascadeCoordinator) Delete(ctx context.Context, kind Kind, id int) error {
	return c.tx.RunInTx(ctx, func(ctx context.Context) error {
		return c.delete(ctx, kind, id)
	})
}

func (c *CascadeCoordinator) delete(ctx context.Context, kind Kind, id int) error {
	spec, ok := c.table[kind]
	if !ok {
		return fmt.Errorf("cascade: unknown entity kind %q", kind)
	}

	c.logger.Debug("cascade delete", "kind", string(kind), "id", id)

	if spec.detach != nil {
		if err := spec.detach(ctx, id); err != nil {
			if alreadyGone(err) {
				return nil
			}
			return fmt.Errorf("cascade: detach %s %d: %w", kind, id, err)
		}
	}

	if spec.ownedChildren != nil {
		sets, err := spec.ownedChildren(ctx, id)
		if err != nil {
			if alreadyGone(err) {
				return nil
			}
			return fmt.Errorf("cascade: resolve children of %s %d: %w", kind, id, err)
		}
		for _, set := range sets {
			for _, childID := range set.ids {
				if err := c.delete(ctx, set.kind, childID); err != nil {
					return err
				}
			}
		}
	}

	if err := spec.remove(ctx, id); err != nil {
		if alreadyGone(err) {
			return nil
		}
		return fmt.Errorf("cascade: remove %s %d: %w", kind, id, err)
	}

	return nil
}

// alreadyGone reports whether the error means an earlier branch of the same
// cascade removed the record. Child sets of one node are snapshotted before
// the walk, so sibling sets may overlap (a customer's vote on their own
// review is listed under both the review and the vote set); a second visit
// finds nothing and must be a no-op.
func alreadyGone(err error) bool {
	var notFound *domain.NotFoundError
	return errors.Is(err, domain.ErrRecordNotFound) || errors.As(err, &notFound)
}

// Kinds returns every entity kind the coordinator can tear down. The cascade
// completeness test walks this to verify mechanically that no kind is missing
// a teardown spec.
func (c *CascadeCoordinator) Kinds() []Kind {
	kinds := make([]Kind, 0, len(c.table))
	for k := range c.table {
		kinds = append(kinds, k)
	}
	return kinds
}

var allPages = domain.Pagination{Page: 1, PageSize: 1_000_000}

func reviewIDs(reviews []domain.Review) []int {
	ids := make([]int, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}
	return ids
}

func voteIDs(votes []domain.ReviewVote) []int {
	ids := make([]int, len(votes))
	for i, v := range votes {
		ids[i] = v.ID
	}
	return ids
}

func ticketIDs(tickets []domain.Ticket) []int {
	ids := make([]int, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
	}
	return ids
}

func cardIDs(cards []domain.PaymentCard) []int {
	ids := make([]int, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func showroomSeatIDs(seats []domain.ShowroomSeat) []int {
	ids := make([]int, len(seats))
	for i, s := range seats {
		ids[i] = s.ID
	}
	return ids
}

func screeningSeatIDs(seats []domain.ScreeningSeat) []int {
	ids := make([]int, len(seats))
	for i, s := range seats {
		ids[i] = s.ID
	}
	return ids
}

func screeningIDs(screenings []domain.Screening) []int {
	ids := make([]int, len(screenings))
	for i, s := range screenings {
		ids[i] = s.ID
	}
	return ids
}
