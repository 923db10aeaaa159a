package domain

import (
	"context"
	"time"
)

// Review is written by a customer about a movie; it owns its votes.
type Review struct {
	ID         int
	MovieID    int
	CustomerID int
	Rating     int
	Body       string
	CreatedAt  time.Time
}

type ReviewVote struct {
	ID         int
	ReviewID   int
	CustomerID int
	Upvote     bool
}

type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id int) (*Review, error)
	GetByMovie(ctx context.Context, movieID int) ([]Review, error)
	GetByCustomer(ctx context.Context, customerID int) ([]Review, error)
	Delete(ctx context.Context, id int) error
}

type ReviewVoteRepository interface {
	Create(ctx context.Context, vote *ReviewVote) error
	GetByReview(ctx context.Context, reviewID int) ([]ReviewVote, error)
	GetByCustomer(ctx context.Context, customerID int) ([]ReviewVote, error)
	Delete(ctx context.Context, id int) error
}
