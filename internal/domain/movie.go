package domain

import (
	"context"
	"strings"
	"time"
	"unicode"
)

// Movie metadata. SearchTitle is a normalized key derived from the title and
// must be recomputed whenever the title changes.
type Movie struct {
	ID          int
	Title       string
	SearchTitle string
	Director    string
	Synopsis    string
	Duration    time.Duration
}

// NormalizeSearchTitle uppercases the title and strips leading articles and
// non-alphanumeric runes so "The Matrix!" and "matrix" match.
func NormalizeSearchTitle(title string) string {
	upper := strings.ToUpper(strings.TrimSpace(title))

	for _, article := range []string{"THE ", "A ", "AN "} {
		if strings.HasPrefix(upper, article) {
			upper = upper[len(article):]
			break
		}
	}

	var b strings.Builder
	for _, r := range upper {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

type MovieRepository interface {
	Create(ctx context.Context, movie *Movie) error
	GetByID(ctx context.Context, id int) (*Movie, error)
	GetByTitleLike(ctx context.Context, search string, pagination Pagination) ([]Movie, *Metadata, error)
	Delete(ctx context.Context, id int) error
}
