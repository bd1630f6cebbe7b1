package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Retrieval parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length in characters.
	MaxQueryLength    = 4096
	DefaultMaxResults = 5
	MaxMaxResults     = 10
)

// Request is a validated retrieval query.
type Request struct {
	query      string
	maxResults int
	category   string
}

// New validates and normalizes retrieval parameters.
// An empty query is accepted here: the retrieval service reports it as a soft outcome.
// maxResults=0 selects the default; anything else outside [1, MaxMaxResults] is rejected.
func New(query string, maxResults int, category string) (Request, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d characters)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if maxResults == 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults < 1 || maxResults > MaxMaxResults {
		return Request{}, fmt.Errorf(
			"%w: maxResults must be between 1 and %d, got %d",
			domain.ErrInvalidRequest, MaxMaxResults, maxResults,
		)
	}
	return Request{
		query:      query,
		maxResults: maxResults,
		category:   strings.TrimSpace(category),
	}, nil
}

// Query returns the trimmed query text.
func (r *Request) Query() string { return r.query }

// MaxResults returns the result cap.
func (r *Request) MaxResults() int { return r.maxResults }

// Category returns the optional category hint. Retrieval does not filter on it.
func (r *Request) Category() string { return r.category }
