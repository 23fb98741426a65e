package search

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// Searcher sends a query to the backend.
type Searcher interface {
	Search(ctx context.Context, query string) (domain.Answer, error)
}
