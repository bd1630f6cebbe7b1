package retrieval

import (
	"context"

	domdoc "github.com/kailas-cloud/docqa/internal/domain/document"
)

// DocumentLoader produces the current document snapshot.
type DocumentLoader interface {
	Load(ctx context.Context) ([]domdoc.Document, error)
}
