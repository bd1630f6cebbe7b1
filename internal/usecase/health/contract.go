package health

import (
	"context"

	domdoc "github.com/kailas-cloud/docqa/internal/domain/document"
)

// KnowledgeBase exposes the document directory state.
type KnowledgeBase interface {
	Check(ctx context.Context) error
	List(ctx context.Context) ([]domdoc.FileInfo, error)
}

// CachePinger checks content-cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ChatChecker checks chat provider availability.
type ChatChecker interface {
	HealthCheck(ctx context.Context) error
}
