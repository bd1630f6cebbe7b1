package chi

import (
	"context"

	domchat "github.com/kailas-cloud/docqa/internal/domain/chat"
	domdoc "github.com/kailas-cloud/docqa/internal/domain/document"
	"github.com/kailas-cloud/docqa/internal/domain/search/request"
	"github.com/kailas-cloud/docqa/internal/domain/search/result"
	"github.com/kailas-cloud/docqa/internal/domain/topic"
	domusage "github.com/kailas-cloud/docqa/internal/domain/usage"
	healthuc "github.com/kailas-cloud/docqa/internal/usecase/health"
)

// Retriever runs knowledge-base retrieval.
type Retriever interface {
	Retrieve(ctx context.Context, req *request.Request) result.Response
	Catalog() *topic.Catalog
}

// Chatter answers chat messages.
type Chatter interface {
	Reply(ctx context.Context, message string, history []domchat.Turn) (domchat.Reply, error)
}

// DocumentLister lists accepted knowledge-base files.
type DocumentLister interface {
	List(ctx context.Context) ([]domdoc.FileInfo, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// UsageReporter reports chat token usage.
type UsageReporter interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}
