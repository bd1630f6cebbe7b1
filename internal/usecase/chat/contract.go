package chat

import (
	"context"

	domchat "github.com/kailas-cloud/docqa/internal/domain/chat"
	"github.com/kailas-cloud/docqa/internal/domain/search/request"
	"github.com/kailas-cloud/docqa/internal/domain/search/result"
)

// Completer sends one chat-completion request.
type Completer interface {
	Complete(ctx context.Context, msgs []domchat.Message, tools []domchat.Tool) (domchat.Completion, error)
}

// Retriever answers knowledge-base queries for the tool binding.
type Retriever interface {
	Retrieve(ctx context.Context, req *request.Request) result.Response
}

// BudgetChecker enforces the token budget.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}
