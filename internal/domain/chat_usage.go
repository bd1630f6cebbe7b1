package domain

import "context"

type chatUsageKey struct{}

// ChatUsage collects token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the service adds tokens after each completion round; the handler reads it for response headers.
type ChatUsage struct {
	PromptTokens     int
	CompletionTokens int
	ToolCalls        int
}

// NewContextWithChatUsage returns a context with an embedded usage collector.
func NewContextWithChatUsage(ctx context.Context) (context.Context, *ChatUsage) {
	u := &ChatUsage{}
	return context.WithValue(ctx, chatUsageKey{}, u), u
}

// ChatUsageFromContext extracts the usage collector from context. Returns nil if not set.
func ChatUsageFromContext(ctx context.Context) *ChatUsage {
	u, _ := ctx.Value(chatUsageKey{}).(*ChatUsage)
	return u
}

// Add records one completion round.
func (u *ChatUsage) Add(prompt, completion, toolCalls int) {
	if u != nil {
		u.PromptTokens += prompt
		u.CompletionTokens += completion
		u.ToolCalls += toolCalls
	}
}

// Total returns prompt plus completion tokens.
func (u *ChatUsage) Total() int {
	if u == nil {
		return 0
	}
	return u.PromptTokens + u.CompletionTokens
}
