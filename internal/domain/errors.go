package domain

import "errors"

var (
	// ErrInvalidRequest signals a request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrKnowledgeBaseUnavailable signals that the document directory cannot be read.
	ErrKnowledgeBaseUnavailable = errors.New("knowledge base unavailable")
	// ErrChatProviderError signals a chat-completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrChatQuotaExceeded signals an exhausted chat token budget.
	ErrChatQuotaExceeded = errors.New("chat quota exceeded")
	// ErrChatNotConfigured signals that no chat provider is configured.
	ErrChatNotConfigured = errors.New("chat provider not configured")
)
