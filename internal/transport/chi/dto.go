package chi

import (
	"time"

	domchat "github.com/kailas-cloud/docqa/internal/domain/chat"
	domdoc "github.com/kailas-cloud/docqa/internal/domain/document"
	domusage "github.com/kailas-cloud/docqa/internal/domain/usage"
	healthuc "github.com/kailas-cloud/docqa/internal/usecase/health"
)

// errorCode is a machine-readable error identifier.
type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codeValidationFailed   errorCode = "validation_failed"
	codeUnauthorized       errorCode = "unauthorized"
	codeNotFound           errorCode = "not_found"
	codeChatQuotaExceeded  errorCode = "chat_quota_exceeded"
	codeChatProviderError  errorCode = "chat_provider_error"
	codeChatNotConfigured  errorCode = "chat_not_configured"
	codeKnowledgeBaseError errorCode = "knowledge_base_unavailable"
	codeInternalError      errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type retrieveRequest struct {
	Query      string `json:"query"`
	MaxResults *int   `json:"maxResults,omitempty"`
	Category   string `json:"category,omitempty"`
}

type chatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Message             string     `json:"message"`
	ConversationHistory []chatTurn `json:"conversationHistory"`
}

type chatResponse struct {
	ID        string    `json:"id"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type documentItem struct {
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	SizeHuman  string    `json:"sizeHuman"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

type documentListResponse struct {
	Documents []documentItem `json:"documents"`
	Total     int            `json:"total"`
}

type topicListResponse struct {
	Topics []string `json:"topics"`
}

type budgetStatus struct {
	TokensLimit     int64      `json:"tokensLimit"`
	TokensUsed      int64      `json:"tokensUsed"`
	TokensRemaining int64      `json:"tokensRemaining"`
	IsExhausted     bool       `json:"isExhausted"`
	ResetsAt        *time.Time `json:"resetsAt,omitempty"`
}

type usageResponse struct {
	Period        string       `json:"period"`
	PeriodStartAt time.Time    `json:"periodStartAt"`
	PeriodEndAt   time.Time    `json:"periodEndAt"`
	Budget        budgetStatus `json:"budget"`
}

type healthResponse struct {
	Status         string            `json:"status"`
	Service        string            `json:"service"`
	Version        string            `json:"version"`
	DocumentsCount int               `json:"documentsCount"`
	Checks         map[string]string `json:"checks"`
}

func turnsFromDTO(in []chatTurn) []domchat.Turn {
	out := make([]domchat.Turn, len(in))
	for i, t := range in {
		out[i] = domchat.Turn{Role: domchat.Role(t.Role), Content: t.Content}
	}
	return out
}

func documentToDTO(f domdoc.FileInfo) documentItem {
	return documentItem{
		Name:       f.Name,
		Type:       string(f.Kind),
		Size:       f.Size,
		SizeHuman:  domdoc.HumanSize(f.Size),
		ModifiedAt: f.ModifiedAt.UTC(),
	}
}

func usageToDTO(r domusage.Report) usageResponse {
	b := r.Budget()
	resp := usageResponse{
		Period:        string(r.Period()),
		PeriodStartAt: time.UnixMilli(r.PeriodStart()).UTC(),
		PeriodEndAt:   time.UnixMilli(r.PeriodEnd()).UTC(),
		Budget: budgetStatus{
			TokensLimit:     b.Limit,
			TokensUsed:      b.Used,
			TokensRemaining: b.Remaining,
			IsExhausted:     b.Exhausted,
		},
	}
	if b.ResetsAt > 0 {
		resetsAt := time.UnixMilli(b.ResetsAt).UTC()
		resp.Budget.ResetsAt = &resetsAt
	}
	return resp
}

func healthToDTO(r healthuc.Report, version string) healthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return healthResponse{
		Status:         string(r.Status),
		Service:        "docqa",
		Version:        version,
		DocumentsCount: r.DocumentsCount,
		Checks:         checks,
	}
}
