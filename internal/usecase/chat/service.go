// Package chat implements the onboarding assistant: a tool-calling loop that
// lets the model search the knowledge base before answering.
package chat

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
	domchat "github.com/kailas-cloud/docqa/internal/domain/chat"
	"github.com/kailas-cloud/docqa/internal/domain/search/request"
	"github.com/kailas-cloud/docqa/internal/logger"
	"github.com/kailas-cloud/docqa/internal/metrics"
)

// ToolName is the function name the model calls to search documents.
const ToolName = "knowledgeRetriever"

// FallbackReply is returned when the model produces no text.
const FallbackReply = "I'm sorry, I couldn't generate a response. Please try asking your question differently."

//go:embed prompt.txt
var defaultSystemPrompt string

var retrieverTool = domchat.Tool{
	Name: ToolName,
	Description: "Search the company knowledge base for onboarding information, policies, " +
		"tools documentation, and FAQs to help new hires.",
	Parameters: json.RawMessage(`{
  "type": "object",
  "properties": {
    "query": {"type": "string", "minLength": 2, "description": "The search query - what the new hire is asking about"},
    "maxResults": {"type": "integer", "minimum": 1, "maximum": 10, "default": 5, "description": "Maximum number of results to return"},
    "category": {"type": "string", "description": "Optional category filter: onboarding, policies, tools, benefits, culture"}
  },
  "required": ["query"]
}`),
}

var (
	boldMarkup  = regexp.MustCompile(`\*\*(.*?)\*\*`)
	extraBlanks = regexp.MustCompile(`\n\n\n+`)
)

// Config holds chat loop limits.
type Config struct {
	Provider      string
	Model         string
	SystemPrompt  string
	HistoryLimit  int
	MaxToolRounds int
}

// Service runs chat turns against a completion provider.
type Service struct {
	completer Completer
	retriever Retriever
	budget    BudgetChecker
	cfg       Config
	now       func() time.Time
}

// New creates a chat service. budget may be nil.
func New(completer Completer, retriever Retriever, budget BudgetChecker, cfg Config) *Service {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = strings.TrimSpace(defaultSystemPrompt)
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = 4
	}
	return &Service{
		completer: completer,
		retriever: retriever,
		budget:    budget,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Reply answers message given the prior conversation. Only the most recent
// HistoryLimit turns are forwarded to the model.
func (s *Service) Reply(ctx context.Context, message string, history []domchat.Turn) (domchat.Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domchat.Reply{}, fmt.Errorf("%w: message is required", domain.ErrInvalidRequest)
	}
	if s.completer == nil {
		return domchat.Reply{}, domain.ErrChatNotConfigured
	}
	for i, t := range history {
		if err := t.Validate(); err != nil {
			return domchat.Reply{}, fmt.Errorf("%w: conversationHistory[%d]: %w", domain.ErrInvalidRequest, i, err)
		}
	}

	if len(history) > s.cfg.HistoryLimit {
		history = history[len(history)-s.cfg.HistoryLimit:]
	}

	msgs := make([]domchat.Message, 0, len(history)+2)
	msgs = append(msgs, domchat.Message{Role: domchat.RoleSystem, Content: s.cfg.SystemPrompt})
	for _, t := range history {
		msgs = append(msgs, domchat.Message{Role: t.Role, Content: t.Content})
	}
	msgs = append(msgs, domchat.Message{Role: domchat.RoleUser, Content: message})

	text, toolCalls, err := s.run(ctx, msgs)
	if err != nil {
		return domchat.Reply{}, err
	}

	return domchat.Reply{
		ID:        uuid.NewString(),
		Text:      Clean(text),
		ToolCalls: toolCalls,
		CreatedAt: s.now().UTC(),
	}, nil
}

// run drives the completion loop until the model answers without tool calls.
// The last allowed round is sent without tools so the model must answer.
func (s *Service) run(ctx context.Context, msgs []domchat.Message) (string, int, error) {
	log := logger.FromContext(ctx)
	usage := domain.ChatUsageFromContext(ctx)
	toolCalls := 0

	for round := 0; round <= s.cfg.MaxToolRounds; round++ {
		if s.budget != nil {
			if err := s.budget.Check(ctx); err != nil {
				log.Error("Chat budget exceeded", zap.String("provider", s.cfg.Provider), zap.Error(err))
				return "", toolCalls, fmt.Errorf("budget check: %w", err)
			}
		}

		tools := []domchat.Tool{retrieverTool}
		if round == s.cfg.MaxToolRounds {
			tools = nil
		}

		start := time.Now()
		completion, err := s.completer.Complete(ctx, msgs, tools)
		if err != nil {
			log.Error("Chat completion failed",
				zap.String("provider", s.cfg.Provider),
				zap.String("model", s.cfg.Model),
				zap.Int("round", round),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
			return "", toolCalls, fmt.Errorf("complete: %w", err)
		}

		s.recordUsage(completion)
		usage.Add(completion.PromptTokens, completion.CompletionTokens, len(completion.Message.ToolCalls))

		log.Debug("Chat completion round",
			zap.Int("round", round),
			zap.Int("tool_calls", len(completion.Message.ToolCalls)),
			zap.Int("prompt_tokens", completion.PromptTokens),
			zap.Int("completion_tokens", completion.CompletionTokens),
			zap.Duration("duration", time.Since(start)),
		)

		if len(completion.Message.ToolCalls) == 0 || round == s.cfg.MaxToolRounds {
			return completion.Message.Content, toolCalls, nil
		}

		assistant := completion.Message
		assistant.Role = domchat.RoleAssistant
		msgs = append(msgs, assistant)
		for _, call := range completion.Message.ToolCalls {
			toolCalls++
			metrics.ChatToolCallsTotal.WithLabelValues(call.Name).Inc()
			msgs = append(msgs, domchat.Message{
				Role:       domchat.RoleTool,
				Content:    s.callTool(ctx, call),
				ToolCallID: call.ID,
			})
		}
	}

	return "", toolCalls, nil
}

type retrieverArgs struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults"`
	Category   string `json:"category"`
}

// callTool executes one tool call and returns its JSON result.
// Failures are reported to the model as {"error": ...} rather than aborting the chat.
func (s *Service) callTool(ctx context.Context, call domchat.ToolCall) string {
	if call.Name != ToolName {
		return toolError(fmt.Sprintf("unknown tool %q", call.Name))
	}

	var args retrieverArgs
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return toolError("invalid arguments: " + err.Error())
		}
	}

	req, err := request.New(args.Query, args.MaxResults, args.Category)
	if err != nil {
		return toolError(err.Error())
	}

	data, err := json.Marshal(s.retriever.Retrieve(ctx, &req))
	if err != nil {
		return toolError("encode result: " + err.Error())
	}
	return string(data)
}

func (s *Service) recordUsage(c domchat.Completion) {
	tokens := int64(c.PromptTokens + c.CompletionTokens)
	if s.budget == nil || tokens <= 0 {
		return
	}
	s.budget.Record(tokens)
	remaining := metrics.ChatBudgetTokensRemaining
	remaining.WithLabelValues(s.cfg.Provider, "daily").Set(float64(s.budget.RemainingDaily()))
	remaining.WithLabelValues(s.cfg.Provider, "monthly").Set(float64(s.budget.RemainingMonthly()))
}

func toolError(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}

// Clean strips bold markup, collapses runs of blank lines and trims.
// Empty text becomes FallbackReply.
func Clean(text string) string {
	if strings.TrimSpace(text) == "" {
		return FallbackReply
	}
	text = boldMarkup.ReplaceAllString(text, "$1")
	text = extraBlanks.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
