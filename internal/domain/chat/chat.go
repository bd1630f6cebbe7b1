package chat

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn is a caller-supplied history entry. Only user and assistant turns are accepted.
type Turn struct {
	Role    Role
	Content string
}

// Validate checks the turn role.
func (t Turn) Validate() error {
	switch t.Role {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("unsupported role %q", t.Role)
	}
}

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Message is one entry of the conversation sent to the model.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// Tool describes a function the model may call.
type Tool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// Completion is the model's reply to one request.
type Completion struct {
	Message          Message
	PromptTokens     int
	CompletionTokens int
}

// Reply is the final answer returned to the caller.
type Reply struct {
	ID        string
	Text      string
	ToolCalls int
	CreatedAt time.Time
}
