// Package chat holds the provider-neutral conversation model shared by the
// runner, the tool registry and the model providers.
package chat

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ToolCall is a model request to run a named tool with JSON object arguments.
type ToolCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// ToolResult is the outcome of a ToolCall, correlated by CallID.
// Content is JSON text; soft failures ("not found") are content, not errors.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Message is one entry of a session history.
// User messages carry Text or ToolResults; model messages carry Text and/or ToolCalls.
type Message struct {
	Role        Role         `json:"role"`
	Text        string       `json:"text,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

func UserText(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

func ToolResults(results []ToolResult) Message {
	return Message{Role: RoleUser, ToolResults: results}
}

func ModelReply(text string, calls []ToolCall) Message {
	return Message{Role: RoleModel, Text: text, ToolCalls: calls}
}

// NewCallID returns an id for providers that do not correlate tool calls themselves.
func NewCallID() string {
	return "call-" + uuid.NewString()
}

// Session is the ordered, append-only history of one interactive chat.
type Session struct {
	ID string

	mu       sync.Mutex
	messages []Message
}

func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Append adds messages to the end of the history.
func (s *Session) Append(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgs...)
}

// Messages returns a copy of the history, oldest first.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
