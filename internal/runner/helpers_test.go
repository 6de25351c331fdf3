package runner_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/petasbytes/toolchat/internal/chat"
	"github.com/petasbytes/toolchat/internal/provider"
	"github.com/petasbytes/toolchat/tools"
)

// scriptedModel replays replies in order and records every request.
type scriptedModel struct {
	mu       sync.Mutex
	respond  func(i int, req provider.Request) (*provider.Reply, error)
	requests []provider.Request
}

func script(replies ...*provider.Reply) *scriptedModel {
	return &scriptedModel{respond: func(i int, _ provider.Request) (*provider.Reply, error) {
		if i >= len(replies) {
			return nil, errors.New("unexpected model call")
		}
		return replies[i], nil
	}}
}

func (m *scriptedModel) Send(ctx context.Context, req provider.Request) (*provider.Reply, error) {
	m.mu.Lock()
	i := len(m.requests)
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	reply, err := m.respond(i, req)
	if err == nil && req.OnText != nil && reply.Text != "" {
		req.OnText(reply.Text)
	}
	return reply, err
}

func (m *scriptedModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *scriptedModel) request(i int) provider.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[i]
}

func text(s string) *provider.Reply {
	return &provider.Reply{Text: s}
}

func call(id, name, args string) chat.ToolCall {
	return chat.ToolCall{ID: id, Name: name, Args: json.RawMessage(args)}
}

func toolsReply(calls ...chat.ToolCall) *provider.Reply {
	return &provider.Reply{ToolCalls: calls}
}

// lastResults returns the tool results carried by the newest message of request i.
func lastResults(m *scriptedModel, i int) []chat.ToolResult {
	msgs := m.request(i).Messages
	return msgs[len(msgs)-1].ToolResults
}

type sleepyInput struct {
	N       int `json:"n"`
	DelayMS int `json:"delay_ms"`
}

// sleepyTool echoes n after delay_ms, so completion order differs from request order.
var sleepyTool = tools.Define("sleepy", "echo n after a delay", func(ctx context.Context, in sleepyInput) (any, error) {
	select {
	case <-time.After(time.Duration(in.DelayMS) * time.Millisecond):
		return in.N, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
})

type countingInput struct{}

type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) tool() tools.ToolDefinition {
	return tools.Define("count", "counts invocations", func(context.Context, countingInput) (any, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.n++
		return c.n, nil
	})
}

func (c *counter) value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
