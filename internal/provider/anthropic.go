package provider

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/toolchat/internal/chat"
	"github.com/petasbytes/toolchat/tools"
)

const DefaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest

// Anthropic talks to the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropic(apiKey, model string, opts ...option.RequestOption) *Anthropic {
	if apiKey != "" {
		opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	}
	m := anthropic.Model(model)
	if model == "" {
		m = DefaultAnthropicModel
	}
	return &Anthropic{client: anthropic.NewClient(opts...), model: m}
}

// Send streams when req.OnText is set and makes a single call otherwise.
func (a *Anthropic) Send(ctx context.Context, req Request) (*Reply, error) {
	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: maxTokens(req.MaxTokens),
		Messages:  anthropicMessages(req.Messages),
	}
	if len(req.Tools) > 0 {
		params.Tools = anthropicTools(req.Tools)
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	if req.OnText == nil {
		msg, err := a.client.Messages.New(ctx, params)
		if err != nil {
			return nil, &ServiceError{Provider: "anthropic", Err: err}
		}
		return anthropicReply(msg)
	}

	stream := a.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()
	msg := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := msg.Accumulate(event); err != nil {
			return nil, &ServiceError{Provider: "anthropic", Err: err}
		}
		if ev, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok {
			if d, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok {
				req.OnText(d.Text)
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, &ServiceError{Provider: "anthropic", Err: err}
	}
	return anthropicReply(&msg)
}

func anthropicTools(defs []tools.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, t := range defs {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: t.InputSchema.Properties,
				Required:   t.InputSchema.Required,
			},
		}})
	}
	return out
}

// anthropicMessages maps history onto user/assistant content blocks.
// Messages with no content are skipped; the API rejects them.
func anthropicMessages(msgs []chat.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		var blocks []anthropic.ContentBlockParamUnion
		if m.Text != "" {
			blocks = append(blocks, anthropic.NewTextBlock(m.Text))
		}
		for _, c := range m.ToolCalls {
			blocks = append(blocks, anthropic.NewToolUseBlock(c.ID, json.RawMessage(argsOrEmpty(c.Args)), c.Name))
		}
		for _, r := range m.ToolResults {
			blocks = append(blocks, anthropic.NewToolResultBlock(r.CallID, r.Content, r.IsError))
		}
		if len(blocks) == 0 {
			continue
		}
		if m.Role == chat.RoleModel {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

func anthropicReply(msg *anthropic.Message) (*Reply, error) {
	r := &Reply{StopReason: string(msg.StopReason)}
	var texts []string
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if v.Text != "" {
				texts = append(texts, v.Text)
			}
		case anthropic.ToolUseBlock:
			args, err := json.Marshal(v.Input)
			if err != nil {
				return nil, &ServiceError{Provider: "anthropic", Err: err}
			}
			id := v.ID
			if id == "" {
				id = chat.NewCallID()
			}
			r.ToolCalls = append(r.ToolCalls, chat.ToolCall{ID: id, Name: v.Name, Args: argsOrEmpty(args)})
		}
	}
	r.Text = strings.Join(texts, "\n")
	return r, nil
}
