package provider

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"github.com/petasbytes/toolchat/internal/chat"
	"github.com/petasbytes/toolchat/tools"
)

// OpenAI talks to the Chat Completions API. It does not stream: OnText
// receives the whole reply text at once.
type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	if apiKey != "" {
		opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	}
	if model == "" {
		model = string(openai.ChatModelGPT4o)
	}
	return &OpenAI{client: openai.NewClient(opts...), model: model}
}

func (o *OpenAI) Send(ctx context.Context, req Request) (*Reply, error) {
	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(o.model),
		Messages:            openaiMessages(req.System, req.Messages),
		MaxCompletionTokens: openai.Int(maxTokens(req.MaxTokens)),
	}
	if len(req.Tools) > 0 {
		params.Tools = openaiTools(req.Tools)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &ServiceError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return &Reply{}, nil
	}

	choice := resp.Choices[0]
	r := &Reply{Text: choice.Message.Content, StopReason: choice.FinishReason}
	for _, tc := range choice.Message.ToolCalls {
		ftc := tc.AsFunction()
		id := ftc.ID
		if id == "" {
			id = chat.NewCallID()
		}
		r.ToolCalls = append(r.ToolCalls, chat.ToolCall{
			ID:   id,
			Name: ftc.Function.Name,
			Args: argsOrEmpty([]byte(strings.TrimSpace(ftc.Function.Arguments))),
		})
	}
	if req.OnText != nil && r.Text != "" {
		req.OnText(r.Text)
	}
	return r, nil
}

func openaiTools(defs []tools.ToolDefinition) []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, len(defs))
	for i, t := range defs {
		out[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  openai.FunctionParameters(t.InputSchema.Map()),
		})
	}
	return out
}

// openaiMessages flattens history: each tool result becomes its own tool message.
func openaiMessages(system string, msgs []chat.Message) []openai.ChatCompletionMessageParamUnion {
	var out []openai.ChatCompletionMessageParamUnion
	if system != "" {
		out = append(out, openai.SystemMessage(system))
	}
	for _, m := range msgs {
		switch {
		case m.Role == chat.RoleModel && len(m.ToolCalls) > 0:
			calls := make([]openai.ChatCompletionMessageToolCallUnionParam, len(m.ToolCalls))
			for j, c := range m.ToolCalls {
				calls[j] = openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: c.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      c.Name,
							Arguments: string(argsOrEmpty(c.Args)),
						},
					},
				}
			}
			assistant := &openai.ChatCompletionAssistantMessageParam{ToolCalls: calls}
			if m.Text != "" {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: param.NewOpt(m.Text),
				}
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: assistant})
		case m.Role == chat.RoleModel:
			if m.Text != "" {
				out = append(out, openai.AssistantMessage(m.Text))
			}
		case len(m.ToolResults) > 0:
			for _, r := range m.ToolResults {
				out = append(out, openai.ToolMessage(r.Content, r.CallID))
			}
		case m.Text != "":
			out = append(out, openai.UserMessage(m.Text))
		}
	}
	return out
}
