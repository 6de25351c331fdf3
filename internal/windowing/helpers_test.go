package windowing_test

import (
	"encoding/json"

	"github.com/petasbytes/toolchat/internal/chat"
	"github.com/petasbytes/toolchat/internal/windowing"
)

// User text message
func U(text string) chat.Message { return chat.UserText(text) }

// Model text message
func M(text string) chat.Message { return chat.ModelReply(text, nil) }

// Model message requesting tools with the given call ids (name "t", no args)
func Calls(ids ...string) chat.Message {
	calls := make([]chat.ToolCall, len(ids))
	for i, id := range ids {
		calls[i] = chat.ToolCall{ID: id, Name: "t", Args: json.RawMessage(nil)}
	}
	return chat.ModelReply("", calls)
}

// User message answering the given call ids with content s
func Results(s string, ids ...string) chat.Message {
	rs := make([]chat.ToolResult, len(ids))
	for i, id := range ids {
		rs[i] = chat.ToolResult{CallID: id, Name: "t", Content: s}
	}
	return chat.ToolResults(rs)
}

// groupsEqual is a small utility used by grouping tests.
func groupsEqual(got, want []windowing.Group) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
