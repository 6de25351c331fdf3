package windowing

import (
	"unicode/utf8"

	"github.com/petasbytes/toolchat/internal/chat"
)

// TokenCounter estimates input-token cost for messages or groups.
type TokenCounter interface {
	CountMessage(m chat.Message) int
	CountGroup(g Group, all []chat.Message) int
}

// HeuristicCounter is the default deterministic estimator.
// Rules:
//   - text: rune count of Message.Text, plus one block overhead when non-empty
//   - tool call: runes of name and raw args, plus overhead
//   - tool result: runes of content, plus overhead
//
// A message with no blocks at all still costs one overhead.
type HeuristicCounter struct{}

// Fixed per-block overhead for deterministic counts; changing this requires updating the tests.
const blockOverhead = 4

func (HeuristicCounter) CountMessage(m chat.Message) int {
	total := 0
	blocks := 0
	if m.Text != "" {
		total += utf8.RuneCountInString(m.Text) + blockOverhead
		blocks++
	}
	for _, c := range m.ToolCalls {
		total += utf8.RuneCountInString(c.Name) + utf8.RuneCount(c.Args) + blockOverhead
		blocks++
	}
	for _, r := range m.ToolResults {
		total += utf8.RuneCountInString(r.Content) + blockOverhead
		blocks++
	}
	if blocks == 0 {
		return blockOverhead
	}
	return total
}

func (h HeuristicCounter) CountGroup(g Group, all []chat.Message) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountMessage(all[i])
	}
	return total
}
