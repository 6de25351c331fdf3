package windowing

import (
	"github.com/petasbytes/toolchat/internal/chat"
	"github.com/petasbytes/toolchat/internal/telemetry"
)

// GroupKind denotes the atomic unit type when preparing a send window.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
	// GroupOrphan is a model message whose tool calls never got their results
	// (the turn failed part-way). Orphans are never sent.
	GroupOrphan
)

// Group describes a contiguous span of messages [Start, End) in the original slice.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into msgs
	End   int // exclusive index into msgs
}

// GroupBlocks groups messages into atomic units that preserve tool-call pairs.
// Invariants:
//   - A pair is exactly two adjacent messages: model(tool calls) then user(tool results).
//   - The user message must answer every call id of the model message and nothing else.
//   - A model message with tool calls that is not followed by such a user message is an orphan.
func GroupBlocks(msgs []chat.Message) []Group {
	groups := make([]Group, 0, len(msgs))
	for i := 0; i < len(msgs); {
		m := msgs[i]
		if m.Role == chat.RoleModel && len(m.ToolCalls) > 0 {
			if i+1 < len(msgs) && answers(msgs[i+1], m.ToolCalls) {
				groups = append(groups, Group{Kind: GroupPair, Start: i, End: i + 2})
				i += 2
				continue
			}
			telemetry.Debugf("windowing", "exclude orphan: idx=%d calls=%d", i, len(m.ToolCalls))
			groups = append(groups, Group{Kind: GroupOrphan, Start: i, End: i + 1})
			i++
			continue
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

// answers reports whether reply is a user message whose results match calls one-to-one.
func answers(reply chat.Message, calls []chat.ToolCall) bool {
	if reply.Role != chat.RoleUser || len(reply.ToolResults) != len(calls) {
		return false
	}
	want := make(map[string]struct{}, len(calls))
	for _, c := range calls {
		want[c.ID] = struct{}{}
	}
	for _, r := range reply.ToolResults {
		if _, ok := want[r.CallID]; !ok {
			return false
		}
		delete(want, r.CallID)
	}
	return len(want) == 0
}
