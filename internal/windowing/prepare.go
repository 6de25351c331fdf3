package windowing

import (
	"github.com/petasbytes/toolchat/internal/chat"
	"github.com/petasbytes/toolchat/internal/telemetry"
)

// Stats summarizes the result of window preparation.
//
// Fields:
//   - Total: estimated tokens for included groups only.
//   - Budget: the input token budget used (<= 0 means unlimited).
//   - IncludedGroups: number of groups included.
//   - SkippedGroups: sendable groups left out by the budget.
//   - Orphans: orphaned tool-call messages dropped regardless of budget.
//   - OverBudgetNewest: true when the newest sendable group alone exceeds Budget.
type Stats struct {
	Total            int
	Budget           int
	IncludedGroups   int
	SkippedGroups    int
	Orphans          int
	OverBudgetNewest bool
}

// PrepareSendWindow returns the messages (oldest→newest) to send for the next model call.
//
// Rules:
//   - Orphan groups are always dropped.
//   - With budget <= 0 every other group is included.
//   - Otherwise include whole groups scanning newest→oldest while total ≤ budget.
//   - If the newest group alone exceeds budget, return an empty window and set OverBudgetNewest.
//   - The window never starts with a model message; leading model groups are skipped.
func PrepareSendWindow(msgs []chat.Message, budget int, c TokenCounter) ([]chat.Message, Stats) {
	stats := Stats{Budget: budget}
	if len(msgs) == 0 {
		return nil, stats
	}

	var sendable []Group
	for _, g := range GroupBlocks(msgs) {
		if g.Kind == GroupOrphan {
			stats.Orphans++
			continue
		}
		sendable = append(sendable, g)
	}

	start := 0
	if budget > 0 {
		start = len(sendable) // exclusive sentinel; lowered as groups are included
		for gi := len(sendable) - 1; gi >= 0; gi-- {
			cost := c.CountGroup(sendable[gi], msgs)
			if start == len(sendable) && cost > budget {
				vlogf("reason=over_budget_newest_group budget=%d cost=%d", budget, cost)
				stats.SkippedGroups = len(sendable)
				stats.OverBudgetNewest = true
				return nil, stats
			}
			if stats.Total+cost > budget {
				break
			}
			stats.Total += cost
			start = gi
		}
	} else {
		for _, g := range sendable {
			stats.Total += c.CountGroup(g, msgs)
		}
	}

	// Drop leading groups that would make the window open with a model message.
	for start < len(sendable)-1 && msgs[sendable[start].Start].Role == chat.RoleModel {
		stats.Total -= c.CountGroup(sendable[start], msgs)
		start++
	}

	window := make([]chat.Message, 0, len(msgs))
	for _, g := range sendable[start:] {
		window = append(window, msgs[g.Start:g.End]...)
	}
	stats.IncludedGroups = len(sendable) - start
	stats.SkippedGroups = start
	return window, stats
}

func vlogf(format string, args ...any) {
	telemetry.Debugf("windowing", format, args...)
}
