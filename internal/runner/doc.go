// Package runner drives one chat turn: it alternates model calls with tool
// execution until the model answers in plain text.
//
// Invariants:
//   - Every tool call of a reply is resolved and validated before any runs.
//   - Tool results are sent back in request order, whatever order they finish in.
//   - A turn makes at most MaxRounds model calls.
//
// Flow:
//
//	user(text) -> model(tool calls) -> user(tool results) -> model(text)
package runner
