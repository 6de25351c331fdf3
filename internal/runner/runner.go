package runner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/petasbytes/toolchat/internal/chat"
	"github.com/petasbytes/toolchat/internal/provider"
	"github.com/petasbytes/toolchat/internal/telemetry"
	"github.com/petasbytes/toolchat/internal/windowing"
	"github.com/petasbytes/toolchat/tools"
)

const DefaultMaxRounds = 10

type Options struct {
	MaxRounds    int           // model calls per turn; <= 0 means DefaultMaxRounds
	ModelTimeout time.Duration // per model call; 0 disables
	ToolTimeout  time.Duration // per tool call; 0 disables
	TokenBudget  int           // send-window budget; <= 0 means unlimited
	System       string
	MaxTokens    int
	OnText       func(string)
}

type Runner struct {
	model    provider.Model
	registry *tools.Registry
	opts     Options
	counter  windowing.TokenCounter
}

func New(model provider.Model, registry *tools.Registry, opts Options) *Runner {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	return &Runner{model: model, registry: registry, opts: opts, counter: windowing.HeuristicCounter{}}
}

// RunTurn appends userText to the session and loops until the model answers.
func (r *Runner) RunTurn(ctx context.Context, sess *chat.Session, userText string) (string, error) {
	return r.run(ctx, sess, chat.UserText(userText))
}

// ResumeTurn continues a turn from tool results prepared by the caller.
func (r *Runner) ResumeTurn(ctx context.Context, sess *chat.Session, results []chat.ToolResult) (string, error) {
	return r.run(ctx, sess, chat.ToolResults(results))
}

func (r *Runner) run(ctx context.Context, sess *chat.Session, pending chat.Message) (answer string, err error) {
	ctx = telemetry.WithTurn(ctx, telemetry.NewTurn(sess.ID))
	started := time.Now()
	telemetry.EmitTurn(ctx, "turn_start", map[string]any{
		"max_rounds":   r.opts.MaxRounds,
		"input":        telemetry.TextFeatures(pending.Text),
		"tool_results": len(pending.ToolResults),
	})

	state := StateAwaitingModelReply
	round := 0
	defer func() {
		fields := map[string]any{
			"state":       string(state),
			"rounds":      round,
			"duration_ms": time.Since(started).Milliseconds(),
			"error":       nil,
		}
		if err != nil {
			fields["error"] = errorKind(err)
		}
		telemetry.EmitTurn(ctx, "turn_end", fields)
	}()
	fail := func(s State, cause error) error {
		state = s
		return &TurnError{State: s, Round: round, Err: cause}
	}

	sess.Append(pending)
	for round = 1; ; round++ {
		state = StateAwaitingModelReply
		reply, sendErr := r.send(ctx, sess, round)
		if sendErr != nil {
			return "", fail(StateFailed, sendErr)
		}
		sess.Append(reply.Message())
		if len(reply.ToolCalls) == 0 {
			state = StateAnswered
			return reply.Text, nil
		}

		state = StateHasToolRequests
		if round >= r.opts.MaxRounds {
			return "", fail(StateLoopExceeded, ErrLoopExceeded)
		}
		results, execErr := r.execTools(ctx, reply.ToolCalls)
		if execErr != nil {
			return "", fail(StateFailed, execErr)
		}
		sess.Append(chat.ToolResults(results))
	}
}

func (r *Runner) send(ctx context.Context, sess *chat.Session, round int) (*provider.Reply, error) {
	window, stats := windowing.PrepareSendWindow(sess.Messages(), r.opts.TokenBudget, r.counter)
	if stats.OverBudgetNewest {
		telemetry.EmitTurn(ctx, "model_call", map[string]any{
			"round": round, "budget": stats.Budget, "over_budget_newest": true, "error": errorKind(ErrOverBudget),
		})
		return nil, ErrOverBudget
	}

	mctx, cancel := ctx, context.CancelFunc(func() {})
	if r.opts.ModelTimeout > 0 {
		mctx, cancel = context.WithTimeout(ctx, r.opts.ModelTimeout)
	}
	defer cancel()

	start := time.Now()
	reply, err := r.model.Send(mctx, provider.Request{
		System:    r.opts.System,
		Messages:  window,
		Tools:     r.registry.Definitions(),
		MaxTokens: r.opts.MaxTokens,
		OnText:    r.opts.OnText,
	})
	fields := map[string]any{
		"round":           round,
		"duration_ms":     time.Since(start).Milliseconds(),
		"window_messages": len(window),
		"window_tokens":   stats.Total,
		"budget":          stats.Budget,
		"included_groups": stats.IncludedGroups,
		"skipped_groups":  stats.SkippedGroups,
		"orphans":         stats.Orphans,
		"error":           nil,
	}
	if err != nil {
		fields["error"] = errorKind(err)
		telemetry.EmitTurn(ctx, "model_call", fields)
		return nil, err
	}
	fields["tool_calls"] = len(reply.ToolCalls)
	telemetry.EmitTurn(ctx, "model_call", fields)
	return reply, nil
}

// execTools checks every call, then runs them concurrently. The first failure
// cancels the rest.
func (r *Runner) execTools(ctx context.Context, calls []chat.ToolCall) ([]chat.ToolResult, error) {
	for _, c := range calls {
		if err := r.registry.Validate(c.Name, c.Args); err != nil {
			r.emitToolExec(ctx, c, 0, 0, err)
			return nil, err
		}
	}

	results := make([]chat.ToolResult, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range calls {
		g.Go(func() error {
			out, err := r.execTool(gctx, c)
			if err != nil {
				return err
			}
			results[i] = chat.ToolResult{CallID: c.ID, Name: c.Name, Content: out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type toolOutcome struct {
	out string
	err error
}

// execTool runs one call under the tool timeout. A tool that ignores its
// context is abandoned when the deadline passes.
func (r *Runner) execTool(ctx context.Context, c chat.ToolCall) (string, error) {
	tctx, cancel := ctx, context.CancelFunc(func() {})
	if r.opts.ToolTimeout > 0 {
		tctx, cancel = context.WithTimeout(ctx, r.opts.ToolTimeout)
	}
	defer cancel()

	start := time.Now()
	done := make(chan toolOutcome, 1)
	go func() {
		out, err := r.registry.Dispatch(tctx, c.Name, c.Args)
		done <- toolOutcome{out: out, err: err}
	}()

	var res toolOutcome
	select {
	case res = <-done:
	case <-tctx.Done():
		// a result that raced the deadline still wins
		select {
		case res = <-done:
		default:
			res.err = &tools.ExecError{Tool: c.Name, Err: fmt.Errorf("no result after %s: %w", time.Since(start).Round(time.Millisecond), tctx.Err())}
		}
	}

	elapsed := time.Since(start)
	r.emitToolExec(ctx, c, elapsed, len(res.out), res.err)
	if res.err != nil {
		telemetry.Debugf("tool", "%s failed after %s: %v", c.Name, elapsed, res.err)
		return "", res.err
	}
	telemetry.Debugf("tool", "%s ok in %s (%d bytes)", c.Name, elapsed, len(res.out))
	return res.out, nil
}

// emitToolExec records sizes and timing only; arguments and output stay out of telemetry.
func (r *Runner) emitToolExec(ctx context.Context, c chat.ToolCall, d time.Duration, outSize int, err error) {
	fields := map[string]any{
		"tool_name":   c.Name,
		"call_id":     c.ID,
		"duration_ms": d.Milliseconds(),
		"input_size":  len(c.Args),
		"output_size": outSize,
		"error":       nil,
	}
	if err != nil {
		fields["error"] = errorKind(err)
	}
	telemetry.EmitTurn(ctx, "tool_exec", fields)
}
