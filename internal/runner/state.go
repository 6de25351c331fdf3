package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/petasbytes/toolchat/internal/provider"
	"github.com/petasbytes/toolchat/tools"
)

// State is the position of a turn in the tool loop.
type State string

const (
	StateAwaitingModelReply State = "awaiting_model_reply"
	StateHasToolRequests    State = "has_tool_requests"
	StateAnswered           State = "answered"
	StateFailed             State = "failed"
	StateLoopExceeded       State = "loop_exceeded"
)

var (
	ErrLoopExceeded = errors.New("model kept requesting tools past the round limit")
	ErrOverBudget   = errors.New("newest message group exceeds AGT_TOKEN_BUDGET; increase the budget")
)

// TurnError is returned for every turn that does not end in StateAnswered.
type TurnError struct {
	State State
	Round int
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn %s in round %d: %v", e.State, e.Round, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

// errorKind is the telemetry label for err. It never includes payload text.
func errorKind(err error) string {
	var (
		unk *tools.UnknownToolError
		ve  *tools.ValidationError
		ee  *tools.ExecError
		se  *provider.ServiceError
	)
	switch {
	case errors.As(err, &unk):
		return "unknown_tool"
	case errors.As(err, &ve):
		return "invalid_arguments"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &se):
		return "service_error"
	case errors.Is(err, ErrLoopExceeded):
		return "loop_exceeded"
	case errors.Is(err, ErrOverBudget):
		return "over_budget"
	case errors.As(err, &ee):
		return "tool_error"
	}
	return "error"
}
