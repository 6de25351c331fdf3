package telemetry

import (
	"context"

	"github.com/google/uuid"
)

// Turn identifies one user-to-final-answer exchange within a session.
type Turn struct {
	ID        string
	SessionID string
}

// NewTurn returns a Turn with a fresh id.
func NewTurn(sessionID string) Turn {
	return Turn{ID: "turn-" + uuid.NewString(), SessionID: sessionID}
}

type turnKey struct{}

// WithTurn returns a child context that carries t.
// If ctx is nil, context.Background() is used.
func WithTurn(ctx context.Context, t Turn) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, turnKey{}, t)
}

// TurnFromContext returns the Turn in ctx. Missing values and empty ids report false.
func TurnFromContext(ctx context.Context) (Turn, bool) {
	if ctx == nil {
		return Turn{}, false
	}
	t, ok := ctx.Value(turnKey{}).(Turn)
	if !ok || t.ID == "" {
		return Turn{}, false
	}
	return t, true
}

// EmitTurn emits name with the turn and session ids from ctx added to fields.
func EmitTurn(ctx context.Context, name string, fields map[string]any) {
	if !ObserveEnabled() {
		return
	}
	m := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		m[k] = v
	}
	if t, ok := TurnFromContext(ctx); ok {
		m["turn_id"] = t.ID
		m["session_id"] = t.SessionID
	}
	Emit(name, m)
}
