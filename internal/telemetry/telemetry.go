// Package telemetry writes privacy-preserving JSONL events and debug lines.
//
// Events only carry identifiers, sizes, durations and states; tool arguments,
// tool outputs and message text are never written.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/sjson"
)

// eventsDir is where events.jsonl lives; AGT_ARTIFACTS_DIR overrides it.
func eventsDir() string {
	if d := os.Getenv("AGT_ARTIFACTS_DIR"); d != "" {
		return d
	}
	return ".agent"
}

// Emit writes a single JSON line to .agent/events.jsonl when AGT_OBSERVE_JSON=1.
// It stamps the line with the event name and an RFC3339Nano time.
func Emit(name string, fields map[string]any) {
	if !ObserveEnabled() {
		return
	}

	if fields == nil {
		fields = map[string]any{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: marshal: %v\n", err)
		return
	}
	// fields is never mutated; the stamps go onto the encoded copy.
	if b, err = sjson.SetBytes(b, "event", name); err == nil {
		b, err = sjson.SetBytes(b, "time", time.Now().UTC().Format(time.RFC3339Nano))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: stamp: %v\n", err)
		return
	}

	dir := eventsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", dir, err)
		return
	}

	path := filepath.Join(dir, "events.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: open %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
		return
	}
}

// Debugf prints a tagged debug line to stderr when AGT_VERBOSE=1.
func Debugf(tag, format string, args ...any) {
	if !VerboseEnabled() {
		return
	}
	fmt.Fprintf(os.Stderr, "["+tag+"] "+format+"\n", args...)
}
