package telemetry_test

import (
	"encoding/json"
	"math"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/petasbytes/toolchat/internal/telemetry"
)

func TestEmit_Gating(t *testing.T) {
	// Run in a subprocess so startup-evaluated telemetry config sees AGT_OBSERVE_JSON=0.
	tmpDir := t.TempDir()
	cmd := exec.Command(os.Args[0], "-test.run=TestEmitGatingProbe")
	cmd.Env = append(os.Environ(),
		"GO_WANT_HELPER_PROCESS=1",
		"AGT_OBSERVE_JSON=0",
		"AGT_ARTIFACTS_DIR=",
	)
	cmd.Dir = tmpDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("subprocess error: %v\n%s", err, string(out))
	}
	if !strings.Contains(string(out), "no_file=true") {
		t.Fatalf("expected no_file=true, got output:\n%s", string(out))
	}
}

func TestEmitGatingProbe(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	telemetry.Emit("test_event", map[string]any{"foo": "bar"})
	if _, err := os.Stat(".agent/events.jsonl"); os.IsNotExist(err) {
		println("no_file=true")
	} else {
		println("no_file=false")
	}
}

// observeIn enables emission and moves the test into an empty working dir.
func observeIn(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("AGT_OBSERVE_JSON", "1")
	t.Setenv("AGT_ARTIFACTS_DIR", "")
}

func readEvents(t *testing.T) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(".agent/events.jsonl")
	if err != nil {
		t.Fatalf("failed to read events.jsonl: %v", err)
	}
	var out []map[string]any
	for i, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("line %d invalid JSON: %v", i+1, err)
		}
		out = append(out, m)
	}
	return out
}

func TestEmit_HappyPath(t *testing.T) {
	observeIn(t)

	telemetry.Emit("test_event", map[string]any{"foo": "bar", "num": 42})

	events := readEvents(t)
	if len(events) != 1 {
		t.Fatalf("expected 1 line, got %d", len(events))
	}
	event := events[0]
	if event["event"] != "test_event" {
		t.Errorf("expected event=test_event, got %v", event["event"])
	}
	if event["foo"] != "bar" || event["num"] != float64(42) {
		t.Errorf("fields not preserved: %v", event)
	}
	timeStr, ok := event["time"].(string)
	if !ok {
		t.Fatal("expected time field as string")
	}
	if _, err := time.Parse(time.RFC3339Nano, timeStr); err != nil {
		t.Errorf("time field not valid RFC3339Nano: %v", err)
	}
}

func TestEmit_MultipleEmissionsAppend(t *testing.T) {
	observeIn(t)

	telemetry.Emit("event1", map[string]any{"id": 1})
	telemetry.Emit("event2", map[string]any{"id": 2})
	telemetry.Emit("event3", map[string]any{"id": 3})

	events := readEvents(t)
	if len(events) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(events))
	}
	for i, want := range []string{"event1", "event2", "event3"} {
		if events[i]["event"] != want {
			t.Errorf("line %d: expected event=%s, got %v", i+1, want, events[i]["event"])
		}
	}
}

func TestEmit_MapIsolation(t *testing.T) {
	observeIn(t)

	fields := map[string]any{"key": "value"}
	telemetry.Emit("test", fields)

	if len(fields) != 1 || fields["key"] != "value" {
		t.Errorf("caller map mutated: %#v", fields)
	}
}

func TestEmit_ArtifactsDirOverride(t *testing.T) {
	observeIn(t)
	base := t.TempDir()
	t.Setenv("AGT_ARTIFACTS_DIR", base)

	telemetry.Emit("x", map[string]any{"a": 1})

	if _, err := os.Stat(base + "/events.jsonl"); err != nil {
		t.Fatalf("expected events in override dir: %v", err)
	}
	if _, err := os.Stat(".agent"); !os.IsNotExist(err) {
		t.Fatalf("expected no .agent dir when override is set")
	}
}

func TestEmit_MarshalErrorWritesNothing(t *testing.T) {
	observeIn(t)

	// NaN cannot be marshaled by encoding/json.
	telemetry.Emit("bad", map[string]any{"x": math.NaN()})

	if _, err := os.Stat(".agent/events.jsonl"); !os.IsNotExist(err) {
		t.Fatalf("expected no events file on marshal error, got err=%v", err)
	}
}

func TestEmit_NilFields(t *testing.T) {
	observeIn(t)

	telemetry.Emit("nil_fields", nil)

	events := readEvents(t)
	if len(events) != 1 || len(events[0]) != 2 {
		t.Fatalf("expected one event with exactly event+time, got %#v", events)
	}
	if events[0]["event"] != "nil_fields" {
		t.Errorf("expected event=nil_fields, got %v", events[0]["event"])
	}
}

func TestEmit_ReadOnlyFileDoesNotPanic(t *testing.T) {
	observeIn(t)

	if err := os.Mkdir(".agent", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(".agent/events.jsonl", nil, 0o444); err != nil {
		t.Fatal(err)
	}

	telemetry.Emit("x", map[string]any{"a": 1})

	fi, err := os.Stat(".agent/events.jsonl")
	if err != nil {
		t.Fatal(err)
	}
	if os.Geteuid() != 0 && fi.Size() != 0 {
		t.Fatalf("expected read-only file size 0, got %d", fi.Size())
	}
}

func TestTextFeatures(t *testing.T) {
	f := telemetry.TextFeatures("hello  world\nthis is\tgo")
	if f["words"] != 5 || f["lines"] != 2 || f["bytes"] != 23 || f["runes"] != 23 {
		t.Fatalf("unexpected features: %v", f)
	}
	if f := telemetry.TextFeatures(""); f["lines"] != 0 || f["words"] != 0 {
		t.Fatalf("empty text features: %v", f)
	}
}
