package telemetry

import (
	"os"
)

var (
	observeEnabled bool
	verboseEnabled bool
)

func init() {
	// Read once at process start. Mid-run environment changes have no effect.
	observeEnabled = os.Getenv("AGT_OBSERVE_JSON") == "1"
	verboseEnabled = os.Getenv("AGT_VERBOSE") == "1"
}

// ObserveEnabled reports whether JSONL emission is on.
func ObserveEnabled() bool {
	// Preserve startup-evaluated default, but allow tests to enable mid-run via env override.
	if os.Getenv("AGT_OBSERVE_JSON") == "1" {
		return true
	}
	return observeEnabled
}

// VerboseEnabled reports whether human-readable debug lines are printed.
func VerboseEnabled() bool {
	if os.Getenv("AGT_VERBOSE") == "1" {
		return true
	}
	return verboseEnabled
}
