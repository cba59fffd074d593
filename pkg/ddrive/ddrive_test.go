package ddrive

import "testing"

// TestVersionMatchesVersionConstants tests that Version is assembled from
// the major/minor/patch constants.
func TestVersionMatchesVersionConstants(t *testing.T) {
	want := "0.1.0"
	if Version != want {
		t.Errorf("expected Version %q, got %q", want, Version)
	}
}

// TestDebugEnabledDefaultsFalseWithoutEnvironmentVariable tests that, absent
// DDRIVE_DEBUG=1 in the test process's environment, DebugEnabled is false.
//
// This only verifies the steady-state default: DebugEnabled is computed once
// in an init function from the environment observed at process start, so a
// test can't toggle it by calling os.Setenv mid-run.
func TestDebugEnabledDefaultsFalseWithoutEnvironmentVariable(t *testing.T) {
	if DebugEnabled {
		t.Skip("DDRIVE_DEBUG=1 was set in the test environment")
	}
}
