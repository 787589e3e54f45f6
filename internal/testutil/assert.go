package testutil

import (
	"strings"
	"testing"
)

// AssertFileExists fails the test if the file does not exist.
func (w *TestWorkspace) AssertFileExists(relPath string) {
	w.t.Helper()
	if !w.FileExists(relPath) {
		w.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain substr.
func (w *TestWorkspace) AssertFileContains(relPath, substr string) {
	w.t.Helper()
	content := w.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		w.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertCount runs a listing command and checks the length of a data list.
func (w *TestWorkspace) AssertCount(key string, want int, args ...string) {
	w.t.Helper()
	result := w.RunCLI(args...)
	result.MustSucceed(w.t)
	if got := len(result.DataList(key)); got != want {
		w.t.Errorf("%s: expected %d %s, got %d\nRaw: %s", strings.Join(args, " "), want, key, got, result.RawJSON)
	}
}

// AssertHasWarning checks that the result contains a warning with the given code.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("expected warning with code %s, got warnings: %+v", code, r.Warnings)
}

// AssertNoWarnings checks that the result has no warnings.
func (r *CLIResult) AssertNoWarnings(t *testing.T) {
	t.Helper()
	if len(r.Warnings) > 0 {
		t.Errorf("expected no warnings, got: %+v", r.Warnings)
	}
}

// AssertResultCount checks the length of a data list.
func (r *CLIResult) AssertResultCount(t *testing.T, key string, expected int) {
	t.Helper()
	results := r.DataList(key)
	if len(results) != expected {
		t.Errorf("expected %d %s, got %d\nRaw: %s", expected, key, len(results), r.RawJSON)
	}
}

// DataMap extracts an object from the Data field.
func (r *CLIResult) DataMap(key string) map[string]interface{} {
	if r.Data == nil {
		return nil
	}
	m, _ := r.Data[key].(map[string]interface{})
	return m
}
