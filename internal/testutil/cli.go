package testutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

// CLIError mirrors the error object of the --json envelope.
type CLIError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

func (e *CLIError) String() string {
	if e == nil {
		return "<no error>"
	}
	return e.Code + ": " + e.Message
}

type CLIWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

type CLIMeta struct {
	Count       int   `json:"count,omitempty"`
	QueryTimeMs int64 `json:"query_time_ms,omitempty"`
}

// CLIResult is one decoded run of the binary.
type CLIResult struct {
	OK       bool                   `json:"ok"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Error    *CLIError              `json:"error,omitempty"`
	Warnings []CLIWarning           `json:"warnings,omitempty"`
	Meta     *CLIMeta               `json:"meta,omitempty"`

	RawJSON  string `json:"-"`
	ExitCode int    `json:"-"`
}

// cliBinary is built once per test process and reused while it exists.
var cliBinary struct {
	sync.Mutex
	path string
}

// BuildCLI compiles ./cmd/lonelog into a temp dir and returns the binary.
func BuildCLI(t *testing.T) string {
	t.Helper()
	cliBinary.Lock()
	defer cliBinary.Unlock()

	if cliBinary.path != "" {
		if _, err := os.Stat(cliBinary.path); err == nil {
			return cliBinary.path
		}
	}

	path, err := buildBinary()
	if err != nil {
		t.Fatalf("failed to build CLI: %v", err)
	}
	cliBinary.path = path
	return path
}

func buildBinary() (string, error) {
	root, err := moduleRoot()
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "lonelog-cli-bin-*")
	if err != nil {
		return "", err
	}
	name := "lonelog"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	out := filepath.Join(dir, name)

	cmd := exec.Command("go", "build", "-o", out, "./cmd/lonelog")
	cmd.Dir = root
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%w\n%s", err, output)
	}
	return out, nil
}

// moduleRoot walks up from the working directory to the go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found")
		}
		dir = parent
	}
}

// RunCLI runs lonelog against the workspace with --json and decodes the
// envelope.
func (w *TestWorkspace) RunCLI(args ...string) *CLIResult {
	w.t.Helper()
	return w.run(nil, args...)
}

// RunCLIEnv is RunCLI with extra KEY=value environment entries.
func (w *TestWorkspace) RunCLIEnv(env []string, args ...string) *CLIResult {
	w.t.Helper()
	return w.run(env, args...)
}

func (w *TestWorkspace) run(env []string, args ...string) *CLIResult {
	w.t.Helper()

	// A private config file keeps the developer's global config out of the run.
	argv := append([]string{"--workspace-path", w.Path, "--config", w.ConfigPath(), "--json"}, args...)
	cmd := exec.Command(BuildCLI(w.t), argv...)
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.Output()

	result := &CLIResult{}
	if err := json.Unmarshal(output, result); err != nil {
		result = &CLIResult{Error: &CLIError{
			Code:    "PARSE_ERROR",
			Message: "failed to parse JSON output: " + err.Error(),
			Details: map[string]interface{}{"raw": string(output)},
		}}
	}
	result.RawJSON = string(output)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
	}
	return result
}

// MustSucceed fails the test unless the envelope reports ok.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		t.Fatalf("expected success, got %s\nraw: %s", r.Error, r.RawJSON)
	}
	return r
}

// MustFail fails the test unless the run failed with code.
func (r *CLIResult) MustFail(t *testing.T, code string) *CLIResult {
	t.Helper()
	switch {
	case r.OK:
		t.Fatalf("expected %s, but the command succeeded\nraw: %s", code, r.RawJSON)
	case r.Error == nil || r.Error.Code != code:
		t.Fatalf("expected %s, got %s\nraw: %s", code, r.Error, r.RawJSON)
	}
	return r
}

// MustFailWithMessage fails the test unless the run failed and its message
// or suggestion contains substr.
func (r *CLIResult) MustFailWithMessage(t *testing.T, substr string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected failure, but the command succeeded\nraw: %s", r.RawJSON)
	}
	if substr == "" || r.Error == nil {
		return r
	}
	if !strings.Contains(r.Error.Message, substr) && !strings.Contains(r.Error.Suggestion, substr) {
		t.Errorf("expected error to mention %q, got %s (suggestion: %s)", substr, r.Error, r.Error.Suggestion)
	}
	return r
}

// DataList returns data[key] as a list, or nil.
func (r *CLIResult) DataList(key string) []interface{} {
	list, _ := r.Data[key].([]interface{})
	return list
}

// DataString returns data[key] as a string, or "".
func (r *CLIResult) DataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}
