package cli

import (
	"encoding/json"
	"errors"
	"os"
)

// jsonOutput is set by --json.
var jsonOutput bool

// Response is the envelope every command writes in JSON mode. Exactly one
// of Data and Error is set.
type Response struct {
	OK       bool        `json:"ok"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorInfo  `json:"error,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty"`
	Meta     *Meta       `json:"meta,omitempty"`
}

// ErrorInfo carries one of the Err* codes from errors.go.
type ErrorInfo struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Warning is a non-fatal problem, usually a document that failed to parse.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

type Meta struct {
	Count       int   `json:"count,omitempty"`
	QueryTimeMs int64 `json:"query_time_ms,omitempty"`
}

func isJSONOutput() bool { return jsonOutput }

// writeResponse encodes resp to stdout as indented JSON. Encoding errors
// are dropped; stdout is the only place they could be reported.
func writeResponse(resp Response) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

func outputSuccess(data interface{}, meta *Meta) {
	outputSuccessWithWarnings(data, nil, meta)
}

func outputSuccessWithWarnings(data interface{}, warnings []Warning, meta *Meta) {
	writeResponse(Response{OK: true, Data: data, Warnings: warnings, Meta: meta})
}

func outputError(code, message string, details interface{}, suggestion string) {
	writeResponse(Response{Error: &ErrorInfo{
		Code:       code,
		Message:    message,
		Details:    details,
		Suggestion: suggestion,
	}})
}

// handleError returns err for cobra to print in text mode. In JSON mode it
// writes the error envelope and returns nil, so the process exits 0 and
// callers read ok=false instead.
func handleError(code string, err error, suggestion string) error {
	if !jsonOutput {
		return err
	}
	outputError(code, err.Error(), nil, suggestion)
	return nil
}

func handleErrorMsg(code, message, suggestion string) error {
	return handleError(code, errors.New(message), suggestion)
}

// reportError is handleError for pre-run hooks, which must stop the
// command in both modes. In JSON mode it returns errReported so Execute
// does not print the error a second time.
func reportError(code string, err error, suggestion string) error {
	if handleError(code, err, suggestion) == nil {
		return errReported
	}
	return err
}
