package ui

import (
	"fmt"
	"strings"
)

// Status symbols prefixed to one-line messages.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
	SymbolSkipped = "•"
)

func withSymbol(symbol, msg string) string {
	return symbol + " " + msg
}

func Success(msg string) string { return withSymbol(SymbolSuccess, msg) }
func Error(msg string) string   { return withSymbol(SymbolError, msg) }
func Warning(msg string) string { return withSymbol(SymbolWarning, msg) }
func Info(msg string) string    { return withSymbol(SymbolInfo, msg) }

// Skipped marks a step that found nothing to do.
func Skipped(msg string) string { return withSymbol(SymbolSkipped, msg) }

// Check is the closing line of a long-running step.
func Check(msg string) string { return Success(msg) }

func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...interface{}) string {
	return Error(fmt.Sprintf(format, args...))
}

// Header returns a bold section header.
func Header(msg string) string {
	return Bold.Render(msg)
}

// FilePath returns an accent-styled path.
func FilePath(path string) string {
	return Accent.Render(path)
}

// Location returns a muted "file:line" reference.
func Location(file string, line int) string {
	return Muted.Render(fmt.Sprintf("%s:%d", file, line))
}

// Hint returns muted hint text.
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Count returns a count badge such as "(3 campaigns)".
func Count(n int, singular, plural string) string {
	return "(" + Quantity(n, singular, plural) + ")"
}

// Quantity returns "1 campaign" or "3 campaigns".
func Quantity(n int, singular, plural string) string {
	return fmt.Sprintf("%d %s", n, Plural(n, singular, plural))
}

// Plural picks singular for a count of one.
func Plural(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// Humanize turns a snake_case status into words: "near_complete" becomes
// "near complete".
func Humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
