package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/progress"
)

// Gauge styles, matching the clock_style setting.
const (
	GaugeBar      = "bar"
	GaugeSegments = "segments"
	GaugeCircle   = "circle"
)

// barWidth is the cell count of a bar gauge.
const barWidth = 10

// maxSegments caps segment gauges; larger totals fall back to a bar.
const maxSegments = 12

var circleFrames = []string{"○", "◔", "◑", "◕", "●"}

// Gauge draws a clock, track or event in style followed by its
// "X/Y (Z%)" text. Timers render as a countdown. Out-of-range trackers are
// shown as text only.
func Gauge(t *model.Tracker, style string) string {
	if t.IsTimer() {
		return TimerGauge(t.Value)
	}
	text := progress.FormatRange(t.Current, t.Total)
	if !progress.Validate(t) {
		return Muted.Render(text + " " + SymbolWarning)
	}

	var glyphs string
	switch style {
	case GaugeSegments:
		glyphs = segments(t.Current, t.Total)
	case GaugeCircle:
		glyphs = circle(t.Current, t.Total)
	default:
		glyphs = bar(t.Current, t.Total)
	}
	return gaugeStyle(progress.StatusOf(t)).Render(glyphs) + " " + text
}

// TimerGauge renders a countdown value.
func TimerGauge(value int) string {
	text := "⏳ " + strconv.Itoa(value)
	switch {
	case value < 0:
		return Muted.Render(text + " " + SymbolWarning)
	case progress.IsTimerExpired(value):
		return Bold.Render(text + " expired")
	case progress.IsTimerUrgent(value):
		return AccentBold.Render(text)
	default:
		return text
	}
}

func gaugeStyle(s progress.Status) lipgloss.Style {
	switch s {
	case progress.StatusComplete:
		return AccentBold
	case progress.StatusNearComplete:
		return Accent
	default:
		return Muted
	}
}

func bar(current, total int) string {
	filled := progress.Percent(current, total) * barWidth / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

func segments(current, total int) string {
	if total > maxSegments {
		return bar(current, total)
	}
	return strings.Repeat("◼", current) + strings.Repeat("◻", total-current)
}

func circle(current, total int) string {
	idx := (progress.Percent(current, total)*(len(circleFrames)-1) + 50) / 100
	return circleFrames[idx]
}
