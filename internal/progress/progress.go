// Package progress validates and merges clocks, tracks, events and timers.
//
// Validation is advisory: the parser extracts out-of-range values as written
// and callers decide whether to show or hide invalid trackers.
package progress

import (
	"math"

	"github.com/aidanlsb/lonelog/internal/model"
)

// Status classifies a tracker for display.
type Status string

const (
	StatusInvalid      Status = "invalid"
	StatusComplete     Status = "complete"
	StatusNearComplete Status = "near_complete"
	StatusInProgress   Status = "in_progress"

	StatusExpired Status = "expired"
	StatusUrgent  Status = "urgent"
	StatusRunning Status = "running"
)

// NearCompletePercent is the threshold for IsNearComplete.
const NearCompletePercent = 75

// UrgentTimerValue is the highest timer value still considered urgent.
const UrgentTimerValue = 2

// ValidRange reports whether 0 <= current <= total and total > 0.
func ValidRange(current, total int) bool {
	return current >= 0 && total > 0 && current <= total
}

// ValidateClock reports whether a clock's values are in range.
func ValidateClock(c *model.Tracker) bool { return ValidRange(c.Current, c.Total) }

// ValidateTrack reports whether a track's values are in range.
func ValidateTrack(t *model.Tracker) bool { return ValidRange(t.Current, t.Total) }

// ValidateEvent reports whether an event's values are in range.
func ValidateEvent(e *model.Tracker) bool { return ValidRange(e.Current, e.Total) }

// ValidateTimer reports whether a timer's value is non-negative.
func ValidateTimer(t *model.Tracker) bool { return t.Value >= 0 }

// Validate dispatches on the tracker kind.
func Validate(t *model.Tracker) bool {
	if t.IsTimer() {
		return ValidateTimer(t)
	}
	return ValidRange(t.Current, t.Total)
}

// Percent returns round(100*current/total), or 0 when total is 0.
func Percent(current, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(current) / float64(total) * 100))
}

// IsComplete reports whether current has reached total.
func IsComplete(current, total int) bool {
	return current >= total
}

// IsNearComplete reports whether the tracker is at least 75% full.
func IsNearComplete(current, total int) bool {
	return Percent(current, total) >= NearCompletePercent
}

// IsTimerUrgent reports whether a timer is at or below the urgent threshold.
// An expired timer (0) is also urgent.
func IsTimerUrgent(value int) bool {
	return value <= UrgentTimerValue
}

// IsTimerExpired reports whether a timer has run out.
func IsTimerExpired(value int) bool {
	return value == 0
}

// StatusOf classifies a tracker. Expired is checked before urgent so a
// timer at zero is reported as expired.
func StatusOf(t *model.Tracker) Status {
	if !Validate(t) {
		return StatusInvalid
	}
	if t.IsTimer() {
		switch {
		case IsTimerExpired(t.Value):
			return StatusExpired
		case IsTimerUrgent(t.Value):
			return StatusUrgent
		default:
			return StatusRunning
		}
	}
	switch {
	case IsComplete(t.Current, t.Total):
		return StatusComplete
	case IsNearComplete(t.Current, t.Total):
		return StatusNearComplete
	default:
		return StatusInProgress
	}
}
