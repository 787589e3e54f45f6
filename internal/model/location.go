// Package model defines canonical types for Lonelog campaign data.
// These types are the single source of truth used across all layers:
// parser output, the in-memory index, the SQLite cache, and CLI output.
package model

import "strconv"

// Location points into source text. It is used for merge bookkeeping and
// for jumping back to the line that mentioned an entity.
type Location struct {
	// File is the workspace-relative path of the document.
	File string `json:"file"`

	// Line is the 1-indexed absolute line number in the document.
	Line int `json:"line"`

	// Session is the session label, e.g. "Session 3".
	Session string `json:"session,omitempty"`

	// Scene is the scene id, e.g. "S2" or "T1-S3".
	Scene string `json:"scene,omitempty"`
}

// String returns a short file:line form.
func (l Location) String() string {
	return l.File + ":" + strconv.Itoa(l.Line)
}

// Label formats the location for "last seen" displays.
func (l Location) Label() string {
	switch {
	case l.Session != "" && l.Scene != "":
		return l.Session + ", Scene " + l.Scene
	case l.Session != "":
		return l.Session
	default:
		return "Line " + strconv.Itoa(l.Line)
	}
}

// SessionLabel returns the label used in Location.Session for a session number.
func SessionLabel(number int) string {
	return "Session " + strconv.Itoa(number)
}
