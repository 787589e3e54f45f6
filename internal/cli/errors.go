package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Workspace errors
	ErrWorkspaceNotFound = "WORKSPACE_NOT_FOUND"
	ErrConfigInvalid     = "CONFIG_INVALID"

	// Lookup errors
	ErrCampaignNotFound = "CAMPAIGN_NOT_FOUND"
	ErrEntityNotFound   = "ENTITY_NOT_FOUND"

	// Index errors
	ErrIndexError     = "INDEX_ERROR"
	ErrIndexDisabled  = "INDEX_DISABLED"
	ErrIndexLocked    = "INDEX_LOCKED"
	ErrEditorNotFound = "EDITOR_NOT_FOUND"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes
const (
	WarnParseFailed  = "PARSE_FAILED"
	WarnCacheRebuilt = "CACHE_REBUILT"
)
