package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for host-level failure modes
type ErrorCode string

const (
	// FileUnreadable indicates a source file could not be read
	FileUnreadable ErrorCode = "FILE_UNREADABLE"
	// ParseFailed indicates the source is not valid Python
	ParseFailed ErrorCode = "PARSE_FAILED"
	// ParserUnavailable indicates the binary was built without the tree-sitter parser
	ParserUnavailable ErrorCode = "PARSER_UNAVAILABLE"
	// ConfigInvalid indicates a configuration value failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// CacheUnavailable indicates the result cache could not be opened or used
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// InternalError indicates a broken engine invariant
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditConfig suggests changing a configuration key
	EditConfig FixActionType = "edit-config"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Key         string        `json:"key,omitempty"`
	Description string        `json:"description,omitempty"`
}

// LintError carries a stable code, a message, the file it concerns and the
// underlying cause.
type LintError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Path           string      `json:"path,omitempty"`
	Line           uint32      `json:"line,omitempty"`
	Column         uint32      `json:"column,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a LintError with the default fixes for its code.
func New(code ErrorCode, message string, cause error) *LintError {
	return &LintError{
		Code:           code,
		Message:        message,
		SuggestedFixes: GetSuggestedFixes(code),
		cause:          cause,
	}
}

// Internal creates the error used when an engine invariant breaks.
func Internal(format string, args ...any) *LintError {
	return New(InternalError, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *LintError) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Code)
	if e.Path != "" {
		prefix += " " + e.Path
		if e.Line > 0 {
			prefix += fmt.Sprintf(":%d:%d", e.Line, e.Column)
		}
		prefix += ":"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s %s: %v", prefix, e.Message, e.cause)
	}
	return fmt.Sprintf("%s %s", prefix, e.Message)
}

// Unwrap returns the underlying error
func (e *LintError) Unwrap() error {
	return e.cause
}

// WithPath attaches the file the error concerns.
func (e *LintError) WithPath(path string) *LintError {
	e.Path = path
	return e
}

// WithPosition attaches a 1-based line and 0-based column.
func (e *LintError) WithPosition(line, col uint32) *LintError {
	e.Line = line
	e.Column = col
	return e
}

// CodeOf returns the code of the first LintError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var le *LintError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ParserUnavailable: {
		{
			Type:        RunCommand,
			Command:     "CGO_ENABLED=1 go install bugbear/cmd/bugbear",
			Description: "Rebuild with cgo so the tree-sitter parser is linked in",
		},
	},
	CacheUnavailable: {
		{
			Type:        RunCommand,
			Command:     "bugbear cache clear",
			Description: "Remove the cache database and let the next run recreate it",
		},
		{
			Type:        EditConfig,
			Key:         "cache.enabled",
			Description: "Disable the result cache",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "bugbear rules",
			Description: "List the known rule codes",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
