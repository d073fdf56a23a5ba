// Package comparerr defines the canonical error-code catalog surfaced
// across transports (CLI exit codes, MCP tool errors, HTTP responses).
package comparerr

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Code is a canonical error code shared by every transport.
type Code string

const (
	Validation        Code = "VALIDATION"
	MalformedInput    Code = "MALFORMED_INPUT"
	UnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	PermissionDenied  Code = "PERMISSION_DENIED"
	FileTooLarge      Code = "FILE_TOO_LARGE"
	BusyResource      Code = "BUSY_RESOURCE"
	Timeout           Code = "TIMEOUT"
	InternalError     Code = "INTERNAL_ERROR"
)

// Entry documents a code's standard message and retry semantics.
type Entry struct {
	Code      Code
	Message   string
	Retryable bool
	NextSteps []string
}

var catalog = map[Code]Entry{
	Validation:        {Code: Validation, Message: "invalid inputs", Retryable: true, NextSteps: []string{"Correct the request parameters and retry"}},
	MalformedInput:    {Code: MalformedInput, Message: "input file could not be parsed as a headered delimited table", Retryable: false, NextSteps: []string{"Verify the file is UTF-8 CSV with a header row", "Check for missing or duplicate quoting"}},
	UnsupportedFormat: {Code: UnsupportedFormat, Message: "unsupported input file extension", Retryable: false, NextSteps: []string{"Convert the file to .csv and retry"}},
	PermissionDenied:  {Code: PermissionDenied, Message: "insufficient permissions to access path", Retryable: false, NextSteps: []string{"Adjust permissions or choose an allowed directory"}},
	FileTooLarge:      {Code: FileTooLarge, Message: "file exceeds configured size limit", Retryable: false, NextSteps: []string{"Use a smaller file or raise the limit"}},
	BusyResource:      {Code: BusyResource, Message: "concurrent comparison limit reached", Retryable: true, NextSteps: []string{"Retry after a short delay"}},
	Timeout:           {Code: Timeout, Message: "comparison exceeded configured time limit", Retryable: true, NextSteps: []string{"Narrow the input or increase the timeout"}},
	InternalError:     {Code: InternalError, Message: "internal error", Retryable: false, NextSteps: nil},
}

// Error is a catalog-backed error carrying a stable Code for callers that
// need to branch on error kind (CLI exit codes, HTTP status mapping).
type Error struct {
	Code    Code
	Detail  string
	wrapped error
}

func (e *Error) Error() string {
	entry := catalog[e.Code]
	msg := e.Detail
	if msg == "" {
		msg = entry.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error { return e.wrapped }

// Retryable reports whether the catalog marks this code retryable.
func (e *Error) Retryable() bool { return catalog[e.Code].Retryable }

// New constructs a catalog-backed Error with a detail message.
func New(code Code, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}

// Wrap attaches a catalog code to an underlying error, preserving it for
// errors.Is/errors.As while presenting a stable, catalog-shaped message.
func Wrap(code Code, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Detail: err.Error(), wrapped: err}
}

// NextSteps returns the catalog guidance for code, if any.
func NextSteps(code Code) []string {
	return catalog[code].NextSteps
}

// MCP converts a comparerr.Error into an MCP tool error result, inlining
// next-steps guidance for clients that surface only a message string.
func (e *Error) MCP() *mcp.CallToolResult {
	entry, ok := catalog[e.Code]
	base := e.Detail
	if base == "" && ok {
		base = entry.Message
	}
	guidance := ""
	if ok && len(entry.NextSteps) > 0 {
		guidance = " | nextSteps: " + strings.Join(entry.NextSteps, "; ")
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s%s", e.Code, base, guidance))
}

// HTTPStatus maps a code to the HTTP status the httpapi transport should
// respond with.
func HTTPStatus(code Code) int {
	switch code {
	case Validation, MalformedInput, UnsupportedFormat:
		return 400
	case PermissionDenied:
		return 403
	case FileTooLarge:
		return 413
	case BusyResource:
		return 429
	case Timeout:
		return 504
	default:
		return 500
	}
}
