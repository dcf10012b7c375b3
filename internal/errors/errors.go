package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrServerUnreachable = errors.New("server unreachable")
	ErrAlbumNotFound     = errors.New("album not found")
	ErrQueueEmpty        = errors.New("queue is empty")
	ErrEngineUnavailable = errors.New("media engine unavailable")
	ErrEngineClosed      = errors.New("media engine closed")
	ErrNetworkError      = errors.New("network error")
	ErrTimeout           = errors.New("request timeout")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// JampError wraps an error with a user-friendly suggestion.
type JampError struct {
	Err        error
	Suggestion string
}

func (e *JampError) Error() string {
	return e.Err.Error()
}

func (e *JampError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &JampError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already a JampError with suggestion
	var jampErr *JampError
	if errors.As(err, &jampErr) && jampErr.Suggestion != "" {
		return jampErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Authentication errors
	if errors.Is(err, ErrNotAuthenticated) || strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "unauthorized") {
		return "Run 'jamp login' or set JAMP_API_KEY to authenticate with Jellyfin"
	}

	// Engine errors
	if errors.Is(err, ErrEngineUnavailable) || strings.Contains(errStr, "executable file not found") {
		return "Install mpv or point engine.path at the mpv binary"
	}
	if errors.Is(err, ErrEngineClosed) {
		return "The media engine exited. Restart jamp"
	}

	if errors.Is(err, ErrAlbumNotFound) || strings.Contains(errStr, "404") {
		return "Run 'jamp albums' to see available albums"
	}

	if errors.Is(err, ErrQueueEmpty) {
		return "Add an album to the queue first"
	}

	// Network errors
	if errors.Is(err, ErrServerUnreachable) || errors.Is(err, ErrNetworkError) ||
		errors.Is(err, ErrTimeout) || strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "timeout") || strings.Contains(errStr, "connection refused") {
		return "Check that the Jellyfin server is running and server.url is correct"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) ||
		strings.Contains(errStr, "config") {
		return "Run 'jamp config init' to create a configuration file"
	}

	// Server errors
	if strings.Contains(errStr, "500") || strings.Contains(errStr, "server error") {
		return "Jellyfin is having issues. Try again in a moment"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors occurred:\n", len(p.Errors))
	for i, err := range p.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}
