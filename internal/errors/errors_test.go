package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"explicit", WithSuggestion(errors.New("boom"), "do the thing"), "do the thing"},
		{"wrapped sentinel", fmt.Errorf("load: %w", ErrNotAuthenticated), "jamp login"},
		{"status 401", errors.New("API error 401: bad token"), "jamp login"},
		{"engine", fmt.Errorf("start: %w", ErrEngineUnavailable), "mpv"},
		{"missing binary", errors.New(`exec: "mpv": executable file not found in $PATH`), "mpv"},
		{"queue", ErrQueueEmpty, "queue"},
		{"refused", errors.New("dial tcp: connection refused"), "server.url"},
		{"config", ErrInvalidConfig, "config init"},
		{"server", errors.New("API error 500: server error"), "Try again"},
		{"unknown", errors.New("something odd"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSuggestion(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("GetSuggestion() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("GetSuggestion() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestWithSuggestionUnwraps(t *testing.T) {
	err := WithSuggestion(ErrQueueEmpty, "add tracks")
	if !errors.Is(err, ErrQueueEmpty) {
		t.Error("errors.Is() = false through JampError")
	}
	if WithSuggestion(nil, "x") != nil {
		t.Error("WithSuggestion(nil) should be nil")
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q", got)
	}
	got := Format(WithSuggestion(errors.New("boom"), "retry"))
	if got != "Error: boom\n\nSuggestion: retry" {
		t.Errorf("Format() = %q", got)
	}
	if got := Format(errors.New("odd")); got != "Error: odd" {
		t.Errorf("Format() = %q", got)
	}
}

func TestPartialResult(t *testing.T) {
	var p PartialResult[[]string]
	if p.HasErrors() || p.ErrorSummary() != "" {
		t.Fatal("empty PartialResult reports errors")
	}
	p.AddError(nil)
	p.AddError(errors.New("server down"))
	if p.ErrorSummary() != "server down" {
		t.Errorf("ErrorSummary() = %q", p.ErrorSummary())
	}
	p.AddError(errors.New("engine missing"))
	if !strings.HasPrefix(p.ErrorSummary(), "2 errors occurred:") {
		t.Errorf("ErrorSummary() = %q", p.ErrorSummary())
	}
}
