package mpv

import (
	"encoding/json"
	"errors"
	"fmt"
)

// request is a single IPC command line.
type request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// message is any line mpv writes to the socket: a command reply or an event.
type message struct {
	// Reply fields
	RequestID *int64          `json:"request_id,omitempty"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`

	// Event fields
	Event           string `json:"event,omitempty"`
	Reason          string `json:"reason,omitempty"`
	FileError       string `json:"file_error,omitempty"`
	PlaylistEntryID int64  `json:"playlist_entry_id,omitempty"`
}

func (m *message) isReply() bool {
	return m.Event == "" && m.RequestID != nil
}

// CommandError is a non-success reply to an IPC command.
type CommandError struct {
	Command string
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("mpv %s: %s", e.Command, e.Message)
}

// IsPropertyUnavailable reports whether err means the property has no value,
// which mpv returns for time-pos and duration while idle.
func IsPropertyUnavailable(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce) && ce.Message == "property unavailable"
}

// End-file reasons reported by mpv.
const (
	reasonEOF      = "eof"
	reasonStop     = "stop"
	reasonQuit     = "quit"
	reasonError    = "error"
	reasonRedirect = "redirect"
)
