package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template. An invalid template is ignored.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, f.eventDescription(e))

	return strings.Join(parts, " ")
}

func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      e.Type.String(),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Ago:       humanize.Time(e.Timestamp),
	}

	if e.Current != nil {
		data.State = e.Current.State.String()
		data.Volume = e.Current.Volume
		data.Balance = e.Current.Balance
		data.Position = e.Current.Index + 1
		data.QueueLen = len(e.Current.Queue)
		if e.Current.Track != nil {
			data.Title = e.Current.Track.Title
			data.Album = e.Current.Track.Album
			data.Number = e.Current.Track.Number
			data.Length = e.Current.Track.Length
		}
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Ago       string
	State     string
	Title     string
	Album     string
	Number    int
	Length    string
	Volume    int
	Balance   int
	Position  int
	QueueLen  int
}

func (f *Formatter) eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if e.Current.HasTrack() {
			return "Now playing: " + describe(e.Current.Track.Title, e.Current.Track.Album) + position(e)
		}
		return "Track changed"

	case EventTrackComplete:
		if e.Previous.HasTrack() {
			return "Finished: " + describe(e.Previous.Track.Title, e.Previous.Track.Album)
		}
		return "Track completed"

	case EventTrackSkip:
		if e.Previous.HasTrack() {
			return "Skipped: " + describe(e.Previous.Track.Title, e.Previous.Track.Album)
		}
		return "Track skipped"

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventStop:
		return "Stopped"

	case EventVolumeChange:
		if e.Current != nil {
			return fmt.Sprintf("Volume: %d%%", e.Current.Volume)
		}
		return "Volume changed"

	case EventBalanceChange:
		if e.Current != nil {
			return "Balance: " + FormatBalance(e.Current.Balance)
		}
		return "Balance changed"

	default:
		return "Unknown event"
	}
}

func describe(title, album string) string {
	if album == "" {
		return title
	}
	return album + " - " + title
}

func position(e Event) string {
	if e.Current == nil || len(e.Current.Queue) == 0 {
		return ""
	}
	return fmt.Sprintf(" [%d/%d]", e.Current.Index+1, len(e.Current.Queue))
}

// FormatBalance renders a balance value as "L40", "C" or "R25".
func FormatBalance(balance int) string {
	switch {
	case balance < 0:
		return fmt.Sprintf("L%d", -balance)
	case balance > 0:
		return fmt.Sprintf("R%d", balance)
	default:
		return "C"
	}
}

func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventTrackComplete:
		return "✅"
	case EventTrackSkip:
		return "⏭️"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventStop:
		return "⏹️"
	case EventVolumeChange:
		return "🔊"
	case EventBalanceChange:
		return "🎚️"
	default:
		return "❓"
	}
}

// String returns the event name used in templates and JSON output.
func (t EventType) String() string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackComplete:
		return "track_complete"
	case EventTrackSkip:
		return "track_skip"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventStop:
		return "stop"
	case EventVolumeChange:
		return "volume_change"
	case EventBalanceChange:
		return "balance_change"
	default:
		return "unknown"
	}
}
