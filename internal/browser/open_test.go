package browser

import (
	"runtime"
	"testing"
)

func TestOpenSupported(t *testing.T) {
	// We can't actually test browser opening in a unit test
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
		if _, _, err := command(runtime.GOOS, "http://localhost"); err != nil {
			t.Errorf("command() error = %v", err)
		}
	default:
		t.Skipf("Unsupported platform: %s", runtime.GOOS)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs int
		wantErr  bool
	}{
		{"darwin", "open", 1, false},
		{"linux", "xdg-open", 1, false},
		{"windows", "rundll32", 2, false},
		{"plan9", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, err := command(tt.goos, "http://example.com/cover.jpg")
			if (err != nil) != tt.wantErr {
				t.Fatalf("command() error = %v, wantErr %v", err, tt.wantErr)
			}
			if name != tt.wantName || len(args) != tt.wantArgs {
				t.Errorf("command() = %q %v", name, args)
			}
			if !tt.wantErr && args[len(args)-1] != "http://example.com/cover.jpg" {
				t.Errorf("url not passed last: %v", args)
			}
		})
	}
}
