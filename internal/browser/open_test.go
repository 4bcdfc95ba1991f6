package browser

import (
	"reflect"
	"runtime"
	"testing"
)

func TestOpenSupported(t *testing.T) {
	// We can't actually test browser opening in a unit test
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
		if _, _, err := command(runtime.GOOS, "http://localhost:8082/"); err != nil {
			t.Errorf("command() error = %v", err)
		}
	default:
		t.Skipf("Unsupported platform: %s", runtime.GOOS)
	}
}

func TestCommand(t *testing.T) {
	const url = "http://localhost:8082/"
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
		wantErr  bool
	}{
		{"darwin", "open", []string{url}, false},
		{"linux", "xdg-open", []string{url}, false},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", url}, false},
		{"plan9", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, err := command(tt.goos, url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("command() error = %v, wantErr %v", err, tt.wantErr)
			}
			if name != tt.wantName || !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("command() = %s %v, want %s %v", name, args, tt.wantName, tt.wantArgs)
			}
		})
	}
}
