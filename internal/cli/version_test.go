package cli

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestWriteVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeVersion(&buf, newBuildInfo(), true, false); err != nil {
		t.Fatalf("writeVersion() error = %v", err)
	}

	var got buildInfo
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	wantPorts := []string{"play", "pause", "setCurrentTime", "setLoop", "scrollToTop"}
	if !reflect.DeepEqual(got.InboundPorts, wantPorts) {
		t.Errorf("InboundPorts = %v, want %v", got.InboundPorts, wantPorts)
	}
	if got.OutboundPort != "currentTime" {
		t.Errorf("OutboundPort = %q, want currentTime", got.OutboundPort)
	}
	if got.LegacyTrackID != "elm-audio-file" {
		t.Errorf("LegacyTrackID = %q, want elm-audio-file", got.LegacyTrackID)
	}
	wantCommands := []string{"play", "pause", "seek", "loop", "top"}
	if !reflect.DeepEqual(got.Commands, wantCommands) {
		t.Errorf("Commands = %v, want %v", got.Commands, wantCommands)
	}
}

func TestWriteVersionText(t *testing.T) {
	info := newBuildInfo()
	info.Version = "1.2.3"

	var buf bytes.Buffer
	if err := writeVersion(&buf, info, false, false); err != nil {
		t.Fatalf("writeVersion() error = %v", err)
	}
	if buf.String() != "patchdeck 1.2.3\n" {
		t.Errorf("output = %q, want version line only", buf.String())
	}

	buf.Reset()
	if err := writeVersion(&buf, info, false, true); err != nil {
		t.Fatalf("writeVersion() error = %v", err)
	}
	for _, want := range []string{"ports in:   play, pause", "ports out:  currentTime", "legacy id:  elm-audio-file"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("verbose output missing %q:\n%s", want, buf.String())
		}
	}
}
