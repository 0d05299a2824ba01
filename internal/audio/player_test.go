package audio

import (
	"context"
	"strings"
	"testing"

	"github.com/tricksterpi/trickster/internal/logger"
)

func TestExecPlayer_RunsConfiguredCommand(t *testing.T) {
	p := NewExecPlayer(map[string]string{"wav": "true"}, logger.Nop())
	if err := p.Play(context.Background(), "clip.wav"); err != nil {
		t.Errorf("Play: %v", err)
	}
}

func TestExecPlayer_UnknownExtension(t *testing.T) {
	p := NewExecPlayer(map[string]string{"wav": "true"}, logger.Nop())
	err := p.Play(context.Background(), "clip.ogg")
	if err == nil {
		t.Fatal("expected error for unconfigured extension, got nil")
	}
	if !strings.Contains(err.Error(), "ogg") {
		t.Errorf("error %q does not name the extension", err)
	}
}

func TestExecPlayer_CommandFailure(t *testing.T) {
	p := NewExecPlayer(map[string]string{"wav": "false"}, logger.Nop())
	if err := p.Play(context.Background(), "clip.wav"); err == nil {
		t.Error("expected error from failing player command, got nil")
	}
}

func TestExecPlayer_ExtensionIsCaseInsensitive(t *testing.T) {
	p := NewExecPlayer(map[string]string{"wav": "true"}, logger.Nop())
	if err := p.Play(context.Background(), "CLIP.WAV"); err != nil {
		t.Errorf("Play: %v", err)
	}
}
