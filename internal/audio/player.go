package audio

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Player plays one clip, blocking until it ends or ctx is cancelled.
type Player interface {
	Play(ctx context.Context, path string) error
}

// ExecPlayer plays clips by running an external player process per file
// extension, e.g. aplay for .wav and mpg123 for .mp3. This keeps decoding
// and the sound device out of the daemon.
type ExecPlayer struct {
	players map[string]string // extension (without dot) -> command
	log     *zap.SugaredLogger
}

// NewExecPlayer creates a player from an extension -> command map.
func NewExecPlayer(players map[string]string, log *zap.SugaredLogger) *ExecPlayer {
	return &ExecPlayer{players: players, log: log}
}

func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	command, ok := p.players[ext]
	if !ok {
		return fmt.Errorf("no player configured for %q files", ext)
	}

	p.log.Debugf("audio: %s %s", command, path)

	if err := exec.CommandContext(ctx, command, path).Run(); err != nil {
		return fmt.Errorf("play %s with %s: %w", path, command, err)
	}
	return nil
}
