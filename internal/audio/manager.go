package audio

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// ErrNoClips is returned when playback is requested on an empty library.
var ErrNoClips = errors.New("no audio clips loaded")

// Manager plays clips from a library through a Player.
type Manager struct {
	lib      *Library
	player   Player
	minPause time.Duration // pause between clips in a sequence
	maxPause time.Duration
	log      *zap.SugaredLogger
}

// NewManager creates a playback manager.
func NewManager(lib *Library, player Player, minPause, maxPause time.Duration, log *zap.SugaredLogger) *Manager {
	return &Manager{
		lib:      lib,
		player:   player,
		minPause: minPause,
		maxPause: maxPause,
		log:      log,
	}
}

// PlayRandom starts one random clip and returns its name immediately; the
// clip finishes in the background. This path carries no debounce and never
// touches the scare cycle state.
func (m *Manager) PlayRandom(ctx context.Context) (string, error) {
	clip, ok := m.pick()
	if !ok {
		return "", ErrNoClips
	}

	m.log.Infof("playing %s", clip.Name)
	go func() {
		if err := m.player.Play(ctx, clip.Path); err != nil {
			m.log.Errorf("audio: %v", err)
		}
	}()
	return clip.Name, nil
}

// PlaySequence plays random clips back to back, with a random pause
// between them, until at least target time has elapsed. It blocks for the
// whole sequence and stops early on playback failure or ctx cancellation.
func (m *Manager) PlaySequence(ctx context.Context, target time.Duration) error {
	if m.lib.Count() == 0 {
		return ErrNoClips
	}

	m.log.Infof("starting audio sequence (target %v)", target)

	start := time.Now()
	played := 0
	for time.Since(start) < target {
		clip, ok := m.pick()
		if !ok {
			return ErrNoClips
		}

		m.log.Debugf("audio: sequence clip %s", clip.Name)
		if err := m.player.Play(ctx, clip.Path); err != nil {
			return fmt.Errorf("sequence aborted after %d clips: %w", played, err)
		}
		played++

		if time.Since(start) >= target {
			break
		}
		if err := sleepCtx(ctx, m.pickPause()); err != nil {
			return err
		}
	}

	m.log.Infof("audio sequence completed: %d clips over %v", played, time.Since(start).Round(time.Millisecond))
	return nil
}

// Names lists the loaded clip names.
func (m *Manager) Names() []string { return m.lib.Names() }

// Count returns the number of loaded clips.
func (m *Manager) Count() int { return m.lib.Count() }

// Folder returns the audio folder path.
func (m *Manager) Folder() string { return m.lib.Folder() }

// Reload re-scans the audio folder.
func (m *Manager) Reload() (int, error) { return m.lib.Reload() }

func (m *Manager) pick() (Clip, bool) {
	clips := m.lib.Clips()
	if len(clips) == 0 {
		return Clip{}, false
	}
	return clips[rand.IntN(len(clips))], true
}

func (m *Manager) pickPause() time.Duration {
	if m.maxPause <= m.minPause {
		return m.minPause
	}
	return m.minPause + rand.N(m.maxPause-m.minPause)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
