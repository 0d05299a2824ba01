// Package audio manages the clip library and playback for scare sequences.
// Decoding and output are delegated to external player processes; this
// package only owns the inventory and the sequencing.
package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Clip is a playable audio file in the library.
type Clip struct {
	Name string // file name, e.g. "cackle.wav"
	Path string // absolute or folder-relative path handed to the player
}

// Library is the in-memory list of clips found in the audio folder.
// Reload rebuilds it at runtime; reads and reloads may race freely.
type Library struct {
	folder string
	log    *zap.SugaredLogger

	mu    sync.RWMutex
	clips []Clip
}

// NewLibrary creates an empty library over the given folder.
// Call Reload to populate it.
func NewLibrary(folder string, log *zap.SugaredLogger) *Library {
	return &Library{folder: folder, log: log}
}

// Reload re-scans the folder for .wav and .mp3 files (case-insensitive)
// and replaces the clip list. A missing folder yields an empty library and
// a warning, not an error: the share may be mounted later and fixed with
// another reload.
func (l *Library) Reload() (int, error) {
	entries, err := os.ReadDir(l.folder)
	if errors.Is(err, fs.ErrNotExist) {
		l.log.Warnf("audio folder %q does not exist, library is empty", l.folder)
		l.mu.Lock()
		l.clips = nil
		l.mu.Unlock()
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("scan audio folder: %w", err)
	}

	var clips []Clip
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".wav", ".mp3":
			clips = append(clips, Clip{
				Name: e.Name(),
				Path: filepath.Join(l.folder, e.Name()),
			})
		}
	}
	sort.Slice(clips, func(i, j int) bool { return clips[i].Name < clips[j].Name })

	l.mu.Lock()
	l.clips = clips
	l.mu.Unlock()

	l.log.Infof("loaded %d audio clips from %s", len(clips), l.folder)
	return len(clips), nil
}

// Clips returns a copy of the clip list.
func (l *Library) Clips() []Clip {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Clip, len(l.clips))
	copy(out, l.clips)
	return out
}

// Names returns the clip file names.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, len(l.clips))
	for i, c := range l.clips {
		names[i] = c.Name
	}
	return names
}

// Count returns the number of loaded clips.
func (l *Library) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.clips)
}

// Folder returns the scanned folder path.
func (l *Library) Folder() string {
	return l.folder
}
