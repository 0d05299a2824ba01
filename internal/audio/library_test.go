package audio

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tricksterpi/trickster/internal/logger"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReload_ScansWavAndMp3(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "scream.wav")
	touch(t, dir, "cackle.mp3")
	touch(t, dir, "LAUGH.WAV") // extension match is case-insensitive
	touch(t, dir, "notes.txt")
	if err := os.Mkdir(filepath.Join(dir, "ignored.wav"), 0o755); err != nil {
		t.Fatal(err)
	}

	lib := NewLibrary(dir, logger.Nop())
	n, err := lib.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if n != 3 {
		t.Errorf("Reload = %d, want 3", n)
	}
	want := []string{"LAUGH.WAV", "cackle.mp3", "scream.wav"}
	if got := lib.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
	if lib.Count() != 3 {
		t.Errorf("Count = %d, want 3", lib.Count())
	}
}

func TestReload_PicksUpNewClip(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.wav")

	lib := NewLibrary(dir, logger.Nop())
	if _, err := lib.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if lib.Count() != 1 {
		t.Fatalf("Count = %d, want 1", lib.Count())
	}

	touch(t, dir, "b.mp3")
	n, err := lib.Reload()
	if err != nil {
		t.Fatalf("second Reload: %v", err)
	}
	if n != 2 {
		t.Errorf("second Reload = %d, want 2", n)
	}

	found := false
	for _, name := range lib.Names() {
		if name == "b.mp3" {
			found = true
		}
	}
	if !found {
		t.Errorf("new clip missing from Names: %v", lib.Names())
	}
}

func TestReload_MissingFolderIsEmptyNotError(t *testing.T) {
	lib := NewLibrary(filepath.Join(t.TempDir(), "nowhere"), logger.Nop())
	n, err := lib.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if n != 0 || lib.Count() != 0 {
		t.Errorf("missing folder: count = %d/%d, want 0", n, lib.Count())
	}
}

func TestClips_ReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.wav")

	lib := NewLibrary(dir, logger.Nop())
	if _, err := lib.Reload(); err != nil {
		t.Fatal(err)
	}

	clips := lib.Clips()
	clips[0].Name = "mutated"
	if lib.Names()[0] != "a.wav" {
		t.Error("Clips did not return a copy")
	}
}
