package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindByPrefix(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"speech_abc.wav", "speech_def.wav", "other.mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store := NewStore(dir)

	testCases := []struct {
		name    string
		prefix  string
		want    string
		wantErr error
	}{
		{"exact name", "other.mp3", "other.mp3", nil},
		{"prefix picks first lexical match", "speech", "speech_abc.wav", nil},
		{"no match", "doesnotexist", "", ErrNotFound},
		{"empty prefix", "", "", ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path, err := store.Find(tc.prefix)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Find failed: %v", err)
			}
			if filepath.Base(path) != tc.want {
				t.Errorf("expected %q, got %q", tc.want, filepath.Base(path))
			}
		})
	}
}

func TestFindMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never-created"))
	if _, err := store.Find("anything"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a missing media dir, got %v", err)
	}
}

func TestFindSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "speech_dir"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "speech_file.wav"), []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := NewStore(dir).Find("speech")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if filepath.Base(path) != "speech_file.wav" {
		t.Errorf("expected the file, got %q", filepath.Base(path))
	}
}
