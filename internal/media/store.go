package media

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound means no stored file matched the requested name.
var ErrNotFound = errors.New("audio file not found")

// Store serves previously stored audio files from a single directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Find returns the path of the first regular file whose name starts with
// prefix, in lexical order.
func (s *Store) Find(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrNotFound
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			return filepath.Join(s.dir, entry.Name()), nil
		}
	}
	return "", ErrNotFound
}
