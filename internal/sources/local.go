package sources

import (
	"context"
	"os"
	"path/filepath"
	"sort"
)

// LocalSource serves PDFs from a directory on disk.
type LocalSource struct {
	dir string
}

func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

// List returns the PDF filenames in the directory, sorted. A directory
// that does not exist yields an empty list so first runs work gracefully.
func (s *LocalSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isPDF(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Fetch returns the on-disk path of the named document.
func (s *LocalSource) Fetch(ctx context.Context, name string) (string, error) {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}
