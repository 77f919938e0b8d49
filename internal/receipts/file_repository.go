package receipts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileRepository stores receipts as JSON files, one per run, named by start
// time so a directory listing reads chronologically.
type FileRepository struct {
	dir string
}

// NewFileRepository creates a repository rooted at dir. The directory is
// created on first save.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// DefaultDir returns ~/.spraay/receipts when the home directory is known.
func DefaultDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".spraay", "receipts")
	}
	return ""
}

// Save persists the receipt atomically and returns its path. Writes go to a
// temp file first so a crash never leaves a truncated receipt behind.
func (r *FileRepository) Save(rec Receipt) (string, error) {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return "", err
	}

	name := fmt.Sprintf("run-%s.json", rec.StartedAt.UTC().Format("20060102-150405"))
	path := filepath.Join(r.dir, name)
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads one receipt file.
func (r *FileRepository) Load(path string) (Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Receipt{}, err
	}

	var rec Receipt
	if err := json.Unmarshal(data, &rec); err != nil {
		return Receipt{}, fmt.Errorf("parse receipt %s: %w", path, err)
	}
	return rec, nil
}

// List returns receipt paths sorted newest first, at most limit entries.
// A missing directory is an empty history, not an error.
func (r *FileRepository) List(limit int) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "run-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		paths = append(paths, filepath.Join(r.dir, name))
	}

	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	return paths, nil
}
