package diff

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrStale means the file on disk no longer matches the snapshot the plan
// was computed from; applying it would patch against stale offsets.
var ErrStale = errors.New("file changed on disk since snapshot")

// Plan is a pending patch for one file. Snapshot is the on-disk content at
// context-extraction time (marker included); Base is Snapshot with the
// marker occurrence removed, which is what the edits are computed against.
type Plan struct {
	Path     string
	Snapshot string
	Base     string
	Edits    []TextEdit
}

// Result applies the plan's edits to its base text without touching disk.
func (p *Plan) Result() (string, error) {
	return ApplyEdits(p.Base, p.Edits)
}

// Apply re-reads the file, verifies it is still byte-identical to the
// snapshot, and writes the edited content atomically. Returns the written
// content. If the file changed underneath us (the user kept typing during
// the completion round-trip) the plan is discarded with ErrStale — the
// newer edit has already started its own pipeline run.
func (p *Plan) Apply() (string, error) {
	updated, err := p.Result()
	if err != nil {
		return "", err
	}

	current, err := os.ReadFile(p.Path)
	if err != nil {
		return "", fmt.Errorf("re-reading %s: %w", p.Path, err)
	}
	if string(current) != p.Snapshot {
		return "", ErrStale
	}

	if err := writeFileAtomic(p.Path, []byte(updated)); err != nil {
		return "", err
	}

	return updated, nil
}

// writeFileAtomic writes data to a temp file in the same directory and
// renames it over path, so concurrent readers never see a partial write.
// The original file mode is preserved when the file exists.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".anycoder-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
