package snapshot

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/tabsnap/internal/errors"
	"github.com/AndreyAkinshin/tabsnap/internal/logger"
	"github.com/AndreyAkinshin/tabsnap/internal/schema"
)

// Writer persists a store as a fixture file.
type Writer struct {
	Logger logger.Logger
	// Validate checks encoded content before it reaches the disk. Nil means
	// the embedded fixture schema.
	Validate func(data []byte) error
}

// Write encodes store, validates it and atomically replaces path. The
// destination directory is created when missing. On any failure the previous
// file at path is left untouched.
func (w *Writer) Write(store *Store, path string) error {
	data, err := Encode(store)
	if err != nil {
		return errors.Wrap(err, "encode fixture")
	}

	validate := w.Validate
	if validate == nil {
		validate = schema.ValidateFixture
	}
	if err := validate(data); err != nil {
		return errors.Wrap(err, "fixture failed validation")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create fixture directory")
	}

	perm, existing := fileMode(path)
	tmp, err := createTemp(dir, filepath.Base(path), perm)
	if err != nil {
		return errors.Wrap(err, "create temporary fixture")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temporary fixture")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temporary fixture")
	}
	if existing {
		if err := os.Chmod(tmpName, perm); err != nil {
			return errors.Wrap(err, "set fixture permissions")
		}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, fmt.Sprintf("replace %s", path))
	}

	if w.Logger != nil {
		w.Logger.Info("fixture written", "path", path, "cases", store.Len(), "bytes", len(data))
	}
	return nil
}

// fileMode returns the permissions of the file being replaced. A new file
// gets 0644, narrowed by the umask when it is created.
func fileMode(path string) (os.FileMode, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return 0o644, false
	}
	return info.Mode().Perm(), true
}

// createTemp opens a fresh hidden file next to the destination. Unlike
// os.CreateTemp it creates the file with perm instead of 0600.
func createTemp(dir, base string, perm os.FileMode) (*os.File, error) {
	for range 100 {
		name := filepath.Join(dir, fmt.Sprintf(".%s.%d.tmp", base, rand.Uint32()))
		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
		if os.IsExist(err) {
			continue
		}
		return f, err
	}
	return nil, fmt.Errorf("no unused temporary name for %s in %s", base, dir)
}
