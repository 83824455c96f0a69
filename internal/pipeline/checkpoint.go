package pipeline

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Checkpoints stores one zero-byte "<stage>.ok" marker per completed stage.
type Checkpoints struct {
	fs  afero.Fs
	dir string
}

// NewCheckpoints returns a store rooted at dir.
func NewCheckpoints(fs afero.Fs, dir string) *Checkpoints {
	return &Checkpoints{fs: fs, dir: dir}
}

// Path returns the marker file for stage.
func (c *Checkpoints) Path(stage string) string {
	return filepath.Join(c.dir, stage+".ok")
}

// Done reports whether stage has a marker. Only regular files count.
func (c *Checkpoints) Done(stage string) (bool, error) {
	fi, err := c.fs.Stat(c.Path(stage))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}

// Clear removes the marker of stage if there is one.
func (c *Checkpoints) Clear(stage string) error {
	err := c.fs.Remove(c.Path(stage))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Mark creates the marker of stage.
func (c *Checkpoints) Mark(stage string) error {
	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	f, err := c.fs.Create(c.Path(stage))
	if err != nil {
		return err
	}
	return f.Close()
}
