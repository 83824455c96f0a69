package build

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// Deps directory layout after a successful run:
//
//	deps/
//	  .build.json      # build record
//	  <stage>.ok       # checkpoint markers
//	  src/ build/ install/
const recordFile = ".build.json"

// Record describes the last successful run.
type Record struct {
	Dependency string    `json:"dependency"`
	Version    string    `json:"version"`
	CFlags     []string  `json:"cflags"`
	LDFlags    []string  `json:"ldflags"`
	Modules    []string  `json:"modules"`
	BuildTime  time.Time `json:"build_time"`
}

// RecordPath returns where the build record is stored.
func (b *Builder) RecordPath() string {
	return filepath.Join(b.path(b.cfg.Paths.Deps), recordFile)
}

// LoadRecord reads the build record. It returns nil without error when no
// run has completed yet.
func (b *Builder) LoadRecord() (*Record, error) {
	data, err := afero.ReadFile(b.fs, b.RecordPath())
	if isNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// saveRecord writes rec to the deps directory.
func (b *Builder) saveRecord(rec *Record) error {
	if err := b.fs.MkdirAll(filepath.Dir(b.RecordPath()), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(b.fs, b.RecordPath(), data, 0o644)
}
