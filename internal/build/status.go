package build

import (
	"errors"
	"os"
)

// StageStatus reports the checkpoint state of one stage.
type StageStatus struct {
	Name   string
	Done   bool
	Marker string
}

// Status is a snapshot of the deps directory.
type Status struct {
	Stages []StageStatus
	// Record is nil until a run completes.
	Record *Record
}

// Status inspects checkpoint markers and the build record without running
// anything.
func (b *Builder) Status() (*Status, error) {
	st := &Status{}
	for _, s := range b.dep.Stages() {
		done, err := b.checkpoints.Done(s.Name)
		if err != nil {
			return nil, err
		}
		st.Stages = append(st.Stages, StageStatus{
			Name:   s.Name,
			Done:   done,
			Marker: b.checkpoints.Path(s.Name),
		})
	}
	rec, err := b.LoadRecord()
	if err != nil {
		return nil, err
	}
	st.Record = rec
	return st, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
