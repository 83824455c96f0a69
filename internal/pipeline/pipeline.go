// Package pipeline runs an ordered list of checkpointed stages.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Stage is one step of the pipeline. Run must be safe to repeat: a stage
// whose marker is missing runs from scratch.
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// Report lists what a Controller run did, in order.
type Report struct {
	Ran     []string
	Skipped []string
}

// Controller runs stages in order, skipping those already checkpointed.
type Controller struct {
	checkpoints *Checkpoints
	stages      []Stage
	force       bool
	log         *zap.Logger
}

// NewController returns a controller over stages. With force set every
// stage runs regardless of its marker.
func NewController(cp *Checkpoints, force bool, log *zap.Logger, stages ...Stage) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{checkpoints: cp, stages: stages, force: force, log: log}
}

// Stages returns the stage names in run order.
func (c *Controller) Stages() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.Name
	}
	return names
}

// Run executes the pipeline. A stage is skipped only when its marker
// exists and no earlier stage of this run executed; once one stage runs,
// all later stages run too. The first failing stage stops the run and
// leaves no marker behind.
func (c *Controller) Run(ctx context.Context) (*Report, error) {
	report := &Report{}
	forced := c.force
	for _, s := range c.stages {
		if !forced {
			done, err := c.checkpoints.Done(s.Name)
			if err != nil {
				return report, fmt.Errorf("stage %s: %w", s.Name, err)
			}
			if done {
				c.log.Debug("stage up to date", zap.String("stage", s.Name))
				report.Skipped = append(report.Skipped, s.Name)
				continue
			}
		}
		forced = true

		if err := c.checkpoints.Clear(s.Name); err != nil {
			return report, fmt.Errorf("stage %s: %w", s.Name, err)
		}
		c.log.Info("running stage", zap.String("stage", s.Name))
		if err := s.Run(ctx); err != nil {
			return report, fmt.Errorf("stage %s: %w", s.Name, err)
		}
		if err := c.checkpoints.Mark(s.Name); err != nil {
			return report, fmt.Errorf("stage %s: %w", s.Name, err)
		}
		report.Ran = append(report.Ran, s.Name)
	}
	return report, nil
}
