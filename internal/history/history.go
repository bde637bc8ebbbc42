// Package history keeps an optional log of job runs. Nothing reads it back to decide
// what a job does; it is there for operators.
package history

import (
	"context"

	"github.com/creatorstation/tweetbot/internal/models"
)

type Recorder interface {
	Record(ctx context.Context, run models.JobRun) error
	// Recent lists the newest runs first. An empty job matches every job.
	Recent(ctx context.Context, job string, limit int) ([]models.JobRun, error)
}

// Nop discards runs. It is used when no history backend is configured.
type Nop struct{}

func (Nop) Record(context.Context, models.JobRun) error { return nil }

func (Nop) Recent(context.Context, string, int) ([]models.JobRun, error) { return nil, nil }
