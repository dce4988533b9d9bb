package maintenance

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	OutboxRetentionJobName = "outbox-retention"
	DLQRetentionJobName    = "dlq-retention"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PruneFunc deletes rows older than cutoff inside tx and reports the count.
type PruneFunc func(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)

// RetentionJob deletes rows that have aged out of a retention window.
type RetentionJob struct {
	name      string
	db        txRunner
	prune     PruneFunc
	retention time.Duration
	now       func() time.Time
}

func NewRetentionJob(name string, db txRunner, prune PruneFunc, retentionDays int) (*RetentionJob, error) {
	if name == "" {
		return nil, fmt.Errorf("job name required")
	}
	if db == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if prune == nil {
		return nil, fmt.Errorf("prune func required")
	}
	if retentionDays <= 0 {
		return nil, fmt.Errorf("%s: retention days must be positive", name)
	}
	return &RetentionJob{
		name:      name,
		db:        db,
		prune:     prune,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}, nil
}

func (j *RetentionJob) Name() string { return j.name }

func (j *RetentionJob) Run(ctx context.Context) (int64, error) {
	cutoff := j.now().UTC().Add(-j.retention)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := j.prune(ctx, tx, cutoff)
		deleted = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", j.name, err)
	}
	return deleted, nil
}
