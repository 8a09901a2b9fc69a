package jobs

import (
	"context"
	"fmt"
	"log"
	"time"
)

// IdleConversationDeleter is the repository surface the retention sweep needs.
type IdleConversationDeleter interface {
	DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionWorker deletes conversations that have been idle longer than the
// configured retention period. Messages go with their conversation.
type RetentionWorker struct {
	repo      IdleConversationDeleter
	retention time.Duration
	now       func() time.Time
}

// NewRetentionWorker creates a RetentionWorker with the given retention period.
func NewRetentionWorker(repo IdleConversationDeleter, retention time.Duration) *RetentionWorker {
	return &RetentionWorker{
		repo:      repo,
		retention: retention,
		now:       time.Now,
	}
}

// NewRetentionWorkerWithClock creates a RetentionWorker with a fixed clock
// (for testing).
func NewRetentionWorkerWithClock(repo IdleConversationDeleter, retention time.Duration, now func() time.Time) *RetentionWorker {
	return &RetentionWorker{
		repo:      repo,
		retention: retention,
		now:       now,
	}
}

// ProcessJobs runs one retention sweep.
func (w *RetentionWorker) ProcessJobs(ctx context.Context) error {
	cutoff := w.now().UTC().Add(-w.retention)

	deleted, err := w.repo.DeleteIdleBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to sweep idle conversations: %w", err)
	}

	if deleted > 0 {
		log.Printf("retention: deleted %d idle conversations (cutoff %s)", deleted, cutoff.Format(time.RFC3339))
	}
	return nil
}
