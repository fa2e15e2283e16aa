package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	followModel "poultry-market-backend/internal/domains/follow/model"
	"poultry-market-backend/internal/shared"
)

// Enqueuer is the part of asynq.Client the API needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobDispatcher enqueues maintenance tasks on demand.
type JobDispatcher struct {
	client Enqueuer
}

func NewJobDispatcher(client Enqueuer) *JobDispatcher {
	return &JobDispatcher{client: client}
}

// EnqueueReconcileFollowCounters queues a one-off reconciliation. A run that
// is already queued under the same id is reported as ErrTaskIDConflict.
func (d *JobDispatcher) EnqueueReconcileFollowCounters(ctx context.Context, requestedBy string) (string, error) {
	task, err := NewReconcileFollowCountersTask(followModel.ReconcileCountersPayload{
		Trigger:     "admin",
		RequestedBy: requestedBy,
	})
	if err != nil {
		return "", err
	}

	info, err := d.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.TaskID("reconcile-follow-counters-"+time.Now().UTC().Format("200601021504")),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", shared.TypeReconcileFollowCounters, err)
	}
	return info.ID, nil
}
