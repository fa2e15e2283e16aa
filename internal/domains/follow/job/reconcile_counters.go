package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"poultry-market-backend/internal/domains/follow/model"
	"poultry-market-backend/pkg/logger"
)

// CounterReconciler is the part of the follow service the job needs.
type CounterReconciler interface {
	ReconcileCounters(ctx context.Context) (int64, error)
}

// ReconcileCountersHandler recomputes follower/following counters from the
// edge table.
type ReconcileCountersHandler struct {
	reconciler CounterReconciler
}

func NewReconcileCountersHandler(reconciler CounterReconciler) *ReconcileCountersHandler {
	return &ReconcileCountersHandler{reconciler: reconciler}
}

func (h *ReconcileCountersHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.ReconcileCountersPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logger.Error("ReconcileFollowCounters: invalid payload", err)
			// Retrying cannot fix a malformed payload.
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	start := time.Now()
	fixed, err := h.reconciler.ReconcileCounters(ctx)
	if err != nil {
		logger.Error("ReconcileFollowCounters failed", err)
		return err
	}

	logger.Info("ReconcileFollowCounters completed", map[string]interface{}{
		"trigger":      payload.Trigger,
		"requested_by": payload.RequestedBy,
		"users_fixed":  fixed,
		"duration_ms":  time.Since(start).Milliseconds(),
	})
	return nil
}
