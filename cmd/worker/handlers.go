package main

import (
	"github.com/hibiken/asynq"

	followJob "poultry-market-backend/internal/domains/follow/job"
	"poultry-market-backend/internal/shared"
	"poultry-market-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Maintenance handlers
	reconcileFollowCounters *followJob.ReconcileCountersHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		reconcileFollowCounters: followJob.NewReconcileCountersHandler(c.FollowService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeReconcileFollowCounters, h.reconcileFollowCounters.ProcessTask)
}
