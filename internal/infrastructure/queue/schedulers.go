package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"poultry-market-backend/internal/config"
	followModel "poultry-market-backend/internal/domains/follow/model"
	"poultry-market-backend/internal/shared"
	"poultry-market-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

// RedisOpt is the asynq connection shared by the API client, the worker
// server and the scheduler.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Jobs.RedisAddr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterMaintenanceJobs registers every periodic task.
func (s *Scheduler) RegisterMaintenanceJobs() error {
	return s.registerReconcileFollowCountersJob()
}

// Follow counters are maintained transactionally; this job only repairs drift
// left behind by manual edits or restores.
func (s *Scheduler) registerReconcileFollowCountersJob() error {
	task, err := NewReconcileFollowCountersTask(followModel.ReconcileCountersPayload{Trigger: "schedule"})
	if err != nil {
		return err
	}

	cron := s.jobConfig.ReconcileCountersCron
	_, err = s.scheduler.Register(
		cron,
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ReconcileFollowCounters job", err)
		return err
	}

	logger.Info("Registered ReconcileFollowCounters", map[string]interface{}{
		"cron": cron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}

// NewReconcileFollowCountersTask builds the task shared by the scheduler and
// the admin trigger.
func NewReconcileFollowCountersTask(payload followModel.ReconcileCountersPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(shared.TypeReconcileFollowCounters, data), nil
}
