package camunda

import (
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"traveler-classifier/internal/common/config"
	"traveler-classifier/internal/common/logger"
)

// JobHandler is implemented by every job worker in internal/workers.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type Worker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// StartWorker opens a job worker for taskType on the shared client.
func (c *Client) StartWorker(taskType string, cfg config.WorkerConfig, handler JobHandler, log logger.Logger) *Worker {
	jobWorker := c.client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(cfg.MaxJobsActive).
		Timeout(config.GetDuration(cfg.Timeout)).
		Name("traveler-classifier").
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": cfg.MaxJobsActive,
		"timeoutMs":     cfg.Timeout,
	})

	return &Worker{
		worker:   jobWorker,
		logger:   log,
		taskType: taskType,
	}
}

func (w *Worker) TaskType() string {
	return w.taskType
}

// Stop closes the worker and waits for in-flight jobs to finish.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker", map[string]interface{}{"taskType": w.taskType})
	w.worker.Close()
	w.worker.AwaitClose()
}
