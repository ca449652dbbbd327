package classifytraveler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"traveler-classifier/internal/classifier"
	"traveler-classifier/internal/common/errors"
	"traveler-classifier/internal/common/logger"
	"traveler-classifier/internal/common/metrics"
	"traveler-classifier/internal/common/observability"
	"traveler-classifier/internal/models"
	"traveler-classifier/internal/session"
	"traveler-classifier/internal/suggestions"
	"traveler-classifier/internal/survey"
)

const (
	TaskType = "classify-traveler"
)

type Handler struct {
	config       *Config
	store        session.Store
	obs          *observability.Observability
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

// NewHandler builds the worker. store and obs may be nil.
func NewHandler(config *Config, store session.Store, obs *observability.Observability, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		obs:          obs,
		logger:       scoped,
		errorHandler: errors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer func() {
		metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	}()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInvalidResponsePayloadError(fmt.Sprintf("parse job variables: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	responses, err := survey.ParseResponses(input.Responses)
	if err != nil {
		stdErr := errors.FromClassifier(err)
		metrics.ValidationFailures.WithLabelValues(string(stdErr.Code)).Inc()
		return nil, stdErr
	}

	scores, result, err := classifier.Evaluate(responses)
	if err != nil {
		return nil, errors.FromClassifier(err)
	}

	classifiedAt := time.Now().UTC()
	metrics.Classifications.WithLabelValues(result.Persona.Key, metrics.PersonaKind(result.Persona.IsHybrid())).Inc()
	h.obs.RecordClassification(ctx, TaskType, result.Persona.Key, time.Since(start))

	h.logger.Info("traveler classified", map[string]interface{}{
		"sessionId":          input.SessionID,
		"persona":            result.Persona.Key,
		"relevantConstructs": result.Relevant,
	})

	if input.SessionID != "" && h.config.RecordSessions && h.store != nil {
		record := models.NewClassificationRecord(input.SessionID, scores, result, suggestions.RoutesFor(result.Relevant))
		record.ClassifiedAt = classifiedAt
		if err := h.store.Save(ctx, input.SessionID, record); err != nil {
			h.obs.RecordSessionStoreError(ctx, "save")
			h.logger.Warn("failed to store classification", map[string]interface{}{
				"sessionId": input.SessionID,
				"error":     err,
			})
		}
	}

	return &Output{
		Scores: scores,
		Persona: PersonaOutput{
			Key:         result.Persona.Key,
			Name:        result.Persona.Name,
			Icon:        result.Persona.Icon,
			Description: result.Persona.Description,
		},
		RelevantConstructs: result.Relevant,
		Hybrid:             result.Persona.IsHybrid(),
		ClassifiedAt:       classifiedAt.Format(time.RFC3339),
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":  job.Key,
		"persona": output.Persona.Key,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := h.errorHandler.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
