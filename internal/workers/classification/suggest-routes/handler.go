package suggestroutes

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
	"traveler-classifier/internal/suggestions"
	"traveler-classifier/internal/survey"
)

const (
	TaskType = "suggest-routes"

	maxRelevant = 2
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, errors.NewInvalidResponsePayloadError(fmt.Sprintf("parse job variables: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if len(input.RelevantConstructs) == 0 || len(input.RelevantConstructs) > maxRelevant {
		return nil, errors.NewInvalidConstructError(
			fmt.Sprintf("relevantConstructs must list 1 or 2 constructs, got %d", len(input.RelevantConstructs)))
	}
	relevant, err := suggestions.ParseConstructs(input.RelevantConstructs)
	if err != nil {
		return nil, errors.FromSuggestions(err)
	}

	output := &Output{Routes: suggestions.RoutesFor(relevant)}

	if len(input.Scores) > 0 {
		comparison, err := h.compare(input)
		if err != nil {
			return nil, err
		}
		output.Comparison = comparison
	}

	h.logger.Info("routes suggested", map[string]interface{}{
		"relevantConstructs": relevant,
		"routes":             len(output.Routes),
		"compared":           output.Comparison != nil,
	})

	return output, nil
}

func (h *Handler) compare(input *Input) (*suggestions.Comparison, error) {
	scores, err := suggestions.ParseScores(input.Scores)
	if err != nil {
		return nil, errors.FromSuggestions(err)
	}
	// Rank rejects incomplete or non-finite score sets.
	if _, err := classifier.Rank(scores); err != nil {
		return nil, errors.FromClassifier(err)
	}

	var responses classifier.Responses
	if len(input.Responses) > 0 {
		responses, err = survey.ParseResponses(input.Responses)
		if err != nil {
			return nil, errors.FromClassifier(err)
		}
	}

	cmp := suggestions.Compare(scores, responses, h.config.Baseline)
	return &cmp, nil
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
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := h.errorHandler.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
