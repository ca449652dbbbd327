package main

import (
	"context"
	"fmt"
	"time"

	"traveler-classifier/internal/common/config"
	"traveler-classifier/internal/common/database"
	"traveler-classifier/internal/common/logger"
	"traveler-classifier/internal/suggestions"
	"traveler-classifier/pkg/registry"
)

// retryWithBackoff runs operation until it succeeds, doubling the delay after
// every failure.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(operationName+" failed, retrying", map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// resolveBaseline builds the comparison reference from the configured source.
// pg is only read for the postgres source.
func resolveBaseline(ctx context.Context, cfg *config.Config, pg *database.PostgresClient) (suggestions.Baseline, error) {
	switch cfg.Baseline.Source {
	case config.BaselineSourceConfig:
		return suggestions.BaselineFromValues(config.BaselineSourceConfig, cfg.Baseline.Constructs, cfg.Baseline.Indicators)
	case config.BaselineSourcePostgres:
		if pg == nil {
			return suggestions.Baseline{}, fmt.Errorf("baseline source %q needs a postgres connection", config.BaselineSourcePostgres)
		}
		repo, err := suggestions.NewBaselineRepository(pg.DB, cfg.Baseline.Table)
		if err != nil {
			return suggestions.Baseline{}, err
		}
		return repo.Load(ctx)
	default:
		return suggestions.DefaultBaseline(), nil
	}
}

// checkRegistered refuses enabled workers that the activity registry does not
// list as implemented.
func checkRegistered(cfg *config.Config, reg *registry.ActivityRegistry) error {
	for taskType, w := range cfg.Workers {
		if !w.Enabled {
			continue
		}
		activity, ok := reg.Find(taskType)
		if !ok {
			return fmt.Errorf("worker %q is enabled but not in the activity registry", taskType)
		}
		if activity.ImplementationStatus != registry.StatusImplemented {
			return fmt.Errorf("worker %q is registered with status %q", taskType, activity.ImplementationStatus)
		}
	}
	return nil
}
