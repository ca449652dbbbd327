package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"traveler-classifier/internal/common/logger"
)

func TestObservability_RecordsWithoutPanicking(t *testing.T) {
	obs := New("traveler-classifier-test", logger.NewTestLogger(t))
	defer obs.Shutdown()

	assert.NotPanics(t, func() {
		obs.RecordClassification(context.Background(), "api", "eco-lux", 3*time.Millisecond)
		obs.RecordSessionStoreError(context.Background(), "save")
	})
}

func TestObservability_Noop(t *testing.T) {
	var nilObs *Observability
	for _, obs := range []*Observability{NewNoop(), nilObs} {
		assert.NotPanics(t, func() {
			obs.RecordClassification(context.Background(), "cli", "health-aware", time.Millisecond)
			obs.RecordSessionStoreError(context.Background(), "last")
			obs.Shutdown()
		})
	}
}
