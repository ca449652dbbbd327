package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPersonaKind(t *testing.T) {
	assert.Equal(t, "hybrid", PersonaKind(true))
	assert.Equal(t, "base", PersonaKind(false))
}

func TestClassificationsCounter(t *testing.T) {
	before := testutil.ToFloat64(Classifications.WithLabelValues("eco-lux", PersonaKind(true)))
	Classifications.WithLabelValues("eco-lux", PersonaKind(true)).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Classifications.WithLabelValues("eco-lux", "hybrid")))
}
