package classifytraveler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traveler-classifier/internal/classifier"
	"traveler-classifier/internal/common/errors"
	"traveler-classifier/internal/common/logger"
	"traveler-classifier/internal/models"
	"traveler-classifier/internal/session"
)

// ==========================
// Test Helpers
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:        5 * time.Second,
		RecordSessions: true,
	}
}

// createResponses rates every indicator with base and applies overrides.
func createResponses(base int, overrides map[string]int) map[string]interface{} {
	raw := make(map[string]interface{})
	for _, ind := range classifier.Indicators() {
		raw[string(ind.ID)] = float64(base)
	}
	for code, v := range overrides {
		raw[code] = float64(v)
	}
	return raw
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "traveler-onboarding",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_ClassifyTraveler",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

// failingStore always errors on Save.
type failingStore struct {
	session.Store
	saves int
}

func (f *failingStore) Save(context.Context, string, *models.ClassificationRecord) error {
	f.saves++
	return stderrors.New("redis: connection refused")
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name             string
		responses        map[string]interface{}
		expectedPersona  string
		expectedRelevant []classifier.Construct
		expectedHybrid   bool
	}{
		{
			name:             "all neutral ratings",
			responses:        createResponses(3, nil),
			expectedPersona:  "health-aware",
			expectedRelevant: []classifier.Construct{classifier.Health},
		},
		{
			name:             "all lowest ratings",
			responses:        createResponses(1, nil),
			expectedPersona:  "health-aware",
			expectedRelevant: []classifier.Construct{classifier.Health},
		},
		{
			name: "luxury and sustainability maxed",
			responses: createResponses(1, map[string]int{
				"LX1": 5, "LX2": 5, "LX3": 5, "LX4": 5,
				"SU1": 5, "SU2": 5, "SU3": 5, "SU4": 5,
			}),
			expectedPersona:  "eco-lux",
			expectedRelevant: []classifier.Construct{classifier.Luxury, classifier.Sustainability},
			expectedHybrid:   true,
		},
		{
			name: "digital maxed",
			responses: createResponses(1, map[string]int{
				"DT1": 5, "DT2": 5, "DT3": 5, "DT4": 5,
			}),
			expectedPersona:  "health-connected-explorer",
			expectedRelevant: []classifier.Construct{classifier.Digital, classifier.Health},
			expectedHybrid:   true,
		},
		{
			name: "rural and digital maxed falls back to base persona",
			responses: createResponses(1, map[string]int{
				"DT1": 5, "DT2": 5, "DT3": 5, "DT4": 5,
				"RA1": 5, "RA2": 5, "RA3": 5, "RA4": 5, "RA5": 5,
			}),
			expectedPersona:  "multimodal-nomad",
			expectedRelevant: []classifier.Construct{classifier.Rural},
		},
	}

	handler := NewHandler(createTestConfig(), nil, nil, &testLogger{t: t})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{Responses: tt.responses})

			require.NoError(t, err)
			require.NotNil(t, output)
			assert.Equal(t, tt.expectedPersona, output.Persona.Key)
			assert.NotEmpty(t, output.Persona.Name)
			assert.Equal(t, tt.expectedRelevant, output.RelevantConstructs)
			assert.Equal(t, tt.expectedHybrid, output.Hybrid)
			assert.Len(t, output.Scores, 5)
			_, err = time.Parse(time.RFC3339, output.ClassifiedAt)
			assert.NoError(t, err)
		})
	}
}

func TestHandler_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		responses map[string]interface{}
		errCode   errors.ErrorCode
	}{
		{
			name:      "no responses",
			responses: nil,
			errCode:   errors.ErrCodeInvalidResponsePayload,
		},
		{
			name: "missing indicator",
			responses: func() map[string]interface{} {
				raw := createResponses(3, nil)
				delete(raw, "RA5")
				return raw
			}(),
			errCode: errors.ErrCodeMissingIndicator,
		},
		{
			name:      "rating out of range",
			responses: createResponses(3, map[string]int{"HS1": 7}),
			errCode:   errors.ErrCodeRatingOutOfRange,
		},
		{
			name:      "unknown indicator",
			responses: createResponses(3, map[string]int{"ZZ1": 3}),
			errCode:   errors.ErrCodeUnknownIndicator,
		},
	}

	handler := NewHandler(createTestConfig(), nil, nil, &testLogger{t: t})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{Responses: tt.responses})

			assert.Nil(t, output)
			require.Error(t, err)
			stdErr, ok := err.(*errors.StandardError)
			require.True(t, ok, "error should be StandardError")
			assert.Equal(t, tt.errCode, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

// ==========================
// Session recording
// ==========================

func TestHandler_Execute_RecordsSession(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := session.NewRedisStore(client, time.Minute)

	handler := NewHandler(createTestConfig(), store, nil, &testLogger{t: t})
	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-42",
		Responses: createResponses(1, map[string]int{"HS1": 5, "HS2": 5, "RA2": 5, "RA4": 5}),
	})
	require.NoError(t, err)

	record, err := store.Last(context.Background(), "sess-42")
	require.NoError(t, err)
	assert.Equal(t, output.Persona.Key, record.Persona.Key)
	assert.Equal(t, output.RelevantConstructs, record.RelevantConstructs)
	assert.NotEmpty(t, record.Routes)
}

func TestHandler_Execute_SkipsSessionWithoutID(t *testing.T) {
	store := session.NewMemoryStore(10, time.Minute)
	handler := NewHandler(createTestConfig(), store, nil, &testLogger{t: t})

	_, err := handler.Execute(context.Background(), &Input{Responses: createResponses(3, nil)})
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestHandler_Execute_StoreFailureDoesNotFailJob(t *testing.T) {
	store := &failingStore{}
	handler := NewHandler(createTestConfig(), store, nil, &testLogger{t: t})

	output, err := handler.Execute(context.Background(), &Input{
		SessionID: "sess-1",
		Responses: createResponses(3, nil),
	})
	require.NoError(t, err)
	assert.Equal(t, "health-aware", output.Persona.Key)
	assert.Equal(t, 1, store.saves)
}

// ==========================
// Input parsing
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, nil, &testLogger{t: t})

	job := createMockJob(12345, map[string]interface{}{
		"sessionId": "sess-7",
		"responses": createResponses(2, nil),
	})
	input, err := handler.parseInput(job)
	require.NoError(t, err)
	assert.Equal(t, "sess-7", input.SessionID)
	assert.Len(t, input.Responses, 21)

	bad := createMockJob(12346, nil)
	bad.Variables = `{"responses": [1, 2, 3]}`
	_, err = handler.parseInput(bad)
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidResponsePayload, stdErr.Code)
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig()
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.True(t, cfg.RecordSessions)
}
