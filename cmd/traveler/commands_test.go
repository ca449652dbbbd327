package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traveler-classifier/internal/classifier"
	"traveler-classifier/internal/common/errors"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// ==========================
// classify
// ==========================

func TestClassify_DefaultsWithOverrides(t *testing.T) {
	out, err := runCLI(t, "classify", "--default", "1",
		"--rating", "LX1=5", "--rating", "LX2=5", "--rating", "LX3=5", "--rating", "LX4=5",
		"--rating", "SU1=5", "--rating", "SU2=5", "--rating", "SU3=5", "--rating", "SU4=5", "--json")
	require.NoError(t, err)

	var got classifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "eco-lux", got.Persona.Key)
	assert.ElementsMatch(t, []classifier.Construct{classifier.Luxury, classifier.Sustainability}, got.RelevantConstructs)
	assert.NotEmpty(t, got.Routes)
	assert.Nil(t, got.Comparison)
}

func TestClassify_TextOutput(t *testing.T) {
	out, err := runCLI(t, "classify", "--default", "3", "--compare")
	require.NoError(t, err)

	assert.Contains(t, out, "You are: Health-Aware Passenger")
	assert.Contains(t, out, "Suggested Routes:")
	assert.Contains(t, out, "Compared with midpoint baseline:")
}

func TestClassify_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.yaml")
	body := "dt1: 5\nDT2: 5\nDT3: 5\nDT4: 5\nRA1: 5\nRA2: 5\nRA3: 5\nRA4: 5\nRA5: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	out, err := runCLI(t, "classify", "--file", path, "--default", "1", "--json")
	require.NoError(t, err)

	var got classifyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "multimodal-nomad", got.Persona.Key)
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{name: "missing indicators", args: []string{"classify", "--rating", "DT1=5"}, code: "MISSING_INDICATOR"},
		{name: "malformed rating flag", args: []string{"classify", "--rating", "DT1"}, code: "INVALID_RESPONSE_PAYLOAD"},
		{name: "non-integer rating", args: []string{"classify", "--rating", "DT1=high"}, code: "INVALID_RESPONSE_PAYLOAD"},
		{name: "rating above scale", args: []string{"classify", "--default", "3", "--rating", "DT1=9"}, code: "RATING_OUT_OF_RANGE"},
		{name: "default outside scale", args: []string{"classify", "--default", "7"}, code: "RATING_OUT_OF_RANGE"},
		{name: "unknown indicator", args: []string{"classify", "--default", "3", "--rating", "XX9=3"}, code: "UNKNOWN_INDICATOR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			var stdErr *errors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, errors.ErrorCode(tt.code), stdErr.Code)
			assert.Contains(t, describeError(err), tt.code)
		})
	}
}

func TestClassify_CompareWithConfigBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "baseline:\n  source: config\n  constructs:\n    Digital: 10\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	_, err := runCLI(t, "classify", "--default", "3", "--compare", "--config", path)
	require.Error(t, err)
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeBaselineIncomplete, stdErr.Code)
}

// ==========================
// listings
// ==========================

func TestQuestions(t *testing.T) {
	out, err := runCLI(t, "questions")
	require.NoError(t, err)
	assert.Contains(t, out, "DT1")
	assert.Contains(t, out, "SU4")

	out, err = runCLI(t, "questions", "--json")
	require.NoError(t, err)
	var questions []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &questions))
	assert.Len(t, questions, 21)
}

func TestPersonas(t *testing.T) {
	out, err := runCLI(t, "personas", "--json")
	require.NoError(t, err)
	var personas []classifier.Persona
	require.NoError(t, json.Unmarshal([]byte(out), &personas))
	assert.Len(t, personas, len(classifier.Personas()))
}
