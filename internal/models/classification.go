package models

import (
	"time"

	"traveler-classifier/internal/classifier"
)

// ClassificationRecord is the memoized outcome of one survey submission. It
// deliberately carries no individual ratings.
type ClassificationRecord struct {
	SessionID          string                 `json:"sessionId"`
	Scores             classifier.Scores      `json:"scores"`
	Persona            classifier.Persona     `json:"persona"`
	RelevantConstructs []classifier.Construct `json:"relevantConstructs"`
	Routes             []string               `json:"routes"`
	ClassifiedAt       time.Time              `json:"classifiedAt"`
	ExpiresAt          time.Time              `json:"expiresAt,omitempty"`
}

func NewClassificationRecord(sessionID string, scores classifier.Scores, result classifier.Result, routes []string) *ClassificationRecord {
	return &ClassificationRecord{
		SessionID:          sessionID,
		Scores:             scores,
		Persona:            result.Persona,
		RelevantConstructs: result.Relevant,
		Routes:             routes,
		ClassifiedAt:       time.Now().UTC(),
	}
}

// IsExpired checks if the record has outlived its TTL.
func (r *ClassificationRecord) IsExpired() bool {
	return !r.ExpiresAt.IsZero() && time.Now().After(r.ExpiresAt)
}
