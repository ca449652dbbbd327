package api

import (
	"time"

	"traveler-classifier/internal/classifier"
	"traveler-classifier/internal/suggestions"
	"traveler-classifier/internal/survey"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type QuestionnaireResponse struct {
	Scale     survey.Scale      `json:"scale"`
	Questions []survey.Question `json:"questions"`
}

type PersonasResponse struct {
	Personas []classifier.Persona `json:"personas"`
}

type ClassifyRequest struct {
	SessionID string                 `json:"sessionId"`
	Responses map[string]interface{} `json:"responses"`
}

type ClassifyResponse struct {
	SessionID          string                  `json:"sessionId"`
	Scores             classifier.Scores       `json:"scores"`
	Persona            classifier.Persona      `json:"persona"`
	RelevantConstructs []classifier.Construct  `json:"relevantConstructs"`
	Hybrid             bool                    `json:"hybrid"`
	Routes             []string                `json:"routes"`
	Comparison         *suggestions.Comparison `json:"comparison,omitempty"`
	ClassifiedAt       time.Time               `json:"classifiedAt"`
}
