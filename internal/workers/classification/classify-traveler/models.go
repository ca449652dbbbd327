package classifytraveler

import "traveler-classifier/internal/classifier"

type Input struct {
	SessionID string                 `json:"sessionId,omitempty"`
	Responses map[string]interface{} `json:"responses"`
}

type Output struct {
	Scores             classifier.Scores      `json:"scores"`
	Persona            PersonaOutput          `json:"persona"`
	RelevantConstructs []classifier.Construct `json:"relevantConstructs"`
	Hybrid             bool                   `json:"hybrid"`
	ClassifiedAt       string                 `json:"classifiedAt"`
}

type PersonaOutput struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}
