package suggestroutes

import "traveler-classifier/internal/suggestions"

type Input struct {
	RelevantConstructs []string               `json:"relevantConstructs"`
	Scores             map[string]float64     `json:"scores,omitempty"`
	Responses          map[string]interface{} `json:"responses,omitempty"`
}

type Output struct {
	Routes     []string                `json:"routes"`
	Comparison *suggestions.Comparison `json:"comparison,omitempty"`
}
