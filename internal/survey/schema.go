package survey

import (
	"traveler-classifier/internal/classifier"
	"traveler-classifier/internal/common/validation"
)

var responseSchema = validation.MustCompile(ResponseSchema())

// ResponseSchema describes a complete response object: one integer rating per
// indicator code and nothing else.
func ResponseSchema() map[string]interface{} {
	indicators := classifier.Indicators()
	properties := make(map[string]interface{}, len(indicators))
	required := make([]interface{}, 0, len(indicators))

	for _, ind := range indicators {
		properties[string(ind.ID)] = map[string]interface{}{
			"type":        "integer",
			"minimum":     classifier.MinRating,
			"maximum":     classifier.MaxRating,
			"description": ind.Label,
		}
		required = append(required, string(ind.ID))
	}

	return map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                "TravelerSurveyResponses",
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}
