package survey

import "traveler-classifier/internal/classifier"

// DefaultRating is where every slider starts before the traveler moves it.
const DefaultRating = 3

type Question struct {
	Code      classifier.IndicatorID `json:"code"`
	Label     string                 `json:"label"`
	Construct classifier.Construct   `json:"construct"`
	Min       int                    `json:"min"`
	Max       int                    `json:"max"`
	Default   int                    `json:"default"`
}

type Scale struct {
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Default int    `json:"default"`
	Prompt  string `json:"prompt"`
}

func RatingScale() Scale {
	return Scale{
		Min:     classifier.MinRating,
		Max:     classifier.MaxRating,
		Default: DefaultRating,
		Prompt:  "Rate how important each feature is (1 = Not important, 5 = Very important)",
	}
}

// Questions returns the questionnaire in presentation order.
func Questions() []Question {
	indicators := classifier.Indicators()
	out := make([]Question, 0, len(indicators))
	for _, ind := range indicators {
		out = append(out, Question{
			Code:      ind.ID,
			Label:     ind.Label,
			Construct: ind.Construct,
			Min:       classifier.MinRating,
			Max:       classifier.MaxRating,
			Default:   DefaultRating,
		})
	}
	return out
}

// DefaultResponses rates every indicator with DefaultRating.
func DefaultResponses() classifier.Responses {
	out := make(classifier.Responses, len(classifier.Indicators()))
	for _, ind := range classifier.Indicators() {
		out[ind.ID] = DefaultRating
	}
	return out
}
