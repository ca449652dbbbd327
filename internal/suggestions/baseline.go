package suggestions

import (
	"fmt"
	"sort"
	"strings"

	"traveler-classifier/internal/classifier"
)

// Baseline holds the reference values a traveler is compared against: one per
// construct and one per indicator.
type Baseline struct {
	Source     string                              `json:"source"`
	Constructs map[classifier.Construct]float64   `json:"constructs"`
	Indicators map[classifier.IndicatorID]float64 `json:"indicators"`
}

const midpointRating = float64(classifier.MinRating+classifier.MaxRating) / 2

// DefaultBaseline is the scale midpoint: every indicator rated 3, constructs
// weighted accordingly. It is a neutral anchor, not an average of survey
// respondents.
func DefaultBaseline() Baseline {
	b := Baseline{
		Source:     "midpoint",
		Constructs: make(map[classifier.Construct]float64),
		Indicators: make(map[classifier.IndicatorID]float64),
	}
	for _, ind := range classifier.Indicators() {
		b.Indicators[ind.ID] = midpointRating
	}
	for _, c := range classifier.Constructs() {
		b.Constructs[c] = midpointRating * classifier.WeightSum(c)
	}
	return b
}

// BaselineFromValues builds a baseline from loosely keyed values, as found in
// configuration files and database rows. Keys are matched case-insensitively.
func BaselineFromValues(source string, constructs, indicators map[string]float64) (Baseline, error) {
	b := Baseline{
		Source:     source,
		Constructs: make(map[classifier.Construct]float64, len(constructs)),
		Indicators: make(map[classifier.IndicatorID]float64, len(indicators)),
	}
	for name, v := range constructs {
		c, ok := constructByName(name)
		if !ok {
			return Baseline{}, fmt.Errorf("%w: unknown construct %q", ErrBaselineIncomplete, name)
		}
		b.Constructs[c] = v
	}
	for code, v := range indicators {
		id := classifier.IndicatorID(strings.ToUpper(strings.TrimSpace(code)))
		if _, ok := classifier.LookupIndicator(id); !ok {
			return Baseline{}, fmt.Errorf("%w: unknown indicator %q", ErrBaselineIncomplete, code)
		}
		b.Indicators[id] = v
	}
	if err := b.Validate(); err != nil {
		return Baseline{}, err
	}
	return b, nil
}

// Validate reports every construct and indicator the baseline lacks.
func (b Baseline) Validate() error {
	var missing []string
	for _, c := range classifier.Constructs() {
		if _, ok := b.Constructs[c]; !ok {
			missing = append(missing, string(c))
		}
	}
	for _, ind := range classifier.Indicators() {
		if _, ok := b.Indicators[ind.ID]; !ok {
			missing = append(missing, string(ind.ID))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrBaselineIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

type ConstructDelta struct {
	Construct classifier.Construct `json:"construct"`
	Value     float64              `json:"value"`
	Reference float64              `json:"reference"`
	Delta     float64              `json:"delta"`
}

type IndicatorDelta struct {
	Code      classifier.IndicatorID `json:"code"`
	Label     string                 `json:"label"`
	Construct classifier.Construct   `json:"construct"`
	Value     int                    `json:"value"`
	Reference float64                `json:"reference"`
	Delta     float64                `json:"delta"`
}

type Comparison struct {
	Source     string           `json:"source"`
	Constructs []ConstructDelta `json:"constructs"`
	Indicators []IndicatorDelta `json:"indicators,omitempty"`
}

// Compare lines up the traveler's values against the baseline. Constructs are
// listed in canonical order; indicators in questionnaire order and only when
// responses are given.
func Compare(scores classifier.Scores, responses classifier.Responses, baseline Baseline) Comparison {
	cmp := Comparison{Source: baseline.Source}
	for _, c := range classifier.Constructs() {
		v := scores[c]
		ref := baseline.Constructs[c]
		cmp.Constructs = append(cmp.Constructs, ConstructDelta{
			Construct: c,
			Value:     v,
			Reference: ref,
			Delta:     v - ref,
		})
	}

	if len(responses) == 0 {
		return cmp
	}
	for _, ind := range classifier.Indicators() {
		rating, ok := responses[ind.ID]
		if !ok {
			continue
		}
		ref := baseline.Indicators[ind.ID]
		cmp.Indicators = append(cmp.Indicators, IndicatorDelta{
			Code:      ind.ID,
			Label:     ind.Label,
			Construct: ind.Construct,
			Value:     rating,
			Reference: ref,
			Delta:     float64(rating) - ref,
		})
	}
	return cmp
}

// Strongest returns the construct furthest above its reference; ties resolve
// alphabetically.
func (c Comparison) Strongest() (ConstructDelta, bool) {
	if len(c.Constructs) == 0 {
		return ConstructDelta{}, false
	}
	deltas := make([]ConstructDelta, len(c.Constructs))
	copy(deltas, c.Constructs)
	sort.SliceStable(deltas, func(i, j int) bool {
		if deltas[i].Delta != deltas[j].Delta {
			return deltas[i].Delta > deltas[j].Delta
		}
		return deltas[i].Construct < deltas[j].Construct
	})
	return deltas[0], true
}

func constructByName(name string) (classifier.Construct, bool) {
	for _, c := range classifier.Constructs() {
		if strings.EqualFold(string(c), strings.TrimSpace(name)) {
			return c, true
		}
	}
	return "", false
}

// ParseScores converts wire construct names to classifier.Scores. Completeness
// is left to the classifier.
func ParseScores(raw map[string]float64) (classifier.Scores, error) {
	scores := make(classifier.Scores, len(raw))
	for name, v := range raw {
		c, ok := constructByName(name)
		if !ok {
			return nil, &UnknownConstructError{Name: name}
		}
		scores[c] = v
	}
	return scores, nil
}
