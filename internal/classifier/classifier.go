// Package classifier scores the 21 survey ratings into five weighted
// constructs and picks a traveler persona from the two highest constructs.
//
// Everything here is pure and safe for concurrent use; the lookup tables are
// never mutated after package initialisation.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrMissingIndicator  = errors.New("MISSING_INDICATOR")
	ErrUnknownIndicator  = errors.New("UNKNOWN_INDICATOR")
	ErrRatingOutOfRange  = errors.New("RATING_OUT_OF_RANGE")
	ErrInvalidScoreInput = errors.New("INVALID_SCORE_INPUT")
)

type Responses map[IndicatorID]int

type Scores map[Construct]float64

type Result struct {
	Persona  Persona     `json:"persona"`
	Relevant []Construct `json:"relevantConstructs"`
}

// Aggregate sums rating*weight per construct. The response map must hold every
// indicator exactly once with a rating in [MinRating, MaxRating].
func Aggregate(responses Responses) (Scores, error) {
	if err := validateResponses(responses); err != nil {
		return nil, err
	}

	scores := make(Scores, len(canonicalConstructs))
	for _, c := range canonicalConstructs {
		scores[c] = 0.0
	}
	for _, ind := range indicatorTable {
		scores[ind.Construct] += float64(responses[ind.ID]) * ind.Weight
	}
	return scores, nil
}

func validateResponses(responses Responses) error {
	var missing, outOfRange []string
	for _, ind := range indicatorTable {
		rating, ok := responses[ind.ID]
		if !ok {
			missing = append(missing, string(ind.ID))
			continue
		}
		if rating < MinRating || rating > MaxRating {
			outOfRange = append(outOfRange, fmt.Sprintf("%s=%d", ind.ID, rating))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingIndicator, strings.Join(missing, ", "))
	}

	var unknown []string
	for id := range responses {
		if _, ok := indicatorIndex[id]; !ok {
			unknown = append(unknown, string(id))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %s", ErrUnknownIndicator, strings.Join(unknown, ", "))
	}

	if len(outOfRange) > 0 {
		return fmt.Errorf("%w: %s (allowed %d-%d)", ErrRatingOutOfRange,
			strings.Join(outOfRange, ", "), MinRating, MaxRating)
	}
	return nil
}

type rankedConstruct struct {
	construct Construct
	score     float64
}

// Rank orders constructs by score descending; equal scores fall back to
// alphabetical construct order so the ranking is total and reproducible.
func Rank(scores Scores) ([]Construct, error) {
	ranked, err := rank(scores)
	if err != nil {
		return nil, err
	}
	out := make([]Construct, len(ranked))
	for i, r := range ranked {
		out[i] = r.construct
	}
	return out, nil
}

func rank(scores Scores) ([]rankedConstruct, error) {
	if err := validateScores(scores); err != nil {
		return nil, err
	}

	ranked := make([]rankedConstruct, 0, len(canonicalConstructs))
	for _, c := range canonicalConstructs {
		ranked = append(ranked, rankedConstruct{construct: c, score: scores[c]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].construct < ranked[j].construct
	})
	return ranked, nil
}

func validateScores(scores Scores) error {
	if len(scores) != len(canonicalConstructs) {
		return fmt.Errorf("%w: expected %d constructs, got %d",
			ErrInvalidScoreInput, len(canonicalConstructs), len(scores))
	}
	for c, v := range scores {
		if !IsConstruct(c) {
			return fmt.Errorf("%w: unknown construct %q", ErrInvalidScoreInput, c)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite score for %s", ErrInvalidScoreInput, c)
		}
	}
	return nil
}

// Classify selects the hybrid persona for the top-two pair when that pair is
// curated; otherwise the base persona of the top construct. Relevant keeps the
// top-1, top-2 order.
func Classify(scores Scores) (Result, error) {
	ranked, err := rank(scores)
	if err != nil {
		return Result{}, err
	}
	top1, top2 := ranked[0].construct, ranked[1].construct

	if hybrid, ok := hybridPersonas[newPairKey(top1, top2)]; ok {
		return Result{
			Persona:  hybrid.clone(),
			Relevant: []Construct{top1, top2},
		}, nil
	}

	base, ok := basePersonas[top1]
	if !ok {
		return Result{}, fmt.Errorf("%w: no base persona for %s", ErrInvalidScoreInput, top1)
	}
	return Result{
		Persona:  base.clone(),
		Relevant: []Construct{top1},
	}, nil
}

// Evaluate runs Aggregate followed by Classify.
func Evaluate(responses Responses) (Scores, Result, error) {
	scores, err := Aggregate(responses)
	if err != nil {
		return nil, Result{}, err
	}
	result, err := Classify(scores)
	if err != nil {
		return nil, Result{}, err
	}
	return scores, result, nil
}
