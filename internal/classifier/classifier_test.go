// internal/classifier/classifier_test.go
package classifier

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func uniformResponses(rating int) Responses {
	r := make(Responses, len(indicatorTable))
	for _, ind := range indicatorTable {
		r[ind.ID] = rating
	}
	return r
}

// responsesWith rates the given constructs high and everything else low.
func responsesWith(high int, low int, constructs ...Construct) Responses {
	r := uniformResponses(low)
	for _, c := range constructs {
		for _, ind := range IndicatorsOf(c) {
			r[ind.ID] = high
		}
	}
	return r
}

func scoresOf(digital, health, luxury, rural, sustainability float64) Scores {
	return Scores{
		Digital:        digital,
		Health:         health,
		Luxury:         luxury,
		Rural:          rural,
		Sustainability: sustainability,
	}
}

const delta = 1e-9

// ==========================
// Static Table Tests
// ==========================

func TestTables_Invariants(t *testing.T) {
	indicators := Indicators()
	require.Len(t, indicators, 21)

	seen := make(map[IndicatorID]bool)
	perConstruct := make(map[Construct]int)
	for _, ind := range indicators {
		assert.False(t, seen[ind.ID], "duplicate indicator %s", ind.ID)
		seen[ind.ID] = true
		assert.True(t, IsConstruct(ind.Construct), "indicator %s has unknown construct", ind.ID)
		assert.Greater(t, ind.Weight, 0.0)
		assert.LessOrEqual(t, ind.Weight, 1.0)
		assert.NotEmpty(t, ind.Label)
		perConstruct[ind.Construct]++
	}

	assert.Equal(t, map[Construct]int{
		Digital:        4,
		Health:         4,
		Sustainability: 4,
		Rural:          5,
		Luxury:         4,
	}, perConstruct)

	assert.Len(t, basePersonas, 5)
	assert.Len(t, hybridPersonas, 5)
	assert.Len(t, Personas(), 10)
}

func TestTables_AccessorsReturnCopies(t *testing.T) {
	indicators := Indicators()
	indicators[0].Weight = 99

	ind, ok := LookupIndicator("DT1")
	require.True(t, ok)
	assert.Equal(t, 0.223197, ind.Weight)

	cs := Constructs()
	cs[0] = "Mutated"
	assert.Equal(t, Digital, Constructs()[0])

	p, ok := PersonaByKey("eco-lux")
	require.True(t, ok)
	p.Constructs[0] = Digital
	again, _ := PersonaByKey("eco-lux")
	assert.Equal(t, []Construct{Luxury, Sustainability}, again.Constructs)
}

func TestTables_WeightSums(t *testing.T) {
	assert.InDelta(t, 0.787446, WeightSum(Digital), delta)
	assert.InDelta(t, 0.969542, WeightSum(Health), delta)
	assert.InDelta(t, 0.854225, WeightSum(Sustainability), delta)
	assert.InDelta(t, 0.797776, WeightSum(Rural), delta)
	assert.InDelta(t, 0.921296, WeightSum(Luxury), delta)
}

func TestLookupIndicator_Unknown(t *testing.T) {
	_, ok := LookupIndicator("XX9")
	assert.False(t, ok)
}

// ==========================
// Aggregate Tests
// ==========================

func TestAggregate_MidpointRatings(t *testing.T) {
	scores, err := Aggregate(uniformResponses(3))
	require.NoError(t, err)
	require.Len(t, scores, 5)

	assert.InDelta(t, 2.362338, scores[Digital], delta)
	assert.InDelta(t, 2.908626, scores[Health], delta)
	assert.InDelta(t, 2.562675, scores[Sustainability], delta)
	assert.InDelta(t, 2.393328, scores[Rural], delta)
	assert.InDelta(t, 2.763888, scores[Luxury], delta)

	for _, c := range Constructs() {
		assert.InDelta(t, 3*WeightSum(c), scores[c], delta)
	}
}

func TestAggregate_DigitalMaxed(t *testing.T) {
	scores, err := Aggregate(responsesWith(5, 1, Digital))
	require.NoError(t, err)

	assert.InDelta(t, 3.93723, scores[Digital], delta)
	for _, c := range []Construct{Health, Luxury, Rural, Sustainability} {
		assert.InDelta(t, WeightSum(c), scores[c], delta)
		assert.Less(t, scores[c], scores[Digital])
	}
}

func TestAggregate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(r Responses)
		expectedErr error
		contains    string
	}{
		{
			name:        "missing indicator",
			mutate:      func(r Responses) { delete(r, "HS3") },
			expectedErr: ErrMissingIndicator,
			contains:    "HS3",
		},
		{
			name: "several missing indicators listed in questionnaire order",
			mutate: func(r Responses) {
				delete(r, "LX4")
				delete(r, "DT2")
			},
			expectedErr: ErrMissingIndicator,
			contains:    "DT2, LX4",
		},
		{
			name:        "rating above range",
			mutate:      func(r Responses) { r["SU2"] = 6 },
			expectedErr: ErrRatingOutOfRange,
			contains:    "SU2=6",
		},
		{
			name:        "rating below range",
			mutate:      func(r Responses) { r["RA5"] = 0 },
			expectedErr: ErrRatingOutOfRange,
			contains:    "RA5=0",
		},
		{
			name:        "negative rating",
			mutate:      func(r Responses) { r["DT1"] = -3 },
			expectedErr: ErrRatingOutOfRange,
		},
		{
			name:        "unknown indicator",
			mutate:      func(r Responses) { r["ZZ1"] = 3 },
			expectedErr: ErrUnknownIndicator,
			contains:    "ZZ1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := uniformResponses(3)
			tt.mutate(r)

			scores, err := Aggregate(r)

			assert.Nil(t, scores)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedErr)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestAggregate_EmptyAndNil(t *testing.T) {
	_, err := Aggregate(nil)
	assert.ErrorIs(t, err, ErrMissingIndicator)

	_, err = Aggregate(Responses{})
	assert.ErrorIs(t, err, ErrMissingIndicator)
}

// ==========================
// Classify Tests
// ==========================

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name             string
		responses        Responses
		expectedPersona  string
		expectedRelevant []Construct
	}{
		{
			name:             "luxury and sustainability high",
			responses:        responsesWith(5, 1, Luxury, Sustainability),
			expectedPersona:  "Eco-Lux Traveler",
			expectedRelevant: []Construct{Luxury, Sustainability}, // 4.60648 > 4.271125
		},
		{
			name:             "digital only high pairs with health",
			responses:        responsesWith(5, 1, Digital),
			expectedPersona:  "Health-Connected Explorer",
			expectedRelevant: []Construct{Digital, Health}, // 3.93723 > 0.969542
		},
		{
			name:             "sustainability and rural high",
			responses:        responsesWith(5, 1, Sustainability, Rural),
			expectedPersona:  "Eco-Explorer",
			expectedRelevant: []Construct{Sustainability, Rural},
		},
		{
			name:             "health and rural high",
			responses:        responsesWith(5, 1, Health, Rural),
			expectedPersona:  "Active Wellness Nomad",
			expectedRelevant: []Construct{Health, Rural},
		},
		{
			name:             "luxury and digital high",
			responses:        responsesWith(5, 1, Luxury, Digital),
			expectedPersona:  "Tech-Savvy Luxury Traveler",
			expectedRelevant: []Construct{Luxury, Digital},
		},
		{
			name:             "uniform midpoint falls back to health base",
			responses:        uniformResponses(3),
			expectedPersona:  "Health-Aware Passenger",
			expectedRelevant: []Construct{Health}, // top2 {Health, Luxury} is not curated
		},
		{
			name:             "digital and rural pair is not curated",
			responses:        responsesWith(5, 1, Digital, Rural),
			expectedPersona:  "Multimodal Nomad",
			expectedRelevant: []Construct{Rural}, // 3.98888 > 3.93723
		},
		{
			name:             "luxury alone pairs with health but is not curated",
			responses:        responsesWith(5, 1, Luxury),
			expectedPersona:  "Mindful Luxury Traveler",
			expectedRelevant: []Construct{Luxury},
		},
		{
			name:             "sustainability alone pairs with health but is not curated",
			responses:        responsesWith(5, 1, Sustainability),
			expectedPersona:  "Value-Aligned Eco Traveler",
			expectedRelevant: []Construct{Sustainability},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, result, err := Evaluate(tt.responses)

			require.NoError(t, err)
			assert.Len(t, scores, 5)
			assert.Equal(t, tt.expectedPersona, result.Persona.Name)
			assert.Equal(t, tt.expectedRelevant, result.Relevant)
			assert.Equal(t, len(tt.expectedRelevant) == 2, result.Persona.IsHybrid())
		})
	}
}

func TestClassify_AllOnesIsDeterministic(t *testing.T) {
	_, first, err := Evaluate(uniformResponses(1))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		_, again, err := Evaluate(uniformResponses(1))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, "health-aware", first.Persona.Key)
}

func TestClassify_TieBreakIsAlphabetical(t *testing.T) {
	tests := []struct {
		name             string
		scores           Scores
		expectedKey      string
		expectedRelevant []Construct
	}{
		{
			name:             "all equal picks digital then health",
			scores:           scoresOf(1, 1, 1, 1, 1),
			expectedKey:      "health-connected-explorer",
			expectedRelevant: []Construct{Digital, Health},
		},
		{
			name:             "luxury ties sustainability for first",
			scores:           scoresOf(0.5, 0.5, 2, 0.5, 2),
			expectedKey:      "eco-lux",
			expectedRelevant: []Construct{Luxury, Sustainability},
		},
		{
			name:             "second place tie resolved by name",
			scores:           scoresOf(0.5, 1, 0.5, 1, 3),
			expectedKey:      "value-aligned-eco",
			expectedRelevant: []Construct{Sustainability}, // Health beats Rural for second
		},
		{
			name:             "zero scores",
			scores:           scoresOf(0, 0, 0, 0, 0),
			expectedKey:      "health-connected-explorer",
			expectedRelevant: []Construct{Digital, Health},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Classify(tt.scores)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedKey, result.Persona.Key)
			assert.Equal(t, tt.expectedRelevant, result.Relevant)
		})
	}
}

func TestClassify_HybridPairIsUnordered(t *testing.T) {
	// Rural above Sustainability must still award the Sustainability/Rural hybrid.
	result, err := Classify(scoresOf(0, 0, 0, 4, 3))
	require.NoError(t, err)
	assert.Equal(t, "eco-explorer", result.Persona.Key)
	assert.Equal(t, []Construct{Rural, Sustainability}, result.Relevant)

	result, err = Classify(scoresOf(0, 0, 0, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, "eco-explorer", result.Persona.Key)
	assert.Equal(t, []Construct{Sustainability, Rural}, result.Relevant)
}

func TestClassify_InvalidScores(t *testing.T) {
	tests := []struct {
		name   string
		scores Scores
	}{
		{name: "nil", scores: nil},
		{name: "single construct", scores: Scores{Digital: 1}},
		{name: "four constructs", scores: Scores{Digital: 1, Health: 1, Luxury: 1, Rural: 1}},
		{
			name: "unknown construct replaces a known one",
			scores: Scores{
				Digital: 1, Health: 1, Luxury: 1, Rural: 1, "Culinary": 1,
			},
		},
		{
			name: "six constructs",
			scores: Scores{
				Digital: 1, Health: 1, Luxury: 1, Rural: 1, Sustainability: 1, "Culinary": 1,
			},
		},
		{name: "NaN score", scores: scoresOf(1, math.NaN(), 1, 1, 1)},
		{name: "infinite score", scores: scoresOf(1, 1, math.Inf(1), 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.scores)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidScoreInput)
		})
	}
}

func TestRank_ReturnsFullOrdering(t *testing.T) {
	order, err := Rank(scoresOf(1, 5, 3, 2, 4))
	require.NoError(t, err)
	assert.Equal(t, []Construct{Health, Sustainability, Luxury, Rural, Digital}, order)
}

func TestEvaluate_ConcurrentCallers(t *testing.T) {
	inputs := []Responses{
		responsesWith(5, 1, Luxury, Sustainability),
		responsesWith(5, 1, Digital),
		uniformResponses(3),
		responsesWith(5, 2, Health, Rural),
	}
	expected := make([]Result, len(inputs))
	for i, in := range inputs {
		_, res, err := Evaluate(in)
		require.NoError(t, err)
		expected[i] = res
	}

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		for i := range inputs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, res, err := Evaluate(inputs[i])
				assert.NoError(t, err)
				assert.Equal(t, expected[i], res)
			}(i)
		}
	}
	wg.Wait()
}
