package survey

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"traveler-classifier/internal/classifier"
	"traveler-classifier/internal/common/errors"
	"traveler-classifier/internal/common/validation"
)

// ParseResponses validates a decoded JSON response object and converts it to
// classifier.Responses. Missing codes are reported before unknown codes, and
// unknown codes before bad ratings.
func ParseResponses(raw map[string]interface{}) (classifier.Responses, error) {
	if raw == nil {
		return nil, errors.NewInvalidResponsePayloadError("responses object is required")
	}

	result, err := responseSchema.Validate(raw)
	if err != nil {
		return nil, errors.NewInvalidResponsePayloadError(err.Error())
	}
	if !result.Valid {
		return nil, schemaError(raw, result)
	}

	responses := make(classifier.Responses, len(raw))
	for code, value := range raw {
		rating, ok := toRating(value)
		if !ok {
			return nil, errors.NewRatingOutOfRangeError(fmt.Sprintf("%s=%v", code, value))
		}
		responses[classifier.IndicatorID(code)] = rating
	}
	return responses, nil
}

func schemaError(raw map[string]interface{}, result *validation.ValidationResult) error {
	if missing := fields(result.ErrorsWithCode("REQUIRED_FIELD_MISSING")); len(missing) > 0 {
		return errors.NewMissingIndicatorError(strings.Join(missing, ", "))
	}
	if unknown := fields(result.ErrorsWithCode("EXTRA_FIELD")); len(unknown) > 0 {
		return errors.NewUnknownIndicatorError(strings.Join(unknown, ", "))
	}

	var outOfRange, malformed []string
	for _, e := range result.Errors {
		value, present := raw[e.Field]
		switch {
		case !present:
			malformed = append(malformed, e.Field+": "+e.Message)
		case e.Code == "MINIMUM_VIOLATION" || e.Code == "MAXIMUM_VIOLATION":
			outOfRange = append(outOfRange, fmt.Sprintf("%s=%v", e.Field, value))
		case e.Code == "INVALID_TYPE" && isNumber(value):
			// 2.5 is a number but not a rating
			outOfRange = append(outOfRange, fmt.Sprintf("%s=%v", e.Field, value))
		default:
			malformed = append(malformed, fmt.Sprintf("%s: %s", e.Field, e.Message))
		}
	}
	if len(malformed) > 0 {
		sort.Strings(malformed)
		return errors.NewInvalidResponsePayloadError(strings.Join(dedupe(malformed), "; "))
	}
	if len(outOfRange) > 0 {
		sort.Strings(outOfRange)
		return errors.NewRatingOutOfRangeError(fmt.Sprintf("%s (allowed %d-%d)",
			strings.Join(dedupe(outOfRange), ", "), classifier.MinRating, classifier.MaxRating))
	}
	return errors.NewInvalidResponsePayloadError(strings.Join(result.GetErrorMessages(), "; "))
}

func fields(errs []validation.ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	sort.Strings(out)
	return dedupe(out)
}

// dedupe drops adjacent duplicates from a sorted slice.
func dedupe(in []string) []string {
	var out []string
	for _, s := range in {
		if len(out) > 0 && out[len(out)-1] == s {
			continue
		}
		out = append(out, s)
	}
	return out
}

func isNumber(v interface{}) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64, json.Number:
		return true
	}
	return false
}

func toRating(v interface{}) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float32:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
