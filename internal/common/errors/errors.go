package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"traveler-classifier/internal/classifier"
	"traveler-classifier/internal/suggestions"
)

type ErrorCode string

const (
	ErrCodeMissingIndicator       ErrorCode = "MISSING_INDICATOR"
	ErrCodeRatingOutOfRange       ErrorCode = "RATING_OUT_OF_RANGE"
	ErrCodeUnknownIndicator       ErrorCode = "UNKNOWN_INDICATOR"
	ErrCodeInvalidResponsePayload ErrorCode = "INVALID_RESPONSE_PAYLOAD"
	ErrCodeInvalidScoreInput      ErrorCode = "INVALID_SCORE_INPUT"
	ErrCodeInvalidConstruct       ErrorCode = "INVALID_CONSTRUCT"

	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeBaselineLoadFailed ErrorCode = "BASELINE_LOAD_FAILED"
	ErrCodeBaselineIncomplete ErrorCode = "BASELINE_INCOMPLETE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

func NewMissingIndicatorError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingIndicator,
		Message:   "Survey response is missing required indicators",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewRatingOutOfRangeError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRatingOutOfRange,
		Message:   fmt.Sprintf("Ratings must be integers between %d and %d", classifier.MinRating, classifier.MaxRating),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnknownIndicatorError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownIndicator,
		Message:   "Survey response contains unknown indicators",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidResponsePayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidResponsePayload,
		Message:   "Survey response payload is malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidScoreInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidScoreInput,
		Message:   "Construct scores must cover exactly the five known constructs",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidConstructError(construct string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidConstruct,
		Message:   "Unknown construct tag",
		Details:   fmt.Sprintf("construct: %s", construct),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "No classification stored for session",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewBaselineLoadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBaselineLoadFailed,
		Message:   "Failed to load reference baseline",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewBaselineIncompleteError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBaselineIncomplete,
		Message:   "Reference baseline does not cover every construct and indicator",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_ERROR",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// FromClassifier maps the classifier's sentinel errors to StandardErrors.
// Errors that already are StandardErrors pass through unchanged.
func FromClassifier(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	switch {
	case stderrors.Is(err, classifier.ErrMissingIndicator):
		return NewMissingIndicatorError(err.Error())
	case stderrors.Is(err, classifier.ErrRatingOutOfRange):
		return NewRatingOutOfRangeError(err.Error())
	case stderrors.Is(err, classifier.ErrUnknownIndicator):
		return NewUnknownIndicatorError(err.Error())
	case stderrors.Is(err, classifier.ErrInvalidScoreInput):
		return NewInvalidScoreInputError(err.Error())
	default:
		return NewInternalError(err)
	}
}

// FromSuggestions maps baseline and construct errors from the suggestions package.
func FromSuggestions(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	var unknown *suggestions.UnknownConstructError
	switch {
	case stderrors.As(err, &unknown):
		return NewInvalidConstructError(unknown.Name)
	case stderrors.Is(err, suggestions.ErrBaselineIncomplete):
		return NewBaselineIncompleteError(err.Error())
	case stderrors.Is(err, suggestions.ErrBaselineLoad):
		return NewBaselineLoadFailedError(err)
	default:
		return NewInternalError(err)
	}
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeMissingIndicator:       "SURVEY_INCOMPLETE",
	ErrCodeRatingOutOfRange:       "SURVEY_INVALID",
	ErrCodeUnknownIndicator:       "SURVEY_INVALID",
	ErrCodeInvalidResponsePayload: "SURVEY_INVALID",
	ErrCodeInvalidScoreInput:      "CLASSIFICATION_FAILED",
	ErrCodeInvalidConstruct:       "CLASSIFICATION_FAILED",
	ErrCodeSessionNotFound:        "SESSION_NOT_FOUND",
	ErrCodeSessionStoreFailed:     "SESSION_STORE_FAILED",
	ErrCodeBaselineLoadFailed:     "BASELINE_UNAVAILABLE",
	ErrCodeBaselineIncomplete:     "BASELINE_UNAVAILABLE",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSessionStoreFailed,
		ErrCodeBaselineLoadFailed,
		"EXTERNAL_SERVICE_ERROR":
		return 3

	case "TIMEOUT_ERROR":
		return 2

	default:
		return 0 // validation and business errors are never retried
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsValidationCode reports whether the code describes bad caller input.
func IsValidationCode(code ErrorCode) bool {
	return GetErrorCategory(code) == "VALIDATION"
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INDICATOR") ||
		strings.Contains(codeStr, "RATING") ||
		strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "BASELINE"):
		return "BASELINE"
	case strings.Contains(codeStr, "TIMEOUT") || strings.Contains(codeStr, "EXTERNAL"):
		return "INFRASTRUCTURE"
	default:
		return "OTHER"
	}
}
