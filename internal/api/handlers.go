package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"traveler-classifier/internal/classifier"
	"traveler-classifier/internal/common/errors"
	"traveler-classifier/internal/common/metrics"
	"traveler-classifier/internal/models"
	"traveler-classifier/internal/session"
	"traveler-classifier/internal/suggestions"
	"traveler-classifier/internal/survey"
)

const readyTimeout = 2 * time.Second

// sessionHeader carries the session id when the body does not.
const sessionHeader = "X-Session-Id"

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   s.deps.Version,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Checks: map[string]string{}}
	status := http.StatusOK
	for name, check := range s.deps.Checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	c.JSON(status, resp)
}

func (s *Server) handleQuestionnaire(c *gin.Context) {
	c.JSON(http.StatusOK, QuestionnaireResponse{
		Scale:     survey.RatingScale(),
		Questions: survey.Questions(),
	})
}

func (s *Server) handlePersonas(c *gin.Context) {
	c.JSON(http.StatusOK, PersonasResponse{Personas: classifier.Personas()})
}

func (s *Server) handleClassify(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, errors.NewInvalidResponsePayloadError(err.Error()))
		return
	}

	responses, err := survey.ParseResponses(req.Responses)
	if err != nil {
		stdErr := errors.FromClassifier(err)
		metrics.ValidationFailures.WithLabelValues(string(stdErr.Code)).Inc()
		s.renderError(c, stdErr)
		return
	}

	scores, result, err := classifier.Evaluate(responses)
	if err != nil {
		s.renderError(c, errors.FromClassifier(err))
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = strings.TrimSpace(c.GetHeader(sessionHeader))
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	resp := ClassifyResponse{
		SessionID:          sessionID,
		Scores:             scores,
		Persona:            result.Persona,
		RelevantConstructs: result.Relevant,
		Hybrid:             result.Persona.IsHybrid(),
		Routes:             suggestions.RoutesFor(result.Relevant),
		ClassifiedAt:       time.Now().UTC(),
	}
	if compare, _ := strconv.ParseBool(c.Query("compare")); compare {
		cmp := suggestions.Compare(scores, responses, s.deps.Baseline)
		resp.Comparison = &cmp
	}

	metrics.Classifications.WithLabelValues(result.Persona.Key, metrics.PersonaKind(resp.Hybrid)).Inc()
	s.deps.Observability.RecordClassification(ctx, "api", result.Persona.Key, time.Since(start))

	if s.deps.Store != nil {
		record := models.NewClassificationRecord(sessionID, scores, result, resp.Routes)
		record.ClassifiedAt = resp.ClassifiedAt
		if err := s.deps.Store.Save(ctx, sessionID, record); err != nil {
			s.deps.Observability.RecordSessionStoreError(ctx, "save")
			s.logger.Warn("failed to store classification", map[string]interface{}{
				"sessionId": sessionID,
				"error":     err,
			})
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleLastResult(c *gin.Context) {
	sessionID := c.Param("id")
	if s.deps.Store == nil {
		s.renderError(c, errors.NewSessionNotFoundError(sessionID))
		return
	}

	record, err := s.deps.Store.Last(c.Request.Context(), sessionID)
	if stderrors.Is(err, session.ErrNotFound) {
		s.renderError(c, errors.NewSessionNotFoundError(sessionID))
		return
	}
	if err != nil {
		s.deps.Observability.RecordSessionStoreError(c.Request.Context(), "last")
		s.renderError(c, errors.NewSessionStoreFailedError(err))
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleClearResult(c *gin.Context) {
	sessionID := c.Param("id")
	if s.deps.Store != nil {
		if err := s.deps.Store.Clear(c.Request.Context(), sessionID); err != nil {
			s.deps.Observability.RecordSessionStoreError(c.Request.Context(), "clear")
			s.renderError(c, errors.NewSessionStoreFailedError(err))
			return
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) renderError(c *gin.Context, stdErr *errors.StandardError) {
	status := statusFor(stdErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
	}
	c.AbortWithStatusJSON(status, gin.H{"error": stdErr})
}

func statusFor(code errors.ErrorCode) int {
	switch {
	case errors.IsValidationCode(code):
		return http.StatusBadRequest
	case code == errors.ErrCodeSessionNotFound, code == "RESOURCE_NOT_FOUND":
		return http.StatusNotFound
	case errors.IsRetryableErrorCode(code):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

