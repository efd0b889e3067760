package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

// RespondJSON writes data as the bare response body; the browser client
// expects payloads without an envelope.
func RespondJSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

func RespondSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{
		Error:   message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	log := zap.L().With(zap.String("trace_id", traceID(c)), zap.String("path", c.FullPath()))

	var fieldErr *FieldError
	var parseErr *ParseFailure

	switch {
	case errors.As(err, &fieldErr):
		RespondError(c, http.StatusBadRequest, fieldErr.Error())
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrPrecondition):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSessionNotFound):
		RespondError(c, http.StatusBadRequest, "Session not found")
	case errors.As(err, &parseErr):
		log.Error("agent reply could not be parsed",
			zap.String("subject", parseErr.Subject),
			zap.Error(parseErr.Err),
			zap.String("raw", parseErr.Raw))
		RespondError(c, http.StatusInternalServerError, parseErr.UserMessage())
	case errors.Is(err, ErrAgentUnavailable):
		log.Error("agent unavailable", zap.Error(err))
		RespondError(c, http.StatusServiceUnavailable, "Failed to create or retrieve agent")
	case errors.Is(err, ErrAgentRequest):
		log.Error("agent request failed", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Agent request failed")
	case errors.Is(err, ErrDatabaseError):
		log.Error("database error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Error("unknown error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
