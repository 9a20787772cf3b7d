package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecucondor/rates_backend/internal/apperrors"
	"github.com/ecucondor/rates_backend/internal/dto"
	"github.com/ecucondor/rates_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respond writes data inside the success envelope.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, dto.SuccessResponse{Data: data, Timestamp: time.Now().UTC()})
}

// respondMessage writes a client-facing error message inside the error envelope.
func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, dto.ErrorResponse{
		Error:     msg,
		RequestID: middleware.GetRequestIDFromCtx(c.Request.Context()),
		Timestamp: time.Now().UTC(),
	})
}

// respondError maps a service error onto its HTTP status. Server-side failures
// are logged with their cause and answered with a generic message.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)

	switch {
	case status == http.StatusServiceUnavailable:
		logger.Warn(action+" failed, upstream unavailable", slog.String("error", err.Error()))
		respondMessage(c, status, "Exchange rates are temporarily unavailable")
	case status >= http.StatusInternalServerError:
		logger.Error(action+" failed", slog.String("error", err.Error()))
		respondMessage(c, status, "Internal server error")
	default:
		logger.Warn(action+" rejected", slog.String("error", err.Error()), slog.Int("status", status))
		respondMessage(c, status, clientMessage(err))
	}
}

func clientMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}

// bindJSON binds the request body, answering 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return false
	}
	return true
}

// requireUserID reads the authenticated user, answering 401 when missing.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		respondMessage(c, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}
