package http

import (
	"errors"
	"net/http"

	"scriptgo/infrastructure/clients/llm"
	"scriptgo/infrastructure/logger"
	"scriptgo/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ErrorUnmarshal     = "Error while unmarshal"
	msgProviderFailure = "The AI provider rejected the request. Please try again later."
)

// StatusFor maps a use case error to an HTTP status and the message shown to the user.
// Storage errors are passed through unchanged.
func StatusFor(err error) (int, string) {
	var userErr *usecase.UserError
	var fatal *llm.FatalError
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized, usecase.ErrUnauthorized.Error()
	case errors.As(err, &userErr):
		switch userErr.Kind {
		case usecase.ErrNotFound:
			return http.StatusNotFound, userErr.Message
		default:
			return http.StatusBadRequest, userErr.Message
		}
	case errors.Is(err, llm.ErrProvidersExhausted):
		return http.StatusServiceUnavailable, llm.ErrProvidersExhausted.Error()
	case errors.Is(err, llm.ErrNoProviders):
		return http.StatusServiceUnavailable, llm.ErrProvidersExhausted.Error()
	case errors.As(err, &fatal):
		return http.StatusBadGateway, msgProviderFailure
	case errors.Is(err, usecase.ErrPlannerUnparsable):
		return http.StatusBadGateway, usecase.ErrPlannerUnparsable.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func respondError(ctx *gin.Context, err error) {
	status, msg := StatusFor(err)
	lg := logger.GetLogger().
		WithField("path", ctx.FullPath()).
		WithField("user_id", ctx.GetString("user_id")).
		WithField("status", status)
	if status >= http.StatusInternalServerError {
		lg.WithError(err).Error("Request failed")
	} else {
		lg.WithField("error", err.Error()).Warn("Request rejected")
	}
	ctx.JSON(status, gin.H{"success": false, "error": msg})
}

func respondBindError(ctx *gin.Context, err error) {
	logger.GetLogger().WithField("error", err).Warn(ErrorUnmarshal)
	ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
}
