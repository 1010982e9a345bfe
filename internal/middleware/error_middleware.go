package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/questionbank/internal/app/models/dto"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
	"github.com/yigit/questionbank/internal/pkg/logger"
)

// HandleAPIError is the single place errors become HTTP responses. It writes
// the envelope with the mapped status and aborts the handler chain.
func HandleAPIError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	resp := dto.NewErrorResponse(status, apperrors.ClientMessage(err))

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg("Request rejected")
	}

	if gin.Mode() != gin.ReleaseMode {
		resp.Stack = errorChain(err)
	}

	c.AbortWithStatusJSON(status, resp)
}

// errorChain flattens err and everything it wraps into one line
func errorChain(err error) string {
	var parts []string
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		parts = append(parts, e.Error())
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		default:
			walk(errors.Unwrap(e))
		}
	}
	walk(err)
	return strings.Join(parts, " <- ")
}

// Recovery turns panics into 500 envelopes
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("panic", fmt.Sprint(recovered)).
			Bytes("stack", debug.Stack()).
			Msg("Recovered from panic")
		HandleAPIError(c, apperrors.NewInternalError("panic recovered", fmt.Errorf("%v", recovered)))
	})
}

// NotFound answers unknown routes with the envelope
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleAPIError(c, apperrors.NewResourceNotFoundError("Route not found"))
	}
}
