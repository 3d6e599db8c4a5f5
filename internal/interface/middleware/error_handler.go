package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	appErr "github.com/oksasatya/go-user-directory/pkg/errors"
	"github.com/oksasatya/go-user-directory/pkg/response"
)

const internalErrorMessage = "internal server error"

// ErrorHandler is the single place where handler errors become responses.
// Handlers report failures with c.Error and return; invalid input maps to 400,
// not found to 404 and everything else to a generic 500.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		status, message, details := classify(err)
		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"code":       appErr.CodeOf(err),
		}).WithError(err)
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}

		if c.Writer.Written() {
			return
		}
		response.Error[any](c, status, message, details)
	}
}

func classify(err error) (int, string, any) {
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid:
		var details any
		if ae := appErr.From(err); ae != nil && ae.Meta != nil {
			details = ae.Meta["details"]
		}
		return http.StatusBadRequest, messageOf(err, "invalid request"), details
	case appErr.CodeNotFound:
		return http.StatusNotFound, messageOf(err, "not found"), nil
	default:
		return http.StatusInternalServerError, internalErrorMessage, nil
	}
}

func messageOf(err error, def string) string {
	if ae := appErr.From(err); ae != nil && ae.Message != "" {
		return ae.Message
	}
	return def
}
