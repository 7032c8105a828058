package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/intelliplan-admin/internal/data/dataerr"
	"github.com/yungbote/intelliplan-admin/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr answers with the status carried by err: an apierr.Error wins,
// then the storage error class, then 500 with fallbackCode. Server errors
// never echo the underlying message.
func RespondErr(c *gin.Context, err error, fallbackCode string) {
	status, code := Classify(err, fallbackCode)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		RespondError(c, status, code, errors.New(http.StatusText(status)))
		return
	}
	RespondError(c, status, code, err)
}

// Classify maps err to an HTTP status and error code.
func Classify(err error, fallbackCode string) (int, string) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae != nil {
		return ae.Status, ae.Code
	}
	switch dataerr.CodeOf(err) {
	case dataerr.CodeNotFound:
		return http.StatusNotFound, "not_found"
	case dataerr.CodeConflict:
		return http.StatusConflict, "conflict"
	case dataerr.CodeValidation:
		return http.StatusBadRequest, "invalid_request"
	case dataerr.CodePreconditionFailed:
		return http.StatusPreconditionFailed, "precondition_failed"
	case dataerr.CodeRetryable:
		return http.StatusServiceUnavailable, "retry_later"
	}
	return http.StatusInternalServerError, fallbackCode
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
