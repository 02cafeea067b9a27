package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/huynhanx03/go-orderedindex/pkg/common/apperr"
)

// Response codes
const (
	CodeSuccess          = 2000
	CodeBadRequest       = 4000
	CodeParamInvalid     = 4001
	CodeValidationFailed = 4002
	CodeNotFound         = 4004
	CodeConflict         = 4009
	CodeInternalServer   = 5000
	CodeIndexCorrupt     = 5001
	CodeCanceled         = 5003
)

var messages = map[int]string{
	CodeSuccess:          "success",
	CodeBadRequest:       "bad request",
	CodeParamInvalid:     "invalid parameters",
	CodeValidationFailed: "validation failed",
	CodeNotFound:         "not found",
	CodeConflict:         "conflict",
	CodeInternalServer:   "internal server error",
	CodeIndexCorrupt:     "index corrupt",
	CodeCanceled:         "request canceled",
}

var statuses = map[int]int{
	CodeSuccess:          http.StatusOK,
	CodeBadRequest:       http.StatusBadRequest,
	CodeParamInvalid:     http.StatusBadRequest,
	CodeValidationFailed: http.StatusUnprocessableEntity,
	CodeNotFound:         http.StatusNotFound,
	CodeConflict:         http.StatusConflict,
	CodeInternalServer:   http.StatusInternalServerError,
	CodeIndexCorrupt:     http.StatusInternalServerError,
	CodeCanceled:         http.StatusServiceUnavailable,
}

// Response is the envelope of every reply.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Message returns the default message for code.
func Message(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[CodeInternalServer]
}

// Status returns the HTTP status for code.
func Status(code int) int {
	if status, ok := statuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// SuccessResponse writes data with code.
func SuccessResponse(c *gin.Context, code int, data any) {
	c.JSON(Status(code), Response{
		Code:    code,
		Message: Message(code),
		Data:    data,
	})
}

// ErrorResponse writes err and aborts the chain. An AppError anywhere in
// err's chain overrides code.
func ErrorResponse(c *gin.Context, code int, err error) {
	status := Status(code)
	msg := Message(code)
	if appErr, ok := apperr.As(err); ok {
		code, status, msg = appErr.Code, appErr.HTTPStatus, appErr.Message
		err = appErr.Err
	}

	res := Response{Code: code, Message: msg}
	if err != nil {
		res.Error = err.Error()
	}
	c.AbortWithStatusJSON(status, res)
}

// ToErrorResponse flattens validation errors into one readable error.
func ToErrorResponse(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		part := fe.Field() + " failed on " + fe.Tag()
		if fe.Param() != "" {
			part += "=" + fe.Param()
		}
		parts = append(parts, part)
	}
	return errors.New(strings.Join(parts, "; "))
}
