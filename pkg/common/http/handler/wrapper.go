package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/huynhanx03/go-orderedindex/pkg/common/http/request"
	"github.com/huynhanx03/go-orderedindex/pkg/common/http/response"
)

// HandlerFunc takes a parsed and validated request and returns the payload
// of a successful reply.
type HandlerFunc[T any, R any] func(context.Context, *T) (R, error)

// Wrap adapts h to gin. Errors carrying an apperr.AppError keep their own
// code and status. Other parse errors report CodeParamInvalid, a request
// whose context ended reports CodeCanceled, and anything else reports
// CodeInternalServer. Every error is also attached to the gin context so
// middleware can log it.
func Wrap[T any, R any](h HandlerFunc[T, R]) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := request.ParseRequest[T](c)
		if err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypeBind)
			response.ErrorResponse(c, response.CodeParamInvalid, err)
			return
		}

		res, err := h(c.Request.Context(), req)
		if err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypePrivate)
			code := response.CodeInternalServer
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				code = response.CodeCanceled
			}
			response.ErrorResponse(c, code, err)
			return
		}

		response.SuccessResponse(c, response.CodeSuccess, res)
	}
}
