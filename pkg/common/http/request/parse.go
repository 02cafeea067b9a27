package request

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huynhanx03/go-orderedindex/pkg/common/apperr"
	"github.com/huynhanx03/go-orderedindex/pkg/common/http/response"
	"github.com/huynhanx03/go-orderedindex/pkg/common/http/validation"
)

// ParseRequest binds path parameters, the query string and a JSON body, in
// that order, into a T and validates it. Any body other than an empty one is
// decoded, chunked bodies included.
func ParseRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if len(c.Params) > 0 {
		if err := c.ShouldBindUri(&req); err != nil {
			return nil, paramInvalid(err)
		}
	}
	if c.Request.URL.RawQuery != "" {
		if err := c.ShouldBindQuery(&req); err != nil {
			return nil, paramInvalid(err)
		}
	}
	if hasBody(c.Request) {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, paramInvalid(err)
		}
	}

	if ok, err := validation.IsRequestValid(req); !ok {
		return nil, apperr.New(
			response.CodeValidationFailed,
			response.Message(response.CodeValidationFailed),
			http.StatusUnprocessableEntity,
			response.ToErrorResponse(err),
		)
	}

	return &req, nil
}

func paramInvalid(err error) error {
	return apperr.New(
		response.CodeParamInvalid,
		response.Message(response.CodeParamInvalid),
		http.StatusBadRequest,
		response.ToErrorResponse(err),
	)
}

// hasBody reports whether r may carry a body. ContentLength is -1 when the
// length is unknown, as with chunked transfer encoding.
func hasBody(r *http.Request) bool {
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}
