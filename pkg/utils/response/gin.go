package response

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/support-assistant/pkg/infra/middleware/common"
	"github.com/kart-io/support-assistant/pkg/utils/errors"
)

// OK writes a success envelope carrying data.
func OK(c *gin.Context, data interface{}) {
	Write(c, Success(data))
}

// Fail writes the envelope for err and aborts the handler chain.
// Non-Errno errors are reported as ErrInternal.
func Fail(c *gin.Context, err error) {
	Write(c, Err(errors.FromError(err)))
	c.Abort()
}

// FailWithData is Fail with a payload attached to the envelope.
func FailWithData(c *gin.Context, err error, data interface{}) {
	Write(c, ErrWithData(errors.FromError(err), data))
	c.Abort()
}

// Write stamps r with the request id and time, then renders it.
func Write(c *gin.Context, r *Response) {
	r.WithRequestID(common.GetRequestID(c.Request.Context())).
		WithTimestamp(time.Now().UnixMilli())
	c.JSON(r.HTTPStatus(), r)
}
