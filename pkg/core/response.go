// Package core holds the thin gin request/response conventions shared by
// every HTTP handler package: a single envelope shape for success and
// error responses.
package core

import (
	"github.com/gin-gonic/gin"

	"github.com/libreassistant/poc/pkg/errorx"
)

// ErrResponse is the error envelope returned for any non-nil err.
type ErrResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// WriteResponse writes data as a 200 JSON body if err is nil, otherwise
// writes the error's registered HTTP status with an ErrResponse envelope.
func WriteResponse(c *gin.Context, err error, data interface{}) {
	if err == nil {
		c.JSON(200, data)
		return
	}
	coder := errorx.CoderOf(err)
	c.JSON(coder.HTTPStatus(), ErrResponse{
		Code:    coder.Code(),
		Message: err.Error(),
	})
}
