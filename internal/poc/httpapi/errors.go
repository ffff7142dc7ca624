package httpapi

import (
	"net/http"

	"github.com/libreassistant/poc/pkg/errorx"
)

// HTTP surface error codes.
// Code format: 20XXYY — 20: module prefix (POC HTTP surface), XX: resource
// group (00=common, 01=plugins, 02=chat), YY: sequential number.
const (
	ErrBind           = 200001
	ErrUnknownPlugin  = 200101
	ErrPreconditioned = 200102
	ErrPortInUse      = 200103
	ErrPermission     = 200104
	ErrChatEmpty      = 200201
)

func init() {
	errorx.MustRegister(newCoder(ErrBind, http.StatusBadRequest, "request body binding failed"))
	errorx.MustRegister(newCoder(ErrUnknownPlugin, http.StatusNotFound, "unknown plugin id"))
	errorx.MustRegister(newCoder(ErrPreconditioned, http.StatusConflict, "operation not valid from current state"))
	errorx.MustRegister(newCoder(ErrPortInUse, http.StatusConflict, "declared port already in use"))
	errorx.MustRegister(newCoder(ErrPermission, http.StatusForbidden, "plugin permissions not satisfied"))
	errorx.MustRegister(newCoder(ErrChatEmpty, http.StatusBadRequest, "message must not be empty"))
}

type coder struct {
	code int
	http int
	msg  string
}

func newCoder(code, httpStatus int, msg string) *coder { return &coder{code, httpStatus, msg} }

func (c *coder) Code() int       { return c.code }
func (c *coder) HTTPStatus() int { return c.http }
func (c *coder) String() string  { return c.msg }
