// Package response renders the JSON envelope used for errors and service endpoints.
//
// Answer and clear-conversation successes keep their own bodies; everything
// else, including every error, is wrapped in Response.
package response

import (
	"net/http"

	"github.com/kart-io/support-assistant/pkg/utils/errors"
)

// Response is the JSON envelope.
type Response struct {
	// Code 业务错误码，0 表示成功
	Code int `json:"code"`
	// HTTPCode 冗余的 HTTP 状态码，方便客户端
	HTTPCode int `json:"http_code,omitempty"`
	// Message 英文提示
	Message string `json:"message"`
	// Data 负载
	Data interface{} `json:"data,omitempty"`
	// RequestID 请求 ID
	RequestID string `json:"request_id,omitempty"`
	// Timestamp 毫秒时间戳
	Timestamp int64 `json:"timestamp,omitempty"`
}

// categoryStatus 未注册错误码按类别推断 HTTP 状态。
var categoryStatus = map[int]int{
	errors.CategoryRequest:    http.StatusBadRequest,
	errors.CategoryAuth:       http.StatusUnauthorized,
	errors.CategoryPermission: http.StatusForbidden,
	errors.CategoryResource:   http.StatusNotFound,
	errors.CategoryConflict:   http.StatusConflict,
	errors.CategoryRateLimit:  http.StatusTooManyRequests,
	errors.CategoryTimeout:    http.StatusGatewayTimeout,
	errors.CategoryNetwork:    http.StatusServiceUnavailable,
}

// Success wraps data in a success envelope.
func Success(data interface{}) *Response {
	return &Response{HTTPCode: http.StatusOK, Message: "success", Data: data}
}

// Err builds the envelope for e. A nil e is a success.
func Err(e *errors.Errno) *Response {
	if e == nil {
		return Success(nil)
	}
	return &Response{Code: e.Code, HTTPCode: e.HTTPStatus(), Message: e.MessageEN}
}

// ErrWithData is Err carrying a payload, e.g. the not-found details of a clear request.
func ErrWithData(e *errors.Errno, data interface{}) *Response {
	r := Err(e)
	r.Data = data
	return r
}

// WithRequestID sets the request id.
func (r *Response) WithRequestID(requestID string) *Response {
	r.RequestID = requestID
	return r
}

// WithTimestamp sets the timestamp.
func (r *Response) WithTimestamp(timestamp int64) *Response {
	r.Timestamp = timestamp
	return r
}

// IsSuccess reports whether Code is zero.
func (r *Response) IsSuccess() bool {
	return r.Code == 0
}

// HTTPStatus resolves the status to write: explicit HTTPCode first, then the
// errno registry, then the code's category.
func (r *Response) HTTPStatus() int {
	switch {
	case r.HTTPCode != 0:
		return r.HTTPCode
	case r.Code == 0:
		return http.StatusOK
	}
	if e, ok := errors.Lookup(r.Code); ok {
		return e.HTTPStatus()
	}
	if status, ok := categoryStatus[errors.GetCategory(r.Code)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
