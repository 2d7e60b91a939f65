package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

func init() {
	RegisterService(ServiceCommon, "common")
	RegisterService(ServiceInfraCache, "cache")
	RegisterService(ServiceAssistant, "support-assistant")
}

// OK represents a successful operation.
var OK = Register(New(0, http.StatusOK, codes.OK, "Success", "成功"))

var (
	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewRequestErr(ServiceCommon, 0, "Bad request", "请求错误")

	// ErrInvalidParam indicates an invalid parameter.
	ErrInvalidParam = NewRequestErr(ServiceCommon, 1, "Invalid parameter", "参数无效")

	// ErrNotFound indicates a missing resource.
	ErrNotFound = NewNotFoundErr(ServiceCommon, 0, "Resource not found", "资源不存在")

	// ErrRouteNotFound indicates an unknown route.
	ErrRouteNotFound = NewNotFoundErr(ServiceCommon, 1, "Route not found", "路由不存在")

	// ErrInternal indicates an unexpected server error.
	ErrInternal = NewInternalErr(ServiceCommon, 0, "Internal server error", "服务器内部错误")

	// ErrPanic indicates a recovered panic.
	ErrPanic = NewInternalErr(ServiceCommon, 2, "Service panic", "服务异常")

	// ErrServiceUnavailable indicates a dependency is not reachable.
	ErrServiceUnavailable = NewNetworkErr(ServiceCommon, 1, "Service unavailable", "服务不可用")

	// ErrTimeout indicates an operation ran out of time.
	ErrTimeout = NewError(ServiceCommon, CategoryTimeout, 0, http.StatusGatewayTimeout, codes.DeadlineExceeded, "Operation timeout", "操作超时")

	// ErrCacheConnection indicates the key-value store cannot be reached.
	ErrCacheConnection = NewCacheErr(ServiceInfraCache, 1, "Cache connection failed", "缓存连接失败")
)
