package errors

import (
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

// class 绑定一个错误类别及其默认的 HTTP / gRPC 状态。
type class struct {
	category int
	http     int
	grpc     codes.Code
}

var (
	classRequest  = class{CategoryRequest, http.StatusBadRequest, codes.InvalidArgument}
	classResource = class{CategoryResource, http.StatusNotFound, codes.NotFound}
	classInternal = class{CategoryInternal, http.StatusInternalServerError, codes.Internal}
	classCache    = class{CategoryCache, http.StatusInternalServerError, codes.Internal}
	classNetwork  = class{CategoryNetwork, http.StatusServiceUnavailable, codes.Unavailable}
)

// NewError creates and registers a new Errno.
// It panics on an out-of-range segment, a missing English message or a duplicate code,
// all of which are programming errors caught at init.
func NewError(service, category, sequence int, httpStatus int, grpcCode codes.Code, messageEN, messageZH string) *Errno {
	switch {
	case service < 0 || service > 99:
		panic(fmt.Sprintf("errors: service %d out of range 0-99", service))
	case category < 0 || category > 99:
		panic(fmt.Sprintf("errors: category %d out of range 0-99", category))
	case sequence < 0 || sequence > 999:
		panic(fmt.Sprintf("errors: sequence %d out of range 0-999", sequence))
	case messageEN == "":
		panic("errors: english message is required")
	}
	return Register(New(MakeCode(service, category, sequence), httpStatus, grpcCode, messageEN, messageZH))
}

func (c class) build(service, sequence int, en, zh string) *Errno {
	return NewError(service, c.category, sequence, c.http, c.grpc, en, zh)
}

// NewRequestErr registers a validation error (400).
func NewRequestErr(service, sequence int, en, zh string) *Errno {
	return classRequest.build(service, sequence, en, zh)
}

// NewNotFoundErr registers a missing resource error (404).
func NewNotFoundErr(service, sequence int, en, zh string) *Errno {
	return classResource.build(service, sequence, en, zh)
}

// NewInternalErr registers an internal error (500).
func NewInternalErr(service, sequence int, en, zh string) *Errno {
	return classInternal.build(service, sequence, en, zh)
}

// NewCacheErr registers a document store error (500).
func NewCacheErr(service, sequence int, en, zh string) *Errno {
	return classCache.build(service, sequence, en, zh)
}

// NewNetworkErr registers an upstream availability error (503).
func NewNetworkErr(service, sequence int, en, zh string) *Errno {
	return classNetwork.build(service, sequence, en, zh)
}
