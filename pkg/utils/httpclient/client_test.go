package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestPostJSON_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"prompt":"hi"}`, string(body))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"text":"hello"}`))
	}))
	defer srv.Close()

	client := NewClient(5*time.Second, 3).WithBackoff(time.Millisecond)

	var out struct {
		Text string `json:"text"`
	}
	header := http.Header{}
	header.Set("X-Api-Key", "secret")
	require.NoError(t, client.PostJSON(context.Background(), srv.URL, header, map[string]string{"prompt": "hi"}, &out))
	assert.Equal(t, "hello", out.Text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoJSON_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	client := NewClient(5*time.Second, 2).WithBackoff(time.Millisecond)
	err := client.PostJSON(context.Background(), srv.URL, nil, map[string]string{}, nil)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "bad key", statusErr.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDoRequest_GivesUpAfterMaxRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(5*time.Second, 1).WithBackoff(time.Millisecond)
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	_, err = client.DoRequest(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestInjectTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	otel.SetTextMapPropagator(propagation.TraceContext{})

	client := NewClient(time.Second, 0)

	ctx, span := tp.Tracer("test").Start(context.Background(), "answer")
	defer span.End()

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil).WithContext(ctx)
	client.injectTraceContext(req)
	assert.Len(t, req.Header.Get("traceparent"), 55)

	bare := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	client.injectTraceContext(bare)
	assert.Empty(t, bare.Header.Get("traceparent"))
}
