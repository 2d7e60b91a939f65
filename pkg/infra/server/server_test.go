package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpopts "github.com/kart-io/support-assistant/pkg/options/server/http"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRunnable struct {
	startErr error
	started  bool
	stopped  bool
}

func (f *fakeRunnable) Start(_ context.Context) error {
	f.started = true
	return f.startErr
}

func (f *fakeRunnable) Stop(_ context.Context) error {
	f.stopped = true
	return nil
}

func (f *fakeRunnable) Name() string { return "fake" }

func newTestManager() *Manager {
	httpOpts := httpopts.NewOptions()
	httpOpts.Addr = "127.0.0.1:0"
	return NewManager(WithHTTPOptions(httpOpts), WithShutdownTimeout(time.Second))
}

func TestManager_StartServeStop(t *testing.T) {
	m := newTestManager()
	m.HTTPServer().Engine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	extra := &fakeRunnable{}
	m.AddServer(extra)

	ctx := context.Background()
	require.NoError(t, m.Start(ctx))
	assert.True(t, extra.started)

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", m.HTTPServer().Addr()))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(fmt.Sprintf("http://%s/missing", m.HTTPServer().Addr()))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, m.Stop(ctx))
	assert.True(t, extra.stopped)
}

func TestManager_StartTwice(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	require.NoError(t, m.Start(ctx))
	defer func() { _ = m.Stop(ctx) }()

	assert.Error(t, m.Start(ctx))
}

func TestManager_CustomServerFailureStopsHTTP(t *testing.T) {
	m := newTestManager()
	m.AddServer(&fakeRunnable{startErr: errors.New("boom")})

	err := m.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fake")
}

func TestManager_RunReturnsOnCancel(t *testing.T) {
	m := newTestManager()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestManager_StopBeforeStart(t *testing.T) {
	assert.NoError(t, newTestManager().Stop(context.Background()))
}
