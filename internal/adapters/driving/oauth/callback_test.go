package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
)

func startServer(t *testing.T, port int) *CallbackServer {
	t.Helper()
	srv := NewCallbackServer(port, "/callback")
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestCallbackServerCapturesCodeAndState(t *testing.T) {
	srv := startServer(t, 0)

	resp := get(t, srv.RedirectURI()+"?code=abc123&state=xyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result, err := srv.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", result.Code)
	assert.Equal(t, "xyz", result.State)
	assert.False(t, result.Denied())
}

func TestCallbackServerCapturesProviderError(t *testing.T) {
	srv := startServer(t, 0)

	resp := get(t, srv.RedirectURI()+"?error=access_denied")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result, err := srv.Await(ctx)
	require.NoError(t, err)
	assert.True(t, result.Denied())
	assert.Equal(t, "access_denied", result.Err)
}

func TestCallbackServerIgnoresOtherPaths(t *testing.T) {
	srv := startServer(t, 0)

	base := fmt.Sprintf("http://localhost:%d", srv.Port())
	resp := get(t, base+"/favicon.ico")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The stray request must not have consumed the result slot.
	get(t, srv.RedirectURI()+"?code=abc123&state=xyz")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result, err := srv.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", result.Code)
}

func TestCallbackServerFirstResultWins(t *testing.T) {
	srv := startServer(t, 0)

	get(t, srv.RedirectURI()+"?code=first&state=one")
	get(t, srv.RedirectURI()+"?code=second&state=two")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result, err := srv.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", result.Code)
}

func TestCallbackServerAwaitTimeout(t *testing.T) {
	srv := startServer(t, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := srv.Await(ctx)
	assert.ErrorIs(t, err, domain.ErrAuthTimeout)
}

func TestCallbackServerFallsBackWhenPortTaken(t *testing.T) {
	// Occupy a port, then ask the server to bind it.
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()
	taken := occupied.Addr().(*net.TCPAddr).Port

	srv := startServer(t, taken)

	assert.NotEqual(t, taken, srv.Port())
	assert.NotZero(t, srv.Port())
	assert.Contains(t, srv.RedirectURI(), fmt.Sprintf(":%d/callback", srv.Port()))
}

func TestCallbackServerReleasesPortOnClose(t *testing.T) {
	srv := startServer(t, 0)
	port := srv.Port()
	require.NoError(t, srv.Close())

	lst, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	require.NoError(t, err, "port should be reusable after close")
	_ = lst.Close()
}

func TestCallbackServerLateRequestAfterClose(t *testing.T) {
	srv := startServer(t, 0)
	uri := srv.RedirectURI()
	require.NoError(t, srv.Close())

	// A late redirect must be refused, never a crash.
	_, err := http.Get(uri + "?code=late")
	var netErr net.Error
	if !errors.As(err, &netErr) {
		assert.Error(t, err)
	}
}
