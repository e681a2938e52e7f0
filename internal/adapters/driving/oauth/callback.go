// Package oauth provides the loopback callback server that receives the
// OAuth redirect during an interactive login.
package oauth

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/sesame-cli/internal/core/domain"
	"github.com/custodia-labs/sesame-cli/internal/core/ports/driven"
)

// Ensure CallbackServer implements the port.
var _ driven.CallbackListener = (*CallbackServer)(nil)

// CallbackServer handles OAuth redirect callbacks.
// It serves exactly one redirect per instance: the first request
// carrying a code or an error fills a single-assignment result slot,
// anything else gets a 404 and does not consume the slot.
//
// The server deliberately logs nothing derived from requests; the
// authorization code is security-sensitive.
type CallbackServer struct {
	mu       sync.Mutex
	port     int
	path     string
	resultCh chan domain.CallbackResult
	errCh    chan error
	server   *http.Server
	listener net.Listener
}

// NewCallbackServer creates a callback server for one flow attempt.
func NewCallbackServer(port int, path string) *CallbackServer {
	if path == "" {
		path = "/callback"
	}
	return &CallbackServer{
		port:     port,
		path:     path,
		resultCh: make(chan domain.CallbackResult, 1),
		errCh:    make(chan error, 1),
	}
}

// Start binds the server on the loopback interface. When the preferred
// port is taken the OS assigns an ephemeral one; Port and RedirectURI
// reflect the actual binding.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil && s.port != 0 {
		// Preferred port is in use, fall back to an ephemeral one.
		listener, err = net.Listen("tcp", "127.0.0.1:0")
	}
	if err != nil {
		return fmt.Errorf("failed to bind callback listener: %w", err)
	}
	s.listener = listener

	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errCh <- err:
			default:
			}
		}
	}()

	return nil
}

// handleCallback processes the OAuth redirect request.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	switch {
	case query.Get("error") != "":
		s.deliver(domain.CallbackResult{Err: query.Get("error")})
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, failurePage(query.Get("error")))

	case query.Get("code") != "":
		s.deliver(domain.CallbackResult{
			Code:  query.Get("code"),
			State: query.Get("state"),
		})
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, successPage())

	default:
		// Not the redirect we are waiting for; leave the slot untouched.
		http.NotFound(w, r)
	}
}

// deliver writes the result slot at most once. A second redirect is
// dropped rather than overwriting the captured result.
func (s *CallbackServer) deliver(result domain.CallbackResult) {
	select {
	case s.resultCh <- result:
	default:
	}
}

// Await blocks until one redirect is captured, the server fails, or ctx
// expires. Expiry yields domain.ErrAuthTimeout.
func (s *CallbackServer) Await(ctx context.Context) (domain.CallbackResult, error) {
	select {
	case result := <-s.resultCh:
		return result, nil
	case err := <-s.errCh:
		return domain.CallbackResult{}, fmt.Errorf("callback server: %w", err)
	case <-ctx.Done():
		return domain.CallbackResult{}, domain.ErrAuthTimeout
	}
}

// Close shuts the server down and releases the port. Late redirects
// arriving afterwards are refused by the closed socket.
func (s *CallbackServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the redirect URI for the actual binding.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.Port(), s.path)
}

func successPage() string {
	return `<!DOCTYPE html>
<html>
<head>
    <title>Sesame - Authentication</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
            box-shadow: 0 4px 24px rgba(0,0,0,0.08);
        }
        h1 { color: #333F50; margin: 0 0 8px 0; font-size: 24px; }
        p { color: #7B8088; margin: 0; font-size: 16px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Authentication successful</h1>
        <p>You can close this window and return to your terminal.</p>
    </div>
    <script>window.setTimeout(function(){window.close()}, 2000);</script>
</body>
</html>`
}

func failurePage(reason string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Sesame - Authentication</title></head>
<body>
    <h1>Authentication failed</h1>
    <p>Error: %s</p>
    <p>Return to your terminal for details.</p>
</body>
</html>`, html.EscapeString(reason))
}
