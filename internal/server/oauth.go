package server

import (
	"fmt"
	"net/http"
	"sync"
)

// CodeResult carries the captured authorization code, or the error the
// authorization server redirected back with.
type CodeResult struct {
	Code string
	err  error
}

func (c *CodeResult) Error() error {
	return c.err
}

// CodeHandler captures the OAuth2 authorization-code redirect on a local
// callback route. It validates the state parameter and hands the code
// back through a channel; the token exchange happens elsewhere.
type CodeHandler struct {
	state       string
	resultChan  chan CodeResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCodeHandler creates a handler expecting the given state token.
// The state token should be cryptographically random for CSRF protection.
func NewCodeHandler(state string) *CodeHandler {
	return &CodeHandler{
		state:      state,
		resultChan: make(chan CodeResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CodeHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the OAuth callback request.
//
// Validates the state parameter and sends the authorization code through
// the result channel. Only the first callback is processed.
func (h *CodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	state := r.URL.Query().Get("state")
	if state != h.state {
		err := fmt.Errorf("invalid state parameter")
		h.Send(CodeResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		errDesc := r.URL.Query().Get("error_description")
		err := fmt.Errorf("authorization failed: %s - %s", errParam, errDesc)
		h.Send(CodeResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	h.Send(CodeResult{Code: code})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// Send sends the result through the channel (only once).
func (h *CodeHandler) Send(result CodeResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel the captured code is delivered on.
//
// The channel receives exactly one result and is then closed.
func (h *CodeHandler) Result() <-chan CodeResult {
	return h.resultChan
}
