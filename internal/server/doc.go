// Package server provides a temporary local HTTP server that captures the
// OAuth2 authorization-code redirect, as an alternative to pasting the
// redirect URL into the terminal.
//
// # Callback Handler
//
// [CodeHandler] validates the state parameter (CSRF protection) and sends
// the captured authorization code through a channel. It processes exactly
// one callback; the token exchange itself stays in the auth package.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] runs in the order added (first added wraps outermost),
// following the standard Go pattern. [BasicRouter] uses [http.ServeMux]
// internally with method filtering.
package server
