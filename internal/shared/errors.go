package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authorization errors
	ErrAuthExchange   = fmt.Errorf("authorization server response missing access_token")
	ErrAuthFailed     = fmt.Errorf("authorization failed")
	ErrNoRefreshToken = fmt.Errorf("no refresh token available")

	// Token cache errors
	ErrCacheMiss    = fmt.Errorf("no cached token")
	ErrCacheCorrupt = fmt.Errorf("malformed token cache file")

	// API and endpoint errors
	ErrAPIRequest = fmt.Errorf("API request failed")
	ErrTooManyIDs = fmt.Errorf("too many ids")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
