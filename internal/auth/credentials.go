package auth

import (
	"encoding/base64"
	"strings"
)

// Credentials holds a Spotify application's OAuth client credentials.
// Immutable once constructed.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
}

// EncodeBasic returns base64("client_id:client_secret") for use in the
// Authorization: Basic header on token-exchange requests.
func (c Credentials) EncodeBasic() string {
	joined := strings.Join([]string{c.ClientID, c.ClientSecret}, ":")
	return base64.StdEncoding.EncodeToString([]byte(joined))
}

// Scope returns the space-joined requested scope, empty when none was requested.
func (c Credentials) Scope() string {
	return strings.Join(c.Scopes, " ")
}
