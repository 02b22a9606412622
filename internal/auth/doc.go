// Package auth implements the Spotify OAuth2 authorization-code flow and
// the token lifecycle around it.
//
// # Components
//
//   - [Credentials] : immutable client id/secret/redirect/scope bundle with
//     Basic-auth encoding for token-exchange requests
//   - [Session] : builds the authorization URL, exchanges authorization
//     codes for tokens, and refreshes expired access tokens
//   - [FileStore] : persists one [TokenRecord] per logical user as a
//     4-line cache file under <base>/cache/<user>.cache
//   - [Initializer] : the decision core; reads the cache and decides among
//     reuse, refresh, and reauthorization to produce a valid access token
//
// [Init] ties the components together and is the sole externally facing
// entry point: it resolves credentials (falling back to the SPOTIFY_ID and
// SPOTIFY_SECRET environment variables), resolves the cache location, and
// returns a bearer access token ready for [client.New].
//
// # Concurrency
//
// Everything here is single-threaded and blocking. The interactive
// authorization step blocks indefinitely on human input, and no locking
// is done around cache files; concurrent processes sharing a cache
// location are unsupported (last writer wins).
package auth
