// Package client wraps the Spotify Web API's playlist, track, artist,
// recommendation, profile, and playback endpoints.
//
// Every endpoint method runs through one generic authenticated request
// path: bearer authorization via an [oauth2] static token source,
// Content-Type set only when a JSON body is present, and query parameters
// emitted in declaration order with unset entries omitted.
//
// Return disciplines follow the endpoint contracts:
//   - JSON endpoints return the parsed body as a generic map
//   - endpoints that answer with an empty body on success return the
//     marker "Success", or the raw response body text when non-empty
//   - playback-control endpoints map HTTP 403 to "Error, not a premium
//     user", 404 to "Error, device not found", and anything else to
//     "Successful"
//
// There is no retry or backoff; transport failures surface immediately.
package client
