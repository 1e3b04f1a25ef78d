// Package api is the HTTP plumbing of the portal client.
//
// RequestBuilder assembles requests from live state: the bearer token and the
// Accept-Language header are looked up on every call. Normalizer turns raw
// responses into Envelopes and is the only place that reacts to an expired
// session, whether the server signals it with HTTP 401 or with code 401 in
// the body. Client ties both to an HTTP Doer.
//
// Errors follow one taxonomy: *TransportError, *SessionExpiredError,
// *RejectedError and *ValidationError, each matching its Err* sentinel with
// errors.Is.
package api
