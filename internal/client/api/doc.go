// Package api is the authenticated request pipeline for the Policy Insight
// HTTP API.
//
// Every request is decorated from the credential store before it is sent:
// protected endpoints get "Authorization: Bearer <access token>", mutating
// requests get the X-XSRF-TOKEN header, and all requests carry an
// X-Request-ID. A 401 on a protected endpoint triggers one refresh with the
// refresh token followed by exactly one retry of the original request. When
// the refresh fails the store is cleared and the session-expired hook runs.
//
// Failures are returned as *Error, which unwraps to one of ErrUnauthorized,
// ErrSessionExpired, ErrValidation, ErrServer or ErrUnavailable.
package api
