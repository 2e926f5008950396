// Package common contains shared constants and sentinel errors used across
// Policy Insight components.
package common

// Header names used on the wire between the client and the API.
const (
	AuthorizationHeaderName = "Authorization"
	CSRFHeaderName          = "X-XSRF-TOKEN"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// DefaultAPIBasePath is the path prefix every API endpoint lives under.
const DefaultAPIBasePath = "/api/v1"

// API endpoint paths, relative to the base path.
const (
	PathCSRFToken       = "/auth/csrf-token"
	PathLogin           = "/auth/login"
	PathLogout          = "/auth/logout"
	PathSignup          = "/auth/signup"
	PathRefresh         = "/auth/refresh"
	PathFindID          = "/auth/id"
	PathPasswordNoLogin = "/auth/password/nologin"
	PathPasswordLogin   = "/auth/password/login"
	PathUserMe          = "/user/me"
)

// PublicEndpoints never carry an Authorization header and never trigger a
// token refresh.
var PublicEndpoints = []string{
	PathLogin,
	PathSignup,
	PathFindID,
	PathPasswordNoLogin,
	PathCSRFToken,
}
