// Package tokenstore is the client's credential store: it persists the
// access, refresh and CSRF tokens with independent expirations so that a
// restarted client can treat the user as logged in before re-fetching the
// profile.
//
// Store implements the token-level contract (SetTokens, AccessToken,
// ClearAll, HasSession, ...) on top of a Backend. Backends:
//
//   - MemoryBackend: process memory, injectable clock.
//   - JarBackend:    an http.CookieJar scoped to the API origin; share
//     Jar() with the HTTP client to send the cookies along.
//   - SQLiteBackend: a local SQLite file with goose migrations.
//   - BoltBackend:   a local bbolt file.
//   - RedisBackend:  Redis keys with native TTLs.
//
// A value whose expiry has passed reads as absent in every backend. A ttl
// of zero or less stores the value without expiry.
//
// The store does no locking of its own. Concurrent token refreshes are
// independent read-modify-write cycles and the last writer wins.
package tokenstore
