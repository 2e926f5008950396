// Package cli provides the interactive Policy Insight command-line client.
//
// It wires configuration, the credential store, the API client, the session
// facade and the access guards into a small REPL. Commands play the role of
// pages: guest commands (login, register, find-id, reset-password) are only
// offered while logged out, account commands (me, edit, verify-password,
// delete, logout) only while logged in. A guarded command that is not
// allowed prints where the user should go instead.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
