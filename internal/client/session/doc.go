// Package session is the facade the CLI talks to. It combines the API
// client, the credential store and the in-memory State, and reports every
// outcome as a Result instead of an error.
package session
