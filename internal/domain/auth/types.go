package auth

// Package auth contains domain-level types for service credentials and
// inbound caller tokens. It is pure and free of framework/adapter concerns.

import "time"

// AccessToken is a service-level credential for the identity directory.
// Tokens are never mutated after construction, only replaced; a token
// handed to a caller always satisfies now < ExpiresAt.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token is usable at the given instant.
func (t AccessToken) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// Token is the verified inbound bearer token of a caller.
// Claims is the decoded claim document; role extraction walks it
// tolerantly, so unexpected shapes degrade to "no roles", never to errors.
type Token struct {
	Subject string
	Claims  map[string]any
}
