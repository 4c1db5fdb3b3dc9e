package auth

import "strings"

// TokenProvider supplies the bearer token for API authentication.
// An empty token with a nil error means "send the request unauthenticated".
type TokenProvider interface {
	AccessToken() (string, error)
}

// StaticToken is a TokenProvider for a token known up front (flags, tests).
type StaticToken string

// AccessToken returns the token with surrounding whitespace removed.
func (s StaticToken) AccessToken() (string, error) {
	return strings.TrimSpace(string(s)), nil
}
