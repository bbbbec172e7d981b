package model

// TokenManager issues and verifies signed, time-limited access tokens
// carrying the account id and role.
type TokenManager interface {
	Generate(identity Identity) (string, error)
	Parse(token string) (Identity, error)
}
