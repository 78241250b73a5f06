package session

import "errors"

var (
	// ErrInvalidCredentials is returned for every failed login. The
	// message never distinguishes an unknown email from a wrong
	// password, to avoid user enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNotAuthenticated = errors.New("no identity is logged in")
	ErrNotPatient       = errors.New("identity has no linked patient record")
)
