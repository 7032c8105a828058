package middleware

import "errors"

var (
	errMissingToken = errors.New("missing or invalid token")
	errNoOperator   = errors.New("no operator for session")
)
