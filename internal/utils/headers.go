package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrMissingAuthzHeader     = errors.New("missing authorization header")
	ErrInvalidAuthzHeader     = errors.New("invalid authorization header")
	ErrUnsupportedAuthzScheme = errors.New("unsupported authorization scheme")
	ErrMissingAuthzToken      = errors.New("missing authorization token")
)

// ExtractAuthorizationHeader returns the credential of a "Bearer <token>"
// Authorization header. The scheme is matched case-insensitively and
// surrounding whitespace around the token is ignored. A token containing
// whitespace is malformed.
func ExtractAuthorizationHeader(r *http.Request) (string, error) {
	value := strings.TrimSpace(r.Header.Get("Authorization"))
	if value == "" {
		return "", ErrMissingAuthzHeader
	}

	scheme, credential, ok := strings.Cut(value, " ")
	if !ok {
		return "", ErrInvalidAuthzHeader
	}
	if !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAuthzScheme, scheme)
	}

	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", ErrMissingAuthzToken
	}
	if strings.ContainsAny(credential, " \t") {
		return "", ErrInvalidAuthzHeader
	}

	return credential, nil
}
