package muxhandlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/pipeline"
)

// ErrNoAuthSource is returned when BasicAuthConfig has neither ValidateFunc
// nor Credentials configured.
var ErrNoAuthSource = errors.New("basic auth: at least one of ValidateFunc or Credentials must be set")

// BasicAuthUser is the authenticated username added to the run by
// BasicAuthMiddleware.
type BasicAuthUser string

// BasicAuthConfig configures the Basic Auth middleware behaviour.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc7617
type BasicAuthConfig struct {
	// Realm is the authentication realm sent in the WWW-Authenticate header.
	// Defaults to "Restricted" when empty.
	Realm string

	// ValidateFunc is called to validate credentials dynamically.
	// Takes priority over Credentials when both are set.
	ValidateFunc func(username, password string) bool

	// Credentials is a static map of username -> password pairs.
	// Compared using SHA-256 hashed constant-time comparison to prevent
	// timing attacks, including length-based leaks.
	Credentials map[string]string
}

// BasicAuthMiddleware returns a middleware that implements HTTP Basic
// Authentication per RFC 7617. It validates the Authorization header and
// answers 401 Unauthorized when credentials are missing or invalid. On
// success the username is added to the run as BasicAuthUser.
//
// It returns ErrNoAuthSource if both ValidateFunc and Credentials are nil/empty.
func BasicAuthMiddleware(cfg BasicAuthConfig) (pipeline.Middleware, error) {
	if cfg.ValidateFunc == nil && len(cfg.Credentials) == 0 {
		return nil, ErrNoAuthSource
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}

	wwwAuthenticate := fmt.Sprintf("Basic realm=%q", realm)

	validate := cfg.ValidateFunc
	credentials := cfg.Credentials

	return pipeline.Middleware2(pipeline.RequestParam(), pipeline.CommandsParam(),
		func(req *httpwire.Request, cmds *pipeline.Commands) *httpwire.Response {
			header, _ := req.HeaderValue("Authorization")
			username, password, ok := parseBasicAuth(header)
			if !ok {
				return unauthorized(wwwAuthenticate)
			}

			if validate != nil {
				if !validate(username, password) {
					return unauthorized(wwwAuthenticate)
				}
			} else {
				expectedPassword, exists := credentials[username]
				// Always perform the password comparison to prevent timing
				// leaks that reveal whether a username exists in the map.
				passwordMatch := constantTimeEqual(password, expectedPassword)
				if !exists || !passwordMatch {
					return unauthorized(wwwAuthenticate)
				}
			}

			pipeline.AddData(cmds, BasicAuthUser(username))
			return nil
		}), nil
}

// parseBasicAuth parses the credentials of a "Basic" Authorization header.
// The scheme is matched case-insensitively (RFC 9110 Section 11.1).
func parseBasicAuth(header string) (username, password string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}

	return strings.Cut(string(decoded), ":")
}

// constantTimeEqual compares two strings in constant time by first hashing
// them with SHA-256. This prevents both value leaks and length-based timing
// leaks that raw ConstantTimeCompare would allow on different-length inputs.
func constantTimeEqual(a, b string) bool {
	aHash := sha256.Sum256([]byte(a))
	bHash := sha256.Sum256([]byte(b))

	return subtle.ConstantTimeCompare(aHash[:], bHash[:]) == 1
}

// unauthorized returns a 401 response with the WWW-Authenticate header and
// an empty body.
func unauthorized(wwwAuthenticate string) *httpwire.Response {
	return httpwire.NewResponse().
		WithStatus(httpwire.StatusUnauthorized).
		WithHeader("WWW-Authenticate", wwwAuthenticate)
}
