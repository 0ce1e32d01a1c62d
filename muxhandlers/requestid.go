package muxhandlers

import (
	"github.com/google/uuid"

	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/pipeline"
)

// DefaultRequestIDHeader is the header used to propagate the request ID.
const DefaultRequestIDHeader = "X-Request-ID"

// RequestID is the identifier added to the run by RequestIDMiddleware.
type RequestID string

// RequestIDConfig configures the Request ID middleware behaviour.
type RequestIDConfig struct {
	// HeaderName overrides the header used to propagate the request ID.
	// Defaults to "X-Request-ID" when empty.
	HeaderName string

	// GenerateFunc is an optional callback that returns a new unique ID.
	// It receives the current request, allowing ID generation based on
	// request content. Defaults to GenerateUUIDv4.
	GenerateFunc func(req *httpwire.Request) string

	// TrustIncoming, when true, reuses an existing request ID from the
	// incoming request header instead of generating a new one.
	TrustIncoming bool
}

// RequestIDMiddleware returns a middleware that generates or propagates a
// request ID. The ID is written to the request header, so the connection
// loop can log it, and added to the run as RequestID data.
func RequestIDMiddleware(cfg RequestIDConfig) pipeline.Middleware {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = DefaultRequestIDHeader
	}

	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	trustIncoming := cfg.TrustIncoming

	return pipeline.Middleware2(pipeline.RequestParam(), pipeline.CommandsParam(),
		func(req *httpwire.Request, cmds *pipeline.Commands) *httpwire.Response {
			id := ""
			if trustIncoming {
				id, _ = req.HeaderValue(headerName)
			}

			if id == "" {
				id = generate(req)
			}

			if id != "" {
				req.SetHeader(headerName, id)
				pipeline.AddData(cmds, RequestID(id))
			}

			return nil
		})
}

// GenerateUUIDv4 returns a new UUID v4 string.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.4
func GenerateUUIDv4(_ *httpwire.Request) string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a new UUID v7 string. UUIDs are time-ordered:
// IDs generated later sort lexicographically after earlier ones.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func GenerateUUIDv7(_ *httpwire.Request) string {
	return uuid.Must(uuid.NewV7()).String()
}
