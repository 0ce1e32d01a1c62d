package muxhandlers

import (
	"errors"
	"mime"
	"strings"

	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/mux"
	"github.com/vitalvas/iris/pipeline"
)

// ErrNoAllowedTypes is returned when ContentTypeCheckConfig.AllowedTypes is
// empty.
var ErrNoAllowedTypes = errors.New("content type check: at least one allowed content type is required")

// ContentTypeCheckConfig configures the Content-Type Check middleware behaviour.
type ContentTypeCheckConfig struct {
	// AllowedTypes is the set of acceptable Content-Type values.
	// Matching is case-insensitive and ignores parameters
	// (e.g. "application/json" matches "application/json; charset=utf-8").
	// Required; at least one must be provided.
	AllowedTypes []string

	// Methods is the set of request methods that require Content-Type
	// validation. When nil, defaults to POST, PUT, PATCH.
	Methods []string
}

var defaultCheckedMethods = []string{
	mux.MethodPost,
	mux.MethodPut,
	mux.MethodPatch,
}

// ContentTypeCheckMiddleware returns a middleware that validates the
// Content-Type header on requests with matching methods. It answers 415
// Unsupported Media Type when the Content-Type is missing or does not match
// any of the allowed types.
//
// It returns ErrNoAllowedTypes if AllowedTypes is empty.
func ContentTypeCheckMiddleware(cfg ContentTypeCheckConfig) (pipeline.Middleware, error) {
	if len(cfg.AllowedTypes) == 0 {
		return nil, ErrNoAllowedTypes
	}

	methods := cfg.Methods
	if methods == nil {
		methods = defaultCheckedMethods
	}

	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		methodSet[strings.ToUpper(m)] = struct{}{}
	}

	allowedSet := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowedSet[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	return pipeline.Middleware1(pipeline.RequestParam(), func(req *httpwire.Request) *httpwire.Response {
		if _, check := methodSet[req.Method]; !check {
			return nil
		}

		ct, _ := req.HeaderValue("Content-Type")
		if ct == "" {
			return errorResponse(httpwire.StatusUnsupportedMedia, "")
		}

		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return errorResponse(httpwire.StatusUnsupportedMedia, "")
		}

		if _, ok := allowedSet[strings.ToLower(mediaType)]; !ok {
			return errorResponse(httpwire.StatusUnsupportedMedia, "")
		}

		return nil
	}), nil
}
