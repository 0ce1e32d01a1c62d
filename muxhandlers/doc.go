// Package muxhandlers provides stock pipeline middleware for routes
// registered on the mux router.
//
// Every middleware is built from a config struct and either answers the
// request itself, which stops the pipeline, or adds data for the steps that
// follow through the pipeline command queue.
//
// # JSON Body Middleware
//
// JSONBodyMiddleware decodes the request body into a value of type T. A
// missing or non-JSON Content-Type and a body that does not decode are
// answered with 422 Unprocessable Entity. Decoded structs can be validated
// with `validate` tags.
//
//	mw, err := muxhandlers.JSONBodyMiddleware[CreateUser](muxhandlers.JSONBodyConfig{
//	    DisallowUnknownFields: true,
//	    Validate:              true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.AddRoute("/users", mux.MethodPost, createUser, mw)
//
// # Basic Auth Middleware
//
// BasicAuthMiddleware implements HTTP Basic Authentication per RFC 7617.
// Credentials can be validated via a dynamic callback or a static map.
// Static credential comparison uses constant-time comparison to prevent
// timing attacks. The authenticated user is available as BasicAuthUser.
//
//	mw, err := muxhandlers.BasicAuthMiddleware(muxhandlers.BasicAuthConfig{
//	    Realm: "My App",
//	    Credentials: map[string]string{
//	        "admin": "secret",
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Rate Limit Middleware
//
// RateLimitMiddleware applies a token bucket per request key and answers
// 429 Too Many Requests once the bucket is empty.
//
//	mw, err := muxhandlers.RateLimitMiddleware(muxhandlers.RateLimitConfig{
//	    Rate:  10,
//	    Burst: 20,
//	})
package muxhandlers
