package muxhandlers

import "github.com/vitalvas/iris/httpwire"

// errorResponse builds the short-circuit answer of a middleware. An empty
// message falls back to the status reason phrase.
func errorResponse(status httpwire.Status, message string) *httpwire.Response {
	if message == "" {
		message = status.Reason()
	}

	return httpwire.NewResponse().WithStatus(status).WithText(message)
}
