package pipeline

import (
	"encoding/json"

	"github.com/vitalvas/iris/httpwire"
)

// Responder is implemented by values that build their own response.
type Responder interface {
	ToResponse() *httpwire.Response
}

// RawBody marks bytes that are already serialised. They are sent verbatim
// with status 200.
type RawBody []byte

// ToResponse implements Responder.
func (b RawBody) ToResponse() *httpwire.Response {
	return httpwire.NewResponse().WithStatus(httpwire.StatusOK).WithBody(b)
}

// Text is a plain text body sent verbatim with status 200.
type Text string

// ToResponse implements Responder.
func (t Text) ToResponse() *httpwire.Response {
	return httpwire.NewResponse().WithStatus(httpwire.StatusOK).WithText(string(t))
}

// Convert turns a handler result into a response:
//   - a Response passes through unchanged;
//   - a Responder builds its own response;
//   - nil becomes an empty 200;
//   - any other value is encoded as JSON with status 200.
//
// A value that cannot be encoded yields 500.
func Convert(v any) *httpwire.Response {
	switch x := v.(type) {
	case nil:
		return httpwire.NewResponse().WithStatus(httpwire.StatusOK)
	case *httpwire.Response:
		if x == nil {
			return httpwire.NewResponse().WithStatus(httpwire.StatusOK)
		}
		return x
	case httpwire.Response:
		return &x
	case Responder:
		if resp := x.ToResponse(); resp != nil {
			return resp
		}
		return httpwire.NewResponse().WithStatus(httpwire.StatusOK)
	}

	body, err := json.Marshal(v)
	if err != nil {
		return httpwire.NewResponse().WithStatus(httpwire.StatusInternalServerError)
	}

	return httpwire.NewResponse().
		WithStatus(httpwire.StatusOK).
		WithHeader("Content-Type", "application/json").
		WithBody(body)
}
