package httpwire

import (
	"encoding/json"
	"net/textproto"
)

// Response is the value handed back to the connection loop for writing.
type Response struct {
	Status Status
	Header map[string]string
	Body   []byte
}

// NewResponse returns an empty 404 Not Found response, the answer for a path
// that resolves to nothing.
func NewResponse() *Response {
	return &Response{
		Status: StatusNotFound,
		Header: make(map[string]string),
	}
}

// WithStatus sets the status.
func (r *Response) WithStatus(s Status) *Response {
	r.Status = s
	return r
}

// WithHeader sets a header under its canonical key.
func (r *Response) WithHeader(name, value string) *Response {
	if r.Header == nil {
		r.Header = make(map[string]string)
	}
	r.Header[textproto.CanonicalMIMEHeaderKey(name)] = value
	return r
}

// WithBody sets the body verbatim.
func (r *Response) WithBody(body []byte) *Response {
	r.Body = body
	return r
}

// WithText sets a plain text body and its Content-Type.
func (r *Response) WithText(text string) *Response {
	r.Body = []byte(text)
	return r.WithHeader("Content-Type", "text/plain; charset=utf-8")
}

// HeaderValue returns the value of the named header, matched
// case-insensitively.
func (r *Response) HeaderValue(name string) (string, bool) {
	v, ok := r.Header[textproto.CanonicalMIMEHeaderKey(name)]
	return v, ok
}

// JSON returns a response with the given status and v encoded as JSON.
// The Content-Type header is set to "application/json".
func JSON(status Status, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return NewResponse().
		WithStatus(status).
		WithHeader("Content-Type", "application/json").
		WithBody(body), nil
}
