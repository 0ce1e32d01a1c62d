package httpwire

import (
	"errors"
	"io"
	"net/textproto"
	"sync"
)

// ErrAlreadyResponded is returned when a response is written to a request
// that has already been answered.
var ErrAlreadyResponded = errors.New("httpwire: response already written")

// ErrNoConnection is returned when a request has no connection to answer on.
var ErrNoConnection = errors.New("httpwire: request has no connection")

// Request is a parsed HTTP request.
//
// Path has the query string and a trailing slash removed. Header keys are
// stored in canonical MIME form. Query holds the first value of each query
// parameter and is nil when the target carried no query string.
type Request struct {
	Method  string
	Path    string
	Version string
	Header  map[string]string
	Query   map[string]string
	Body    []byte

	conn *responder
}

type responder struct {
	mu   sync.Mutex
	w    io.Writer
	sent bool
}

// NewRequest returns a request for method and path with empty headers. It is
// intended for in-process dispatch and tests.
func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Version: "HTTP/1.1",
		Header:  make(map[string]string),
	}
}

// Attach sets the writer the response will be written to.
func (r *Request) Attach(w io.Writer) *Request {
	r.conn = &responder{w: w}
	return r
}

// Respond serialises resp onto the request's connection. Only the first call
// writes; later calls return ErrAlreadyResponded.
func (r *Request) Respond(resp *Response) error {
	if r.conn == nil {
		return ErrNoConnection
	}

	r.conn.mu.Lock()
	defer r.conn.mu.Unlock()

	if r.conn.sent {
		return ErrAlreadyResponded
	}
	r.conn.sent = true

	return resp.Write(r.conn.w, r.Version)
}

// Responded reports whether a response has been written.
func (r *Request) Responded() bool {
	if r.conn == nil {
		return false
	}
	r.conn.mu.Lock()
	defer r.conn.mu.Unlock()
	return r.conn.sent
}

// SetHeader stores a header under its canonical key.
func (r *Request) SetHeader(name, value string) *Request {
	if r.Header == nil {
		r.Header = make(map[string]string)
	}
	r.Header[textproto.CanonicalMIMEHeaderKey(name)] = value
	return r
}

// HeaderValue returns the value of the named header. Names are matched
// case-insensitively per RFC 9110 Section 5.1.
func (r *Request) HeaderValue(name string) (string, bool) {
	v, ok := r.Header[textproto.CanonicalMIMEHeaderKey(name)]
	return v, ok
}

// QueryValue returns the value of the named query parameter.
func (r *Request) QueryValue(name string) (string, bool) {
	v, ok := r.Query[name]
	return v, ok
}
