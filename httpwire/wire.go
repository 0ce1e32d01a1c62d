package httpwire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// ErrMalformedRequest is returned when a request cannot be parsed.
var ErrMalformedRequest = errors.New("httpwire: malformed request")

// ErrMalformedResponse is returned when a response cannot be parsed.
var ErrMalformedResponse = errors.New("httpwire: malformed response")

// ErrHeaderTooLarge is returned when the request line and headers exceed
// Limits.MaxHeaderBytes.
var ErrHeaderTooLarge = errors.New("httpwire: request header too large")

// ErrBodyTooLarge is returned when Content-Length exceeds Limits.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("httpwire: request body too large")

// DefaultVersion is used when a response is written without a version.
const DefaultVersion = "HTTP/1.1"

// Limits bounds what ReadRequest accepts. Zero values disable a limit.
type Limits struct {
	MaxHeaderBytes int
	MaxBodyBytes   int64
}

// ReadRequest reads one request from br.
//
// The request target is split into Path and Query. A single trailing slash is
// removed from the path, except for the root path.
func ReadRequest(br *bufio.Reader, limits Limits) (*Request, error) {
	lr := &lineReader{br: br, limit: limits.MaxHeaderBytes}

	line, err := lr.readLine()
	if err != nil {
		return nil, err
	}

	method, rest, ok1 := strings.Cut(line, " ")
	target, version, ok2 := strings.Cut(rest, " ")
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%w: bad request line %q", ErrMalformedRequest, line)
	}
	if !httpguts.ValidHeaderFieldName(method) {
		return nil, fmt.Errorf("%w: bad method %q", ErrMalformedRequest, method)
	}
	if !strings.HasPrefix(version, "HTTP/") {
		return nil, fmt.Errorf("%w: bad protocol version %q", ErrMalformedRequest, version)
	}
	if target == "" {
		return nil, fmt.Errorf("%w: empty request target", ErrMalformedRequest)
	}

	req := &Request{
		Method:  method,
		Version: version,
		Header:  make(map[string]string),
	}

	path, rawQuery, hasQuery := strings.Cut(target, "?")
	if hasQuery {
		values, err := url.ParseQuery(rawQuery)
		if err != nil {
			return nil, fmt.Errorf("%w: bad query string: %w", ErrMalformedRequest, err)
		}
		req.Query = make(map[string]string, len(values))
		for k, v := range values {
			if len(v) > 0 {
				req.Query[k] = v[0]
			}
		}
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	req.Path = path

	if err := readHeaders(lr, req.Header, ErrMalformedRequest); err != nil {
		return nil, err
	}

	n, err := contentLength(req.Header, ErrMalformedRequest)
	if err != nil {
		return nil, err
	}
	if limits.MaxBodyBytes > 0 && n > limits.MaxBodyBytes {
		return nil, ErrBodyTooLarge
	}
	if n > 0 {
		req.Body = make([]byte, n)
		if _, err := io.ReadFull(br, req.Body); err != nil {
			return nil, fmt.Errorf("%w: short body: %w", ErrMalformedRequest, err)
		}
	}

	return req, nil
}

// Encode serialises the response for the given protocol version.
// Content-Length is computed from the body and replaces any value present in
// the header map; the map itself is not modified. Header lines are written in
// sorted key order.
func (r *Response) Encode(version string) []byte {
	if version == "" {
		version = DefaultVersion
	}

	keys := make([]string, 0, len(r.Header)+1)
	for k := range r.Header {
		if textproto.CanonicalMIMEHeaderKey(k) == "Content-Length" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString(version)
	buf.WriteByte(' ')
	buf.WriteString(r.Status.String())
	buf.WriteString("\r\n")
	for _, k := range keys {
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(r.Header[k])
		buf.WriteString("\r\n")
	}
	buf.WriteString("Content-Length: ")
	buf.WriteString(strconv.Itoa(len(r.Body)))
	buf.WriteString("\r\n\r\n")
	buf.Write(r.Body)

	return buf.Bytes()
}

// Write serialises the response onto w.
func (r *Response) Write(w io.Writer, version string) error {
	_, err := w.Write(r.Encode(version))
	return err
}

// ReadResponse parses a response written by Response.Write and returns it
// together with the protocol version of its status line.
func ReadResponse(br *bufio.Reader) (*Response, string, error) {
	lr := &lineReader{br: br}

	line, err := lr.readLine()
	if err != nil {
		return nil, "", err
	}

	version, status, ok := strings.Cut(line, " ")
	if !ok || !strings.HasPrefix(version, "HTTP/") || status == "" {
		return nil, "", fmt.Errorf("%w: bad status line %q", ErrMalformedResponse, line)
	}

	resp := &Response{
		Status: Status(status),
		Header: make(map[string]string),
	}
	if err := readHeaders(lr, resp.Header, ErrMalformedResponse); err != nil {
		return nil, "", err
	}

	n, err := contentLength(resp.Header, ErrMalformedResponse)
	if err != nil {
		return nil, "", err
	}
	if n > 0 {
		resp.Body = make([]byte, n)
		if _, err := io.ReadFull(br, resp.Body); err != nil {
			return nil, "", fmt.Errorf("%w: short body: %w", ErrMalformedResponse, err)
		}
	}

	return resp, version, nil
}

// lineReader reads CRLF or LF terminated lines while enforcing a byte budget.
type lineReader struct {
	br    *bufio.Reader
	limit int // zero disables the budget
	used  int
}

// readLine checks the budget after every buffered chunk, so an oversized
// line is rejected after at most one buffer beyond the limit.
func (lr *lineReader) readLine() (string, error) {
	var line []byte
	for {
		chunk, err := lr.br.ReadSlice('\n')
		lr.used += len(chunk)
		if lr.limit > 0 && lr.used > lr.limit {
			return "", ErrHeaderTooLarge
		}
		line = append(line, chunk...)

		switch {
		case err == nil:
			return strings.TrimRight(string(line), "\r\n"), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && len(line) == 0:
			return "", io.EOF
		default:
			return "", fmt.Errorf("%w: %w", ErrMalformedRequest, err)
		}
	}
}

func readHeaders(lr *lineReader, dst map[string]string, malformed error) error {
	for {
		line, err := lr.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: unexpected end of headers", malformed)
			}
			return err
		}
		if line == "" {
			return nil
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return fmt.Errorf("%w: bad header line %q", malformed, line)
		}
		value = strings.TrimSpace(value)
		if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(value) {
			return fmt.Errorf("%w: bad header %q", malformed, name)
		}

		dst[textproto.CanonicalMIMEHeaderKey(name)] = value
	}
}

func contentLength(h map[string]string, malformed error) (int64, error) {
	raw, ok := h["Content-Length"]
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad Content-Length %q", malformed, raw)
	}
	return n, nil
}
