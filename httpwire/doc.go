// Package httpwire holds the request and response values exchanged between
// the connection loop and the dispatch core, and the minimal HTTP/1.x framing
// used to read requests from and write responses to a byte stream.
//
// The framing is deliberately small: one request per connection, bodies
// delimited by Content-Length only, no chunked transfer coding and no
// keep-alive. Header names and values are validated per RFC 9110 Section 5
// using golang.org/x/net/http/httpguts.
//
// Serialising a Response always recomputes Content-Length from the body:
//
//	resp := httpwire.NewResponse().WithStatus(httpwire.StatusOK).WithText("hi")
//	err := resp.Write(conn, "HTTP/1.1")
package httpwire
