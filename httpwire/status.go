package httpwire

import (
	"strconv"
	"strings"
)

// Status is the status line of a response without the protocol version,
// for example "200 OK".
type Status string

// Enumerated statuses produced by the dispatch core and the stock middleware.
const (
	StatusOK                  Status = "200 OK"
	StatusBadRequest          Status = "400 Bad Request"
	StatusUnauthorized        Status = "401 Unauthorized"
	StatusNotFound            Status = "404 Not Found"
	StatusMethodNotAllowed    Status = "405 Method Not Allowed"
	StatusContentTooLarge     Status = "413 Content Too Large"
	StatusUnsupportedMedia    Status = "415 Unsupported Media Type"
	StatusInvalidRequest      Status = "422 Unprocessable Entity"
	StatusTooManyRequests     Status = "429 Too Many Requests"
	StatusInternalServerError Status = "500 Internal Server Error"
)

// CustomStatus returns a status carrying an arbitrary "<code> <reason>" line.
func CustomStatus(line string) Status {
	return Status(strings.TrimSpace(line))
}

// Code returns the numeric status code. Lines that do not start with a
// three digit code report 500.
func (s Status) Code() int {
	code, _, _ := strings.Cut(string(s), " ")
	if len(code) != 3 {
		return 500
	}
	n, err := strconv.Atoi(code)
	if err != nil || n < 100 {
		return 500
	}
	return n
}

// Reason returns the reason phrase of the status line.
func (s Status) Reason() string {
	_, reason, _ := strings.Cut(string(s), " ")
	return reason
}

// String returns the raw status line.
func (s Status) String() string {
	if s == "" {
		return string(StatusInternalServerError)
	}
	return string(s)
}
