package muxhandlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/pipeline"
)

// ErrNotStruct is returned when validation is requested for a body type that
// is not a struct or a pointer to one.
var ErrNotStruct = errors.New("json body: validation requires a struct type")

var errTrailingData = errors.New("unexpected data after top-level value")

// Messages of the 422 answers produced by the JSON body middleware.
const (
	MessageMissingContentType = "Missing Content-Type header"
	MessageInvalidContentType = "Invalid Content-Type header"
	MessageInvalidJSONBody    = "Invalid JSON body"
)

// JSONBodyConfig configures the JSON body middleware behaviour.
type JSONBodyConfig struct {
	// DisallowUnknownFields rejects objects with fields the target type
	// does not declare.
	DisallowUnknownFields bool

	// Validate runs struct validation on the decoded value using the
	// `validate` struct tags.
	Validate bool

	// Validator overrides the validator used when Validate is true.
	// Defaults to a validator reporting fields by their JSON names.
	Validator *validator.Validate
}

// JSONBodyMiddleware returns a middleware that decodes the request body as
// JSON into a value of type T and adds it to the run, where later steps read
// it with pipeline.Data[T].
//
// The request is answered with 422 Unprocessable Entity when the
// Content-Type header is missing, names a non-JSON media type, or the body
// does not decode (or validate) as T.
//
// It returns ErrNotStruct if Validate is set and T is not a struct type.
func JSONBodyMiddleware[T any](cfg JSONBodyConfig) (pipeline.Middleware, error) {
	var validate *validator.Validate
	if cfg.Validate {
		t := reflect.TypeFor[T]()
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return nil, ErrNotStruct
		}

		validate = cfg.Validator
		if validate == nil {
			validate = newValidator()
		}
	}

	disallowUnknown := cfg.DisallowUnknownFields

	return pipeline.Middleware2(pipeline.RequestParam(), pipeline.CommandsParam(),
		func(req *httpwire.Request, cmds *pipeline.Commands) *httpwire.Response {
			if resp := checkJSONContentType(req); resp != nil {
				return resp
			}

			var v T
			if err := decodeJSON(req.Body, &v, disallowUnknown); err != nil {
				return invalidBody(err.Error())
			}

			if validate != nil {
				if err := validate.Struct(v); err != nil {
					return invalidBody(formatValidationError(err))
				}
			}

			pipeline.AddData(cmds, v)
			return nil
		}), nil
}

// RawJSONBodyMiddleware returns a middleware that checks the body is
// well-formed JSON and adds it to the run as json.RawMessage.
func RawJSONBodyMiddleware() pipeline.Middleware {
	mw, _ := JSONBodyMiddleware[json.RawMessage](JSONBodyConfig{})
	return mw
}

func checkJSONContentType(req *httpwire.Request) *httpwire.Response {
	ct, ok := req.HeaderValue("Content-Type")
	if !ok || strings.TrimSpace(ct) == "" {
		return errorResponse(httpwire.StatusInvalidRequest, MessageMissingContentType)
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil || !isJSONMediaType(mediaType) {
		return errorResponse(httpwire.StatusInvalidRequest, MessageInvalidContentType)
	}

	return nil
}

// isJSONMediaType accepts application/json and structured syntax suffix
// types such as application/problem+json (RFC 6839 Section 3.1).
func isJSONMediaType(mediaType string) bool {
	mediaType = strings.ToLower(mediaType)
	return mediaType == "application/json" ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json"))
}

func decodeJSON(body []byte, v any, disallowUnknown bool) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}

	return nil
}

func invalidBody(detail string) *httpwire.Response {
	return errorResponse(httpwire.StatusInvalidRequest, MessageInvalidJSONBody+": "+detail)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

func formatValidationError(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("field %q failed %q=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("field %q failed %q", fe.Field(), fe.Tag()))
	}

	return strings.Join(parts, "; ")
}
