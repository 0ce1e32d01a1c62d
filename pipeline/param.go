package pipeline

import (
	"errors"
	"fmt"

	"github.com/vitalvas/iris/datastore"
	"github.com/vitalvas/iris/httpwire"
)

// ErrMissingDependency is wrapped by every ExtractError.
var ErrMissingDependency = errors.New("pipeline: missing dependency")

// ExtractError reports a Param that could not produce its value. It is raised
// as a panic value: a handler declared a dependency that nothing upstream
// provides.
type ExtractError struct {
	Param string
	Type  string
	Path  string
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("pipeline: cannot extract %s (%s) for %q", e.Param, e.Type, e.Path)
}

func (e *ExtractError) Unwrap() error {
	return ErrMissingDependency
}

// Param extracts one declared handler dependency from the State.
type Param[T any] interface {
	Extract(s *State) (T, bool)
}

// ParamFunc adapts a function to the Param interface.
type ParamFunc[T any] func(s *State) (T, bool)

// Extract calls f(s).
func (f ParamFunc[T]) Extract(s *State) (T, bool) {
	return f(s)
}

// describer is implemented by params that name themselves in ExtractError.
type describer interface {
	describe() string
}

type namedParam[T any] struct {
	name string
	fn   func(s *State) (T, bool)
}

func (p namedParam[T]) Extract(s *State) (T, bool) {
	return p.fn(s)
}

func (p namedParam[T]) describe() string {
	return p.name
}

// StateParam yields the whole State.
func StateParam() Param[*State] {
	return namedParam[*State]{name: "state", fn: func(s *State) (*State, bool) {
		return s, true
	}}
}

// RequestParam yields the request.
func RequestParam() Param[*httpwire.Request] {
	return namedParam[*httpwire.Request]{name: "request", fn: func(s *State) (*httpwire.Request, bool) {
		return s.Request, s.Request != nil
	}}
}

// Data yields the shared value of type T. Extraction fails when no value of
// T was registered on the route scope or added by an earlier middleware.
func Data[T any]() Param[T] {
	return namedParam[T]{name: "data", fn: func(s *State) (T, bool) {
		return Lookup[T](s)
	}}
}

// CommandsParam yields the command queue of the run. It always succeeds.
func CommandsParam() Param[*Commands] {
	return namedParam[*Commands]{name: "commands", fn: func(s *State) (*Commands, bool) {
		return s.commands, true
	}}
}

// PathParamsParam yields the placeholder values of the matched path. It
// always succeeds and yields empty params for routes without placeholders.
func PathParamsParam() Param[PathParams] {
	return namedParam[PathParams]{name: "path params", fn: func(s *State) (PathParams, bool) {
		p, _ := Lookup[PathParams](s)
		return p, true
	}}
}

// HeaderParam yields the value of the named request header. Extraction fails
// when the header is absent.
func HeaderParam(name string) Param[string] {
	return namedParam[string]{name: "header " + name, fn: func(s *State) (string, bool) {
		if s.Request == nil {
			return "", false
		}
		return s.Request.HeaderValue(name)
	}}
}

// QueryParam yields the value of the named query parameter. Extraction fails
// when the parameter is absent.
func QueryParam(name string) Param[string] {
	return namedParam[string]{name: "query " + name, fn: func(s *State) (string, bool) {
		if s.Request == nil {
			return "", false
		}
		return s.Request.QueryValue(name)
	}}
}

func extract[T any](s *State, p Param[T]) T {
	v, ok := p.Extract(s)
	if !ok {
		name := "param"
		if d, isDescriber := p.(describer); isDescriber {
			name = d.describe()
		}
		path := ""
		if s.Request != nil {
			path = s.Request.Path
		}
		panic(&ExtractError{Param: name, Type: datastore.TypeName[T](), Path: path})
	}
	return v
}

// PathParams holds the values matched by placeholder segments, in path
// order. Names are available when the route was registered with named
// placeholders such as "/users/:id".
type PathParams struct {
	Values []string
	Names  []string
}

// Index returns the i-th placeholder value.
func (p PathParams) Index(i int) (string, bool) {
	if i < 0 || i >= len(p.Values) {
		return "", false
	}
	return p.Values[i], true
}

// Get returns the value of the placeholder registered as ":name".
func (p PathParams) Get(name string) (string, bool) {
	for i, n := range p.Names {
		if n == name && i < len(p.Values) {
			return p.Values[i], true
		}
	}
	return "", false
}

// Len returns the number of captured values.
func (p PathParams) Len() int {
	return len(p.Values)
}
