package pipeline

import "github.com/vitalvas/iris/httpwire"

// Controller is the terminal step of a pipeline.
type Controller interface {
	Handle(s *State) *httpwire.Response
}

// Middleware is a step that runs before the controller. Returning a non-nil
// response short-circuits the pipeline.
type Middleware interface {
	Handle(s *State) *httpwire.Response
}

// ControllerFunc adapts a function to the Controller interface. The result
// is converted with Convert.
type ControllerFunc func(s *State) any

// Handle calls f(s) and converts the result.
func (f ControllerFunc) Handle(s *State) *httpwire.Response {
	return Convert(f(s))
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(s *State) *httpwire.Response

// Handle calls f(s).
func (f MiddlewareFunc) Handle(s *State) *httpwire.Response {
	return f(s)
}

// Controller0 builds a controller without dependencies.
func Controller0[R any](fn func() R) Controller {
	return ControllerFunc(func(_ *State) any {
		return fn()
	})
}

// Controller1 builds a controller with one declared dependency.
func Controller1[A, R any](a Param[A], fn func(A) R) Controller {
	return ControllerFunc(func(s *State) any {
		va := extract(s, a)
		return fn(va)
	})
}

// Controller2 builds a controller with two declared dependencies.
func Controller2[A, B, R any](a Param[A], b Param[B], fn func(A, B) R) Controller {
	return ControllerFunc(func(s *State) any {
		va := extract(s, a)
		vb := extract(s, b)
		return fn(va, vb)
	})
}

// Controller3 builds a controller with three declared dependencies.
func Controller3[A, B, C, R any](a Param[A], b Param[B], c Param[C], fn func(A, B, C) R) Controller {
	return ControllerFunc(func(s *State) any {
		va := extract(s, a)
		vb := extract(s, b)
		vc := extract(s, c)
		return fn(va, vb, vc)
	})
}

// Controller4 builds a controller with four declared dependencies.
func Controller4[A, B, C, D, R any](a Param[A], b Param[B], c Param[C], d Param[D], fn func(A, B, C, D) R) Controller {
	return ControllerFunc(func(s *State) any {
		va := extract(s, a)
		vb := extract(s, b)
		vc := extract(s, c)
		vd := extract(s, d)
		return fn(va, vb, vc, vd)
	})
}

// Middleware0 builds a middleware without dependencies.
func Middleware0(fn func() *httpwire.Response) Middleware {
	return MiddlewareFunc(func(_ *State) *httpwire.Response {
		return fn()
	})
}

// Middleware1 builds a middleware with one declared dependency.
func Middleware1[A any](a Param[A], fn func(A) *httpwire.Response) Middleware {
	return MiddlewareFunc(func(s *State) *httpwire.Response {
		va := extract(s, a)
		return fn(va)
	})
}

// Middleware2 builds a middleware with two declared dependencies.
func Middleware2[A, B any](a Param[A], b Param[B], fn func(A, B) *httpwire.Response) Middleware {
	return MiddlewareFunc(func(s *State) *httpwire.Response {
		va := extract(s, a)
		vb := extract(s, b)
		return fn(va, vb)
	})
}

// Middleware3 builds a middleware with three declared dependencies.
func Middleware3[A, B, C any](a Param[A], b Param[B], c Param[C], fn func(A, B, C) *httpwire.Response) Middleware {
	return MiddlewareFunc(func(s *State) *httpwire.Response {
		va := extract(s, a)
		vb := extract(s, b)
		vc := extract(s, c)
		return fn(va, vb, vc)
	})
}

// Middleware4 builds a middleware with four declared dependencies.
func Middleware4[A, B, C, D any](a Param[A], b Param[B], c Param[C], d Param[D], fn func(A, B, C, D) *httpwire.Response) Middleware {
	return MiddlewareFunc(func(s *State) *httpwire.Response {
		va := extract(s, a)
		vb := extract(s, b)
		vc := extract(s, c)
		vd := extract(s, d)
		return fn(va, vb, vc, vd)
	})
}
