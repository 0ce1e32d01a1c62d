package mux

// Module contributes a group of routes that is built against its own router
// and mounted under a prefix with Router.AddModule.
type Module interface {
	Build(r *Router)
}

// ModuleFunc adapts a function to the Module interface.
type ModuleFunc func(r *Router)

// Build calls f(r).
func (f ModuleFunc) Build(r *Router) {
	f(r)
}

// Request methods registered through AddRoute, per RFC 9110 Section 9.
const (
	MethodGet     = "GET"
	MethodHead    = "HEAD"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodConnect = "CONNECT"
	MethodOptions = "OPTIONS"
	MethodTrace   = "TRACE"
)
