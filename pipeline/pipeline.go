package pipeline

import (
	"sync"

	"github.com/vitalvas/iris/datastore"
	"github.com/vitalvas/iris/httpwire"
)

// Pipeline is an ordered middleware chain with a terminal controller for one
// (path, method) pair.
type Pipeline struct {
	mu         sync.Mutex
	concurrent bool
	middleware []Middleware
	controller Controller
}

// New returns a pipeline running mw in order before c.
func New(c Controller, mw ...Middleware) *Pipeline {
	if c == nil {
		panic("pipeline: nil controller")
	}
	return &Pipeline{
		controller: c,
		middleware: append([]Middleware(nil), mw...),
	}
}

// Use appends middleware to the chain. It must not be called once the
// pipeline serves requests.
func (p *Pipeline) Use(mw ...Middleware) *Pipeline {
	p.middleware = append(p.middleware, mw...)
	return p
}

// Concurrent lets Handle run without serialisation. Only use it when every
// middleware and the controller are safe for concurrent use.
func (p *Pipeline) Concurrent() *Pipeline {
	p.concurrent = true
	return p
}

// Len returns the number of middleware.
func (p *Pipeline) Len() int {
	return len(p.middleware)
}

// Handle runs the pipeline for req with the data inherited from the route
// scope.
//
// Middleware run in order; the commands queued by a step are applied after
// it returns and before the next step starts, including the step that
// short-circuits. The controller runs only when no middleware returned a
// response. Extraction failures panic with *ExtractError.
func (p *Pipeline) Handle(req *httpwire.Request, scope *datastore.Store) *httpwire.Response {
	if !p.concurrent {
		p.mu.Lock()
		defer p.mu.Unlock()
	}

	state := NewState(req, scope)

	for _, mw := range p.middleware {
		resp := mw.Handle(state)
		state.commands.drain(state)
		if resp != nil {
			return resp
		}
	}

	resp := p.controller.Handle(state)
	if resp == nil {
		return Convert(nil)
	}
	return resp
}
