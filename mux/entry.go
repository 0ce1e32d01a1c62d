package mux

import (
	"sort"
	"strings"
	"sync"

	"github.com/vitalvas/iris/datastore"
	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/pipeline"
)

// Entry is what a path resolves to: a *Router (subrouter), a StaticPayload,
// or a *MethodPipelines.
type Entry interface {
	// Serve answers req with the data inherited along the resolved path.
	Serve(req *httpwire.Request, scope *datastore.Store) *httpwire.Response
}

// Serve implements Entry. A subrouter is never a valid resolution target, so
// reaching one here is answered with 500 Internal Server Error.
func (r *Router) Serve(_ *httpwire.Request, _ *datastore.Store) *httpwire.Response {
	return httpwire.NewResponse().WithStatus(httpwire.StatusInternalServerError)
}

// StaticPayload is a literal body served with status 200 for any method.
type StaticPayload []byte

// Serve implements Entry.
func (p StaticPayload) Serve(_ *httpwire.Request, _ *datastore.Store) *httpwire.Response {
	return httpwire.NewResponse().WithStatus(httpwire.StatusOK).WithBody(p)
}

// MethodPipelines maps request methods to pipelines for one path.
type MethodPipelines struct {
	mu        sync.RWMutex
	pipelines map[string]*pipeline.Pipeline
}

// NewMethodPipelines returns an empty method table.
func NewMethodPipelines() *MethodPipelines {
	return &MethodPipelines{pipelines: make(map[string]*pipeline.Pipeline)}
}

// Set registers p for method. Methods are matched upper-cased.
func (m *MethodPipelines) Set(method string, p *pipeline.Pipeline) {
	m.mu.Lock()
	m.pipelines[strings.ToUpper(method)] = p
	m.mu.Unlock()
}

// Get returns the pipeline registered for method.
func (m *MethodPipelines) Get(method string) (*pipeline.Pipeline, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pipelines[method]
	return p, ok
}

// Methods returns the registered methods sorted alphabetically.
func (m *MethodPipelines) Methods() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	methods := make([]string, 0, len(m.pipelines))
	for method := range m.pipelines {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

// Serve implements Entry. The request method must match a registered method
// exactly; otherwise the answer is 405 Method Not Allowed with an Allow
// header listing the registered methods (RFC 9110 Section 15.5.6).
func (m *MethodPipelines) Serve(req *httpwire.Request, scope *datastore.Store) *httpwire.Response {
	p, ok := m.Get(req.Method)
	if !ok {
		return httpwire.NewResponse().
			WithStatus(httpwire.StatusMethodNotAllowed).
			WithHeader("Allow", strings.Join(m.Methods(), ", "))
	}
	return p.Handle(req, scope)
}
