package mux

import (
	"reflect"
	"strings"
	"sync"

	"github.com/vitalvas/iris/datastore"
	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/pipeline"
)

// Router is a node of the routing trie.
//
// Each node maps literal path segments to entries, holds at most one
// placeholder entry, and carries a scope store whose values are inherited by
// every route beneath it.
//
// The root router guards the whole trie with a reader/writer lock: route
// registration excludes resolution. Registration is expected to finish before
// requests are served. Routers mounted with AddModule must not be modified
// after mounting.
type Router struct {
	mu sync.RWMutex

	routes       map[string]Entry
	fallback     Entry
	fallbackName string
	data         *datastore.Store

	earlyTermination bool
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]Entry),
		data:   datastore.New(),
	}
}

// EarlyTermination controls how a literal leaf treats unconsumed trailing
// segments. When false (the default) "/a/b" registered as a leaf does not
// match "/a/b/c". When true the leaf matches regardless of the remaining
// segments.
func (r *Router) EarlyTermination(value bool) *Router {
	r.mu.Lock()
	r.earlyTermination = value
	r.mu.Unlock()
	return r
}

// Insert stores entry at path. Segments starting with ':' are placeholders.
// The path "/" is stored under the root's empty key; a path without segments
// is ignored.
//
// Inserting below an existing leaf promotes it to a subrouter that keeps the
// leaf as its own "" entry, so both paths keep resolving.
func (r *Router) Insert(path string, entry Entry) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertPath(path, entry)
	return r
}

func (r *Router) insertPath(path string, entry Entry) {
	if strings.TrimSpace(path) == "/" {
		r.routes[""] = place(r.routes[""], entry)
		return
	}
	r.insert(splitPath(path), entry)
}

func (r *Router) insert(segments []string, entry Entry) {
	if len(segments) == 0 {
		return
	}

	segment, rest := segments[0], segments[1:]
	placeholder := isPlaceholder(segment)
	if placeholder {
		r.fallbackName = segment[1:]
	}

	if len(rest) == 0 {
		if placeholder {
			r.fallback = place(r.fallback, entry)
		} else {
			r.routes[segment] = place(r.routes[segment], entry)
		}
		return
	}

	var sub *Router
	if placeholder {
		sub = promote(r.fallback)
		r.fallback = sub
	} else {
		sub = promote(r.routes[segment])
		r.routes[segment] = sub
	}
	sub.insert(rest, entry)
}

// promote returns existing as a subrouter, wrapping a leaf as the new
// subrouter's "" entry.
func promote(existing Entry) *Router {
	if sub, ok := existing.(*Router); ok {
		return sub
	}
	sub := NewRouter()
	if existing != nil {
		sub.routes[""] = existing
	}
	return sub
}

// place resolves a collision between the entry already stored at a key and a
// newly inserted one. Leaves replace leaves. A leaf inserted over a subrouter
// becomes the subrouter's "" entry. A subrouter is merged into an existing
// subrouter, or adopts an existing leaf as its "" entry when it has none.
func place(existing, entry Entry) Entry {
	if existing == nil {
		return entry
	}

	incoming, incomingIsRouter := entry.(*Router)
	current, currentIsRouter := existing.(*Router)

	switch {
	case currentIsRouter && incomingIsRouter:
		return merge(current, incoming)
	case currentIsRouter:
		current.routes[""] = entry
		return current
	case incomingIsRouter:
		return merge(promote(existing), incoming)
	default:
		return entry
	}
}

// merge folds src into dst. On conflicting keys src wins, following place.
//
// src's scope data stays visible to src's entries only: it is combined into
// dst when dst holds no entries yet, and pushed down into src's entries
// otherwise. src is consumed.
func merge(dst, src *Router) *Router {
	if src.data.Len() > 0 {
		if len(dst.routes) == 0 && dst.fallback == nil {
			dst.data = datastore.Combine(dst.data, src.data)
		} else {
			pushDown(src)
		}
	}

	for key, entry := range src.routes {
		dst.routes[key] = place(dst.routes[key], entry)
	}
	if src.fallback != nil {
		dst.fallback = place(dst.fallback, src.fallback)
		dst.fallbackName = src.fallbackName
	}
	return dst
}

// pushDown moves r's scope data into each of r's entries, leaving r with an
// empty store.
func pushDown(r *Router) {
	for key, entry := range r.routes {
		r.routes[key] = withScope(entry, r.data)
	}
	if r.fallback != nil {
		r.fallback = withScope(r.fallback, r.data)
	}
	r.data = datastore.New()
}

// withScope returns entry carrying data beneath its own scope. A leaf is
// wrapped in a subrouter holding it as the "" entry.
func withScope(entry Entry, data *datastore.Store) Entry {
	if sub, ok := entry.(*Router); ok {
		sub.data = datastore.Combine(data, sub.data)
		return sub
	}

	wrapper := NewRouter()
	wrapper.data = data.Clone()
	wrapper.routes[""] = entry
	return wrapper
}

// Resolve finds the entry for path and returns it together with the data
// combined from every node visited on the way, inner scopes shadowing outer
// ones. A literal segment always wins over the placeholder of the same node.
//
// Values matched by placeholders are added to the returned store as
// pipeline.PathParams, each named after the placeholder of the node that
// matched it. A node has a single placeholder, so routes sharing it share
// its most recently registered name. The returned store is never one of the
// trie's own stores.
func (r *Router) Resolve(path string) (Entry, *datastore.Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var params pipeline.PathParams
	entry, scope, ok := r.resolve(splitPath(path), datastore.New(), &params, r.earlyTermination)
	if !ok {
		return nil, nil, false
	}

	if params.Len() > 0 {
		datastore.Add(scope, params)
	}

	return entry, scope, true
}

func (r *Router) resolve(segments []string, acc *datastore.Store, params *pipeline.PathParams, early bool) (Entry, *datastore.Store, bool) {
	if r.data.Len() > 0 {
		acc = datastore.Combine(acc, r.data)
	}

	segment := ""
	var rest []string
	if len(segments) > 0 {
		segment, rest = segments[0], segments[1:]
	}

	if entry, ok := r.routes[segment]; ok {
		if sub, isRouter := entry.(*Router); isRouter {
			if !early || len(rest) == 0 {
				return sub.resolve(rest, acc, params, early)
			}
			return sub.resolveEarly(rest, acc, params)
		}
		if len(rest) == 0 || early {
			return entry, acc, true
		}
		return nil, nil, false
	}

	// A placeholder needs a concrete segment to match.
	if r.fallback == nil || len(segments) == 0 {
		return nil, nil, false
	}

	params.Values = append(params.Values, segment)
	params.Names = append(params.Names, r.fallbackName)
	if sub, isRouter := r.fallback.(*Router); isRouter {
		return sub.resolve(rest, acc, params, early)
	}
	if len(rest) == 0 {
		return r.fallback, acc, true
	}
	return nil, nil, false
}

// resolveEarly resolves rest below r and falls back to the leaf r holds as
// its "" entry, so a literal leaf promoted to a subrouter keeps matching
// paths with trailing segments.
func (r *Router) resolveEarly(rest []string, acc *datastore.Store, params *pipeline.PathParams) (Entry, *datastore.Store, bool) {
	n := params.Len()
	if entry, scope, ok := r.resolve(rest, acc, params, true); ok {
		return entry, scope, true
	}
	params.Values = params.Values[:n]
	params.Names = params.Names[:n]

	leaf, ok := r.routes[""]
	if !ok {
		return nil, nil, false
	}
	if _, isRouter := leaf.(*Router); isRouter {
		return nil, nil, false
	}
	if r.data.Len() > 0 {
		acc = datastore.Combine(acc, r.data)
	}
	return leaf, acc, true
}

// lookup returns the entry registered at exactly segments, following
// placeholders structurally rather than matching them.
func (r *Router) lookup(segments []string) Entry {
	if len(segments) == 0 {
		return r.routes[""]
	}

	var entry Entry
	if isPlaceholder(segments[0]) {
		entry = r.fallback
	} else {
		entry = r.routes[segments[0]]
	}

	sub, isRouter := entry.(*Router)
	if len(segments) == 1 {
		if isRouter {
			return sub.routes[""]
		}
		return entry
	}
	if !isRouter {
		return nil
	}
	return sub.lookup(segments[1:])
}

// Dispatch resolves req and lets the matched entry answer it. A path that
// resolves to nothing yields the default 404 response.
func (r *Router) Dispatch(req *httpwire.Request) *httpwire.Response {
	entry, scope, ok := r.Resolve(req.Path)
	if !ok {
		return httpwire.NewResponse()
	}
	return entry.Serve(req, scope)
}

// --- Registration ---

// AddRoute registers a pipeline of mw followed by c for method at path.
func (r *Router) AddRoute(path, method string, c pipeline.Controller, mw ...pipeline.Middleware) *Router {
	return r.AddPipeline(path, method, pipeline.New(c, mw...))
}

// AddPipeline registers p for method at path. Methods registered earlier at
// the same path are kept; registering the same method again replaces it.
func (r *Router) AddPipeline(path, method string, p *pipeline.Pipeline) *Router {
	if path == "" {
		path = "/"
	}
	segments := splitPath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	mp, ok := r.lookup(segments).(*MethodPipelines)
	if !ok {
		mp = NewMethodPipelines()
		r.insertPath(path, mp)
	}
	mp.Set(method, p)
	return r
}

// AddStatic registers a payload served with status 200 for every method.
func (r *Router) AddStatic(path string, payload []byte) *Router {
	return r.Insert(path, StaticPayload(payload))
}

// AddModule builds m against a fresh router and mounts it at prefix. The
// module's scope data is inherited by its routes only. Mounting at "/" merges
// the module into r itself.
func (r *Router) AddModule(prefix string, m Module) *Router {
	sub := NewRouter()
	m.Build(sub)

	r.mu.Lock()
	defer r.mu.Unlock()

	segments := splitPath(prefix)
	if len(segments) == 0 {
		merge(r, sub)
		return r
	}
	r.insert(segments, sub)
	return r
}

// AddData binds v in this node's scope store under its dynamic type. Every
// route resolved through this node sees it.
func (r *Router) AddData(v any) *Router {
	if v == nil {
		panic("mux: AddData with nil value")
	}
	r.mu.Lock()
	r.data.Insert(reflect.TypeOf(v), v)
	r.mu.Unlock()
	return r
}

// ProvideAs binds v in r's scope store under the static type T, which lets
// handlers depend on an interface type.
func ProvideAs[T any](r *Router, v T) *Router {
	r.mu.Lock()
	datastore.Add(r.data, v)
	r.mu.Unlock()
	return r
}

// Methods returns the methods registered at the entry path resolves to.
// It returns ErrNotFound when path does not resolve.
func (r *Router) Methods(path string) ([]string, error) {
	entry, _, ok := r.Resolve(path)
	if !ok {
		return nil, ErrNotFound
	}
	if mp, isPipelines := entry.(*MethodPipelines); isPipelines {
		return mp.Methods(), nil
	}
	return nil, nil
}

// splitPath returns the non-empty segments of path.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

func isPlaceholder(segment string) bool {
	return strings.HasPrefix(segment, ":")
}
