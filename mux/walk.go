package mux

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/vitalvas/iris/datastore"
)

// ErrNotFound is returned when no route matches a path.
var ErrNotFound = errors.New("no matching route was found")

// SkipRouter is returned by a WalkFunc to skip the rest of the current
// router's entries.
var SkipRouter = errors.New("skip this router") //nolint:revive,staticcheck // mirrors filepath.SkipDir

// WalkFunc is called for every leaf entry of the trie. path is the
// registration form of the route, with placeholders written as ":name", and
// scope is the data combined along the way.
type WalkFunc func(path string, entry Entry, scope *datastore.Store) error

// Walk visits every leaf in lexical path order, literal segments before the
// placeholder of the same node.
func (r *Router) Walk(fn WalkFunc) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.walk("", datastore.New(), fn)
}

func (r *Router) walk(prefix string, acc *datastore.Store, fn WalkFunc) error {
	if r.data.Len() > 0 {
		acc = datastore.Combine(acc, r.data)
	}

	keys := make([]string, 0, len(r.routes))
	for k := range r.routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	visit := func(path string, entry Entry) error {
		if sub, ok := entry.(*Router); ok {
			return sub.walk(path, acc, fn)
		}
		if path == "" {
			path = "/"
		}
		return fn(path, entry, acc)
	}

	for _, k := range keys {
		path := prefix
		if k != "" {
			path = prefix + "/" + k
		}
		if err := visit(path, r.routes[k]); err != nil {
			if errors.Is(err, SkipRouter) {
				return nil
			}
			return err
		}
	}

	if r.fallback != nil {
		if err := visit(prefix+"/:"+r.fallbackName, r.fallback); err != nil {
			if errors.Is(err, SkipRouter) {
				return nil
			}
			return err
		}
	}

	return nil
}

// DumpRoutes writes one line per route: the methods (or "STATIC"), the path,
// and the names of the scope data types visible to it.
func (r *Router) DumpRoutes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	err := r.Walk(func(path string, entry Entry, scope *datastore.Store) error {
		kind := "ROUTER"
		switch e := entry.(type) {
		case StaticPayload:
			kind = "STATIC"
		case *MethodPipelines:
			kind = strings.Join(e.Methods(), ",")
		}

		data := "-"
		if names := scope.TypeNames(); len(names) > 0 {
			data = strings.Join(names, ", ")
		}

		_, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", kind, path, data)
		return err
	})
	if err != nil {
		return err
	}

	return tw.Flush()
}
