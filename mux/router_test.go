package mux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/iris/datastore"
	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/pipeline"
)

func resolvePayload(t *testing.T, r *Router, path string) (string, bool) {
	t.Helper()
	entry, _, ok := r.Resolve(path)
	if !ok {
		return "", false
	}
	payload, isStatic := entry.(StaticPayload)
	require.True(t, isStatic, "expected static payload at %q, got %T", path, entry)
	return string(payload), true
}

func scenarioRouter() *Router {
	r := NewRouter()
	r.Insert("/", StaticPayload("Root"))
	r.Insert("/hello/world", StaticPayload("Hello World"))
	r.Insert("/hello/:name", StaticPayload("Hello Name"))
	r.Insert("/hello/:name/:age", StaticPayload("Hello Name Age"))
	return r
}

func TestNewRouter(t *testing.T) {
	r := NewRouter()
	require.NotNil(t, r)
	assert.NotNil(t, r.routes)
	assert.Equal(t, 0, r.data.Len())
}

func TestRouterResolveScenario(t *testing.T) {
	r := scenarioRouter()

	tests := []struct {
		path    string
		want    string
		matched bool
	}{
		{path: "/", want: "Root", matched: true},
		{path: "", want: "Root", matched: true},
		{path: "/hello/world", want: "Hello World", matched: true},
		{path: "/hello/John", want: "Hello Name", matched: true},
		{path: "/hello/John/20", want: "Hello Name Age", matched: true},
		{path: "/hello/world/extra", matched: false},
		{path: "/hello", matched: false},
		{path: "/missing", matched: false},
		{path: "/hello/John/20/extra", matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := resolvePayload(t, r, tt.path)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("separately registered deeper literal", func(t *testing.T) {
		r := scenarioRouter()
		r.Insert("/hello/world/test", StaticPayload("Hello World test"))

		got, ok := resolvePayload(t, r, "/hello/world/extra")
		assert.False(t, ok)
		assert.Empty(t, got)

		got, ok = resolvePayload(t, r, "/hello/world/test")
		assert.True(t, ok)
		assert.Equal(t, "Hello World test", got)

		got, ok = resolvePayload(t, r, "/hello/world")
		assert.True(t, ok)
		assert.Equal(t, "Hello World", got)
	})
}

func TestRouterInsert(t *testing.T) {
	t.Run("last write wins on literal collision", func(t *testing.T) {
		r := NewRouter()
		r.Insert("/a/b", StaticPayload("first"))
		r.Insert("/a/b", StaticPayload("second"))

		got, ok := resolvePayload(t, r, "/a/b")
		require.True(t, ok)
		assert.Equal(t, "second", got)
	})

	t.Run("literal beats placeholder regardless of order", func(t *testing.T) {
		r := NewRouter()
		r.Insert("/a/:x", StaticPayload("placeholder"))
		r.Insert("/a/b", StaticPayload("literal"))

		got, _ := resolvePayload(t, r, "/a/anything")
		assert.Equal(t, "placeholder", got)
		got, _ = resolvePayload(t, r, "/a/b")
		assert.Equal(t, "literal", got)
	})

	t.Run("placeholder promotion keeps original leaf", func(t *testing.T) {
		r := NewRouter()
		r.Insert("/a/:x", StaticPayload("single"))
		r.Insert("/a/:x/:y", StaticPayload("double"))

		got, ok := resolvePayload(t, r, "/a/single")
		require.True(t, ok)
		assert.Equal(t, "single", got)

		got, ok = resolvePayload(t, r, "/a/one/two")
		require.True(t, ok)
		assert.Equal(t, "double", got)

		a, isRouter := r.routes["a"].(*Router)
		require.True(t, isRouter)
		sub, isRouter := a.fallback.(*Router)
		require.True(t, isRouter)
		assert.Equal(t, StaticPayload("single"), sub.routes[""])
	})

	t.Run("literal promotion keeps original leaf", func(t *testing.T) {
		r := NewRouter()
		r.Insert("/a", StaticPayload("leaf"))
		r.Insert("/a/b", StaticPayload("child"))

		sub, isRouter := r.routes["a"].(*Router)
		require.True(t, isRouter)
		assert.Equal(t, StaticPayload("leaf"), sub.routes[""])

		got, _ := resolvePayload(t, r, "/a")
		assert.Equal(t, "leaf", got)
		got, _ = resolvePayload(t, r, "/a/b")
		assert.Equal(t, "child", got)
	})

	t.Run("leaf inserted over subrouter becomes its root", func(t *testing.T) {
		r := NewRouter()
		r.Insert("/a/b", StaticPayload("child"))
		r.Insert("/a", StaticPayload("leaf"))

		got, ok := resolvePayload(t, r, "/a")
		require.True(t, ok)
		assert.Equal(t, "leaf", got)
		got, ok = resolvePayload(t, r, "/a/b")
		require.True(t, ok)
		assert.Equal(t, "child", got)
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		r := NewRouter()
		r.Insert("", StaticPayload("x"))
		r.Insert("//", StaticPayload("x"))
		assert.Empty(t, r.routes)
		assert.Nil(t, r.fallback)
	})

	t.Run("root with surrounding space", func(t *testing.T) {
		r := NewRouter()
		r.Insert(" / ", StaticPayload("root"))
		got, ok := resolvePayload(t, r, "/")
		require.True(t, ok)
		assert.Equal(t, "root", got)
	})

	t.Run("repeated slashes are ignored", func(t *testing.T) {
		r := NewRouter()
		r.Insert("//a///b/", StaticPayload("ab"))
		got, ok := resolvePayload(t, r, "/a/b")
		require.True(t, ok)
		assert.Equal(t, "ab", got)
	})
}

func TestRouterResolvePlaceholders(t *testing.T) {
	t.Run("placeholder needs a segment", func(t *testing.T) {
		r := NewRouter()
		r.Insert("/:id", StaticPayload("id"))

		_, _, ok := r.Resolve("/")
		assert.False(t, ok)

		got, ok := resolvePayload(t, r, "/42")
		require.True(t, ok)
		assert.Equal(t, "id", got)
	})

	t.Run("placeholder leaf rejects trailing segments", func(t *testing.T) {
		r := NewRouter()
		r.Insert("/users/:id", StaticPayload("user"))

		_, _, ok := r.Resolve("/users/1/posts")
		assert.False(t, ok)
	})

	t.Run("no backtracking from literal subrouter", func(t *testing.T) {
		r := NewRouter()
		r.Insert("/a/b/c", StaticPayload("literal"))
		r.Insert("/a/:x/d", StaticPayload("placeholder"))

		_, _, ok := r.Resolve("/a/b/d")
		assert.False(t, ok)

		got, ok := resolvePayload(t, r, "/a/z/d")
		require.True(t, ok)
		assert.Equal(t, "placeholder", got)
	})

	t.Run("captures placeholder values in order", func(t *testing.T) {
		r := NewRouter()
		r.AddRoute("/hello/:name/:age", MethodGet, pipeline.Controller0(func() any { return nil }))

		_, scope, ok := r.Resolve("/hello/John/20")
		require.True(t, ok)
		params, ok := datastore.Get[pipeline.PathParams](scope)
		require.True(t, ok)
		assert.Equal(t, []string{"John", "20"}, params.Values)

		age, ok := params.Get("age")
		require.True(t, ok)
		assert.Equal(t, "20", age)
	})

	t.Run("names follow the node that captured the value", func(t *testing.T) {
		r := NewRouter()
		r.AddModule("/:org", ModuleFunc(func(sub *Router) {
			sub.AddRoute("/users/:id", MethodGet, pipeline.Controller0(func() any { return nil }))
		}))

		_, scope, ok := r.Resolve("/acme/users/7")
		require.True(t, ok)
		params, ok := datastore.Get[pipeline.PathParams](scope)
		require.True(t, ok)
		assert.Equal(t, []string{"acme", "7"}, params.Values)
		assert.Equal(t, []string{"org", "id"}, params.Names)

		id, ok := params.Get("id")
		require.True(t, ok)
		assert.Equal(t, "7", id)
		org, ok := params.Get("org")
		require.True(t, ok)
		assert.Equal(t, "acme", org)
	})

	t.Run("literal routes add no params", func(t *testing.T) {
		r := NewRouter()
		r.Insert("/static", StaticPayload("s"))

		_, scope, ok := r.Resolve("/static")
		require.True(t, ok)
		assert.False(t, datastore.Has[pipeline.PathParams](scope))
	})
}

func TestRouterEarlyTermination(t *testing.T) {
	r := scenarioRouter().EarlyTermination(true)

	got, ok := resolvePayload(t, r, "/hello/world/extra")
	require.True(t, ok)
	assert.Equal(t, "Hello World", got)

	got, ok = resolvePayload(t, r, "/hello/John/20")
	require.True(t, ok)
	assert.Equal(t, "Hello Name Age", got)

	_, _, ok = r.Resolve("/hello/John/20/extra")
	assert.False(t, ok, "placeholder leaves still need the path consumed")

	t.Run("promoted literal leaf", func(t *testing.T) {
		r := NewRouter().EarlyTermination(true)
		r.Insert("/docs", StaticPayload("docs"))
		r.Insert("/docs/api", StaticPayload("api"))

		got, ok := resolvePayload(t, r, "/docs/guide/intro")
		require.True(t, ok)
		assert.Equal(t, "docs", got)

		got, ok = resolvePayload(t, r, "/docs/api/v1")
		require.True(t, ok)
		assert.Equal(t, "api", got)
	})

	t.Run("root leaf does not swallow unknown paths", func(t *testing.T) {
		r := NewRouter().EarlyTermination(true)
		r.Insert("/", StaticPayload("root"))
		r.Insert("/a", StaticPayload("a"))

		_, _, ok := r.Resolve("/missing")
		assert.False(t, ok)
	})

	t.Run("failed deeper match leaves no params behind", func(t *testing.T) {
		r := NewRouter().EarlyTermination(true)
		r.Insert("/files", StaticPayload("files"))
		r.Insert("/files/:name/raw", StaticPayload("raw"))

		entry, scope, ok := r.Resolve("/files/a.txt/meta")
		require.True(t, ok)
		assert.Equal(t, StaticPayload("files"), entry)
		assert.False(t, datastore.Has[pipeline.PathParams](scope))
	})
}

type dbHandle struct{ name string }

type policy struct{ level int }

func TestRouterScopeData(t *testing.T) {
	t.Run("root data is inherited by all routes", func(t *testing.T) {
		r := NewRouter()
		r.AddData(&dbHandle{name: "main"})
		r.Insert("/a/b/c", StaticPayload("x"))

		_, scope, ok := r.Resolve("/a/b/c")
		require.True(t, ok)
		db, ok := datastore.Get[*dbHandle](scope)
		require.True(t, ok)
		assert.Equal(t, "main", db.name)
	})

	t.Run("inner scope shadows outer scope", func(t *testing.T) {
		r := NewRouter()
		r.AddData(policy{level: 1})
		r.AddModule("/admin", ModuleFunc(func(sub *Router) {
			sub.AddData(policy{level: 9})
			sub.AddStatic("/panel", []byte("panel"))
		}))
		r.AddStatic("/public", []byte("public"))

		_, scope, ok := r.Resolve("/admin/panel")
		require.True(t, ok)
		p, _ := datastore.Get[policy](scope)
		assert.Equal(t, 9, p.level)

		_, scope, ok = r.Resolve("/public")
		require.True(t, ok)
		p, _ = datastore.Get[policy](scope)
		assert.Equal(t, 1, p.level)
	})

	t.Run("resolved store is independent of the trie", func(t *testing.T) {
		r := NewRouter()
		r.AddData(policy{level: 1})
		r.AddStatic("/x", []byte("x"))

		_, scope, ok := r.Resolve("/x")
		require.True(t, ok)
		datastore.Add(scope, policy{level: 5})

		_, scope, _ = r.Resolve("/x")
		p, _ := datastore.Get[policy](scope)
		assert.Equal(t, 1, p.level)
	})

	t.Run("provide as interface type", func(t *testing.T) {
		r := NewRouter()
		ProvideAs[error](r, ErrNotFound)
		r.AddStatic("/x", []byte("x"))

		_, scope, _ := r.Resolve("/x")
		v, ok := datastore.Get[error](scope)
		require.True(t, ok)
		assert.Equal(t, ErrNotFound, v)
	})

	t.Run("nil data panics", func(t *testing.T) {
		assert.Panics(t, func() { NewRouter().AddData(nil) })
	})
}

func TestRouterModules(t *testing.T) {
	testModule := ModuleFunc(func(r *Router) {
		r.AddRoute("/", MethodGet, pipeline.Controller0(func() pipeline.Text { return "Hello Router!" }))
		r.AddRoute("/test", MethodGet, pipeline.Controller0(func() pipeline.Text { return "Hello Test!" }))
	})

	r := NewRouter()
	r.AddRoute("/", MethodGet, pipeline.Controller0(func() pipeline.Text { return "Hello World!" }))
	r.AddModule("/:test", testModule)

	dispatch := func(path string) *httpwire.Response {
		return r.Dispatch(httpwire.NewRequest(MethodGet, path))
	}

	assert.Equal(t, "Hello World!", string(dispatch("/").Body))
	assert.Equal(t, "Hello Router!", string(dispatch("/anything").Body))
	assert.Equal(t, "Hello Test!", string(dispatch("/anything/test").Body))
	assert.Equal(t, httpwire.StatusNotFound, dispatch("/anything/else").Status)

	t.Run("module over existing route keeps it as root", func(t *testing.T) {
		r := NewRouter()
		r.AddStatic("/users", []byte("list"))
		r.AddModule("/users", ModuleFunc(func(sub *Router) {
			sub.AddStatic("/:id", []byte("one"))
		}))

		got, ok := resolvePayload(t, r, "/users")
		require.True(t, ok)
		assert.Equal(t, "list", got)
		got, ok = resolvePayload(t, r, "/users/7")
		require.True(t, ok)
		assert.Equal(t, "one", got)
	})

	t.Run("modules mounted at the same prefix merge", func(t *testing.T) {
		r := NewRouter()
		r.AddModule("/api", ModuleFunc(func(sub *Router) { sub.AddStatic("/a", []byte("a")) }))
		r.AddModule("/api", ModuleFunc(func(sub *Router) { sub.AddStatic("/b", []byte("b")) }))

		got, _ := resolvePayload(t, r, "/api/a")
		assert.Equal(t, "a", got)
		got, _ = resolvePayload(t, r, "/api/b")
		assert.Equal(t, "b", got)
	})

	t.Run("module data stays out of existing routes", func(t *testing.T) {
		r := NewRouter()
		r.AddStatic("/api/old", []byte("old"))
		r.AddModule("/api", ModuleFunc(func(sub *Router) {
			sub.AddData(policy{level: 7})
			sub.AddStatic("/new", []byte("new"))
		}))

		_, scope, ok := r.Resolve("/api/old")
		require.True(t, ok)
		assert.False(t, datastore.Has[policy](scope))

		_, scope, ok = r.Resolve("/api/new")
		require.True(t, ok)
		p, ok := datastore.Get[policy](scope)
		require.True(t, ok)
		assert.Equal(t, 7, p.level)
	})

	t.Run("module at root keeps data off existing routes", func(t *testing.T) {
		r := NewRouter()
		r.AddStatic("/existing", []byte("e"))
		r.AddModule("/", ModuleFunc(func(sub *Router) {
			sub.AddData(policy{level: 4})
			sub.AddStatic("/added", []byte("a"))
		}))

		_, scope, ok := r.Resolve("/existing")
		require.True(t, ok)
		assert.False(t, datastore.Has[policy](scope))

		got, ok := resolvePayload(t, r, "/added")
		require.True(t, ok)
		assert.Equal(t, "a", got)
		_, scope, _ = r.Resolve("/added")
		p, _ := datastore.Get[policy](scope)
		assert.Equal(t, 4, p.level)
	})

	t.Run("module at root merges into router", func(t *testing.T) {
		r := NewRouter()
		r.AddModule("/", ModuleFunc(func(sub *Router) {
			sub.AddData(policy{level: 3})
			sub.AddStatic("/x", []byte("x"))
		}))

		_, scope, ok := r.Resolve("/x")
		require.True(t, ok)
		p, _ := datastore.Get[policy](scope)
		assert.Equal(t, 3, p.level)
	})
}

func TestRouterMethods(t *testing.T) {
	noop := pipeline.Controller0(func() any { return nil })

	r := NewRouter()
	r.AddRoute("/items", MethodPost, noop)
	r.AddRoute("/items", "get", noop)
	r.AddStatic("/static", []byte("s"))

	methods, err := r.Methods("/items")
	require.NoError(t, err)
	assert.Equal(t, []string{"GET", "POST"}, methods)

	methods, err = r.Methods("/static")
	require.NoError(t, err)
	assert.Nil(t, methods)

	_, err = r.Methods("/nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSplitPath(t *testing.T) {
	assert.Empty(t, splitPath(""))
	assert.Empty(t, splitPath("/"))
	assert.Equal(t, []string{"a", "b"}, splitPath("/a//b/"))
}
