package mux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/pipeline"
)

func TestStaticPayload(t *testing.T) {
	for _, method := range []string{MethodGet, MethodPost, MethodDelete, "BREW"} {
		t.Run(method, func(t *testing.T) {
			resp := StaticPayload("hello").Serve(httpwire.NewRequest(method, "/"), nil)
			assert.Equal(t, httpwire.StatusOK, resp.Status)
			assert.Equal(t, "hello", string(resp.Body))
		})
	}
}

func TestRouterAsTarget(t *testing.T) {
	resp := NewRouter().Serve(httpwire.NewRequest(MethodGet, "/"), nil)
	assert.Equal(t, httpwire.StatusInternalServerError, resp.Status)
}

func TestMethodPipelines(t *testing.T) {
	ok := pipeline.New(pipeline.Controller0(func() pipeline.Text { return "ok" }))

	t.Run("dispatches on exact method", func(t *testing.T) {
		mp := NewMethodPipelines()
		mp.Set(MethodGet, ok)

		resp := mp.Serve(httpwire.NewRequest(MethodGet, "/"), nil)
		assert.Equal(t, httpwire.StatusOK, resp.Status)
		assert.Equal(t, "ok", string(resp.Body))
	})

	t.Run("lower case request method does not match", func(t *testing.T) {
		mp := NewMethodPipelines()
		mp.Set("get", ok)

		_, found := mp.Get(MethodGet)
		assert.True(t, found)

		resp := mp.Serve(httpwire.NewRequest("get", "/"), nil)
		assert.Equal(t, httpwire.StatusMethodNotAllowed, resp.Status)
	})

	t.Run("method miss lists allowed methods", func(t *testing.T) {
		mp := NewMethodPipelines()
		mp.Set(MethodPost, ok)
		mp.Set(MethodGet, ok)
		mp.Set(MethodDelete, ok)

		resp := mp.Serve(httpwire.NewRequest(MethodPut, "/"), nil)
		assert.Equal(t, httpwire.StatusMethodNotAllowed, resp.Status)

		allow, found := resp.HeaderValue("Allow")
		require.True(t, found)
		assert.Equal(t, "DELETE, GET, POST", allow)
	})
}

func TestRouterDispatch(t *testing.T) {
	r := NewRouter()
	r.AddRoute("/users/:id", MethodGet, pipeline.Controller1(pipeline.PathParamsParam(), func(p pipeline.PathParams) pipeline.Text {
		id, _ := p.Get("id")
		return pipeline.Text("user " + id)
	}))
	r.AddRoute("/users/:id", MethodDelete, pipeline.Controller0(func() pipeline.Text { return "deleted" }))
	r.AddStatic("/health", []byte("up"))
	r.AddModule("/nested", ModuleFunc(func(sub *Router) {
		sub.AddStatic("/deep/leaf", []byte("leaf"))
	}))

	tests := []struct {
		name   string
		method string
		path   string
		status httpwire.Status
		body   string
	}{
		{name: "get user", method: MethodGet, path: "/users/7", status: httpwire.StatusOK, body: "user 7"},
		{name: "delete user", method: MethodDelete, path: "/users/7", status: httpwire.StatusOK, body: "deleted"},
		{name: "method not allowed", method: MethodPost, path: "/users/7", status: httpwire.StatusMethodNotAllowed},
		{name: "static any method", method: MethodPost, path: "/health", status: httpwire.StatusOK, body: "up"},
		{name: "not found", method: MethodGet, path: "/nothing", status: httpwire.StatusNotFound},
		{name: "subrouter without root", method: MethodGet, path: "/nested/deep", status: httpwire.StatusNotFound},
		{name: "nested leaf", method: MethodGet, path: "/nested/deep/leaf", status: httpwire.StatusOK, body: "leaf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := r.Dispatch(httpwire.NewRequest(tt.method, tt.path))
			assert.Equal(t, tt.status, resp.Status)
			if tt.body != "" {
				assert.Equal(t, tt.body, string(resp.Body))
			}
		})
	}
}
