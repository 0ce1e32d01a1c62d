package muxhandlers

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/pipeline"
)

func TestServerMiddleware(t *testing.T) {
	hostname := func(t *testing.T, cfg ServerConfig) ServerHostname {
		t.Helper()
		mw, err := ServerMiddleware(cfg)
		require.NoError(t, err)

		_, state := runMiddleware(mw, httpwire.NewRequest("GET", "/"))
		require.NotNil(t, state)
		v, ok := pipeline.Lookup[ServerHostname](state)
		require.True(t, ok)
		return v
	}

	t.Run("explicit hostname", func(t *testing.T) {
		assert.Equal(t, ServerHostname("node-1"), hostname(t, ServerConfig{Hostname: "node-1"}))
	})

	t.Run("hostname from env", func(t *testing.T) {
		t.Setenv("IRIS_TEST_POD", "pod-7")
		assert.Equal(t, ServerHostname("pod-7"), hostname(t, ServerConfig{HostnameEnv: []string{"IRIS_TEST_UNSET", "IRIS_TEST_POD"}}))
	})

	t.Run("falls back to os hostname", func(t *testing.T) {
		want, err := os.Hostname()
		require.NoError(t, err)
		assert.Equal(t, ServerHostname(want), hostname(t, ServerConfig{HostnameEnv: []string{"IRIS_TEST_UNSET"}}))
	})
}
