package muxhandlers

import (
	"os"

	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/pipeline"
)

// ServerHostname is the name of the host serving the request, added to the
// run by ServerMiddleware.
type ServerHostname string

// ServerConfig configures the Server middleware behaviour.
type ServerConfig struct {
	// Hostname is the value added to the run. Resolution order: Hostname
	// field, then HostnameEnv environment variable, then os.Hostname.
	Hostname string

	// HostnameEnv is a list of environment variable names checked in
	// order (e.g. ["POD_NAME", "HOSTNAME"]). The first non-empty
	// value is used. Only consulted when Hostname is empty. When all
	// variables are unset or empty, os.Hostname is used as a fallback.
	HostnameEnv []string
}

// ServerMiddleware returns a middleware that adds the serving hostname to
// the run as ServerHostname data. The hostname is resolved once when the
// middleware is created. It returns an error if the hostname cannot be
// determined.
func ServerMiddleware(cfg ServerConfig) (pipeline.Middleware, error) {
	hostname, err := resolveHostname(cfg)
	if err != nil {
		return nil, err
	}

	value := ServerHostname(hostname)

	return pipeline.Middleware1(pipeline.CommandsParam(), func(cmds *pipeline.Commands) *httpwire.Response {
		pipeline.AddData(cmds, value)
		return nil
	}), nil
}

func resolveHostname(cfg ServerConfig) (string, error) {
	if cfg.Hostname != "" {
		return cfg.Hostname, nil
	}

	for _, env := range cfg.HostnameEnv {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			return v, nil
		}
	}

	return os.Hostname()
}
