package pipeline

import (
	"github.com/vitalvas/iris/datastore"
	"github.com/vitalvas/iris/httpwire"
)

// State is the per-request data shared by every step of a pipeline run.
type State struct {
	// Request is the request being answered.
	Request *httpwire.Request

	data     *datastore.Store
	commands *Commands
}

// NewState returns the state for one pipeline run. The scope store is copied,
// so data added during the run never reaches the route scope.
func NewState(req *httpwire.Request, scope *datastore.Store) *State {
	return &State{
		Request:  req,
		data:     datastore.Combine(scope, nil),
		commands: &Commands{},
	}
}

// Data returns the combined request and route-scope store. Callers must treat
// it as read-only; mutations go through Commands.
func (s *State) Data() *datastore.Store {
	return s.data
}

// Commands returns the command queue of this run.
func (s *State) Commands() *Commands {
	return s.commands
}

// Lookup returns the value of type T visible to the current step.
func Lookup[T any](s *State) (T, bool) {
	return datastore.Get[T](s.data)
}
