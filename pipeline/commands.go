package pipeline

import (
	"sync"

	"github.com/vitalvas/iris/datastore"
)

// Command is a deferred mutation applied to the State between steps.
type Command interface {
	Execute(s *State)
}

// CommandFunc adapts a function to the Command interface.
type CommandFunc func(s *State)

// Execute calls f(s).
func (f CommandFunc) Execute(s *State) {
	f(s)
}

// Commands queues commands for the current pipeline run. The queue is
// drained by the pipeline after each middleware step returns.
type Commands struct {
	mu    sync.Mutex
	queue []Command
}

// Push enqueues cmd.
func (c *Commands) Push(cmd Command) {
	c.mu.Lock()
	c.queue = append(c.queue, cmd)
	c.mu.Unlock()
}

// Len returns the number of pending commands.
func (c *Commands) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// AddData enqueues a command that binds v as data of type T. The value
// becomes visible to the steps that run after the current one.
func AddData[T any](c *Commands, v T) {
	c.Push(addData[T]{value: v})
}

type addData[T any] struct {
	value T
}

func (a addData[T]) Execute(s *State) {
	datastore.Add(s.data, a.value)
}

// drain executes pending commands in enqueue order until the queue is empty.
// Commands pushed while draining run in the same drain.
func (c *Commands) drain(s *State) {
	for {
		c.mu.Lock()
		pending := c.queue
		c.queue = nil
		c.mu.Unlock()

		if len(pending) == 0 {
			return
		}
		for _, cmd := range pending {
			cmd.Execute(s)
		}
	}
}
