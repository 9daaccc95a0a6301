// Package commands routes the interactive session commands (help,
// save, load, clear and friends). Free-form input that matches no
// command is a chat message and stays with the caller.
package commands

import (
	"strings"
)

// Result represents the result of a command execution.
type Result struct {
	Title   string
	Content string
	Error   error
	Quit    bool
}

// Handler is the interface for command handlers.
type Handler interface {
	Execute(ctx *Context, args string) *Result
	Name() string
	Description() string
}

// Dispatcher routes commands to their handlers.
type Dispatcher struct {
	handlers map[string]Handler
	order    []string
}

// NewDispatcher creates a dispatcher with the default handlers.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
	}

	d.Register(&HelpHandler{dispatcher: d})
	d.Register(&SaveHandler{})
	d.Register(&LoadHandler{})
	d.Register(&ClearHandler{})
	d.Register(&SystemHandler{})
	d.Register(&HistoryHandler{})
	d.Register(&ModelsHandler{})
	d.Register(&ExitHandler{name: "exit"})
	d.Register(&ExitHandler{name: "quit"})

	return d
}

// Register adds a handler to the dispatcher.
func (d *Dispatcher) Register(h Handler) {
	if _, exists := d.handlers[h.Name()]; !exists {
		d.order = append(d.order, h.Name())
	}
	d.handlers[h.Name()] = h
}

// Dispatch executes the command in input. The second return value is
// false when the input is not a command; the caller should treat it
// as a chat message.
func (d *Dispatcher) Dispatch(input string, ctx *Context) (*Result, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, false
	}

	name, args, _ := strings.Cut(trimmed, " ")
	handler, ok := d.handlers[strings.ToLower(name)]
	if !ok {
		return nil, false
	}

	return handler.Execute(ctx, strings.TrimSpace(args)), true
}

// GetHandler returns a handler by name.
func (d *Dispatcher) GetHandler(cmdName string) (Handler, bool) {
	h, ok := d.handlers[cmdName]
	return h, ok
}

// Handlers returns the registered handlers in registration order.
func (d *Dispatcher) Handlers() []Handler {
	out := make([]Handler, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.handlers[name])
	}
	return out
}
