package commands

import (
	"fmt"
	"strings"

	"chat_cli/pkg/ai"
)

// SaveHandler writes the conversation to a file.
type SaveHandler struct{}

func (h *SaveHandler) Name() string        { return "save" }
func (h *SaveHandler) Description() string { return "save <file> - Save the conversation" }

func (h *SaveHandler) Execute(ctx *Context, args string) *Result {
	if args == "" {
		return &Result{Title: "Save", Error: fmt.Errorf("usage: save <filename>")}
	}
	if err := ctx.Agent.Save(args); err != nil {
		return &Result{Title: "Save", Error: err}
	}
	return &Result{Title: "Save", Content: fmt.Sprintf("Conversation saved to %s", args)}
}

// LoadHandler replaces the conversation with a saved file.
type LoadHandler struct{}

func (h *LoadHandler) Name() string        { return "load" }
func (h *LoadHandler) Description() string { return "load <file> - Load a conversation" }

func (h *LoadHandler) Execute(ctx *Context, args string) *Result {
	if args == "" {
		return &Result{Title: "Load", Error: fmt.Errorf("usage: load <filename>")}
	}
	if err := ctx.Agent.Load(args); err != nil {
		return &Result{Title: "Load", Error: err}
	}
	return &Result{Title: "Load", Content: fmt.Sprintf("Conversation loaded from %s", args)}
}

// ClearHandler resets the conversation, keeping the system prompt.
type ClearHandler struct{}

func (h *ClearHandler) Name() string        { return "clear" }
func (h *ClearHandler) Description() string { return "clear - Clear the conversation history" }

func (h *ClearHandler) Execute(ctx *Context, args string) *Result {
	ctx.Agent.Clear(true)
	return &Result{Title: "Clear", Content: "Conversation history cleared"}
}

// SystemHandler replaces the system prompt.
type SystemHandler struct{}

func (h *SystemHandler) Name() string        { return "system" }
func (h *SystemHandler) Description() string { return "system <prompt> - Replace the system prompt" }

func (h *SystemHandler) Execute(ctx *Context, args string) *Result {
	if args == "" {
		return &Result{Title: "System", Error: fmt.Errorf("usage: system <prompt>")}
	}
	ctx.Agent.SetSystemPrompt(args)
	return &Result{Title: "System", Content: "System prompt updated"}
}

// HistoryHandler prints the transcript.
type HistoryHandler struct{}

func (h *HistoryHandler) Name() string        { return "history" }
func (h *HistoryHandler) Description() string { return "history - Show the conversation so far" }

func (h *HistoryHandler) Execute(ctx *Context, args string) *Result {
	messages := ctx.Agent.History()
	if len(messages) == 0 {
		return &Result{Title: "History", Content: "Conversation is empty."}
	}

	var sb strings.Builder
	for i, m := range messages {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, m.Role, m.Content))
	}
	return &Result{Title: "History", Content: strings.TrimRight(sb.String(), "\n")}
}

// ModelsHandler lists known models for the active provider.
type ModelsHandler struct{}

func (h *ModelsHandler) Name() string        { return "models" }
func (h *ModelsHandler) Description() string { return "models - List known models for the provider" }

func (h *ModelsHandler) Execute(ctx *Context, args string) *Result {
	models := ai.KnownModels(ctx.Provider)
	if len(models) == 0 {
		return &Result{Title: "Models", Content: fmt.Sprintf("No known models for provider %q.", ctx.Provider)}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Known %s models (current: %s):\n", ctx.Provider, ctx.Agent.Model()))
	for _, m := range models {
		sb.WriteString(fmt.Sprintf("  %-28s %s\n", m.ID, m.Description))
	}
	return &Result{Title: "Models", Content: strings.TrimRight(sb.String(), "\n")}
}

// HelpHandler prints the command list.
type HelpHandler struct {
	dispatcher *Dispatcher
}

func (h *HelpHandler) Name() string        { return "help" }
func (h *HelpHandler) Description() string { return "help - Show this help message" }

func (h *HelpHandler) Execute(ctx *Context, args string) *Result {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, handler := range h.dispatcher.Handlers() {
		sb.WriteString("  " + handler.Description() + "\n")
	}
	sb.WriteString("\nAnything else is sent to the assistant as a message.")
	return &Result{Title: "Help", Content: sb.String()}
}

// ExitHandler ends the session. Registered under both exit and quit.
type ExitHandler struct {
	name string
}

func (h *ExitHandler) Name() string        { return h.name }
func (h *ExitHandler) Description() string { return h.name + " - End the conversation" }

func (h *ExitHandler) Execute(ctx *Context, args string) *Result {
	return &Result{Title: "Exit", Content: "Goodbye!", Quit: true}
}
