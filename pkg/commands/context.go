package commands

import (
	"chat_cli/pkg/agent"
	"chat_cli/pkg/ai"
)

// Context contains all the context needed for command execution.
type Context struct {
	Agent    *agent.Agent
	Provider ai.ProviderType
}

// NewContext creates a new command context.
func NewContext(a *agent.Agent, provider ai.ProviderType) *Context {
	return &Context{
		Agent:    a,
		Provider: provider,
	}
}
