// Package display renders session output: assistant replies, command
// results, classified errors and the welcome banner.
package display

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"chat_cli/pkg/ai"
)

// Color palette - ANSI 256 colors used throughout the application
var (
	colorAccent    = lipgloss.Color("141")
	colorText      = lipgloss.Color("252")
	colorTextMuted = lipgloss.Color("245")
	colorError     = lipgloss.Color("196")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	textStyle = lipgloss.NewStyle().
			Foreground(colorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Italic(true)

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 2)
)

// Renderer writes formatted session output to a single destination.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Reply prints an assistant message.
func (r *Renderer) Reply(model, content string) {
	fmt.Fprintln(r.out, RenderReply(model, content))
	fmt.Fprintln(r.out)
}

// Info prints a titled command result.
func (r *Renderer) Info(title, content string) {
	fmt.Fprintln(r.out, RenderInfo(title, content))
	fmt.Fprintln(r.out)
}

// Error prints a classified failure with its suggestion.
func (r *Renderer) Error(info ai.ErrorInfo) {
	fmt.Fprintln(r.out, RenderError(info))
	fmt.Fprintln(r.out)
}

// Welcome prints the session banner.
func (r *Renderer) Welcome(version, provider, model string) {
	fmt.Fprintln(r.out, RenderWelcome(version, provider, model))
	fmt.Fprintln(r.out)
}

// RenderReply formats an assistant message with its model label.
func RenderReply(model, content string) string {
	header := titleStyle.Render(model)
	return header + "\n" + textStyle.Render(strings.TrimRight(content, "\n"))
}

// RenderInfo formats a titled block of command output.
func RenderInfo(title, content string) string {
	if content == "" {
		return titleStyle.Render(title)
	}
	return titleStyle.Render(title) + "\n" + textStyle.Render(content)
}

// RenderError formats a classified error as a bordered box. The
// suggestion line is omitted when the classifier has none.
func RenderError(info ai.ErrorInfo) string {
	var sb strings.Builder
	sb.WriteString(errorTitleStyle.Render(info.ErrorType))
	sb.WriteString("\n")
	sb.WriteString(textStyle.Render(info.Message))
	if info.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render(info.Suggestion))
	}
	return errorBoxStyle.Render(sb.String())
}

// RenderWelcome formats the startup banner.
func RenderWelcome(version, provider, model string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("chat_cli " + version))
	sb.WriteString("\n")
	sb.WriteString(textStyle.Render(fmt.Sprintf("Provider: %s  Model: %s", provider, model)))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("Type a message, or help for commands."))
	return bannerStyle.Render(sb.String())
}
