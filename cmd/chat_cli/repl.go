package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"chat_cli/pkg/agent"
	"chat_cli/pkg/ai"
	"chat_cli/pkg/commands"
	"chat_cli/pkg/config"
	"chat_cli/pkg/display"
	"chat_cli/pkg/version"
)

const inputHistoryFile = "input_history"

// runSession drives the interactive loop. When stdin is not a
// terminal, lines are read from it without prompting so the program
// works in pipes and scripts.
func runSession(a *agent.Agent, providerName, model string) error {
	renderer := display.NewRenderer(os.Stdout)
	dispatcher := commands.NewDispatcher()
	cmdCtx := commands.NewContext(a, ai.ProviderType(providerName))

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return runScripted(a, renderer, dispatcher, cmdCtx)
	}

	renderer.Welcome(version.Summary(), providerName, model)

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	historyPath := filepath.Join(config.ConfigDir(), inputHistoryFile)
	loadInputHistory(line, historyPath)
	defer saveInputHistory(line, historyPath)

	for {
		input, err := line.Prompt("you> ")
		if err != nil {
			// Ctrl+C or Ctrl+D ends the session.
			fmt.Println()
			if err != liner.ErrPromptAborted && err != io.EOF {
				slog.Warn("prompt_read_failed", "error", err)
			}
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if quit := handleInput(a, renderer, dispatcher, cmdCtx, input); quit {
			return nil
		}
	}
}

// runScripted consumes stdin line by line. Commands still work, so a
// scripted session can save or load transcripts.
func runScripted(a *agent.Agent, renderer *display.Renderer, dispatcher *commands.Dispatcher, cmdCtx *commands.Context) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if quit := handleInput(a, renderer, dispatcher, cmdCtx, input); quit {
			return nil
		}
	}
	return scanner.Err()
}

// handleInput routes one line: session command or chat message. The
// return value reports whether the session should end.
func handleInput(a *agent.Agent, renderer *display.Renderer, dispatcher *commands.Dispatcher, cmdCtx *commands.Context, input string) bool {
	if result, handled := dispatcher.Dispatch(input, cmdCtx); handled {
		if result.Error != nil {
			renderer.Error(ai.ErrorInfo{
				ErrorType: ai.KindUnclassified,
				Message:   result.Error.Error(),
			})
		} else {
			renderer.Info(result.Title, result.Content)
		}
		return result.Quit
	}

	reply, err := a.Send(context.Background(), input)
	if err != nil {
		renderer.Error(ai.Classify(err))
		return false
	}

	renderer.Reply(a.Model(), reply)
	return false
}

func loadInputHistory(line *liner.State, path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := line.ReadHistory(f); err != nil {
		slog.Warn("input_history_load_failed", "error", err)
	}
}

func saveInputHistory(line *liner.State, path string) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		slog.Warn("input_history_save_failed", "error", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		slog.Warn("input_history_save_failed", "error", err)
	}
}
