package display

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/x/exp/golden"

	"chat_cli/pkg/ai"
)

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

// stripANSI removes color sequences so golden comparisons do not
// depend on the styling escape codes.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderReply(t *testing.T) {
	out := stripANSI(RenderReply("gpt-4o", "Hello there.\n"))

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "gpt-4o" {
		t.Errorf("Expected model header, got %q", lines[0])
	}
	if lines[1] != "Hello there." {
		t.Errorf("Expected trimmed content, got %q", lines[1])
	}
}

func TestRenderInfoWithoutContent(t *testing.T) {
	out := stripANSI(RenderInfo("Clear", ""))
	if out != "Clear" {
		t.Errorf("Expected bare title, got %q", out)
	}
}

func TestRenderErrorOmitsEmptySuggestion(t *testing.T) {
	info := ai.ErrorInfo{
		ErrorType: ai.KindUnclassified,
		Message:   "something odd",
	}
	out := stripANSI(RenderError(info))
	if strings.Count(out, "\n") != 2 {
		t.Errorf("Expected a 3-line box without suggestion, got:\n%s", out)
	}
}

func TestRenderErrorGolden(t *testing.T) {
	info := ai.ErrorInfo{
		ErrorType:  ai.KindRateLimited,
		Message:    "Rate limit exceeded",
		Suggestion: "Please try again later. The API is currently experiencing high demand.",
	}
	golden.RequireEqual(t, []byte(stripANSI(RenderError(info))))
}

func TestRenderWelcomeGolden(t *testing.T) {
	out := RenderWelcome("v1.0.0-test", "openai", "gpt-4o")
	golden.RequireEqual(t, []byte(stripANSI(out)))
}

func TestRendererWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Info("Help", "some text")
	out := stripANSI(buf.String())
	if !strings.Contains(out, "Help") || !strings.Contains(out, "some text") {
		t.Errorf("Expected title and content in output, got: %s", out)
	}
}
