package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	out := Render("# Joins\n\nUse `JOIN ... ON` to combine tables.", 60)
	if !strings.Contains(out, "Joins") || !strings.Contains(out, "combine tables") {
		t.Fatalf("rendered output lost content:\n%s", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("trailing newline not trimmed")
	}
}

func TestRender_Empty(t *testing.T) {
	if got := Render("  \n", 40); got != "" {
		t.Fatalf("Render(blank) = %q, want empty", got)
	}
}
