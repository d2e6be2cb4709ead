package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/errilaz/grimo/internal/version"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { RootCmd.SetArgs(nil) })

	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	out := strings.TrimSpace(buf.String())
	if out != version.String() {
		t.Errorf("version output = %q, want %q", out, version.String())
	}
	if !strings.HasPrefix(out, "grimo v") {
		t.Errorf("version output = %q", out)
	}
}
