package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	t.Cleanup(func() {
		SetOutput(nil, nil)
		SetVerbose(false)
		SetJSONOutput(false)
		SetNonInteractive(false)
		SetInput(nil)
	})
	return &out, &errOut
}

func TestDebugHiddenUnlessVerbose(t *testing.T) {
	out, _ := capture(t)

	Debug("hidden %d", 1)
	if out.Len() != 0 {
		t.Errorf("Expected no debug output, got %q", out.String())
	}

	SetVerbose(true)
	Debug("shown %d", 2)
	if !strings.Contains(out.String(), "DEBUG: shown 2") {
		t.Errorf("Expected debug output, got %q", out.String())
	}
}

func TestErrorGoesToStderr(t *testing.T) {
	out, errOut := capture(t)

	Error("boom")
	if out.Len() != 0 {
		t.Errorf("Expected nothing on stdout, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "ERROR: boom") {
		t.Errorf("Expected error on stderr, got %q", errOut.String())
	}
}

func TestJSONOutput(t *testing.T) {
	out, _ := capture(t)
	SetJSONOutput(true)

	Result([]string{"a.php"}, "wrote %d files", 1)

	var msg Message
	if err := json.Unmarshal(out.Bytes(), &msg); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", out.String(), err)
	}
	if msg.Level != LevelSuccess || msg.Text != "wrote 1 files" {
		t.Errorf("Unexpected message: %+v", msg)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{"yes", "y\n", false, true},
		{"no", "no\n", true, false},
		{"empty uses default", "\n", true, true},
		{"eof uses default", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture(t)
			SetInput(strings.NewReader(tt.input))
			if got := Confirm(tt.defaultYes, "Include specifications?"); got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAskNonInteractiveReturnsDefault(t *testing.T) {
	out, _ := capture(t)
	SetNonInteractive(true)
	SetInput(strings.NewReader("Billing/Invoice\n"))

	if got := Ask("Module path", "Catalog"); got != "Catalog" {
		t.Errorf("Expected default, got %q", got)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no prompt in non-interactive mode, got %q", out.String())
	}
}

func TestAsk(t *testing.T) {
	capture(t)
	SetInput(strings.NewReader("  Billing/Invoice  \n"))

	if got := Ask("Module path", ""); got != "Billing/Invoice" {
		t.Errorf("Expected trimmed answer, got %q", got)
	}
}
