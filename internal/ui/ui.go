// Package ui provides unified output formatting for the dddmaker CLI.
//
// Overview:
//   - Responsibility: User-facing messages, step indicators and interactive prompts
//   - Key Types: Message for JSON output, package-level mode switches
//   - Concurrency Model: Thread-safe output operations
//   - Error Semantics: Prompts fall back to defaults when input is unavailable
//   - Performance Notes: Unbuffered writes, minimal allocations
//
// Usage:
//
//	ui.Info("Generating module %s", path)
//	ui.Error("Failed to generate module: %v", err)
package ui

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	verbose        bool
	nonInteractive bool
	jsonOutput     bool
	stdout         io.Writer = os.Stdout
	stderr         io.Writer = os.Stderr
	stdin          *bufio.Reader
	mu             sync.RWMutex
)

// OutputLevel represents the severity level of a message.
type OutputLevel string

const (
	LevelDebug   OutputLevel = "debug"
	LevelInfo    OutputLevel = "info"
	LevelWarning OutputLevel = "warning"
	LevelError   OutputLevel = "error"
	LevelSuccess OutputLevel = "success"
)

// Message represents a structured output message.
//
// Parameters:
//   - Level: Message severity level
//   - Text: Human-readable message content
//   - Data: Optional structured data for JSON output
//   - Timestamp: When the message was created
//
// Concurrency:
//   - Safe for concurrent access
type Message struct {
	Level     OutputLevel `json:"level"`
	Text      string      `json:"text"`
	Data      any         `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// SetVerbose enables or disables debug output.
func SetVerbose(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = enabled
}

// IsVerbose reports whether debug output is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetNonInteractive disables interactive prompts.
//
// Parameters:
//   - enabled: Whether prompts return their defaults without reading input
//
// Concurrency:
//   - Thread-safe
func SetNonInteractive(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	nonInteractive = enabled
}

// IsNonInteractive reports whether prompts are disabled.
func IsNonInteractive() bool {
	mu.RLock()
	defer mu.RUnlock()
	return nonInteractive
}

// SetJSONOutput enables JSON-formatted output.
func SetJSONOutput(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonOutput = enabled
}

// IsJSONOutput reports whether JSON output is enabled.
func IsJSONOutput() bool {
	mu.RLock()
	defer mu.RUnlock()
	return jsonOutput
}

// SetOutput redirects regular and error output. A nil writer keeps the current one.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// SetInput sets the reader prompts consume answers from.
func SetInput(r io.Reader) {
	mu.Lock()
	defer mu.Unlock()
	if r == nil {
		stdin = nil
		return
	}
	stdin = bufio.NewReader(r)
}

func output(level OutputLevel, data any, format string, args ...any) {
	mu.RLock()
	useJSON := jsonOutput
	useVerbose := verbose
	out, errOut := stdout, stderr
	mu.RUnlock()

	// Skip debug messages if not verbose
	if level == LevelDebug && !useVerbose {
		return
	}

	text := fmt.Sprintf(format, args...)
	message := Message{
		Level:     level,
		Text:      text,
		Data:      data,
		Timestamp: time.Now(),
	}

	if useJSON {
		encoder := json.NewEncoder(out)
		if err := encoder.Encode(message); err != nil {
			fmt.Fprintf(errOut, "Failed to encode JSON output: %v\n", err)
		}
		return
	}

	writer := out
	if level == LevelError {
		writer = errOut
	}

	var prefix string
	switch level {
	case LevelDebug:
		prefix = "🔍 DEBUG:"
	case LevelInfo:
		prefix = "ℹ️  INFO:"
	case LevelWarning:
		prefix = "⚠️  WARN:"
	case LevelError:
		prefix = "❌ ERROR:"
	case LevelSuccess:
		prefix = "✅ SUCCESS:"
	}

	fmt.Fprintf(writer, "%s %s\n", prefix, text)
}

// Debug outputs a debug message, shown only in verbose mode.
func Debug(format string, args ...any) {
	output(LevelDebug, nil, format, args...)
}

// Info outputs an informational message.
func Info(format string, args ...any) {
	output(LevelInfo, nil, format, args...)
}

// Warning outputs a warning message.
func Warning(format string, args ...any) {
	output(LevelWarning, nil, format, args...)
}

// Error outputs an error message to stderr.
func Error(format string, args ...any) {
	output(LevelError, nil, format, args...)
}

// Success outputs a success message.
func Success(format string, args ...any) {
	output(LevelSuccess, nil, format, args...)
}

// Result outputs a message carrying structured data. In JSON mode the data is
// embedded in the message; otherwise only the text is printed.
//
// Parameters:
//   - data: Value attached to the JSON message
//   - format: Printf-style format string
//   - args: Format arguments
//
// Concurrency:
//   - Thread-safe
func Result(data any, format string, args ...any) {
	output(LevelSuccess, data, format, args...)
}

// Step outputs a step indicator with message.
//
// Parameters:
//   - step: Step number
//   - total: Total number of steps
//   - format: Printf-style format string
//   - args: Format arguments
//
// Concurrency:
//   - Thread-safe
func Step(step, total int, format string, args ...any) {
	mu.RLock()
	useJSON := jsonOutput
	out := stdout
	mu.RUnlock()

	if useJSON {
		Debug(format, args...)
		return
	}

	text := fmt.Sprintf(format, args...)
	fmt.Fprintf(out, "  [%d/%d] %s\n", step, total, text)
}

// Confirm prompts the user for a yes/no answer.
//
// Parameters:
//   - defaultYes: Answer returned in non-interactive mode or on empty input
//   - format: Printf-style format string
//   - args: Format arguments
//
// Returns:
//   - bool: True if user confirmed
//
// Concurrency:
//   - Single-threaded (blocks on user input)
func Confirm(defaultYes bool, format string, args ...any) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	answer, ok := prompt(fmt.Sprintf("❓ %s %s: ", fmt.Sprintf(format, args...), hint))
	if !ok || answer == "" {
		return defaultYes
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultYes
	}
}

// Ask prompts the user for a line of text.
//
// Parameters:
//   - question: Prompt text
//   - def: Value returned in non-interactive mode or on empty input
//
// Returns:
//   - string: Trimmed answer or def
//
// Concurrency:
//   - Single-threaded (blocks on user input)
func Ask(question, def string) string {
	label := "❓ " + question
	if def != "" {
		label += fmt.Sprintf(" [%s]", def)
	}

	answer, ok := prompt(label + ": ")
	if !ok || answer == "" {
		return def
	}
	return answer
}

func prompt(label string) (string, bool) {
	mu.Lock()
	if nonInteractive {
		mu.Unlock()
		return "", false
	}
	if stdin == nil {
		stdin = bufio.NewReader(os.Stdin)
	}
	in, out := stdin, stdout
	mu.Unlock()

	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
