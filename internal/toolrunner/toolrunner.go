// Package toolrunner provides execution of external tools and commands.
//
// Overview:
//   - Responsibility: Execute php and other project tools against generated files
//   - Key Types: Runner, CommandResult
//   - Concurrency Model: Sequential command execution with context support
//   - Error Semantics: UNAVAILABLE when a tool is missing, INVALID_ARGUMENT when a file fails lint
//   - Performance Notes: Command output captured in memory
//
// Usage:
//
//	runner := toolrunner.NewRunner(projectDir)
//	err := runner.PHPLint(ctx, files)
package toolrunner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.eggybyte.com/dddmaker/internal/core/errors"
	"go.eggybyte.com/dddmaker/internal/ui"
)

// Runner provides execution of external tools.
//
// Concurrency:
//   - Safe for concurrent use once configured
type Runner struct {
	workDir string
	verbose bool
	php     string
}

// CommandResult represents the result of a command execution.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewRunner creates a new tool runner.
//
// Parameters:
//   - workDir: Working directory for commands
//
// Returns:
//   - *Runner: Tool runner instance
func NewRunner(workDir string) *Runner {
	return &Runner{
		workDir: workDir,
		php:     "php",
	}
}

// SetVerbose enables or disables verbose output.
func (r *Runner) SetVerbose(enabled bool) {
	r.verbose = enabled
}

// GetVerbose returns the verbose setting.
func (r *Runner) GetVerbose() bool {
	return r.verbose
}

// SetPHPBinary overrides the php executable name or path.
func (r *Runner) SetPHPBinary(name string) {
	if name != "" {
		r.php = name
	}
}

// execute runs a command and returns the result.
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Command name
//   - args: Command arguments
//
// Returns:
//   - *CommandResult: Command execution result, also set on failure
//   - error: Execution error if any
func (r *Runner) execute(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.workDir

	if r.verbose {
		ui.Debug("Running: %s %s", name, strings.Join(args, " "))
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &CommandResult{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		return result, fmt.Errorf("command failed: %w", err)
	}
	return result, nil
}

// Exec runs an arbitrary command.
func (r *Runner) Exec(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	return r.execute(ctx, name, args...)
}

// PHPLint runs "php -l" on each file and stops at the first failure.
//
// Parameters:
//   - ctx: Context for cancellation
//   - files: Paths relative to the working directory
//
// Returns:
//   - error: UNAVAILABLE when php is missing, INVALID_ARGUMENT naming the first file with a syntax error
func (r *Runner) PHPLint(ctx context.Context, files []string) error {
	if available, err := CheckToolAvailability(r.php); !available {
		return errors.Wrap(errors.CodeUnavailable, "toolrunner.lint", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file, ".php") {
			continue
		}
		result, err := r.execute(ctx, r.php, "-l", file)
		if err != nil {
			if ctx.Err() != nil {
				return errors.Wrap(errors.CodeUnavailable, "toolrunner.lint", ctx.Err())
			}
			output := strings.TrimSpace(result.Stdout + "\n" + result.Stderr)
			return errors.Newf(errors.CodeInvalidArgument, "php lint failed for %s: %s", file, output)
		}
	}
	return nil
}

// CheckToolAvailability checks if a tool is available in PATH.
//
// Parameters:
//   - toolName: Name of the tool to check
//
// Returns:
//   - bool: True if tool is available
//   - error: Error if tool is not found
func CheckToolAvailability(toolName string) (bool, error) {
	if _, err := exec.LookPath(toolName); err != nil {
		return false, fmt.Errorf("tool not found in PATH: %s", toolName)
	}
	return true, nil
}
