package toolrunner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"go.eggybyte.com/dddmaker/internal/core/errors"
	"go.eggybyte.com/dddmaker/internal/testingx"
)

func TestCheckToolAvailability(t *testing.T) {
	if ok, err := CheckToolAvailability("dddmaker-no-such-tool"); ok || err == nil {
		t.Error("Expected missing tool to be reported")
	}
}

func TestPHPLintMissingBinary(t *testing.T) {
	runner := NewRunner(t.TempDir())
	runner.SetPHPBinary("dddmaker-no-such-php")

	err := runner.PHPLint(context.Background(), []string{"a.php"})
	testingx.AssertErrorCode(t, err, errors.CodeUnavailable)
}

// fakePHP writes a shell script that fails for files named bad.php.
func fakePHP(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "php")
	script := "#!/bin/sh\ncase \"$2\" in\n  *bad.php) echo \"Parse error in $2\"; exit 255;;\nesac\necho \"No syntax errors detected in $2\"\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("Failed to write fake php: %v", err)
	}
	return path
}

func TestPHPLint(t *testing.T) {
	runner := NewRunner(t.TempDir())
	runner.SetPHPBinary(fakePHP(t))

	if err := runner.PHPLint(context.Background(), []string{"good.php", ".gitignore"}); err != nil {
		t.Errorf("Expected clean lint, got %v", err)
	}

	err := runner.PHPLint(context.Background(), []string{"good.php", "bad.php"})
	testingx.AssertErrorCode(t, err, errors.CodeInvalidArgument)
}

func TestExecCapturesOutput(t *testing.T) {
	runner := NewRunner(t.TempDir())
	runner.SetVerbose(false)
	result, err := runner.Exec(context.Background(), fakePHP(t), "-l", "x.php")
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if result.ExitCode != 0 || result.Stdout == "" {
		t.Errorf("Unexpected result: %+v", result)
	}
}
