package testingx

import (
	"errors"
	"testing"

	coreerrors "go.eggybyte.com/dddmaker/internal/core/errors"
)

func TestMockLogger(t *testing.T) {
	logger := NewMockLogger(t)
	child := logger.With("module", "Billing")

	logger.Info("first")
	child.Error(errors.New("boom"), "second", "k", "v")

	entries := logger.Entries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[1].Error == nil || len(entries[1].Fields) != 4 {
		t.Errorf("Expected child fields and error, got %+v", entries[1])
	}
	logger.AssertLogged("ERROR", "second")

	logger.Clear()
	if len(logger.Entries()) != 0 {
		t.Error("Expected entries cleared")
	}
}

func TestAssertErrorCode(t *testing.T) {
	AssertErrorCode(t, coreerrors.New(coreerrors.CodeNotFound, "x"), coreerrors.CodeNotFound)
}

func TestProjectDir(t *testing.T) {
	root := ProjectDir(t, map[string]string{
		"src/Kernel.php": "<?php",
		"composer.json":  "{}",
	})

	files := ListFiles(t, root)
	if len(files) != 2 || files[0] != "composer.json" || files[1] != "src/Kernel.php" {
		t.Errorf("Unexpected files: %v", files)
	}
}
