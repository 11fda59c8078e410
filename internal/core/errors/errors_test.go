package errors

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidArgument, "module path is empty")
	if err == nil {
		t.Fatal("New should return non-nil error")
	}

	var customErr *E
	if !errors.As(err, &customErr) {
		t.Fatal("Error should be of type *E")
	}

	if customErr.Code != CodeInvalidArgument {
		t.Errorf("Expected code %s, got %s", CodeInvalidArgument, customErr.Code)
	}

	if got := err.Error(); got != "INVALID_ARGUMENT: module path is empty" {
		t.Errorf("Unexpected message: %q", got)
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(CodeNotFound, "templates.load", fs.ErrNotExist)

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("Wrapped error should match the original error")
	}
	if CodeOf(err) != CodeNotFound {
		t.Errorf("Expected code %s, got %s", CodeNotFound, CodeOf(err))
	}
	if !strings.HasPrefix(err.Error(), "templates.load: NOT_FOUND") {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(CodeAlreadyExists, "projectfs.stage", fs.ErrExist, "destination %s", "src/A.php")

	if !strings.Contains(err.Error(), "destination src/A.php") {
		t.Errorf("Expected formatted message, got %q", err.Error())
	}
	if !IsCode(err, CodeAlreadyExists) {
		t.Error("Expected ALREADY_EXISTS code")
	}
}

func TestCodeOfThroughFmtWrapping(t *testing.T) {
	base := New(CodeInternal, "boom")
	wrapped := errorsJoin(base)

	if CodeOf(wrapped) != CodeInternal {
		t.Errorf("Expected code to survive fmt wrapping, got %q", CodeOf(wrapped))
	}
	if CodeOf(nil) != "" {
		t.Error("CodeOf(nil) should be empty")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Error("CodeOf(plain) should be empty")
	}
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("context"), err)
}
