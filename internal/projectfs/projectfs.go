// Package projectfs provides project file system operations and staged writes.
//
// Overview:
//   - Responsibility: Resolve paths inside a project root, read and write files, stage rendered templates
//   - Key Types: ProjectFS for direct file operations, Stager for batched template writes
//   - Concurrency Model: ProjectFS is stateless beyond its root; Stager is single-goroutine
//   - Error Semantics: core/errors codes (INVALID_ARGUMENT, ALREADY_EXISTS, NOT_FOUND, INTERNAL)
//   - Performance Notes: Rendered content is held in memory until commit
//
// Usage:
//
//	pfs := projectfs.NewProjectFS(".")
//	stager := projectfs.NewStager(pfs, templates.NewLoader())
//	err := stager.RenderAndStage("src/Billing/Invoice/Domain/Model/Invoice.php", tpl, vars)
//	err = stager.CommitStagedWrites()
package projectfs

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.eggybyte.com/dddmaker/internal/core/errors"
	"go.eggybyte.com/dddmaker/internal/core/log"
)

const (
	dirMode  iofs.FileMode = 0o755
	fileMode iofs.FileMode = 0o644
)

// ProjectFS provides file system operations rooted at a project directory.
//
// Parameters:
//   - rootDir: Root directory for operations
//   - logger: Debug logger for file operations
//
// Concurrency:
//   - Safe for concurrent use
type ProjectFS struct {
	rootDir string
	logger  log.Logger
}

// NewProjectFS creates a new project file system.
//
// Parameters:
//   - rootDir: Root directory for operations
//
// Returns:
//   - *ProjectFS: Project file system instance
func NewProjectFS(rootDir string) *ProjectFS {
	if rootDir == "" {
		rootDir = "."
	}
	return &ProjectFS{
		rootDir: rootDir,
		logger:  log.Nop(),
	}
}

// SetLogger sets the logger used for file operation traces.
func (p *ProjectFS) SetLogger(logger log.Logger) {
	if logger == nil {
		logger = log.Nop()
	}
	p.logger = logger
}

// GetRootDir returns the root directory.
func (p *ProjectFS) GetRootDir() string {
	return p.rootDir
}

// GetAbsolutePath returns the absolute path for a project-relative path.
func (p *ProjectFS) GetAbsolutePath(path string) string {
	abs, err := filepath.Abs(filepath.Join(p.rootDir, path))
	if err != nil {
		return filepath.Join(p.rootDir, path)
	}
	return abs
}

// Resolve maps a destination to an absolute path inside the project root.
// Relative destinations are taken as they are seen from the working directory,
// matching how the paths were built.
//
// Parameters:
//   - dest: Destination path, absolute or relative to the working directory
//
// Returns:
//   - abs: Absolute destination path
//   - rel: Destination relative to the project root, slash separated
//   - err: INVALID_ARGUMENT if dest leaves the project root
func (p *ProjectFS) Resolve(dest string) (abs string, rel string, err error) {
	if strings.TrimSpace(dest) == "" {
		return "", "", errors.New(errors.CodeInvalidArgument, "destination is empty")
	}

	root, err := filepath.Abs(p.rootDir)
	if err != nil {
		return "", "", errors.Wrap(errors.CodeInternal, "projectfs.resolve", err)
	}
	abs, err = filepath.Abs(dest)
	if err != nil {
		return "", "", errors.Wrap(errors.CodeInternal, "projectfs.resolve", err)
	}

	r, err := filepath.Rel(root, abs)
	if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", "", errors.Newf(errors.CodeInvalidArgument, "destination %s is outside project root %s", dest, p.rootDir)
	}
	return abs, filepath.ToSlash(r), nil
}

// EnsureDirectory creates a project-relative directory if it does not exist.
func (p *ProjectFS) EnsureDirectory(path string) error {
	fullPath := filepath.Join(p.rootDir, path)
	if err := os.MkdirAll(fullPath, dirMode); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// WriteFile writes content to a project-relative path, creating parent directories.
//
// Parameters:
//   - path: File path relative to root
//   - content: File content
//   - mode: File permissions
//
// Returns:
//   - error: Write error if any
func (p *ProjectFS) WriteFile(path, content string, mode iofs.FileMode) error {
	fullPath := filepath.Join(p.rootDir, path)

	if err := os.MkdirAll(filepath.Dir(fullPath), dirMode); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", path, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	p.logger.Debug("file written", log.Str("path", path))
	return nil
}

// WriteFileIfNotExists writes content only if the file does not already exist.
//
// Returns:
//   - bool: True if file was written
//   - error: Write error if any
func (p *ProjectFS) WriteFileIfNotExists(path, content string, mode iofs.FileMode) (bool, error) {
	exists, err := p.FileExists(path)
	if err != nil {
		return false, err
	}
	if exists {
		p.logger.Debug("file exists, skipping", log.Str("path", path))
		return false, nil
	}
	return true, p.WriteFile(path, content, mode)
}

// FileExists reports whether a project-relative path exists.
func (p *ProjectFS) FileExists(path string) (bool, error) {
	return exists(filepath.Join(p.rootDir, path))
}

// DirectoryExists reports whether a project-relative path is an existing directory.
func (p *ProjectFS) DirectoryExists(path string) (bool, error) {
	info, err := os.Stat(filepath.Join(p.rootDir, path))
	if err == nil {
		return info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ReadFile reads a project-relative file.
func (p *ProjectFS) ReadFile(path string) (string, error) {
	content, err := os.ReadFile(filepath.Join(p.rootDir, path))
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return string(content), nil
}

// RemoveFile removes a project-relative file. Missing files are ignored.
func (p *ProjectFS) RemoveFile(path string) error {
	if err := os.Remove(filepath.Join(p.rootDir, path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file %s: %w", path, err)
	}
	p.logger.Debug("file removed", log.Str("path", path))
	return nil
}

func exists(fullPath string) (bool, error) {
	_, err := os.Lstat(fullPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
