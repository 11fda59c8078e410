package projectfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.eggybyte.com/dddmaker/internal/core/errors"
	"go.eggybyte.com/dddmaker/internal/core/log"
)

// Renderer loads a template by id and renders it with data.
type Renderer interface {
	LoadAndRender(templatePath string, data any) (string, error)
}

// StagerOption configures a Stager.
type StagerOption func(*Stager)

// WithOverwrite allows staging destinations that already exist on disk.
func WithOverwrite(enabled bool) StagerOption {
	return func(s *Stager) {
		s.overwrite = enabled
	}
}

// WithLogger sets the logger used for staging traces.
func WithLogger(logger log.Logger) StagerOption {
	return func(s *Stager) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type stagedFile struct {
	abs      string
	rel      string
	template string
	content  []byte
}

// placed tracks one committed file for rollback.
type placed struct {
	file   stagedFile
	backup string
}

// Stager renders templates eagerly and writes all of them in one commit.
//
// A commit either places every staged file or none: files are first written
// to temporary siblings, then renamed into place. When a rename fails the
// files already placed are removed and any overwritten originals restored.
//
// Concurrency:
//   - Not safe for concurrent use
type Stager struct {
	fs        *ProjectFS
	renderer  Renderer
	overwrite bool
	logger    log.Logger

	staged    []stagedFile
	index     map[string]int
	committed []string

	rename func(oldpath, newpath string) error
}

// NewStager creates a Stager writing under fs's root.
//
// Parameters:
//   - fs: Project file system that bounds every destination
//   - renderer: Template source, typically *templates.Loader
//   - opts: Stager options
//
// Returns:
//   - *Stager: Empty stager
func NewStager(fs *ProjectFS, renderer Renderer, opts ...StagerOption) *Stager {
	s := &Stager{
		fs:       fs,
		renderer: renderer,
		logger:   log.Nop(),
		index:    make(map[string]int),
		rename:   os.Rename,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RenderAndStage renders template with vars and stages the result for dest.
//
// Parameters:
//   - dest: Destination file path inside the project root
//   - template: Template id
//   - vars: Placeholder values; every referenced placeholder must be present
//
// Returns:
//   - error: INVALID_ARGUMENT for destinations outside the root or missing placeholders,
//     ALREADY_EXISTS when dest is already staged or exists on disk without overwrite,
//     NOT_FOUND when the template is unknown
func (s *Stager) RenderAndStage(dest, template string, vars map[string]string) error {
	abs, rel, err := s.fs.Resolve(dest)
	if err != nil {
		return err
	}

	if _, dup := s.index[abs]; dup {
		return errors.Newf(errors.CodeAlreadyExists, "destination %s is already staged", rel)
	}

	if !s.overwrite {
		found, err := exists(abs)
		if err != nil {
			return errors.Wrapf(errors.CodeInternal, "projectfs.stage", err, "stat %s", rel)
		}
		if found {
			return errors.Newf(errors.CodeAlreadyExists, "destination %s already exists", rel)
		}
	}

	content, err := s.renderer.LoadAndRender(template, vars)
	if err != nil {
		return err
	}

	s.index[abs] = len(s.staged)
	s.staged = append(s.staged, stagedFile{
		abs:      abs,
		rel:      rel,
		template: template,
		content:  []byte(content),
	})
	s.logger.Debug("staged", log.Str("destination", rel), log.Str("template", template))
	return nil
}

// Staged returns the project-relative destinations currently staged, in order.
func (s *Stager) Staged() []string {
	out := make([]string, len(s.staged))
	for i, f := range s.staged {
		out[i] = f.rel
	}
	return out
}

// Committed returns the destinations written by the last successful commit.
func (s *Stager) Committed() []string {
	out := make([]string, len(s.committed))
	copy(out, s.committed)
	return out
}

// Discard drops all staged writes.
func (s *Stager) Discard() {
	s.staged = nil
	s.index = make(map[string]int)
}

// CommitStagedWrites writes every staged file as one batch and clears the stage.
//
// Returns:
//   - error: ALREADY_EXISTS if a destination appeared since staging (without overwrite),
//     INTERNAL on I/O failure; on error no staged file remains on disk
func (s *Stager) CommitStagedWrites() error {
	files := s.staged
	s.Discard()

	if len(files) == 0 {
		s.committed = nil
		return nil
	}

	var createdDirs []string
	temps := make([]string, len(files))
	cleanupTemps := func() {
		for _, tmp := range temps {
			if tmp != "" {
				_ = os.Remove(tmp)
			}
		}
		removeEmptyDirs(createdDirs)
	}

	for i, f := range files {
		dirs, err := mkdirAll(filepath.Dir(f.abs))
		createdDirs = append(createdDirs, dirs...)
		if err != nil {
			cleanupTemps()
			return errors.Wrapf(errors.CodeInternal, "projectfs.commit", err, "create directory for %s", f.rel)
		}

		tmp, err := writeTemp(f)
		if err != nil {
			cleanupTemps()
			return errors.Wrapf(errors.CodeInternal, "projectfs.commit", err, "write %s", f.rel)
		}
		temps[i] = tmp
	}

	done := make([]placed, 0, len(files))
	rollback := func() {
		for i := len(done) - 1; i >= 0; i-- {
			p := done[i]
			_ = os.Remove(p.file.abs)
			if p.backup != "" {
				_ = os.Rename(p.backup, p.file.abs)
			}
		}
		cleanupTemps()
	}

	for i, f := range files {
		p := placed{file: f}

		found, err := exists(f.abs)
		if err != nil {
			rollback()
			return errors.Wrapf(errors.CodeInternal, "projectfs.commit", err, "stat %s", f.rel)
		}
		if found {
			if !s.overwrite {
				rollback()
				return errors.Newf(errors.CodeAlreadyExists, "destination %s appeared before commit", f.rel)
			}
			backup, err := reserveBackup(f.abs)
			if err != nil {
				rollback()
				return errors.Wrapf(errors.CodeInternal, "projectfs.commit", err, "reserve backup for %s", f.rel)
			}
			if err := s.rename(f.abs, backup); err != nil {
				_ = os.Remove(backup)
				rollback()
				return errors.Wrapf(errors.CodeInternal, "projectfs.commit", err, "back up %s", f.rel)
			}
			p.backup = backup
		}

		if err := s.rename(temps[i], f.abs); err != nil {
			if p.backup != "" {
				_ = os.Rename(p.backup, f.abs)
			}
			rollback()
			return errors.Wrapf(errors.CodeInternal, "projectfs.commit", err, "place %s", f.rel)
		}
		temps[i] = ""
		done = append(done, p)
	}

	s.committed = make([]string, 0, len(done))
	for _, p := range done {
		if p.backup != "" {
			if err := os.Remove(p.backup); err != nil {
				s.logger.Warn("backup not removed", log.Str("path", p.backup), log.Str("error", err.Error()))
			}
		}
		s.committed = append(s.committed, p.file.rel)
	}

	s.logger.Debug("committed", log.Int("files", len(done)))
	return nil
}

func writeTemp(f stagedFile) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(f.abs), "."+filepath.Base(f.abs)+".*.tmp")
	if err != nil {
		return "", err
	}
	name := tmp.Name()

	if _, err := tmp.Write(f.content); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	if err := os.Chmod(name, fileMode); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

// reserveBackup creates a fresh, uniquely named file beside path for its
// backup, so an existing file is never replaced by the backup rename.
func reserveBackup(path string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.bak")
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

// mkdirAll creates dir and returns the directories it created, outermost first.
func mkdirAll(dir string) ([]string, error) {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		found, err := exists(d)
		if err != nil {
			return nil, err
		}
		if found {
			break
		}
		missing = append(missing, d)
		if filepath.Dir(d) == d {
			break
		}
	}

	created := make([]string, 0, len(missing))
	for i := len(missing) - 1; i >= 0; i-- {
		if err := os.Mkdir(missing[i], dirMode); err != nil && !os.IsExist(err) {
			return created, fmt.Errorf("mkdir %s: %w", missing[i], err)
		}
		created = append(created, missing[i])
	}
	return created, nil
}

// removeEmptyDirs removes directories created during a failed commit, deepest first.
func removeEmptyDirs(dirs []string) {
	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err != nil || len(entries) > 0 {
			continue
		}
		_ = os.Remove(dirs[i])
	}
}

// String describes the stage for debug output.
func (s *Stager) String() string {
	return fmt.Sprintf("Stager(%d staged: %s)", len(s.staged), strings.Join(s.Staged(), ", "))
}
