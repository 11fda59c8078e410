package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.eggybyte.com/dddmaker/internal/configschema"
	"go.eggybyte.com/dddmaker/internal/core/log"
	"go.eggybyte.com/dddmaker/internal/logx"
	"go.eggybyte.com/dddmaker/internal/projectfs"
	"go.eggybyte.com/dddmaker/internal/templates"
	"go.eggybyte.com/dddmaker/internal/ui"
)

// session holds what every command needs: the loaded configuration with its
// paths resolved against the project directory, and a logger.
type session struct {
	projectDir string
	configFile string
	config     *configschema.Config
	diags      *configschema.Diagnostics
	logger     log.Logger
	fs         *projectfs.ProjectFS
}

// loadSession loads configuration for the current flags.
//
// Returns:
//   - *session: Ready session
//   - error: Configuration could not be read or is invalid
func loadSession() (*session, error) {
	dir := projectDir
	if dir == "" {
		dir = "."
	}

	file := configPath
	if file == "" {
		file = filepath.Join(dir, configschema.DefaultFileName)
	}

	env, err := configschema.Environment(filepath.Join(dir, configschema.EnvFileName))
	if err != nil {
		return nil, err
	}

	config, diags := configschema.LoadWithEnv(file, env)
	if config == nil {
		return nil, fmt.Errorf("failed to load configuration: %s", diags.Error())
	}

	logger := newLogger(config.Logging)

	s := &session{
		projectDir: dir,
		configFile: file,
		config:     config,
		diags:      diags,
		logger:     logger,
		fs:         projectfs.NewProjectFS(dir),
	}
	s.fs.SetLogger(logger)
	s.resolvePaths()

	for _, d := range diags.Items() {
		if d.Severity == configschema.SeverityWarning {
			ui.Warning("%s: %s", d.Path, d.Message)
		}
	}
	if diags.HasErrors() {
		return s, fmt.Errorf("invalid configuration %s: %s", file, diags.Error())
	}
	return s, nil
}

// newLogger builds the diagnostic logger. An unknown level falls back to info;
// validation reports it separately.
func newLogger(cfg configschema.LoggingConfig) log.Logger {
	level, _ := logx.ParseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}
	return logx.New(
		logx.WithFormat(logx.Format(cfg.Format)),
		logx.WithLevel(level),
		logx.WithWriter(os.Stderr),
	)
}

// resolvePaths makes configured paths relative to the project directory.
func (s *session) resolvePaths() {
	c := s.config
	if c.SkeletonDir != "" {
		c.SkeletonDir = s.inProject(c.SkeletonDir)
	}
	if c.Metrics.Textfile != "" {
		c.Metrics.Textfile = s.inProject(c.Metrics.Textfile)
	}
	if c.Journal.Driver == "sqlite" && isFileDSN(c.Journal.DSN) {
		c.Journal.DSN = s.inProject(c.Journal.DSN)
	}
}

func (s *session) inProject(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.projectDir, path)
}

func isFileDSN(dsn string) bool {
	return dsn != "" && !strings.HasPrefix(dsn, "file:") && !strings.Contains(dsn, ":memory:")
}

// loader returns a template loader honoring the configured skeleton directory.
func (s *session) loader() *templates.Loader {
	if s.config.SkeletonDir == "" {
		return templates.NewLoader()
	}
	return templates.NewLoader(templates.WithOverrideDir(s.config.SkeletonDir))
}

// relative reports path relative to the project directory for display.
func (s *session) relative(path string) string {
	if _, rel, err := s.fs.Resolve(path); err == nil {
		return rel
	}
	return path
}
