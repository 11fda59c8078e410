// Package templates provides template loading and rendering functionality.
//
// Overview:
//   - Responsibility: Load and render skeleton templates for module scaffolding
//   - Key Types: Loader with embedded skeleton and optional override directory
//   - Concurrency Model: Loader is immutable after construction
//   - Error Semantics: NOT_FOUND for unknown templates, INVALID_ARGUMENT for bad ids or missing placeholders
//   - Performance Notes: Templates are parsed per render; the skeleton is small
//
// Usage:
//
//	loader := templates.NewLoader(templates.WithOverrideDir("skeleton"))
//	rendered, err := loader.LoadAndRender("src/Module/Domain/Model/Entity.php.tmpl", vars)
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"go.eggybyte.com/dddmaker/internal/core/errors"
)

//go:embed all:skeleton
var skeletonFS embed.FS

// Template sources reported by Source.
const (
	SourceEmbedded = "embedded"
	SourceOverride = "override"
)

// Loader provides template loading and rendering functionality.
//
// Parameters:
//   - embedded: Built-in skeleton
//   - override: Optional directory whose files take precedence
//
// Concurrency:
//   - Safe for concurrent use
type Loader struct {
	embedded    fs.FS
	override    fs.FS
	overrideDir string
	funcs       template.FuncMap
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithOverrideDir makes files under dir win over the embedded skeleton. An
// empty dir disables overrides.
func WithOverrideDir(dir string) LoaderOption {
	return func(l *Loader) {
		if dir == "" {
			return
		}
		l.overrideDir = dir
		l.override = os.DirFS(dir)
	}
}

// WithFS replaces the embedded skeleton. Used by tests.
func WithFS(fsys fs.FS) LoaderOption {
	return func(l *Loader) {
		l.embedded = fsys
	}
}

// NewLoader creates a new template loader.
//
// Parameters:
//   - opts: Loader options
//
// Returns:
//   - *Loader: Template loader instance
//
// Concurrency:
//   - Safe for concurrent use
//
// Performance:
//   - Builds the function map once
func NewLoader(opts ...LoaderOption) *Loader {
	sub, err := fs.Sub(skeletonFS, "skeleton")
	if err != nil {
		// The directory is embedded at build time.
		panic(fmt.Sprintf("templates: embedded skeleton missing: %v", err))
	}

	l := &Loader{
		embedded: sub,
		funcs:    funcMap(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// funcMap merges sprig's text functions with the short aliases used by the
// skeleton templates.
func funcMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["ToUpper"] = strings.ToUpper
	funcs["ToLower"] = strings.ToLower
	funcs["Title"] = funcs["title"]
	return funcs
}

// OverrideDir returns the configured override directory, if any.
func (l *Loader) OverrideDir() string {
	return l.overrideDir
}

// LoadTemplate loads a template by id.
//
// Parameters:
//   - templatePath: Slash-separated id relative to the skeleton root
//
// Returns:
//   - string: Template content
//   - error: INVALID_ARGUMENT for ids escaping the root, NOT_FOUND when absent
func (l *Loader) LoadTemplate(templatePath string) (string, error) {
	content, _, err := l.read(templatePath)
	return content, err
}

// Source reports whether a template resolves to the override directory or
// the embedded skeleton.
func (l *Loader) Source(templatePath string) (string, error) {
	_, src, err := l.read(templatePath)
	return src, err
}

func (l *Loader) read(templatePath string) (string, string, error) {
	id, err := cleanID(templatePath)
	if err != nil {
		return "", "", err
	}

	if l.override != nil {
		content, err := fs.ReadFile(l.override, id)
		if err == nil {
			return string(content), SourceOverride, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", "", errors.Wrapf(errors.CodeInternal, "templates.load", err, "read override %s", id)
		}
	}

	content, err := fs.ReadFile(l.embedded, id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", errors.Wrapf(errors.CodeNotFound, "templates.load", err, "template %s", id)
		}
		return "", "", errors.Wrapf(errors.CodeInternal, "templates.load", err, "template %s", id)
	}
	return string(content), SourceEmbedded, nil
}

func cleanID(templatePath string) (string, error) {
	id := path.Clean(strings.ReplaceAll(templatePath, `\`, "/"))
	id = strings.TrimPrefix(id, "/")
	if id == "." || id == "" || id == ".." || strings.HasPrefix(id, "../") {
		return "", errors.Newf(errors.CodeInvalidArgument, "invalid template id %q", templatePath)
	}
	return id, nil
}

// RenderTemplate renders template content with the provided data. Referencing
// a key absent from a map is an error.
//
// Parameters:
//   - templateContent: Template content
//   - data: Template data, usually a map of placeholder values
//
// Returns:
//   - string: Rendered content
//   - error: INTERNAL on parse failure, INVALID_ARGUMENT on execution failure
func (l *Loader) RenderTemplate(templateContent string, data any) (string, error) {
	return l.render("template", templateContent, data)
}

func (l *Loader) render(name, content string, data any) (string, error) {
	tmpl, err := l.parse(name, content)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", errors.Wrapf(errors.CodeInvalidArgument, "templates.render", err, "render %s", name)
	}

	return result.String(), nil
}

func (l *Loader) parse(name, content string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(l.funcs).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, errors.Wrapf(errors.CodeInternal, "templates.parse", err, "parse %s", name)
	}
	return tmpl, nil
}

// LoadAndRender loads a template and renders it with data.
func (l *Loader) LoadAndRender(templatePath string, data any) (string, error) {
	content, err := l.LoadTemplate(templatePath)
	if err != nil {
		return "", err
	}

	return l.render(templatePath, content, data)
}

// ListTemplates lists all available template ids, overrides included, sorted.
//
// Returns:
//   - []string: Template ids
//   - error: Walk error if any
//
// Performance:
//   - Directory traversal of both sources
func (l *Loader) ListTemplates() ([]string, error) {
	seen := make(map[string]struct{})

	collect := func(fsys fs.FS) error {
		return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".tmpl") {
				seen[p] = struct{}{}
			}
			return nil
		})
	}

	if err := collect(l.embedded); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "templates.list", err)
	}
	if l.override != nil {
		if err := collect(l.override); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.CodeInternal, "templates.list", err)
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ValidateTemplate checks that a template exists and parses.
func (l *Loader) ValidateTemplate(templatePath string) error {
	content, err := l.LoadTemplate(templatePath)
	if err != nil {
		return err
	}
	_, err = l.parse(templatePath, content)
	return err
}

// ValidateAllTemplates parses every available template.
//
// Returns:
//   - map[string]error: Failures keyed by template id (empty when all parse)
//   - error: Listing error if any
func (l *Loader) ValidateAllTemplates() (map[string]error, error) {
	ids, err := l.ListTemplates()
	if err != nil {
		return nil, err
	}

	failures := make(map[string]error)
	for _, id := range ids {
		if err := l.ValidateTemplate(id); err != nil {
			failures[id] = err
		}
	}
	return failures, nil
}
