// Package generator plans and writes DDD module skeletons.
//
// Overview:
//   - Responsibility: Map a module path to a fixed catalog of template bindings and write them as one batch
//   - Key Types: ModuleGenerator, Binding, Writer
//   - Concurrency Model: A ModuleGenerator is stateless between calls; the Writer decides its own safety
//   - Error Semantics: Path errors are INVALID_ARGUMENT; writer errors are returned unchanged
//   - Performance Notes: Planning is pure and allocation-light; rendering happens in the writer
//
// Usage:
//
//	gen, err := generator.New(stager, generator.Options{ProjectDir: "."})
//	err = gen.GenerateFull(ctx, "Billing/Invoice", true)
package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"go.eggybyte.com/dddmaker/internal/core/errors"
	"go.eggybyte.com/dddmaker/internal/core/log"
	"go.eggybyte.com/dddmaker/internal/modulepath"
)

// Defaults applied to zero-valued Options fields.
const (
	DefaultSourceDir = "src"
	DefaultExtension = ".php"
)

// Options controls where and what the generator writes.
type Options struct {
	ProjectDir          string // Project root; destinations are built under it
	SourceDir           string // Source directory relative to ProjectDir
	RootNamespace       string // Namespace prefix for generated classes
	Extension           string // File extension for class files
	SearchSpecification bool   // Add search specifications when specifications are requested
	DbalIDType          bool   // Add the Doctrine DBAL identifier type
}

// Option configures optional collaborators.
type Option func(*ModuleGenerator)

// WithLogger sets the logger for planning and write traces.
func WithLogger(logger log.Logger) Option {
	return func(g *ModuleGenerator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMeter records binding and generation counters on meter.
func WithMeter(meter metric.Meter) Option {
	return func(g *ModuleGenerator) {
		if meter != nil {
			g.meter = meter
		}
	}
}

// ModuleGenerator turns module paths into template bindings and hands them
// to a Writer.
//
// Parameters:
//   - writer: Destination for rendered bindings
//   - opts: Normalized options
//
// Concurrency:
//   - Safe for concurrent planning; generation concurrency depends on the writer
type ModuleGenerator struct {
	writer Writer
	opts   Options
	logger log.Logger
	meter  metric.Meter

	bindings    metric.Int64Counter
	generations metric.Int64Counter
}

// New creates a ModuleGenerator.
//
// Parameters:
//   - w: Writer receiving the bindings
//   - opts: Generator options; zero fields take defaults
//   - options: Optional collaborators (logger, meter)
//
// Returns:
//   - *ModuleGenerator: Ready generator
//   - error: INVALID_ARGUMENT for a nil writer or unusable options
func New(w Writer, opts Options, options ...Option) (*ModuleGenerator, error) {
	if w == nil {
		return nil, errors.New(errors.CodeInvalidArgument, "writer is required")
	}

	normalized, err := normalizeOptions(opts)
	if err != nil {
		return nil, err
	}

	g := &ModuleGenerator{
		writer: w,
		opts:   normalized,
		logger: log.Nop(),
		meter:  noop.NewMeterProvider().Meter("dddmaker"),
	}
	for _, opt := range options {
		opt(g)
	}

	g.bindings, err = g.meter.Int64Counter("dddmaker.bindings",
		metric.WithDescription("Template bindings rendered and staged"),
		metric.WithUnit("{binding}"))
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "generator.metrics", err)
	}
	g.generations, err = g.meter.Int64Counter("dddmaker.generations",
		metric.WithDescription("Module generations committed"),
		metric.WithUnit("{generation}"))
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, "generator.metrics", err)
	}

	return g, nil
}

func normalizeOptions(opts Options) (Options, error) {
	if opts.ProjectDir == "" {
		opts.ProjectDir = "."
	}

	if opts.SourceDir == "" {
		opts.SourceDir = DefaultSourceDir
	}
	src := filepath.Clean(filepath.FromSlash(opts.SourceDir))
	if filepath.IsAbs(src) || src == ".." || strings.HasPrefix(src, ".."+string(filepath.Separator)) {
		return Options{}, errors.Newf(errors.CodeInvalidArgument, "source directory %q must stay inside the project", opts.SourceDir)
	}
	opts.SourceDir = src

	root, err := modulepath.NormalizeRootNamespace(opts.RootNamespace)
	if err != nil {
		return Options{}, err
	}
	opts.RootNamespace = root

	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if !strings.HasPrefix(opts.Extension, ".") || strings.ContainsAny(opts.Extension, `/\`) {
		return Options{}, errors.Newf(errors.CodeInvalidArgument, "invalid file extension %q", opts.Extension)
	}

	return opts, nil
}

// Options returns the normalized options.
func (g *ModuleGenerator) Options() Options {
	return g.opts
}

// PlanBasic returns the three layer-marker bindings for rawPath.
func (g *ModuleGenerator) PlanBasic(rawPath string) ([]Binding, error) {
	return g.plan(rawPath, basicCatalog, false)
}

// PlanFull returns the full skeleton bindings for rawPath in catalog order.
//
// Parameters:
//   - rawPath: Module path as entered by the user
//   - withSpec: Include specification classes
//
// Returns:
//   - []Binding: 9 bindings without specifications, 15 with them under default options
//   - error: INVALID_ARGUMENT for unusable paths
func (g *ModuleGenerator) PlanFull(rawPath string, withSpec bool) ([]Binding, error) {
	return g.plan(rawPath, fullCatalog, withSpec)
}

func (g *ModuleGenerator) plan(rawPath string, catalog []entry, spec bool) ([]Binding, error) {
	p, err := modulepath.Parse(rawPath, g.opts.RootNamespace)
	if err != nil {
		return nil, err
	}

	moduleDir := filepath.Join(g.opts.ProjectDir, g.opts.SourceDir, filepath.FromSlash(p.Normalized()))
	short := p.ShortTypeName()

	bindings := make([]Binding, 0, len(catalog))
	seen := make(map[string]string, len(catalog))
	for _, e := range catalog {
		if !e.include(spec, g.opts) {
			continue
		}

		file := markerFile
		class := ""
		if e.class != "" {
			class = fmt.Sprintf(e.class, short)
			file = class + g.opts.Extension
		}

		dest := filepath.Join(append(append([]string{moduleDir}, e.dir...), file)...)
		if prev, dup := seen[dest]; dup {
			return nil, errors.Newf(errors.CodeInternal, "catalog maps %s and %s to %s", prev, e.template, dest)
		}
		seen[dest] = e.template

		bindings = append(bindings, Binding{
			Template:    e.template,
			Destination: dest,
			Vars:        g.vars(p, e, class),
		})
	}

	g.logger.Debug("planned", log.Str("module", p.Normalized()), log.Int("bindings", len(bindings)))
	return bindings, nil
}

func (g *ModuleGenerator) vars(p modulepath.Path, e entry, class string) Vars {
	v := Vars{}
	if e.vars == varsNone {
		return v
	}

	short := p.ShortTypeName()
	v[VarRootNamespace] = p.RootNamespace()
	v[VarNamespace] = p.Namespace(e.dir...)
	v[VarClassName] = class
	if e.vars == varsClass {
		return v
	}

	v[VarEntityType] = short
	v[VarEntityName] = strings.ToLower(short)
	if e.vars == varsPersistence {
		v[VarEntityClass] = p.Namespace(append(append([]string{}, modelDir...), short)...)
	}
	return v
}

// GenerateBasic writes the basic module skeleton for rawPath.
func (g *ModuleGenerator) GenerateBasic(ctx context.Context, rawPath string) error {
	bindings, err := g.PlanBasic(rawPath)
	if err != nil {
		return err
	}
	return g.Apply(ctx, KindBasic, bindings)
}

// GenerateFull writes the full module skeleton for rawPath.
//
// Parameters:
//   - ctx: Context for metric attribution
//   - rawPath: Module path as entered by the user
//   - withSpec: Include specification classes
//
// Returns:
//   - error: Planning error, or the first writer error unchanged
func (g *ModuleGenerator) GenerateFull(ctx context.Context, rawPath string, withSpec bool) error {
	bindings, err := g.PlanFull(rawPath, withSpec)
	if err != nil {
		return err
	}
	return g.Apply(ctx, KindFull, bindings)
}

// Apply stages bindings in order and commits once. The first writer error
// stops the run and is returned as is; the writer's stage is discarded and
// nothing is committed in that case.
func (g *ModuleGenerator) Apply(ctx context.Context, kind Kind, bindings []Binding) error {
	kindAttr := metric.WithAttributes(attribute.String("kind", string(kind)))

	for i, b := range bindings {
		if err := g.writer.RenderAndStage(b.Destination, b.Template, b.Vars); err != nil {
			g.writer.Discard()
			g.logger.Debug("stage failed", log.Int("index", i), log.Str("destination", b.Destination))
			return err
		}
		g.bindings.Add(ctx, 1, kindAttr)
	}

	if err := g.writer.CommitStagedWrites(); err != nil {
		return err
	}

	g.generations.Add(ctx, 1, kindAttr)
	g.logger.Info("module generated", log.Str("kind", string(kind)), log.Int("files", len(bindings)))
	return nil
}
