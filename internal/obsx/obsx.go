// Package obsx provides OpenTelemetry metrics exported through a private
// Prometheus registry.
//
// Overview:
//   - Responsibility: Own the meter provider for a CLI run and dump it as a Prometheus text file
//   - Key Types: Provider, Options
//   - Concurrency Model: Provider is safe for concurrent use
//   - Error Semantics: Construction and export errors are returned wrapped
//   - Performance Notes: Metrics are gathered once, at export time
//
// Usage:
//
//	provider, err := obsx.NewProvider(ctx, obsx.Options{ServiceName: "dddmaker"})
//	defer provider.Shutdown(ctx)
//	gen, _ := generator.New(stager, opts, generator.WithMeter(provider.Meter("dddmaker")))
//	err = provider.WriteTextfile("metrics/dddmaker.prom")
package obsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Options holds configuration for the metrics provider.
type Options struct {
	ServiceName    string            // Service name resource attribute
	ServiceVersion string            // Service version resource attribute
	ResourceAttrs  map[string]string // Additional resource attributes
}

// Provider manages an OpenTelemetry meter provider with Prometheus export.
// The provider must be shut down when no longer needed.
type Provider struct {
	meterProvider *metric.MeterProvider
	registry      *promclient.Registry
}

// NewProvider creates a new metrics provider with Prometheus export.
//
// Parameters:
//   - ctx: Context for resource detection
//   - opts: Service identity
//
// Returns:
//   - *Provider: Provider instance
//   - error: Construction error if any
func NewProvider(ctx context.Context, opts Options) (*Provider, error) {
	if opts.ServiceName == "" {
		return nil, fmt.Errorf("service name is required")
	}

	res, err := createResource(ctx, opts)
	if err != nil {
		return nil, err
	}

	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(
		prometheus.WithRegisterer(registry),
		prometheus.WithoutUnits(),
		prometheus.WithoutScopeInfo(),
		prometheus.WithoutCounterSuffixes(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(exporter),
	)

	return &Provider{
		meterProvider: mp,
		registry:      registry,
	}, nil
}

func createResource(ctx context.Context, opts Options) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if len(opts.ResourceAttrs) > 0 {
		attrs := make([]attribute.KeyValue, 0, len(opts.ResourceAttrs))
		for k, v := range opts.ResourceAttrs {
			attrs = append(attrs, attribute.String(k, v))
		}
		res, err = resource.Merge(res, resource.NewWithAttributes(semconv.SchemaURL, attrs...))
		if err != nil {
			return nil, fmt.Errorf("failed to add resource attributes: %w", err)
		}
	}

	return res, nil
}

// Meter returns a named meter.
func (p *Provider) Meter(name string) api.Meter {
	return p.meterProvider.Meter(name)
}

// Gatherer exposes the Prometheus registry.
func (p *Provider) Gatherer() promclient.Gatherer {
	return p.registry
}

// WriteTextfile writes the current metrics in Prometheus text format,
// suitable for the node_exporter textfile collector. Parent directories are
// created as needed.
//
// Parameters:
//   - path: Output file; written atomically by the Prometheus client
//
// Returns:
//   - error: Gather or write error if any
func (p *Provider) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := promclient.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.meterProvider.Shutdown(ctx)
}
