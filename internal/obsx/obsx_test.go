package obsx

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/attribute"
)

func TestNewProviderRequiresServiceName(t *testing.T) {
	if _, err := NewProvider(context.Background(), Options{}); err == nil {
		t.Error("Expected error for missing service name")
	}
}

func TestWriteTextfile(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Options{
		ServiceName:    "dddmaker",
		ServiceVersion: "test",
		ResourceAttrs:  map[string]string{"project": "demo"},
	})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	defer provider.Shutdown(ctx)

	counter, err := provider.Meter("dddmaker").Int64Counter("dddmaker.generations")
	if err != nil {
		t.Fatalf("Int64Counter failed: %v", err)
	}
	counter.Add(ctx, 2, api.WithAttributes(attribute.String("kind", "full")))

	path := filepath.Join(t.TempDir(), "metrics", "dddmaker.prom")
	if err := provider.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "dddmaker_generations") {
		t.Errorf("Expected generations metric, got:\n%s", text)
	}
	if !strings.Contains(text, `kind="full"`) {
		t.Errorf("Expected kind label, got:\n%s", text)
	}

	families, err := provider.Gatherer().Gather()
	if err != nil || len(families) == 0 {
		t.Errorf("Expected gathered families, got %d (err=%v)", len(families), err)
	}
}
