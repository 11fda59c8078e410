package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/dddmaker/internal/core/errors"
	"go.eggybyte.com/dddmaker/internal/testingx"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "nested", "journal.db")
	store, err := Open(context.Background(), Options{Driver: "sqlite", DSN: dsn, Logger: testingx.NewMockLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordFillsGeneratedFields(t *testing.T) {
	store := openTestStore(t)

	entry, err := store.Record(context.Background(), Entry{
		ModulePath: "Billing/Invoice",
		Kind:       "full",
		WithSpec:   true,
		Files:      []string{"src/Billing/Invoice/Domain/Model/Invoice.php"},
	})
	require.NoError(t, err)

	_, err = uuid.Parse(entry.ID)
	assert.NoError(t, err, "ID should be a UUID")
	assert.Equal(t, "billing-invoice", entry.ModuleKey)
	assert.False(t, entry.CreatedAt.IsZero())

	entries, err := store.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.True(t, entries[0].WithSpec)
	assert.Equal(t, []string{"src/Billing/Invoice/Domain/Model/Invoice.php"}, entries[0].Files)
}

func TestListNewestFirstWithFilters(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, path := range []string{"Billing/Invoice", "Catalog/Product", "Billing/Invoice"} {
		_, err := store.Record(context.Background(), Entry{
			ModulePath: path,
			Kind:       "basic",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	entries, err := store.List(context.Background(), ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].CreatedAt.After(entries[1].CreatedAt))
	assert.Equal(t, "Billing/Invoice", entries[0].ModulePath)
	assert.Equal(t, "Catalog/Product", entries[1].ModulePath)

	billing, err := store.List(context.Background(), ListOptions{ModuleKey: "billing-invoice"})
	require.NoError(t, err)
	assert.Len(t, billing, 2)
}

func TestRecordValidation(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Record(context.Background(), Entry{Kind: "full"})
	testingx.AssertErrorCode(t, err, errors.CodeInvalidArgument)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "sqlite"})
	testingx.AssertErrorCode(t, err, errors.CodeInvalidArgument)

	_, err = Open(context.Background(), Options{Driver: "oracle", DSN: "x"})
	testingx.AssertErrorCode(t, err, errors.CodeInvalidArgument)
}

func TestPingAndClose(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, store.Close())

	var nilStore *Store
	assert.NoError(t, nilStore.Close())
}
