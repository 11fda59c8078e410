package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/dddmaker/internal/core/errors"
)

const entityTemplate = "src/Module/Domain/Model/Entity.php.tmpl"

func entityVars() map[string]string {
	return map[string]string{
		"root_namespace": "App",
		"namespace":      `App\Billing\Invoice\Domain\Model`,
		"class_name":     "Invoice",
		"entity_type":    "Invoice",
		"entity_name":    "invoice",
	}
}

func TestEmbeddedSkeletonIsComplete(t *testing.T) {
	loader := NewLoader()

	ids, err := loader.ListTemplates()
	require.NoError(t, err)
	assert.Len(t, ids, 18)
	assert.Contains(t, ids, "gitignore.tmpl")
	assert.Contains(t, ids, entityTemplate)

	failures, err := loader.ValidateAllTemplates()
	require.NoError(t, err)
	assert.Empty(t, failures)
}

func TestLoadAndRender(t *testing.T) {
	loader := NewLoader()

	out, err := loader.LoadAndRender(entityTemplate, entityVars())
	require.NoError(t, err)
	assert.Contains(t, out, `namespace App\Billing\Invoice\Domain\Model;`)
	assert.Contains(t, out, "class Invoice extends AggregateRoot")
	assert.Contains(t, out, `use App\Shared\Domain\Model\AggregateRoot;`)
}

func TestRenderMissingPlaceholderFails(t *testing.T) {
	loader := NewLoader()
	vars := entityVars()
	delete(vars, "entity_type")

	_, err := loader.LoadAndRender(entityTemplate, vars)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidArgument, errors.CodeOf(err))
}

func TestSprigFunctions(t *testing.T) {
	loader := NewLoader()

	out, err := loader.RenderTemplate(`{{ .t | snakecase }} {{ .t | untitle }} {{ ToUpper .t }}`, map[string]string{"t": "ProductVariant"})
	require.NoError(t, err)
	assert.Equal(t, "product_variant productVariant PRODUCTVARIANT", out)
}

func TestLoadTemplateErrors(t *testing.T) {
	loader := NewLoader()

	_, err := loader.LoadTemplate("src/Module/Domain/Model/Missing.php.tmpl")
	assert.Equal(t, errors.CodeNotFound, errors.CodeOf(err))

	_, err = loader.LoadTemplate("../templates.go")
	assert.Equal(t, errors.CodeInvalidArgument, errors.CodeOf(err))

	_, err = loader.RenderTemplate("{{ .broken", nil)
	assert.Equal(t, errors.CodeInternal, errors.CodeOf(err))
}

func TestOverrideDirWins(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, filepath.FromSlash(entityTemplate))
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("custom {{ .class_name }}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.tmpl"), []byte("x"), 0o644))

	loader := NewLoader(WithOverrideDir(dir))

	out, err := loader.LoadAndRender(entityTemplate, entityVars())
	require.NoError(t, err)
	assert.Equal(t, "custom Invoice", out)

	src, err := loader.Source(entityTemplate)
	require.NoError(t, err)
	assert.Equal(t, SourceOverride, src)

	src, err = loader.Source("gitignore.tmpl")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, src)

	ids, err := loader.ListTemplates()
	require.NoError(t, err)
	assert.Len(t, ids, 19)
	assert.Equal(t, dir, loader.OverrideDir())
}

func TestValidateAllTemplatesReportsBrokenFiles(t *testing.T) {
	loader := NewLoader(WithFS(fstest.MapFS{
		"ok.tmpl":     {Data: []byte("{{ .a }}")},
		"broken.tmpl": {Data: []byte("{{ if }}")},
		"notes.txt":   {Data: []byte("ignored")},
	}))

	failures, err := loader.ValidateAllTemplates()
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.True(t, strings.Contains(failures["broken.tmpl"].Error(), "broken.tmpl"))
}
