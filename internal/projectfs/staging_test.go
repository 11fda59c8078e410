package projectfs

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/dddmaker/internal/core/errors"
	"go.eggybyte.com/dddmaker/internal/testingx"
)

// fakeRenderer renders "<template>:<class_name>" and knows a fixed template set.
type fakeRenderer struct {
	known map[string]bool
}

func (f fakeRenderer) LoadAndRender(templatePath string, data any) (string, error) {
	if !f.known[templatePath] {
		return "", errors.Newf(errors.CodeNotFound, "template %s", templatePath)
	}
	vars, _ := data.(map[string]string)
	if _, ok := vars["class_name"]; !ok {
		return "", errors.New(errors.CodeInvalidArgument, "missing class_name")
	}
	return templatePath + ":" + vars["class_name"], nil
}

func newTestStager(t *testing.T, root string, opts ...StagerOption) *Stager {
	t.Helper()
	renderer := fakeRenderer{known: map[string]bool{"entity.tmpl": true, "marker.tmpl": true}}
	return NewStager(NewProjectFS(root), renderer, opts...)
}

func vars(class string) map[string]string {
	return map[string]string{"class_name": class}
}

func TestCommitWritesAllStagedFiles(t *testing.T) {
	root := t.TempDir()
	logger := testingx.NewMockLogger(t)
	s := newTestStager(t, root, WithLogger(logger))

	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/A/Domain/Model/A.php"), "entity.tmpl", vars("A")))
	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/A/Application/.gitignore"), "marker.tmpl", vars("")))
	assert.Equal(t, []string{"src/A/Domain/Model/A.php", "src/A/Application/.gitignore"}, s.Staged())

	// Nothing touches disk before commit.
	assert.Empty(t, testingx.ListFiles(t, root))

	require.NoError(t, s.CommitStagedWrites())
	assert.Empty(t, s.Staged())
	assert.Equal(t, []string{"src/A/Domain/Model/A.php", "src/A/Application/.gitignore"}, s.Committed())
	assert.Equal(t, []string{"src/A/Application/.gitignore", "src/A/Domain/Model/A.php"}, testingx.ListFiles(t, root))

	content, err := NewProjectFS(root).ReadFile("src/A/Domain/Model/A.php")
	require.NoError(t, err)
	assert.Equal(t, "entity.tmpl:A", content)
	logger.AssertLogged("DEBUG", "committed")
}

func TestRenderAndStageErrors(t *testing.T) {
	root := testingx.ProjectDir(t, map[string]string{"src/Existing.php": "<?php"})
	s := newTestStager(t, root)

	dest := filepath.Join(root, "src/New.php")
	require.NoError(t, s.RenderAndStage(dest, "entity.tmpl", vars("New")))

	testingx.AssertErrorCode(t, s.RenderAndStage(dest, "entity.tmpl", vars("New")), errors.CodeAlreadyExists)
	testingx.AssertErrorCode(t, s.RenderAndStage(filepath.Join(root, "src/Existing.php"), "entity.tmpl", vars("E")), errors.CodeAlreadyExists)
	testingx.AssertErrorCode(t, s.RenderAndStage(filepath.Join(root, "src/X.php"), "missing.tmpl", vars("X")), errors.CodeNotFound)
	testingx.AssertErrorCode(t, s.RenderAndStage(filepath.Join(root, "src/Y.php"), "entity.tmpl", map[string]string{}), errors.CodeInvalidArgument)
	testingx.AssertErrorCode(t, s.RenderAndStage(filepath.Join(root, "..", "outside.php"), "entity.tmpl", vars("O")), errors.CodeInvalidArgument)
	testingx.AssertErrorCode(t, s.RenderAndStage(root, "entity.tmpl", vars("O")), errors.CodeInvalidArgument)

	// Failed attempts leave the stage untouched.
	assert.Equal(t, []string{"src/New.php"}, s.Staged())
}

func TestOverwriteReplacesExistingFile(t *testing.T) {
	root := testingx.ProjectDir(t, map[string]string{"src/A.php": "old"})
	s := newTestStager(t, root, WithOverwrite(true))

	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/A.php"), "entity.tmpl", vars("A")))
	require.NoError(t, s.CommitStagedWrites())

	content, err := NewProjectFS(root).ReadFile("src/A.php")
	require.NoError(t, err)
	assert.Equal(t, "entity.tmpl:A", content)
	assert.Equal(t, []string{"src/A.php"}, testingx.ListFiles(t, root))
}

func TestCommitRollsBackOnFailure(t *testing.T) {
	root := testingx.ProjectDir(t, map[string]string{"src/Keep.php": "original"})
	s := newTestStager(t, root, WithOverwrite(true))

	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/Keep.php"), "entity.tmpl", vars("Keep")))
	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/Mod/First.php"), "entity.tmpl", vars("First")))
	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/Mod/Second.php"), "entity.tmpl", vars("Second")))

	calls := 0
	s.rename = func(oldpath, newpath string) error {
		calls++
		// backup + place Keep, place First, then fail on Second.
		if calls == 4 {
			return fmt.Errorf("injected rename failure")
		}
		return os.Rename(oldpath, newpath)
	}

	err := s.CommitStagedWrites()
	testingx.AssertErrorCode(t, err, errors.CodeInternal)

	assert.Equal(t, []string{"src/Keep.php"}, testingx.ListFiles(t, root))
	content, err := NewProjectFS(root).ReadFile("src/Keep.php")
	require.NoError(t, err)
	assert.Equal(t, "original", content)

	exists, err := NewProjectFS(root).DirectoryExists("src/Mod")
	require.NoError(t, err)
	assert.False(t, exists, "directories created by the failed commit are removed")
	assert.Empty(t, s.Staged())
	assert.Empty(t, s.Committed())
}

func TestCommitFailsWhenParentIsAFile(t *testing.T) {
	root := testingx.ProjectDir(t, map[string]string{"src/Blocked": "not a directory"})
	s := newTestStager(t, root)

	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/Fine/A.php"), "entity.tmpl", vars("A")))
	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/Blocked/B.php"), "entity.tmpl", vars("B")))

	testingx.AssertErrorCode(t, s.CommitStagedWrites(), errors.CodeInternal)
	assert.Equal(t, []string{"src/Blocked"}, testingx.ListFiles(t, root))
}

func TestCommitDetectsFileCreatedAfterStaging(t *testing.T) {
	root := t.TempDir()
	s := newTestStager(t, root)

	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/A.php"), "entity.tmpl", vars("A")))
	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/B.php"), "entity.tmpl", vars("B")))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src/B.php"), []byte("racer"), 0o644))

	testingx.AssertErrorCode(t, s.CommitStagedWrites(), errors.CodeAlreadyExists)
	assert.Equal(t, []string{"src/B.php"}, testingx.ListFiles(t, root))
}

func TestDiscardAndEmptyCommit(t *testing.T) {
	root := t.TempDir()
	s := newTestStager(t, root)

	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/A.php"), "entity.tmpl", vars("A")))
	s.Discard()
	assert.Empty(t, s.Staged())

	require.NoError(t, s.CommitStagedWrites())
	assert.Empty(t, testingx.ListFiles(t, root))

	// A discarded destination can be staged again.
	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/A.php"), "entity.tmpl", vars("A")))
}

func TestOverwriteKeepsUnrelatedBackupNamedFiles(t *testing.T) {
	root := testingx.ProjectDir(t, map[string]string{
		"src/A.php":                 "original",
		"src/A.php.dddmaker-backup": "left over",
	})
	s := newTestStager(t, root, WithOverwrite(true))

	require.NoError(t, s.RenderAndStage(filepath.Join(root, "src/A.php"), "entity.tmpl", vars("A")))
	require.NoError(t, s.CommitStagedWrites())

	fs := NewProjectFS(root)
	content, err := fs.ReadFile("src/A.php")
	require.NoError(t, err)
	assert.Equal(t, "entity.tmpl:A", content)

	leftover, err := fs.ReadFile("src/A.php.dddmaker-backup")
	require.NoError(t, err)
	assert.Equal(t, "left over", leftover)
	assert.Equal(t, []string{"src/A.php", "src/A.php.dddmaker-backup"}, testingx.ListFiles(t, root))
}
