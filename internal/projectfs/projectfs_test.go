package projectfs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileIfNotExists(t *testing.T) {
	pfs := NewProjectFS(t.TempDir())

	written, err := pfs.WriteFileIfNotExists("skeleton/gitignore.tmpl", "first", 0o644)
	if err != nil || !written {
		t.Fatalf("Expected first write to succeed, got written=%v err=%v", written, err)
	}

	written, err = pfs.WriteFileIfNotExists("skeleton/gitignore.tmpl", "second", 0o644)
	if err != nil || written {
		t.Fatalf("Expected second write to be skipped, got written=%v err=%v", written, err)
	}

	content, err := pfs.ReadFile("skeleton/gitignore.tmpl")
	if err != nil {
		t.Fatal(err)
	}
	if content != "first" {
		t.Errorf("Expected original content, got %q", content)
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	pfs := NewProjectFS(root)

	abs, rel, err := pfs.Resolve(filepath.Join(root, "src", "A.php"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rel != "src/A.php" {
		t.Errorf("Expected rel src/A.php, got %q", rel)
	}
	if !filepath.IsAbs(abs) {
		t.Errorf("Expected absolute path, got %q", abs)
	}

	for _, bad := range []string{"", root, filepath.Join(root, "..", "x.php")} {
		if _, _, err := pfs.Resolve(bad); err == nil {
			t.Errorf("Expected Resolve(%q) to fail", bad)
		}
	}
}

func TestExistenceChecksAndRemove(t *testing.T) {
	root := t.TempDir()
	pfs := NewProjectFS(root)

	if err := pfs.EnsureDirectory("src/Billing"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := pfs.DirectoryExists("src/Billing"); !ok {
		t.Error("Expected directory to exist")
	}
	if err := os.WriteFile(filepath.Join(root, "src/Billing/A.php"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ok, _ := pfs.FileExists("src/Billing/A.php"); !ok {
		t.Error("Expected file to exist")
	}
	if err := pfs.RemoveFile("src/Billing/A.php"); err != nil {
		t.Fatal(err)
	}
	if err := pfs.RemoveFile("src/Billing/A.php"); err != nil {
		t.Errorf("Removing a missing file should not fail: %v", err)
	}
	if ok, _ := pfs.FileExists("src/Billing/A.php"); ok {
		t.Error("Expected file to be removed")
	}
	if got := pfs.GetAbsolutePath("src"); got != filepath.Join(root, "src") {
		t.Errorf("Unexpected absolute path %q", got)
	}
}
