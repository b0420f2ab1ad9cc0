package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFile)
	writeFile(t, path, `
name: sample
version: 0.2.0
main: src/main.lox
prelude:
  - lib/helpers.lox
  - shapes:shapes.lox
dependencies:
  shapes:
    git: https://example.com/shapes.git
    tag: v1.0.0
  local_utils:
    path: ../utils
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Name != "sample" || manifest.Version != "0.2.0" {
		t.Fatalf("unexpected identity %q %q", manifest.Name, manifest.Version)
	}
	if len(manifest.Prelude) != 2 {
		t.Fatalf("expected 2 prelude entries, got %v", manifest.Prelude)
	}
	if got := manifest.DependencyNames(); len(got) != 2 || got[0] != "local_utils" || got[1] != "shapes" {
		t.Fatalf("DependencyNames = %v", got)
	}
	shapes := manifest.Dependencies["shapes"]
	if shapes.Git != "https://example.com/shapes.git" || shapes.Tag != "v1.0.0" {
		t.Fatalf("unexpected shapes dependency %+v", shapes)
	}
	mainPath, err := manifest.MainPath()
	if err != nil {
		t.Fatalf("MainPath: %v", err)
	}
	if want := filepath.Join(dir, "src", "main.lox"); mainPath != want {
		t.Fatalf("MainPath = %q, want %q", mainPath, want)
	}
	if want := filepath.Join(dir, LockfileName); manifest.LockfilePath() != want {
		t.Fatalf("LockfilePath = %q, want %q", manifest.LockfilePath(), want)
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFile)
	writeFile(t, path, "name: sample\nentry: main.lox\n")
	if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "entry") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadManifestEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFile)
	writeFile(t, path, "")
	if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestLoadManifestValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFile)
	writeFile(t, path, `
name: 9lives
dependencies:
  both:
    git: https://example.com/both.git
    path: ./both
    rev: abc
  unpinned:
    git: https://example.com/unpinned.git
  pinned_path:
    path: ./vendor
    branch: main
  doubled:
    git: https://example.com/doubled.git
    tag: v1
    branch: main
`)

	_, err := LoadManifest(path)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	wantIssues := []string{
		`name "9lives" must start with a letter`,
		"dependencies.both: cannot specify both git and path",
		"dependencies.both: path dependencies cannot specify rev, tag, or branch",
		"dependencies.unpinned: git dependencies require rev, tag, or branch",
		"dependencies.pinned_path: path dependencies cannot specify rev, tag, or branch",
		"dependencies.doubled: only one of rev, tag, or branch may be given",
	}
	message := vErr.Error()
	for _, want := range wantIssues {
		if !strings.Contains(message, want) {
			t.Fatalf("expected issue %q in:\n%s", want, message)
		}
	}
}

func TestLoadManifestRequiresName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFile)
	writeFile(t, path, "main: main.lox\n")
	_, err := LoadManifest(path)
	var vErr *ValidationError
	if !errors.As(err, &vErr) || len(vErr.Issues) != 1 || vErr.Issues[0] != "name must be provided" {
		t.Fatalf("expected missing name issue, got %v", err)
	}
}

func TestMainPathRequiresMain(t *testing.T) {
	manifest := &Manifest{Path: filepath.Join(t.TempDir(), ManifestFile), Name: "sample"}
	if _, err := manifest.MainPath(); err == nil {
		t.Fatalf("expected error for manifest without main")
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	manifestPath := filepath.Join(root, ManifestFile)
	writeFile(t, manifestPath, "name: sample\n")
	nested := filepath.Join(root, "src", "deep")
	scriptPath := filepath.Join(nested, "main.lox")
	writeFile(t, scriptPath, "print 1;\n")

	for _, start := range []string{root, nested, scriptPath} {
		found, err := FindManifest(start)
		if err != nil {
			t.Fatalf("FindManifest(%s): %v", start, err)
		}
		if found != manifestPath {
			t.Fatalf("FindManifest(%s) = %s, want %s", start, found, manifestPath)
		}
	}
}

func TestFindManifestNotFound(t *testing.T) {
	if _, err := FindManifest(t.TempDir()); !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}

func TestResolveScript(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	manifest := &Manifest{
		Path: filepath.Join(dir, ManifestFile),
		Name: "sample",
		Dependencies: map[string]*DependencySpec{
			"shapes": {Git: "https://example.com/shapes.git", Tag: "v1"},
			"utils":  {Path: "../utils"},
		},
	}
	lock := NewLockfile("sample", "test")
	lock.Upsert(&LockedPackage{Name: "shapes", Source: "git+https://example.com/shapes.git@abc123", Commit: "abc123"})
	lock.Upsert(&LockedPackage{Name: "utils", Source: "path+/opt/utils"})

	cases := map[string]string{
		"lib/helpers.lox":      filepath.Join(dir, "lib", "helpers.lox"),
		"shapes:src/shape.lox": filepath.Join(cacheDir, "pkg", "src", "shapes", "abc123", "src", "shape.lox"),
		"utils:math.lox":       filepath.Join("/opt/utils", "math.lox"),
		"other:thing.lox":      filepath.Join(dir, "other:thing.lox"),
	}
	for entry, want := range cases {
		got, err := manifest.ResolveScript(entry, lock, cacheDir)
		if err != nil {
			t.Fatalf("ResolveScript(%q): %v", entry, err)
		}
		if got != want {
			t.Fatalf("ResolveScript(%q) = %q, want %q", entry, got, want)
		}
	}

	if _, err := manifest.ResolveScript("shapes:src/shape.lox", nil, cacheDir); err == nil {
		t.Fatalf("expected error without a lockfile")
	}
	if _, err := manifest.ResolveScript("shapes:src/shape.lox", NewLockfile("sample", "test"), cacheDir); err == nil {
		t.Fatalf("expected error for dependency missing from lockfile")
	}
}
