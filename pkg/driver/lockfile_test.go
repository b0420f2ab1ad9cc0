package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLockfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockfileName)

	lock := NewLockfile("sample", "ringo test")
	lock.Upsert(&LockedPackage{Name: "zeta", Source: "path+/srv/zeta"})
	lock.Upsert(&LockedPackage{Name: "alpha", Source: "git+https://example.com/alpha.git@deadbeef", Commit: "deadbeef"})
	if err := WriteLockfile(lock, path); err != nil {
		t.Fatalf("WriteLockfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read lockfile: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "root: sample") || !strings.Contains(text, "tool: ringo test") {
		t.Fatalf("unexpected lockfile header:\n%s", text)
	}
	if strings.Index(text, "name: alpha") > strings.Index(text, "name: zeta") {
		t.Fatalf("packages should be sorted by name:\n%s", text)
	}
	if strings.Count(text, "commit:") != 1 {
		t.Fatalf("path packages should omit commit:\n%s", text)
	}

	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if loaded.Path != path || loaded.Root != "sample" || loaded.Generated == "" {
		t.Fatalf("unexpected loaded lockfile %+v", loaded)
	}
	if len(loaded.Packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(loaded.Packages))
	}
	alpha := loaded.Find("alpha")
	if alpha == nil || alpha.Commit != "deadbeef" {
		t.Fatalf("unexpected alpha entry %+v", alpha)
	}
	if loaded.Find("missing") != nil {
		t.Fatalf("Find should return nil for unknown packages")
	}
}

func TestLoadLockfileMissing(t *testing.T) {
	_, err := LoadLockfile(filepath.Join(t.TempDir(), LockfileName))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadLockfileRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockfileName)
	writeFile(t, path, "root: sample\nextra: true\n")
	if _, err := LoadLockfile(path); err == nil {
		t.Fatalf("expected error for unknown lockfile field")
	}
}

func TestLockfileUpsert(t *testing.T) {
	lock := NewLockfile("sample", "test")
	pkg := &LockedPackage{Name: "shapes", Source: "git+u@aaa", Commit: "aaa"}
	if !lock.Upsert(pkg) {
		t.Fatalf("first upsert should change the lockfile")
	}
	if lock.Upsert(&LockedPackage{Name: "shapes", Source: "git+u@aaa", Commit: "aaa"}) {
		t.Fatalf("identical upsert should not change the lockfile")
	}
	if !lock.Upsert(&LockedPackage{Name: "shapes", Source: "git+u@bbb", Commit: "bbb"}) {
		t.Fatalf("new commit should change the lockfile")
	}
	if got := lock.Find("shapes").Commit; got != "bbb" {
		t.Fatalf("commit = %q, want bbb", got)
	}
	if len(lock.Packages) != 1 {
		t.Fatalf("expected a single entry, got %d", len(lock.Packages))
	}
}

func TestLockfilePrune(t *testing.T) {
	lock := NewLockfile("sample", "test")
	lock.Upsert(&LockedPackage{Name: "keep", Source: "path+/a"})
	lock.Upsert(&LockedPackage{Name: "drop", Source: "path+/b"})

	if !lock.Prune(map[string]*DependencySpec{"keep": {Path: "/a"}}) {
		t.Fatalf("expected prune to report a removal")
	}
	if len(lock.Packages) != 1 || lock.Packages[0].Name != "keep" {
		t.Fatalf("unexpected packages after prune: %+v", lock.Packages)
	}
	if lock.Prune(map[string]*DependencySpec{"keep": {Path: "/a"}}) {
		t.Fatalf("second prune should be a no-op")
	}
}

func TestWriteLockfileNeedsPath(t *testing.T) {
	if err := WriteLockfile(NewLockfile("sample", "test"), ""); err == nil {
		t.Fatalf("expected error when no path is known")
	}
	if err := WriteLockfile(nil, "x"); err == nil {
		t.Fatalf("expected error for nil lockfile")
	}
}
