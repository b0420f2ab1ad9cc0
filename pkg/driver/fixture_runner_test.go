package driver

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

type fixtureManifest struct {
	Description string   `json:"description"`
	Entry       string   `json:"entry"`
	Setup       []string `json:"setup"`
	Expect      struct {
		Stdout []string `json:"stdout"`
		Errors []string `json:"errors"`
		Status string   `json:"status"`
	} `json:"expect"`
}

// testingT captures the subset of testing.T used by fixture helpers.
type testingT interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

func readFixtureManifest(t testingT, dir string) fixtureManifest {
	t.Helper()
	manifestPath := filepath.Join(dir, "manifest.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fixtureManifest{}
		}
		t.Fatalf("read manifest %s: %v", manifestPath, err)
	}
	var manifest fixtureManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("parse manifest %s: %v", manifestPath, err)
	}
	return manifest
}

// runFixture replays a fixture directory: setup scripts run first in the same
// session, then the entry script, and output is compared line by line.
func runFixture(t testingT, dir string) {
	t.Helper()
	manifest := readFixtureManifest(t, dir)
	entry := manifest.Entry
	if entry == "" {
		entry = "main.lox"
	}

	var stdout, stderr bytes.Buffer
	session := NewSession(SessionOptions{
		Stdout: &stdout,
		Stderr: &stderr,
		Clock:  func() time.Time { return time.Unix(0, 0) },
	})
	for _, setup := range manifest.Setup {
		if err := session.RunFile(filepath.Join(dir, setup)); err != nil {
			t.Fatalf("%s: setup %s failed: %v\n%s", dir, setup, err, stderr.String())
		}
	}
	err := session.RunFile(filepath.Join(dir, entry))

	status := "ok"
	switch {
	case errors.Is(err, ErrCompile):
		status = "compile"
	case errors.Is(err, ErrRuntime):
		status = "runtime"
	case err != nil:
		t.Fatalf("%s: %v", dir, err)
	}
	want := manifest.Expect.Status
	if want == "" {
		want = "ok"
	}
	if status != want {
		t.Fatalf("%s: status = %s, want %s (stderr %q)", dir, status, want, stderr.String())
	}

	if got := splitLines(stdout.String()); !equalLines(got, manifest.Expect.Stdout) {
		t.Fatalf("%s: stdout = %q, want %q", dir, got, manifest.Expect.Stdout)
	}
	if got := splitLines(stderr.String()); !equalLines(got, manifest.Expect.Errors) {
		t.Fatalf("%s: errors = %q, want %q", dir, got, manifest.Expect.Errors)
	}
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func equalLines(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func collectFixtureDirs(t *testing.T, root string) []string {
	t.Helper()
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "manifest.json" {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk fixtures: %v", err)
	}
	sort.Strings(dirs)
	return dirs
}

func TestFixtures(t *testing.T) {
	root := filepath.Join("testdata", "fixtures")
	dirs := collectFixtureDirs(t, root)
	if len(dirs) == 0 {
		t.Fatalf("no fixtures found under %s", root)
	}
	for _, dir := range dirs {
		dir := dir
		rel, _ := filepath.Rel(root, dir)
		t.Run(filepath.ToSlash(rel), func(t *testing.T) {
			runFixture(t, dir)
		})
	}
}
