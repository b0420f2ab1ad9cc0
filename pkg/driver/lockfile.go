package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockfileName is the lockfile written next to ringo.yml.
const LockfileName = "ringo.lock"

// Lockfile pins every dependency of a project to an exact source.
type Lockfile struct {
	Path      string
	Root      string
	Generated string
	Tool      string
	Packages  []*LockedPackage
}

// LockedPackage is one resolved dependency. Source is `git+<url>@<commit>`
// or `path+<absolute dir>`; Commit is empty for path dependencies.
type LockedPackage struct {
	Name   string
	Source string
	Commit string
}

// NewLockfile constructs a lockfile for the named root project.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{
		Root:      strings.TrimSpace(root),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Packages:  []*LockedPackage{},
	}
}

// LoadLockfile parses ringo.lock from disk. A missing file yields an error
// matching os.ErrNotExist.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	return lock, nil
}

// WriteLockfile serialises the lockfile to path, or to lock.Path when path is empty.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Find returns the package named name, or nil.
func (l *Lockfile) Find(name string) *LockedPackage {
	if l == nil {
		return nil
	}
	for _, pkg := range l.Packages {
		if pkg != nil && pkg.Name == name {
			return pkg
		}
	}
	return nil
}

// Upsert records pkg, replacing any entry with the same name. It reports
// whether the lockfile changed.
func (l *Lockfile) Upsert(pkg *LockedPackage) bool {
	if existing := l.Find(pkg.Name); existing != nil {
		if *existing == *pkg {
			return false
		}
		*existing = *pkg
		return true
	}
	l.Packages = append(l.Packages, pkg)
	l.normalize()
	return true
}

// Prune drops packages not named in keep and reports whether any were removed.
func (l *Lockfile) Prune(keep map[string]*DependencySpec) bool {
	kept := l.Packages[:0]
	removed := false
	for _, pkg := range l.Packages {
		if _, ok := keep[pkg.Name]; ok {
			kept = append(kept, pkg)
			continue
		}
		removed = true
	}
	l.Packages = kept
	return removed
}

func (l *Lockfile) normalize() {
	l.Root = strings.TrimSpace(l.Root)
	l.Tool = strings.TrimSpace(l.Tool)
	sort.SliceStable(l.Packages, func(i, j int) bool {
		return l.Packages[i].Name < l.Packages[j].Name
	})
}

func (l *Lockfile) toDisk() lockfileDisk {
	pkgs := make([]lockfilePackage, 0, len(l.Packages))
	for _, pkg := range l.Packages {
		if pkg == nil {
			continue
		}
		pkgs = append(pkgs, lockfilePackage{
			Name:   pkg.Name,
			Source: pkg.Source,
			Commit: pkg.Commit,
		})
	}
	return lockfileDisk{
		Root:      l.Root,
		Generated: l.Generated,
		Tool:      l.Tool,
		Packages:  pkgs,
	}
}

type lockfileDisk struct {
	Root      string            `yaml:"root"`
	Generated string            `yaml:"generated"`
	Tool      string            `yaml:"tool"`
	Packages  []lockfilePackage `yaml:"packages"`
}

type lockfilePackage struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Commit string `yaml:"commit,omitempty"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Root:      d.Root,
		Generated: strings.TrimSpace(d.Generated),
		Tool:      d.Tool,
		Packages:  make([]*LockedPackage, 0, len(d.Packages)),
	}
	for _, pkg := range d.Packages {
		lock.Packages = append(lock.Packages, &LockedPackage{
			Name:   strings.TrimSpace(pkg.Name),
			Source: strings.TrimSpace(pkg.Source),
			Commit: strings.TrimSpace(pkg.Commit),
		})
	}
	lock.normalize()
	return lock
}
