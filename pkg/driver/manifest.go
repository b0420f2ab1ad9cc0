package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the project manifest file name.
const ManifestFile = "ringo.yml"

// ErrManifestNotFound is returned when no ringo.yml exists at or above a directory.
var ErrManifestNotFound = errors.New("ringo.yml not found")

// Manifest represents the parsed contents of ringo.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Main         string
	Prelude      []string
	Dependencies map[string]*DependencySpec
}

// DependencySpec describes where a script dependency comes from: a git
// repository pinned by rev, tag, or branch, or a local directory.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses ringo.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from start up to the filesystem root looking for ringo.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestFile)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestFile, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

// Dir is the directory holding the manifest; relative paths resolve against it.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// LockfilePath is where the lockfile for this manifest lives.
func (m *Manifest) LockfilePath() string {
	return filepath.Join(m.Dir(), LockfileName)
}

// MainPath resolves the entry script.
func (m *Manifest) MainPath() (string, error) {
	mainPath := strings.TrimSpace(m.Main)
	if mainPath == "" {
		return "", fmt.Errorf("manifest %q has no main script", m.Name)
	}
	return m.resolveLocal(mainPath), nil
}

// DependencyNames returns the declared dependency names in sorted order.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveScript maps a prelude entry to a file path. Entries of the form
// `dep:relative/path` resolve inside the installed dependency recorded in
// lock; anything else is relative to the manifest directory.
func (m *Manifest) ResolveScript(entry string, lock *Lockfile, cacheDir string) (string, error) {
	entry = strings.TrimSpace(entry)
	if depName, rel, ok := strings.Cut(entry, ":"); ok {
		if _, declared := m.Dependencies[depName]; declared {
			if lock == nil {
				return "", fmt.Errorf("prelude %q needs dependency %q but %s is missing; run `ringo deps install`", entry, depName, LockfileName)
			}
			pkg := lock.Find(depName)
			if pkg == nil {
				return "", fmt.Errorf("dependency %q is not in %s; run `ringo deps install`", depName, LockfileName)
			}
			dir, err := PackageDir(cacheDir, pkg)
			if err != nil {
				return "", err
			}
			return filepath.Join(dir, filepath.FromSlash(rel)), nil
		}
	}
	return m.resolveLocal(entry), nil
}

func (m *Manifest) resolveLocal(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(m.Dir(), filepath.FromSlash(path))
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	} else if !namePattern.MatchString(m.Name) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("name %q must start with a letter or underscore and contain only letters, digits, '_' or '-'", m.Name))
	}
	for i, entry := range m.Prelude {
		if entry == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("prelude[%d] must be a non-empty path", i))
		}
	}
	for _, depName := range m.DependencyNames() {
		if !namePattern.MatchString(depName) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies: invalid name %q", depName))
		}
		for _, issue := range m.Dependencies[depName].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", depName, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d.Git == "" && d.Path == "" {
		errs = append(errs, "must specify git or path")
	}
	if d.Git != "" && d.Path != "" {
		errs = append(errs, "cannot specify both git and path")
	}
	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if d.Path != "" && pins > 0 {
		errs = append(errs, "path dependencies cannot specify rev, tag, or branch")
	}
	if d.Git != "" && pins == 0 {
		errs = append(errs, "git dependencies require rev, tag, or branch")
	}
	if pins > 1 {
		errs = append(errs, "only one of rev, tag, or branch may be given")
	}
	return errs
}

type manifestFile struct {
	Name         string                    `yaml:"name"`
	Version      string                    `yaml:"version"`
	Main         string                    `yaml:"main"`
	Prelude      []string                  `yaml:"prelude"`
	Dependencies map[string]dependencyYAML `yaml:"dependencies"`
}

type dependencyYAML struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Name:         strings.TrimSpace(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Main:         strings.TrimSpace(mf.Main),
		Prelude:      make([]string, 0, len(mf.Prelude)),
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
	}
	for _, entry := range mf.Prelude {
		result.Prelude = append(result.Prelude, strings.TrimSpace(entry))
	}
	for name, dep := range mf.Dependencies {
		result.Dependencies[strings.TrimSpace(name)] = &DependencySpec{
			Git:    strings.TrimSpace(dep.Git),
			Rev:    strings.TrimSpace(dep.Rev),
			Tag:    strings.TrimSpace(dep.Tag),
			Branch: strings.TrimSpace(dep.Branch),
			Path:   strings.TrimSpace(dep.Path),
		}
	}
	return result
}
