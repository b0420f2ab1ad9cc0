package driver

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	gitSourcePrefix  = "git+"
	pathSourcePrefix = "path+"
)

// Installer materialises manifest dependencies under a cache directory and
// records what it resolved in a lockfile.
type Installer struct {
	manifest *Manifest
	cacheDir string
	logger   *slog.Logger
}

// NewInstaller returns an installer caching git checkouts under cacheDir.
func NewInstaller(manifest *Manifest, cacheDir string, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Installer{manifest: manifest, cacheDir: cacheDir, logger: logger}
}

// Install resolves every dependency, updates lock in place, and reports
// whether it changed along with one human-readable line per dependency.
func (in *Installer) Install(lock *Lockfile) (bool, []string, error) {
	if in.manifest == nil {
		return false, nil, fmt.Errorf("installer: nil manifest")
	}
	changed := lock.Prune(in.manifest.Dependencies)
	var logs []string
	for _, name := range in.manifest.DependencyNames() {
		spec := in.manifest.Dependencies[name]
		var (
			pkg *LockedPackage
			err error
		)
		switch {
		case spec.Git != "":
			pkg, err = in.installGit(name, spec)
		case spec.Path != "":
			pkg, err = in.installPath(name, spec)
		default:
			err = fmt.Errorf("dependency %q: must specify git or path", name)
		}
		if err != nil {
			return false, logs, err
		}
		if lock.Upsert(pkg) {
			changed = true
		}
		logs = append(logs, describeLocked(pkg))
	}
	return changed, logs, nil
}

func (in *Installer) installPath(name string, spec *DependencySpec) (*LockedPackage, error) {
	dir := in.manifest.resolveLocal(spec.Path)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dependency %q: %s is not a directory", name, dir)
	}
	in.logger.Debug("path dependency", "name", name, "dir", dir)
	return &LockedPackage{Name: name, Source: pathSourcePrefix + dir}, nil
}

func (in *Installer) installGit(name string, spec *DependencySpec) (*LockedPackage, error) {
	if in.cacheDir == "" {
		return nil, fmt.Errorf("dependency %q: no cache directory configured", name)
	}
	url := strings.TrimSpace(spec.Git)
	commit, err := ensureGitCheckout(gitBaseDir(in.cacheDir, name), url, spec)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}
	in.logger.Debug("git dependency", "name", name, "url", url, "commit", commit)
	return &LockedPackage{
		Name:   name,
		Source: fmt.Sprintf("%s%s@%s", gitSourcePrefix, url, commit),
		Commit: commit,
	}, nil
}

// PackageDir returns the directory holding an installed package's scripts.
func PackageDir(cacheDir string, pkg *LockedPackage) (string, error) {
	switch {
	case strings.HasPrefix(pkg.Source, pathSourcePrefix):
		return strings.TrimPrefix(pkg.Source, pathSourcePrefix), nil
	case strings.HasPrefix(pkg.Source, gitSourcePrefix):
		if pkg.Commit == "" {
			return "", fmt.Errorf("dependency %q: lockfile entry has no commit", pkg.Name)
		}
		return filepath.Join(gitBaseDir(cacheDir, pkg.Name), pkg.Commit), nil
	default:
		return "", fmt.Errorf("dependency %q: unsupported source %q", pkg.Name, pkg.Source)
	}
}

func gitBaseDir(cacheDir, name string) string {
	return filepath.Join(cacheDir, "pkg", "src", name)
}

// ensureGitCheckout clones url, resolves the pinned revision, and leaves a
// checkout at baseDir/<commit>. Existing checkouts are reused.
func ensureGitCheckout(baseDir, url string, spec *DependencySpec) (string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	revision, err := gitRevisionFromSpec(spec)
	if err != nil {
		return "", err
	}

	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		if _, err := os.Stat(filepath.Join(baseDir, rev)); err == nil {
			return rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL: url,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	commit := hash.String()

	targetDir := filepath.Join(baseDir, commit)
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return commit, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return commit, nil
}

func gitRevisionFromSpec(spec *DependencySpec) (plumbing.Revision, error) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), nil
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), nil
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), nil
	}
	return "", fmt.Errorf("git dependencies require rev, tag, or branch")
}

func describeLocked(pkg *LockedPackage) string {
	if pkg.Commit != "" {
		short := pkg.Commit
		if len(short) > 12 {
			short = short[:12]
		}
		return fmt.Sprintf("%s: %s (%s)", pkg.Name, strings.TrimSuffix(strings.TrimPrefix(pkg.Source, gitSourcePrefix), "@"+pkg.Commit), short)
	}
	return fmt.Sprintf("%s: %s", pkg.Name, strings.TrimPrefix(pkg.Source, pathSourcePrefix))
}
