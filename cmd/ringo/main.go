package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dlains/ringo/pkg/ast"
	"github.com/dlains/ringo/pkg/driver"
)

const cliToolVersion = "ringo 0.1.0"

// Exit codes for failed programs.
const (
	exitUsage   = 1
	exitCompile = 65
	exitRuntime = 70
)

type cliOptions struct {
	logger *slog.Logger
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, args := parseGlobalFlags(args)

	if len(args) == 0 {
		return runRepl(opts)
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "repl":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "ringo repl does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return exitUsage
		}
		return runRepl(opts)
	case "run":
		return runEntry(opts, args[1:])
	case "ast":
		return runAST(opts, args[1:])
	case "deps":
		return runDeps(opts, args[1:])
	default:
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintf(os.Stderr, "unknown flag %q\n", args[0])
			printUsage()
			return exitUsage
		}
		return runEntry(opts, args)
	}
}

// parseGlobalFlags strips flags that may appear before the subcommand.
func parseGlobalFlags(args []string) (cliOptions, []string) {
	opts := cliOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	rest := make([]string, 0, len(args))
	for idx, arg := range args {
		if arg == "--" {
			rest = append(rest, args[idx+1:]...)
			break
		}
		if arg == "--trace" {
			opts.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
			continue
		}
		rest = append(rest, arg)
	}
	return opts, rest
}

func runEntry(opts cliOptions, args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return exitUsage
	}

	var (
		entry    string
		manifest *driver.Manifest
		err      error
	)
	if len(args) == 0 {
		manifest, err = loadManifestFrom(".")
		if err != nil {
			if errors.Is(err, driver.ErrManifestNotFound) {
				fmt.Fprintf(os.Stderr, "ringo run requires a script or a %s with a main script\n", driver.ManifestFile)
			} else {
				fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			}
			return exitUsage
		}
		entry, err = manifest.MainPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return exitUsage
		}
	} else {
		entry = args[0]
		manifest, err = loadManifestFrom(entry)
		if err != nil && !errors.Is(err, driver.ErrManifestNotFound) {
			fmt.Fprintf(os.Stderr, "failed to read manifest for %s: %v\n", entry, err)
			return exitUsage
		}
	}

	session := driver.NewSession(driver.SessionOptions{Logger: opts.logger})
	if manifest != nil {
		if code := runPrelude(session, manifest); code != 0 {
			return code
		}
	}
	return exitCodeFor(session.RunFile(entry))
}

// runPrelude executes the manifest's prelude scripts in order in the
// session's global environment.
func runPrelude(session *driver.Session, manifest *driver.Manifest) int {
	if len(manifest.Prelude) == 0 {
		return 0
	}
	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitUsage
	}
	cacheDir, err := resolveRingoHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve RINGO_HOME: %v\n", err)
		return exitUsage
	}
	for _, entry := range manifest.Prelude {
		path, err := manifest.ResolveScript(entry, lock, cacheDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "prelude %q: %v\n", entry, err)
			return exitUsage
		}
		if code := exitCodeFor(session.RunFile(path)); code != 0 {
			return code
		}
	}
	return 0
}

func runAST(opts cliOptions, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "ringo ast requires exactly one script")
		return exitUsage
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", args[0], err)
		return exitUsage
	}
	session := driver.NewSession(driver.SessionOptions{Logger: opts.logger})
	statements, err := driver.ParseSource(string(data), session.Diagnostics())
	if err != nil {
		return exitCompile
	}
	if err := ast.Fprint(os.Stdout, statements); err != nil {
		fmt.Fprintf(os.Stderr, "write ast: %v\n", err)
		return exitUsage
	}
	return 0
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, driver.ErrCompile):
		return exitCompile
	case errors.Is(err, driver.ErrRuntime):
		return exitRuntime
	default:
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitUsage
	}
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	absStart, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest search path %q: %w", start, err)
	}
	manifestPath, err := driver.FindManifest(absStart)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	lock, err := driver.LoadLockfile(manifest.LockfilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if len(manifest.Dependencies) > 0 {
				return nil, fmt.Errorf("%s missing for %q; run `ringo deps install`", driver.LockfileName, manifest.Name)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lockfile %s: %w", manifest.LockfilePath(), err)
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	return lock, nil
}

func resolveRingoHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("RINGO_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve RINGO_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".ringo"), nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  ringo [--trace]                start an interactive session")
	fmt.Fprintln(os.Stderr, "  ringo [--trace] <file.lox>     run a script")
	fmt.Fprintln(os.Stderr, "  ringo [--trace] run [file]     run a script, or the manifest main script")
	fmt.Fprintln(os.Stderr, "  ringo ast <file.lox>           print the parsed syntax tree")
	fmt.Fprintln(os.Stderr, "  ringo deps install             install manifest dependencies")
	fmt.Fprintln(os.Stderr, "  ringo --version")
}
