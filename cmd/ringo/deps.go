package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dlains/ringo/pkg/driver"
)

func runDeps(opts cliOptions, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "ringo deps requires a subcommand (install)")
		return exitUsage
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "ringo deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return exitUsage
		}
		return runDepsInstall(opts)
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return exitUsage
	}
}

func runDepsInstall(opts cliOptions) int {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to load %s: %v\n", driver.ManifestFile, err)
		return exitUsage
	}
	cacheDir, err := resolveRingoHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve RINGO_HOME: %v\n", err)
		return exitUsage
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Root package: %s\n", manifest.Name)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", cacheDir)

	lockPath := manifest.LockfilePath()
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return exitUsage
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return exitUsage
	}
	lock.Path = lockPath
	lock.Tool = cliToolVersion

	installer := driver.NewInstaller(manifest, cacheDir, opts.logger)
	changed, logs, err := installer.Install(lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return exitUsage
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || lockCreated {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return exitUsage
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lock.Path)
	}

	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return 0
}
