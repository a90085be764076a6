package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies the commit author for ledger snapshots.
type Author struct {
	Name  string
	Email string
}

// Init initializes a git repository in the data directory so every ledger
// mutation can be snapshotted.
func Init(dir string) error {
	if out, err := run(dir, "init"); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitAll stages everything in the data directory and commits it.
// Returns the short commit hash. Committing with nothing staged is an error.
func CommitAll(dir, message string, author Author) (string, error) {
	if out, err := run(dir, "add", "-A"); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// Identity is passed per-invocation so commits work without any
	// global git config on the host.
	out, err := run(dir,
		"-c", "user.name="+author.Name,
		"-c", "user.email="+author.Email,
		"commit", "-m", message)
	if err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	hash, err := run(dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return hash, nil
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
