package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type GitRepo struct {
	WorkDir string
}

func formatCommandError(operation string, err error, stdout, stderr bytes.Buffer) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s failed: %w\nStdout: %s\nStderr: %s",
		operation, err, stdout.String(), stderr.String())
}

func New(workDir string) *GitRepo {
	return &GitRepo{WorkDir: workDir}
}

// Open returns the repository containing dir, rooted at its top level so
// that the repository relative paths git prints resolve against WorkDir.
func Open(ctx context.Context, dir string) (*GitRepo, error) {
	top, err := New(dir).TopLevel(ctx)
	if err != nil {
		return nil, err
	}
	return New(top), nil
}

// output runs git with args and returns its stdout.
func (repo *GitRepo) output(ctx context.Context, operation string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repo.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, formatCommandError(operation, err, stdout, stderr)
	}
	return stdout.Bytes(), nil
}

// TopLevel returns the absolute path of the working tree root.
func (repo *GitRepo) TopLevel(ctx context.Context) (string, error) {
	out, err := repo.output(ctx, "find top level", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// RepoName is the base name of the working tree root.
func (repo *GitRepo) RepoName(ctx context.Context) (string, error) {
	top, err := repo.TopLevel(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Base(top), nil
}

func (repo *GitRepo) Fetch() error {
	cmd := exec.Command("git", "fetch", "origin")
	cmd.Dir = repo.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return formatCommandError("fetch", err, stdout, stderr)
}

func (repo *GitRepo) Commit(message string) error {
	cmd := exec.Command("git", "commit", "-m", message)
	cmd.Env = os.Environ()
	cmd.Dir = repo.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return formatCommandError("commit", err, stdout, stderr)
}

func (repo *GitRepo) Push() error {
	currentBranch, err := repo.GetCurrentBranch()
	if err != nil {
		return err
	}

	pushCmd := exec.Command("git", "push", "origin", currentBranch)
	pushCmd.Env = os.Environ()
	pushCmd.Dir = repo.WorkDir

	var stdout, stderr bytes.Buffer
	pushCmd.Stdout = &stdout
	pushCmd.Stderr = &stderr

	err = pushCmd.Run()
	return formatCommandError("push", err, stdout, stderr)
}

// HasStagedChanges reports whether the index differs from HEAD.
func (repo *GitRepo) HasStagedChanges(ctx context.Context) (bool, error) {
	changes, err := repo.StagedChanges(ctx)
	if err != nil {
		return false, err
	}
	return len(changes) > 0, nil
}
