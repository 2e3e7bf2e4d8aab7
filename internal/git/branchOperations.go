package git

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

func (repo *GitRepo) GetCurrentBranch() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Env = os.Environ()
	cmd.Dir = repo.WorkDir

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

// MergeLatest fetches origin and merges origin/<branch> into the current
// branch. When branch is the current branch this is a pull.
func (repo *GitRepo) MergeLatest(branch string) error {
	if err := repo.Fetch(); err != nil {
		return err
	}

	cmd := exec.Command("git", "merge", "origin/"+branch)
	cmd.Dir = repo.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return formatCommandError("merge", err, stdout, stderr)
}

// MergeLocalBranch merges another local branch into the current one.
func (repo *GitRepo) MergeLocalBranch(branchName string) error {
	cmd := exec.Command("git", "merge", branchName)
	cmd.Dir = repo.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return formatCommandError("merge local branch", err, stdout, stderr)
}
