package git

import (
	"bytes"
	"os/exec"
	"strings"
)

type FileStatus struct {
	Path     string
	Status   string // M(odified), A(dded), D(eleted), R(enamed), ?(untracked), U(nmerged)
	Staged   bool
	WorkTree bool
}

func (repo *GitRepo) GetModifiedFiles() ([]string, error) {
	cmd := exec.Command("git", "status", "--porcelain=v1", "-z")
	cmd.Dir = repo.WorkDir

	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range parseStatusZ(output) {
		files = append(files, entry.path)
	}

	return files, nil
}

func (repo *GitRepo) AddFiles(files []string) error {
	if len(files) == 0 {
		return nil
	}

	args := append([]string{"add", "--"}, files...)
	cmd := exec.Command("git", args...)
	cmd.Dir = repo.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return formatCommandError("add files", err, stdout, stderr)
}

// GetFileStatuses splits `git status` into staged and unstaged entries.
func (repo *GitRepo) GetFileStatuses() ([]FileStatus, []FileStatus, error) {
	cmd := exec.Command("git", "status", "--porcelain=v1", "-z", "--untracked-files=all")
	cmd.Dir = repo.WorkDir

	output, err := cmd.Output()
	if err != nil {
		return nil, nil, err
	}

	var stagedFiles, unstagedFiles []FileStatus
	for _, entry := range parseStatusZ(output) {
		stageStatus := string(entry.index)
		workTreeStatus := string(entry.worktree)

		if stageStatus != " " && stageStatus != "?" {
			stagedFiles = append(stagedFiles, FileStatus{
				Path:   entry.path,
				Status: stageStatus,
				Staged: true,
			})
		}

		if workTreeStatus != " " {
			unstagedFiles = append(unstagedFiles, FileStatus{
				Path:     entry.path,
				Status:   workTreeStatus,
				WorkTree: true,
			})
		}
	}

	return stagedFiles, unstagedFiles, nil
}

type statusEntry struct {
	index, worktree byte
	path            string
}

// parseStatusZ parses `git status --porcelain=v1 -z`. Paths are printed
// verbatim, and a rename or copy is followed by an extra field holding the
// original path.
func parseStatusZ(out []byte) []statusEntry {
	fields := strings.Split(string(out), "\x00")

	var entries []statusEntry
	for i := 0; i < len(fields); i++ {
		field := fields[i]
		if len(field) < 4 {
			continue
		}

		entry := statusEntry{index: field[0], worktree: field[1], path: field[3:]}
		if strings.ContainsAny(field[:2], "RC") {
			i++
		}
		entries = append(entries, entry)
	}
	return entries
}
