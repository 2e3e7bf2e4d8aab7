package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/corpeningc/cguard/internal/hooks"
)

// Change is one entry of `git diff --name-status`.
type Change struct {
	Path string
	Type hooks.ChangeType
}

// StagedChanges lists files that differ between the index and HEAD.
func (repo *GitRepo) StagedChanges(ctx context.Context) ([]Change, error) {
	out, err := repo.output(ctx, "list staged changes",
		"diff", "--cached", "--name-status", "--no-renames", "-z")
	if err != nil {
		return nil, err
	}
	return parseNameStatus(out)
}

// CommitChanges lists files changed by rev relative to its first parent.
// Root commits list every file they add. Merge commits are compared with
// their first parent, so a conflict resolved with markers left in place
// shows up as a change of the merge itself.
func (repo *GitRepo) CommitChanges(ctx context.Context, rev string) ([]Change, error) {
	cs, err := repo.Changeset(ctx, rev)
	if err != nil {
		return nil, err
	}
	return repo.changesetChanges(ctx, cs)
}

func (repo *GitRepo) changesetChanges(ctx context.Context, cs hooks.Changeset) ([]Change, error) {
	args := []string{"diff-tree", "--no-commit-id", "--name-status", "--no-renames", "-r", "-z", "--root", cs.ID}
	if len(cs.Parents) > 0 {
		args = []string{"diff-tree", "--name-status", "--no-renames", "-r", "-z", cs.Parents[0], cs.ID}
	}

	out, err := repo.output(ctx, "list commit changes", args...)
	if err != nil {
		return nil, err
	}
	return parseNameStatus(out)
}

// Changeset describes the commit rev resolves to.
func (repo *GitRepo) Changeset(ctx context.Context, rev string) (hooks.Changeset, error) {
	out, err := repo.output(ctx, "describe "+rev,
		"log", "-1", "--format=%H%x00%an <%ae>%x00%P%x00%B", rev, "--")
	if err != nil {
		return hooks.Changeset{}, err
	}
	return parseChangeset(out)
}

func parseChangeset(out []byte) (hooks.Changeset, error) {
	fields := strings.SplitN(string(out), "\x00", 4)
	if len(fields) != 4 {
		return hooks.Changeset{}, fmt.Errorf("unexpected commit description: %q", out)
	}
	return hooks.Changeset{
		ID:      fields[0],
		Author:  fields[1],
		Parents: strings.Fields(fields[2]),
		Message: strings.TrimRight(fields[3], "\n"),
	}, nil
}

// RevList resolves rev-list arguments, such as "a..b" or "b --not
// --remotes", to commit ids, oldest first.
func (repo *GitRepo) RevList(ctx context.Context, args []string) ([]string, error) {
	out, err := repo.output(ctx, "list commits",
		append([]string{"rev-list", "--reverse"}, args...)...)
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(out)), nil
}

// parseNameStatus parses NUL separated "<status>\0<path>\0" pairs.
func parseNameStatus(out []byte) ([]Change, error) {
	fields := strings.Split(strings.TrimSuffix(string(out), "\x00"), "\x00")
	if len(fields) == 1 && fields[0] == "" {
		return nil, nil
	}
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("unexpected name-status output: %q", out)
	}

	changes := make([]Change, 0, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		status, path := fields[i], fields[i+1]
		if status == "" {
			return nil, fmt.Errorf("empty status for %q", path)
		}

		var ty hooks.ChangeType
		switch status[0] {
		case 'A', 'C':
			ty = hooks.Added
		case 'D':
			ty = hooks.Deleted
		default: // M, T, U
			ty = hooks.Modified
		}
		changes = append(changes, Change{Path: path, Type: ty})
	}
	return changes, nil
}

// StagedContent returns the blob stored in the index for path.
func (repo *GitRepo) StagedContent(ctx context.Context, path string) ([]byte, error) {
	return repo.output(ctx, "read staged "+path, "cat-file", "blob", ":"+path)
}

// RevisionContent returns the blob for path at rev.
func (repo *GitRepo) RevisionContent(ctx context.Context, rev, path string) ([]byte, error) {
	return repo.output(ctx, "read "+rev+":"+path, "cat-file", "blob", rev+":"+path)
}

// WorktreeContent reads path from the working tree.
func (repo *GitRepo) WorktreeContent(path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(repo.WorkDir, filepath.FromSlash(path)))
}

// StagedFiles returns the files of the next commit with content read from
// the index.
func (repo *GitRepo) StagedFiles(ctx context.Context) ([]hooks.File, error) {
	changes, err := repo.StagedChanges(ctx)
	if err != nil {
		return nil, err
	}

	files := make([]hooks.File, 0, len(changes))
	for _, c := range changes {
		files = append(files, hooks.NewFile(c.Path, c.Type, func(ctx context.Context) ([]byte, error) {
			return repo.StagedContent(ctx, c.Path)
		}))
	}
	return files, nil
}

// CommitFiles returns the files changed by rev with content read from rev.
func (repo *GitRepo) CommitFiles(ctx context.Context, rev string) ([]hooks.File, error) {
	cs, err := repo.Changeset(ctx, rev)
	if err != nil {
		return nil, err
	}
	return repo.changesetFiles(ctx, cs)
}

// CommitsFiles returns the changesets of commits together with the files
// each of them changed.
func (repo *GitRepo) CommitsFiles(ctx context.Context, commits []string) ([]hooks.Changeset, []hooks.File, error) {
	var (
		changesets []hooks.Changeset
		files      []hooks.File
	)
	for _, rev := range commits {
		cs, err := repo.Changeset(ctx, rev)
		if err != nil {
			return nil, nil, err
		}
		changed, err := repo.changesetFiles(ctx, cs)
		if err != nil {
			return nil, nil, err
		}
		changesets = append(changesets, cs)
		files = append(files, changed...)
	}
	return changesets, files, nil
}

func (repo *GitRepo) changesetFiles(ctx context.Context, cs hooks.Changeset) ([]hooks.File, error) {
	changes, err := repo.changesetChanges(ctx, cs)
	if err != nil {
		return nil, err
	}

	files := make([]hooks.File, 0, len(changes))
	for _, c := range changes {
		files = append(files, hooks.NewFile(c.Path, c.Type, func(ctx context.Context) ([]byte, error) {
			return repo.RevisionContent(ctx, cs.ID, c.Path)
		}))
	}
	return files, nil
}

// WorktreeFiles returns repository relative paths read from the working
// tree. Paths missing from disk are reported as deleted.
func (repo *GitRepo) WorktreeFiles(paths []string) ([]hooks.File, error) {
	files := make([]hooks.File, 0, len(paths))
	for _, p := range paths {
		p = filepath.ToSlash(filepath.Clean(p))

		info, err := os.Stat(filepath.Join(repo.WorkDir, filepath.FromSlash(p)))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			files = append(files, hooks.NewFile(p, hooks.Deleted, nil))
			continue
		case err != nil:
			return nil, err
		case info.IsDir():
			return nil, fmt.Errorf("%s is a directory", p)
		}

		files = append(files, repo.worktreeFile(p))
	}
	return files, nil
}

// PathFiles returns the files named on a command line. Relative paths are
// resolved against base. Every path must exist inside the working tree.
func (repo *GitRepo) PathFiles(base string, paths []string) ([]hooks.File, error) {
	files := make([]hooks.File, 0, len(paths))
	for _, p := range paths {
		rel, err := repo.RelPath(base, p)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(filepath.Join(repo.WorkDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}

		files = append(files, repo.worktreeFile(rel))
	}
	return files, nil
}

// RelPath turns path, relative to base unless absolute, into a forward
// slash path relative to the working tree root.
func (repo *GitRepo) RelPath(base, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	dir, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs(repo.WorkDir)
	if err != nil {
		return "", err
	}
	if root, err = filepath.EvalSymlinks(root); err != nil {
		return "", err
	}

	rel, err := filepath.Rel(root, filepath.Join(dir, filepath.Base(path)))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository at %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}

func (repo *GitRepo) worktreeFile(path string) hooks.File {
	return hooks.NewFile(path, hooks.Modified, func(context.Context) ([]byte, error) {
		return repo.WorktreeContent(path)
	})
}

// ChangedWorktreeFiles returns every file git status reports as changed in
// the index or the working tree, read from the working tree.
func (repo *GitRepo) ChangedWorktreeFiles() ([]hooks.File, error) {
	staged, unstaged, err := repo.GetFileStatuses()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var paths []string
	for _, st := range append(staged, unstaged...) {
		if seen[st.Path] {
			continue
		}
		seen[st.Path] = true
		paths = append(paths, st.Path)
	}
	return repo.WorktreeFiles(paths)
}
