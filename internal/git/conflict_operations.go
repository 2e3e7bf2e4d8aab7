package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/corpeningc/cguard/internal/hooks"
)

// ConflictFile is an unmerged file and the conflict markers still present
// in its working tree copy.
type ConflictFile struct {
	Path    string
	Content []byte
	Markers []hooks.Marker
}

// GetConflictedFiles returns the paths git still considers unmerged.
func (repo *GitRepo) GetConflictedFiles(ctx context.Context) ([]string, error) {
	out, err := repo.output(ctx, "list conflicted files", "diff", "--name-only", "--diff-filter=U", "-z")
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, p := range strings.Split(string(out), "\x00") {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// ParseConflictMarkers reads each path from the working tree and returns
// the ones the conflict marker check would reject.
func (repo *GitRepo) ParseConflictMarkers(paths []string) ([]ConflictFile, error) {
	var files []ConflictFile
	for _, p := range paths {
		content, err := os.ReadFile(filepath.Join(repo.WorkDir, filepath.FromSlash(p)))
		if err != nil {
			return nil, err
		}
		if hooks.CheckConflictMarkers(p, content).IsAccepted() {
			continue
		}
		files = append(files, ConflictFile{
			Path:    p,
			Content: content,
			Markers: hooks.FindConflictMarkers(content),
		})
	}
	return files, nil
}
