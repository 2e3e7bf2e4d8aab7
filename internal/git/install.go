package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrHookExists = errors.New("hook already exists")

// HooksDir returns the directory git runs hooks from, honouring
// core.hooksPath.
func (repo *GitRepo) HooksDir(ctx context.Context) (string, error) {
	out, err := repo.output(ctx, "find hooks dir", "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", err
	}

	dir := strings.TrimSpace(string(out))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repo.WorkDir, dir)
	}
	return dir, nil
}

// InstallHook writes an executable hook script named name. An existing hook
// is only replaced when force is set.
func (repo *GitRepo) InstallHook(ctx context.Context, name, script string, force bool) (string, error) {
	dir, err := repo.HooksDir(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("%s: %w", path, ErrHookExists)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return "", err
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}
