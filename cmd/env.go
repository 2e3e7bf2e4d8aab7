package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corpeningc/cguard/internal/config"
	"github.com/corpeningc/cguard/internal/git"
	"github.com/corpeningc/cguard/internal/hooks"
	"github.com/corpeningc/cguard/internal/logging"
	"github.com/corpeningc/cguard/internal/ui"
)

// errRejected is returned when at least one hook rejected a file.
var errRejected = errors.New("change rejected")

// options holds the persistent flags shared by every command.
type options struct {
	dir        string
	configPath string
	logLevel   string
	logFormat  string
}

// env is what a command needs once flags and config are resolved. repo is
// rooted at the top of the working tree; dir is where the command was
// pointed at, against which path arguments resolve.
type env struct {
	dir     string
	repo    *git.GitRepo
	cfg     config.Config
	logger  *slog.Logger
	manager *hooks.Manager
}

// availableHooks lists every file hook cguard knows how to run.
func availableHooks() []hooks.FileHook {
	return []hooks.FileHook{
		hooks.ConflictMarkersHook{},
	}
}

func availableChangesetHooks() []hooks.ChangesetHook {
	return []hooks.ChangesetHook{
		hooks.MessageConflictMarkersHook{},
	}
}

func (o *options) setup(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	repo, err := git.Open(ctx, o.dir)
	if err != nil {
		repo = git.New(o.dir)
	}
	root := repo.WorkDir

	var cfg config.Config
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadDefault(root)
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CGUARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CGUARD_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

	manager, err := newManager(ctx, repo, root, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &env{dir: o.dir, repo: repo, cfg: cfg, logger: logger, manager: manager}, nil
}

func newManager(ctx context.Context, repo *git.GitRepo, root string, cfg config.Config, logger *slog.Logger) (*hooks.Manager, error) {
	known := make(map[string]bool)
	for _, h := range availableHooks() {
		known[h.Name()] = true
	}
	for _, h := range availableChangesetHooks() {
		known[h.Name()] = true
	}
	for _, name := range cfg.Hooks.Disabled {
		if !known[name] {
			return nil, fmt.Errorf("config: unknown hook %q in hooks.disabled", name)
		}
	}

	name, err := repo.RepoName(ctx)
	if err != nil {
		name = filepath.Base(root)
		if abs, err := filepath.Abs(root); err == nil {
			name = filepath.Base(abs)
		}
	}

	manager := hooks.NewManager(
		hooks.WithRepoName(name),
		hooks.WithConcurrency(cfg.Concurrency),
		hooks.WithFileTimeout(cfg.FileTimeout),
		hooks.WithLogger(logger),
	)
	for _, h := range availableHooks() {
		if cfg.HookEnabled(h.Name()) {
			manager.Register(h)
		}
	}
	for _, h := range availableChangesetHooks() {
		if cfg.HookEnabled(h.Name()) {
			manager.RegisterChangeset(h)
		}
	}
	return manager, nil
}

// rejectionError summarises the rejected files of report.
func rejectionError(report *hooks.Report) error {
	var reasons []string
	for _, o := range report.Rejected() {
		reasons = append(reasons, o.Verdict.Reason())
	}
	return fmt.Errorf("%w: %s", errRejected, strings.Join(reasons, "; "))
}

// conflictViews loads the files the conflict marker hook rejected for the
// interactive viewer.
func conflictViews(ctx context.Context, files []hooks.File, report *hooks.Report) ([]ui.ConflictView, error) {
	byPath := make(map[string]hooks.File, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}

	var views []ui.ConflictView
	for _, o := range report.Rejected() {
		if o.Hook != hooks.ConflictMarkersHookName {
			continue
		}
		content, err := byPath[o.Path].Content(ctx)
		if err != nil {
			return nil, err
		}
		views = append(views, ui.ConflictView{
			Path:    o.Path,
			Content: content,
			Markers: hooks.FindConflictMarkers(content),
		})
	}
	return views, nil
}
