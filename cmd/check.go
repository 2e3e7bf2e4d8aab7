package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corpeningc/cguard/internal/git"
	"github.com/corpeningc/cguard/internal/hooks"
	"github.com/corpeningc/cguard/internal/ui"
)

func newCheckCmd(opts *options) *cobra.Command {
	var (
		rev         string
		revRange    string
		prePush     bool
		worktree    bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check changed files for unresolved conflict markers",
		Long: `Runs the file hooks against the files of a change and fails if any file is rejected.

By default the staged files are checked with their content read from the index,
which is what a pre-commit hook needs. --rev checks the files changed by a commit,
--range every commit a rev-list range selects (for example "origin/main..HEAD"),
and --pre-push every commit of the ref updates git writes to a pre-push hook's
standard input. Commit messages are checked along with the files in those modes.
--worktree checks every changed file in the working tree, and explicit paths are
read from the working tree as they are.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && (rev != "" || revRange != "" || prePush || worktree) {
				return errors.New("paths cannot be combined with --rev, --range, --pre-push or --worktree")
			}

			env, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var (
				files   []hooks.File
				commits []string
			)
			switch {
			case len(args) > 0:
				files, err = env.repo.PathFiles(env.dir, args)
			case worktree:
				files, err = env.repo.ChangedWorktreeFiles()
			case rev != "":
				commits = []string{rev}
			case revRange != "":
				commits, err = env.repo.RevList(ctx, strings.Fields(revRange))
			case prePush:
				var updates []git.PushUpdate
				updates, err = git.ParsePushUpdates(cmd.InOrStdin())
				if err == nil {
					commits, err = env.repo.PushedCommits(ctx, updates)
				}
			default:
				files, err = env.repo.StagedFiles(ctx)
			}
			if err != nil {
				return fmt.Errorf("collecting files: %w", err)
			}

			var changesets []hooks.Changeset
			if len(commits) > 0 {
				changesets, files, err = env.repo.CommitsFiles(ctx, commits)
				if err != nil {
					return fmt.Errorf("collecting files: %w", err)
				}
			}

			report, err := env.manager.RunFileHooks(ctx, files)
			if err != nil {
				return err
			}
			csReport, err := env.manager.RunChangesetHooks(ctx, changesets)
			if err != nil {
				return err
			}
			report.Merge(csReport)

			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderReport(report))
			if report.Accepted() {
				return nil
			}

			if interactive {
				views, err := conflictViews(ctx, files, report)
				if err != nil {
					return err
				}
				if err := ui.ShowMarkers(views); err != nil {
					return err
				}
			}
			return rejectionError(report)
		},
	}

	cmd.Flags().StringVar(&rev, "rev", "", "check the files changed by this commit")
	cmd.Flags().StringVar(&revRange, "range", "", "check every commit selected by these rev-list arguments")
	cmd.Flags().BoolVar(&prePush, "pre-push", false, "check the commits of the ref updates read from standard input")
	cmd.Flags().BoolVar(&worktree, "worktree", false, "check every changed file in the working tree")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open the marker viewer when files are rejected")
	cmd.MarkFlagsMutuallyExclusive("rev", "range", "pre-push", "worktree")
	return cmd
}
