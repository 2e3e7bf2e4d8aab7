package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/corpeningc/cguard/internal/git"
	"github.com/corpeningc/cguard/internal/hooks"
	"github.com/corpeningc/cguard/internal/ui"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "cguard",
		Short:         "Keep unresolved merge conflicts out of your commits",
		Long:          "A git workflow tool that checks changes for leftover conflict markers before they are committed or pushed",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.dir, "dir", "C", ".", "run as if started in `path`")
	flags.StringVar(&opts.configPath, "config", "", "config file (default <repo>/.cguard.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newConflictsCmd(opts))
	rootCmd.AddCommand(newInstallHookCmd(opts))
	rootCmd.AddCommand(newAddCmd(opts))
	rootCmd.AddCommand(newMergeCmd(opts))
	rootCmd.AddCommand(newCommitAndPushCmd(opts))
	rootCmd.AddCommand(newShellCmd(rootCmd))
	return rootCmd
}

func newAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Interactively add files to staging, skipping files with conflict markers",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			files, err := env.repo.GetModifiedFiles()
			if err != nil {
				return fmt.Errorf("getting modified files: %w", err)
			}

			if len(files) == 0 {
				fmt.Fprintln(out, "No modified files to add.")
				return nil
			}

			selected, err := ui.SelectFiles("Select files to add:", files)
			if err != nil {
				return fmt.Errorf("selecting files: %w", err)
			}

			if len(selected) == 0 {
				fmt.Fprintln(out, "No files selected.")
				return nil
			}

			candidates, err := env.repo.WorktreeFiles(selected)
			if err != nil {
				return err
			}
			report, err := env.manager.RunFileHooks(cmd.Context(), candidates)
			if err != nil {
				return err
			}

			rejected := make(map[string]bool)
			for _, o := range report.Rejected() {
				rejected[o.Path] = true
			}

			var accepted []string
			for _, f := range candidates {
				if !rejected[f.Path] {
					accepted = append(accepted, f.Path)
				}
			}

			if err := env.repo.AddFiles(accepted); err != nil {
				return fmt.Errorf("adding files: %w", err)
			}

			fmt.Fprintf(out, "Added %d files to staging.\n", len(accepted))
			for _, file := range accepted {
				fmt.Fprintf(out, " - %s\n", file)
			}

			if !report.Accepted() {
				fmt.Fprintln(out, ui.RenderReport(report))
				return rejectionError(report)
			}
			return nil
		},
	}
}

func newMergeCmd(opts *options) *cobra.Command {
	var (
		local       bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "merge <branch>",
		Short: "Fetch origin and merge origin/<branch> (or a local branch), listing any conflict markers left behind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branch := args[0]
			repo, err := git.Open(cmd.Context(), opts.dir)
			if err != nil {
				return err
			}

			if local {
				err = repo.MergeLocalBranch(branch)
			} else {
				err = repo.MergeLatest(branch)
			}
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Successfully merged latest changes.")
				return nil
			}

			views, listErr := currentConflicts(cmd.Context(), repo)
			if listErr != nil || len(views) == 0 {
				return fmt.Errorf("merging latest changes: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderConflicts(views))
			if interactive {
				if err := ui.ShowMarkers(views); err != nil {
					return err
				}
			}
			return errors.New("merge stopped with conflicts; resolve them and run cguard check")
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "merge a local branch instead of origin/<branch>")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open the marker viewer on conflicts")
	return cmd
}

func newConflictsCmd(opts *options) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List unmerged files that still contain conflict markers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := git.Open(cmd.Context(), opts.dir)
			if err != nil {
				return err
			}
			views, err := currentConflicts(cmd.Context(), repo)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderConflicts(views))
			if interactive && len(views) > 0 {
				return ui.ShowMarkers(views)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open the marker viewer")
	return cmd
}

func currentConflicts(ctx context.Context, repo *git.GitRepo) ([]ui.ConflictView, error) {
	paths, err := repo.GetConflictedFiles(ctx)
	if err != nil {
		return nil, err
	}

	files, err := repo.ParseConflictMarkers(paths)
	if err != nil {
		return nil, err
	}

	views := make([]ui.ConflictView, 0, len(files))
	for _, f := range files {
		views = append(views, ui.ConflictView{Path: f.Path, Content: f.Content, Markers: f.Markers})
	}
	return views, nil
}

func newCommitAndPushCmd(opts *options) *cobra.Command {
	var noPush bool

	cmd := &cobra.Command{
		Use:   "cap [message]",
		Short: "Check staged changes, then commit and push",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			staged, err := env.repo.HasStagedChanges(ctx)
			if err != nil {
				return err
			}
			if !staged {
				fmt.Fprintln(out, "Nothing staged to commit.")
				return nil
			}

			var report *hooks.Report
			commit := func(message string) error {
				files, err := env.repo.StagedFiles(ctx)
				if err != nil {
					return err
				}
				report, err = env.manager.RunFileHooks(ctx, files)
				if err != nil {
					return err
				}
				if !report.Accepted() {
					return rejectionError(report)
				}
				return env.repo.Commit(message)
			}

			if len(args) == 1 {
				err = commit(args[0])
			} else {
				err = ui.StartCommitInput(commit)
			}
			if errors.Is(err, errRejected) {
				fmt.Fprintln(out, ui.RenderReport(report))
			}
			if err != nil {
				return err
			}

			if noPush {
				fmt.Fprintln(out, "Successfully committed changes.")
				return nil
			}

			if err := env.repo.Push(); err != nil {
				return fmt.Errorf("pushing changes: %w", err)
			}

			fmt.Fprintln(out, "Successfully committed and pushed changes.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noPush, "no-push", false, "commit without pushing")
	return cmd
}
