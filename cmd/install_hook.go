package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corpeningc/cguard/internal/git"
	"github.com/corpeningc/cguard/internal/ui"
)

// hookScripts are the installable hooks. git feeds pre-push the ref
// updates on standard input, which exec hands straight to cguard.
var hookScripts = map[string]string{
	"pre-commit": "#!/bin/sh\n# Installed by cguard.\nexec cguard check\n",
	"pre-push":   "#!/bin/sh\n# Installed by cguard.\nexec cguard check --pre-push\n",
}

func newInstallHookCmd(opts *options) *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "install-hook",
		Short: "Install cguard as a git pre-commit or pre-push hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			script, ok := hookScripts[name]
			if !ok {
				return fmt.Errorf("unsupported hook %q (want pre-commit or pre-push)", name)
			}

			repo := git.New(opts.dir)
			ctx := cmd.Context()

			path, err := repo.InstallHook(ctx, name, script, force)
			if errors.Is(err, git.ErrHookExists) {
				replace, promptErr := ui.Confirm(fmt.Sprintf("Replace existing %s hook?", name), path)
				if promptErr != nil {
					return fmt.Errorf("%w (use --force to replace it)", err)
				}
				if !replace {
					fmt.Fprintln(cmd.OutOrStdout(), "Left existing hook in place.")
					return nil
				}
				path, err = repo.InstallHook(ctx, name, script, true)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Installed %s hook at %s\n", name, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "hook", "pre-commit", "hook to install: pre-commit or pre-push")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing hook without asking")
	return cmd
}
