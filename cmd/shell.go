package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/corpeningc/cguard/internal/git"
)

func newShellCmd(rootCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive cguard shell",
		Long:  "Launch an interactive shell for running cguard commands without repeating the 'cguard' prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cmd.Flags().GetString("dir")
			if err != nil {
				return err
			}
			runInteractiveShell(rootCmd, dir, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}
}

func runInteractiveShell(rootCmd *cobra.Command, dir string, stdout, stderr io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	historyFile := getHistoryFilePath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(line string) (c []string) {
		for _, name := range getCommandNames(rootCmd) {
			if strings.HasPrefix(name, strings.ToLower(line)) {
				c = append(c, name)
			}
		}
		return
	})

	fmt.Fprintln(stdout, "cguard interactive shell. Type 'exit' or press Ctrl+D to quit.")
	fmt.Fprintln(stdout, "Type 'help' to see available commands.")

	repo := git.New(dir)
	for {
		branch, err := repo.GetCurrentBranch()
		if err != nil {
			branch = "unknown"
		}

		input, err := line.Prompt(fmt.Sprintf("[%s]> ", branch))
		if err != nil {
			// EOF (Ctrl+D) or Ctrl+C
			fmt.Fprintln(stdout)
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch strings.ToLower(input) {
		case "exit", "quit":
			fmt.Fprintln(stdout, "Goodbye!")
			saveHistory(line, historyFile)
			return
		case "clear", "cls":
			fmt.Fprint(stdout, "\033[H\033[2J")
			continue
		case "help":
			rootCmd.Help()
			continue
		}

		executeCommand(rootCmd, dir, input, stderr)
	}

	saveHistory(line, historyFile)
}

func saveHistory(line *liner.State, historyFile string) {
	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

func executeCommand(rootCmd *cobra.Command, dir, input string, stderr io.Writer) {
	parts := parseCommandLine(input)
	if len(parts) == 0 {
		return
	}
	if parts[0] == "shell" {
		fmt.Fprintln(stderr, "Error: already in the shell")
		return
	}

	// Errors are reported but never end the shell
	rootCmd.SetArgs(append([]string{"--dir", dir}, parts...))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	rootCmd.SetArgs([]string{})
	resetFlags(rootCmd)
}

// resetFlags puts every flag back to its default so one shell command does
// not leak its flags into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// parseCommandLine splits on spaces, keeping quoted sections together.
func parseCommandLine(input string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, char := range input {
		switch {
		case (char == '"' || char == '\'') && !inQuotes:
			inQuotes = true
			quoteChar = char
		case char == quoteChar && inQuotes:
			inQuotes = false
			quoteChar = 0
		case char == ' ' && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func getCommandNames(rootCmd *cobra.Command) []string {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "shell" || cmd.Hidden {
			continue
		}
		names = append(names, cmd.Name())
	}
	return names
}

func getHistoryFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cguard_history"
	}
	return filepath.Join(homeDir, ".cguard_history")
}
