package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/corpeningc/cguard/internal/hooks"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	acceptedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	rejectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			PaddingLeft(4)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// RenderReport formats the result of a hook run for the terminal.
func RenderReport(report *hooks.Report) string {
	var sections []string

	checked := fmt.Sprintf("%d %s", report.Files, plural(report.Files, "file", "files"))
	if report.Changesets > 0 {
		checked += fmt.Sprintf(" in %d %s", report.Changesets,
			plural(report.Changesets, "commit", "commits"))
	}
	summary := fmt.Sprintf("Checked %s (%s read)", checked, humanize.Bytes(uint64(report.BytesRead)))
	sections = append(sections, titleStyle.Render(summary))

	rejected := report.Rejected()
	if len(rejected) == 0 {
		sections = append(sections, acceptedStyle.Render("✓ No problems found"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	var files, commits int
	for _, o := range rejected {
		subject := o.Path
		if o.Changeset != "" {
			subject = "commit " + hooks.Changeset{ID: o.Changeset}.ShortID()
			commits++
		} else {
			files++
		}

		info, _ := o.Verdict.Rejection()
		line := rejectedStyle.Render("✗ ") + pathStyle.Render(subject) + " " +
			helpStyle.Render("["+o.Hook+"]")
		sections = append(sections, line, "  "+info.Description)
		if info.LongDescription != "" {
			sections = append(sections, detailStyle.Render(info.LongDescription))
		}
	}

	var counts []string
	if files > 0 {
		counts = append(counts, fmt.Sprintf("%d %s", files, plural(files, "file", "files")))
	}
	if commits > 0 {
		counts = append(counts, fmt.Sprintf("%d %s", commits, plural(commits, "commit", "commits")))
	}
	sections = append(sections, rejectedStyle.Render(strings.Join(counts, " and ")+" rejected"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderConflicts lists unmerged files with the marker lines left in them.
func RenderConflicts(files []ConflictView) string {
	if len(files) == 0 {
		return acceptedStyle.Render("✓ No conflict markers left")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d %s with conflict markers",
		len(files), plural(len(files), "file", "files"))))
	for _, f := range files {
		b.WriteString("\n" + pathStyle.Render(f.Path))
		for _, m := range f.Markers {
			b.WriteString("\n" + detailStyle.Render(fmt.Sprintf("%d: %s", m.Line, m.Text)))
		}
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
