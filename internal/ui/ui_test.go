package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpeningc/cguard/internal/hooks"
)

func conflictView(path, content string) ConflictView {
	return ConflictView{
		Path:    path,
		Content: []byte(content),
		Markers: hooks.FindConflictMarkers([]byte(content)),
	}
}

func TestRenderReport_Accepted(t *testing.T) {
	out := RenderReport(&hooks.Report{
		Files:     2,
		BytesRead: 2048,
		Outcomes: []hooks.Outcome{
			{Hook: "conflict_markers", Path: "a.go", Verdict: hooks.Accepted()},
			{Hook: "conflict_markers", Path: "b.go", Verdict: hooks.Accepted()},
		},
	})

	assert.Contains(t, out, "Checked 2 files (2.0 kB read)")
	assert.Contains(t, out, "No problems found")
}

func TestRenderReport_Rejected(t *testing.T) {
	out := RenderReport(&hooks.Report{
		Files: 1,
		Outcomes: []hooks.Outcome{{
			Hook: "conflict_markers",
			Path: "a/b.txt",
			Verdict: hooks.Rejected(hooks.RejectionInfo{
				Description:     "Conflict markers were found in file 'a/b.txt'",
				LongDescription: "line 2: <<<<<<< HEAD",
			}),
		}},
	})

	assert.Contains(t, out, "Checked 1 file ")
	assert.Contains(t, out, "a/b.txt")
	assert.Contains(t, out, "Conflict markers were found in file 'a/b.txt'")
	assert.Contains(t, out, "line 2: <<<<<<< HEAD")
	assert.Contains(t, out, "1 file rejected")
}

func TestRenderReport_RejectedCommit(t *testing.T) {
	out := RenderReport(&hooks.Report{
		Files:      3,
		Changesets: 2,
		Outcomes: []hooks.Outcome{
			{Hook: "conflict_markers", Path: "a.txt", Verdict: hooks.Rejected(hooks.RejectionInfo{
				Description: "Conflict markers were found in file 'a.txt'",
			})},
			{Hook: "message_conflict_markers", Changeset: "0123456789abcdef0123", Verdict: hooks.Rejected(hooks.RejectionInfo{
				Description: "Conflict markers were found in the message of commit 0123456789ab",
			})},
		},
	})

	assert.Contains(t, out, "Checked 3 files in 2 commits")
	assert.Contains(t, out, "commit 0123456789ab")
	assert.NotContains(t, out, "0123456789abcdef0123")
	assert.Contains(t, out, "1 file and 1 commit rejected")
}

func TestRenderConflicts(t *testing.T) {
	assert.Contains(t, RenderConflicts(nil), "No conflict markers left")

	out := RenderConflicts([]ConflictView{conflictView("x.go", "<<<<<<< HEAD\na\n=======\nb\n>>>>>>> other\n")})
	assert.Contains(t, out, "1 file with conflict markers")
	assert.Contains(t, out, "1: <<<<<<< HEAD")
	assert.Contains(t, out, "3: =======")
	assert.Contains(t, out, "5: >>>>>>> other")
}

func TestMarkerViewer_FormatFile(t *testing.T) {
	m := NewMarkerViewerModel(nil)
	out := m.formatFile(conflictView("x.go", "a\r\n<<<<<<< HEAD\r\nb\r\n"))

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "1 a")
	assert.Contains(t, lines[1], "2 <<<<<<< HEAD")
	assert.NotContains(t, out, "\r")
}

func TestMarkerViewer_Navigation(t *testing.T) {
	files := []ConflictView{
		conflictView("one.go", "<<<<<<< HEAD\nx\n=======\ny\n>>>>>>> b\n"),
		conflictView("two.go", "=======\n"),
	}

	var model tea.Model = NewMarkerViewerModel(files)
	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	m := model.(MarkerViewerModel)
	assert.True(t, m.ready)
	assert.Equal(t, 0, m.currentMarker)
	assert.Contains(t, m.View(), "one.go (1/2, 3 markers)")

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	m = model.(MarkerViewerModel)
	assert.Equal(t, 1, m.currentMarker)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = model.(MarkerViewerModel)
	assert.Equal(t, 1, m.currentFile)
	assert.Contains(t, m.View(), "two.go (2/2, 1 marker)")

	// Already on the last file.
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = model.(MarkerViewerModel)
	assert.Equal(t, 1, m.currentFile)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m = model.(MarkerViewerModel)
	assert.Equal(t, 0, m.currentFile)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestMarkerViewer_Empty(t *testing.T) {
	m := NewMarkerViewerModel(nil)
	assert.Contains(t, m.View(), "No conflict markers to show.")
}

func TestCommitInput(t *testing.T) {
	var got string
	commitErr := errors.New("rejected")

	var model tea.Model = NewCommitInputModel(func(message string) error {
		got = message
		return commitErr
	})

	// Empty message is ignored.
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("fix")})
	model, cmd = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	model, _ = model.Update(cmd())
	m := model.(CommitInputModel)
	assert.Equal(t, "fix", got)
	assert.True(t, m.committed)
	assert.ErrorIs(t, m.err, commitErr)
	assert.Contains(t, m.View(), "Commit failed: rejected")
}
