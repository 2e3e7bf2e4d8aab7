package ui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/corpeningc/cguard/internal/hooks"
)

// ConflictView is a file to show in the marker viewer.
type ConflictView struct {
	Path    string
	Content []byte
	Markers []hooks.Marker
}

type MarkerViewerModel struct {
	files         []ConflictView
	currentFile   int
	currentMarker int
	viewport      viewport.Model
	ready         bool

	// Styles
	titleStyle     lipgloss.Style
	oursStyle      lipgloss.Style
	theirsStyle    lipgloss.Style
	separatorStyle lipgloss.Style
	lineNoStyle    lipgloss.Style
	contextStyle   lipgloss.Style
	helpStyle      lipgloss.Style
}

func NewMarkerViewerModel(files []ConflictView) MarkerViewerModel {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62"))

	return MarkerViewerModel{
		files:    files,
		viewport: vp,

		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),

		oursStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true),

		theirsStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		separatorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Bold(true),

		lineNoStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		contextStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

func (m MarkerViewerModel) Init() tea.Cmd {
	return nil
}

func (m MarkerViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 4 // Title + help + borders
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-headerHeight)
			m.viewport.Style = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62"))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - headerHeight
		}
		m.showFile()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit

		case "n", "tab":
			if m.currentFile < len(m.files)-1 {
				m.currentFile++
				m.showFile()
			}

		case "p", "shift+tab":
			if m.currentFile > 0 {
				m.currentFile--
				m.showFile()
			}

		case "m":
			m.nextMarker()

		case "g", "home":
			m.viewport.GotoTop()

		case "G", "end":
			m.viewport.GotoBottom()
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m MarkerViewerModel) View() string {
	if len(m.files) == 0 {
		return m.helpStyle.Render("No conflict markers to show.")
	}
	if !m.ready {
		return "Loading..."
	}

	file := m.files[m.currentFile]
	title := m.titleStyle.Render(fmt.Sprintf("Conflict markers - %s (%d/%d, %d %s)",
		file.Path, m.currentFile+1, len(m.files),
		len(file.Markers), plural(len(file.Markers), "marker", "markers")))

	help := m.helpStyle.Render("n/p: next/prev file | m: next marker | j/k: scroll | g/G: top/bottom | q: quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), help)
}

// Files currently loaded in the viewer.
func (m MarkerViewerModel) Files() []ConflictView {
	return m.files
}

func (m *MarkerViewerModel) showFile() {
	if len(m.files) == 0 {
		return
	}
	m.currentMarker = -1
	m.viewport.SetContent(m.formatFile(m.files[m.currentFile]))
	m.nextMarker()
}

// nextMarker scrolls to the following marker of the current file, wrapping
// around after the last one.
func (m *MarkerViewerModel) nextMarker() {
	if len(m.files) == 0 {
		return
	}
	markers := m.files[m.currentFile].Markers
	if len(markers) == 0 {
		return
	}
	m.currentMarker = (m.currentMarker + 1) % len(markers)
	m.viewport.SetYOffset(max(markers[m.currentMarker].Line-3, 0))
}

func (m MarkerViewerModel) formatFile(file ConflictView) string {
	kinds := make(map[int]hooks.MarkerKind, len(file.Markers))
	for _, marker := range file.Markers {
		kinds[marker.Line] = marker.Kind
	}

	lines := strings.Split(strings.TrimSuffix(string(bytes.ReplaceAll(file.Content, []byte("\r\n"), []byte("\n"))), "\n"), "\n")
	width := len(fmt.Sprint(len(lines)))

	formatted := make([]string, 0, len(lines))
	for i, line := range lines {
		number := m.lineNoStyle.Render(fmt.Sprintf("%*d ", width, i+1))

		style := m.contextStyle
		if kind, ok := kinds[i+1]; ok {
			switch kind {
			case hooks.MarkerOurs:
				style = m.oursStyle
			case hooks.MarkerTheirs:
				style = m.theirsStyle
			case hooks.MarkerSeparator:
				style = m.separatorStyle
			}
		}
		formatted = append(formatted, number+style.Render(line))
	}

	return strings.Join(formatted, "\n")
}

// ShowMarkers opens a full screen viewer over files.
func ShowMarkers(files []ConflictView) error {
	m := NewMarkerViewerModel(files)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
