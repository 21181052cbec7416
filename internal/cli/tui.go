package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/geco/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorFaint)
)

// =============================================================================
// LevelListModel - Interactive taxonomic level selection
// =============================================================================

// LevelListModel is the bubbletea model for picking the level of a
// hierarchical notation.
type LevelListModel struct {
	Notation string
	Levels   []pipeline.Level
	Cursor   int
	Selected *pipeline.Level
	Height   int
	Offset   int
}

// NewLevelListModel creates a new level list model.
func NewLevelListModel(notation string, levels []pipeline.Level) LevelListModel {
	return LevelListModel{
		Notation: notation,
		Levels:   levels,
		Height:   15,
	}
}

func (m LevelListModel) Init() tea.Cmd {
	return nil
}

func (m LevelListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Levels)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Levels) - 1
			m.Offset = max(0, m.Cursor-m.Height+1)
		case "enter":
			if len(m.Levels) == 0 {
				return m, tea.Quit
			}
			level := m.Levels[m.Cursor]
			m.Selected = &level
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m LevelListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select " + m.Notation + " level"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Levels))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, m.Levels[i].ID, levelName(m.Levels[i])})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "Level", "Name").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorOK).Bold(true)
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorMuted)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Levels))))

	return b.String()
}

func levelName(l pipeline.Level) string {
	if l.Name == "" {
		return "—"
	}
	return l.Name
}
