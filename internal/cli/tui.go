package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pagecraft/pkg/validate"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	detailBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	filterTagStyle  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	selectedRowCell = lipgloss.NewStyle().Padding(0, 1).Foreground(colorCyan).Bold(true)
)

// =============================================================================
// IssueBrowserModel - Interactive issue list
// =============================================================================

// IssueBrowserModel is the bubbletea model for browsing validation issues.
// Pressing f cycles a filter through the codes present.
type IssueBrowserModel struct {
	Title  string
	Issues validate.Issues
	Cursor int
	Offset int
	Height int

	codes  []validate.Code
	filter int // index into codes, -1 for all
}

// NewIssueBrowserModel creates a browser over issues.
func NewIssueBrowserModel(title string, issues validate.Issues) IssueBrowserModel {
	var codes []validate.Code
	for _, is := range issues {
		if !slices.Contains(codes, is.Code) {
			codes = append(codes, is.Code)
		}
	}
	return IssueBrowserModel{
		Title:  title,
		Issues: issues,
		Height: 12,
		codes:  codes,
		filter: -1,
	}
}

// Visible returns the issues that pass the current filter.
func (m IssueBrowserModel) Visible() validate.Issues {
	if m.filter < 0 {
		return m.Issues
	}
	return m.Issues.ByCode(m.codes[m.filter])
}

func (m IssueBrowserModel) Init() tea.Cmd {
	return nil
}

func (m IssueBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.Visible())
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
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		case "f":
			if len(m.codes) > 0 {
				m.filter++
				if m.filter >= len(m.codes) {
					m.filter = -1
				}
				m.Cursor, m.Offset = 0, 0
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m IssueBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	if m.filter >= 0 {
		b.WriteString("  " + filterTagStyle.Render("["+string(m.codes[m.filter])+"]"))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  f filter by code  q quit"))
	b.WriteString("\n\n")

	visible := m.Visible()
	if len(visible) == 0 {
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " no issues\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(visible))
	window := visible[m.Offset:end]
	t := issueTable(window)
	cursor := m.Cursor - m.Offset
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == headerRow:
			return styleHeader.Padding(0, 1)
		case row == cursor:
			return selectedRowCell
		case col == 0:
			return styleCode.Padding(0, 1)
		}
		return styleCell.Foreground(colorGray)
	})
	b.WriteString(t.Render())
	b.WriteString("\n")

	b.WriteString(detailBoxStyle.Render(issueDetail(visible[m.Cursor])))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(visible))))

	return b.String()
}

// issueDetail shows every field of one issue.
func issueDetail(is validate.Issue) string {
	lines := []string{
		detailKeyStyle.Render("code") + " " + styleCode.Render(string(is.Code)),
		detailKeyStyle.Render("message") + " " + StyleValue.Render(is.Message),
	}
	if is.Path != "" {
		lines = append(lines, detailKeyStyle.Render("path")+" "+StyleValue.Render(is.Path))
	}
	if is.Attribute != "" {
		lines = append(lines, detailKeyStyle.Render("attribute")+" "+StyleValue.Render(is.Attribute))
	}
	if is.Value != "" {
		lines = append(lines, detailKeyStyle.Render("value")+" "+StyleValue.Render(fmt.Sprintf("%q", is.Value)))
	}
	return strings.Join(lines, "\n")
}
