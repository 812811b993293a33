package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pasccom/qtcreator-deptree/pkg/registry"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// ComponentListModel is the bubbletea model for interactive component
// selection. Checked components become the include list of the selection
// filter; checking nothing keeps the full graph.
type ComponentListModel struct {
	Components []*registry.Component
	Checked    map[int]bool
	Cursor     int
	Confirmed  bool
	Height     int
	Offset     int
}

// NewComponentListModel creates a component picker over the registry
// records, none checked.
func NewComponentListModel(components []*registry.Component) ComponentListModel {
	return ComponentListModel{
		Components: components,
		Checked:    make(map[int]bool),
		Height:     15,
	}
}

func (m ComponentListModel) Init() tea.Cmd {
	return nil
}

func (m ComponentListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Components)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			for i := range m.Components {
				m.Checked[i] = true
			}
		case "n":
			m.Checked = make(map[int]bool)
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ComponentListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Components"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  n none  ⏎ confirm  q cancel"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Components) {
		end = len(m.Components)
	}

	for i := m.Offset; i < end; i++ {
		c := m.Components[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Checked[i] {
			check = "[" + StyleSuccess.Render("x") + "]"
		}
		exports := " "
		if c.HasExports {
			exports = "E"
		}

		line := fmt.Sprintf("%s%s %-24s %-8s %s %s", cursor, check, c.Name,
			c.Kind.String(), exports, listDimStyle.Render(fmt.Sprintf("%d deps", len(c.DependsOn))))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if m.Checked[i] {
			b.WriteString(listNormalStyle.Render(line))
		} else {
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected",
		m.Cursor+1, len(m.Components), len(m.Selection()))))

	return b.String()
}

// Selection returns the checked component names in list order.
func (m ComponentListModel) Selection() []string {
	var names []string
	for i, c := range m.Components {
		if m.Checked[i] {
			names = append(names, c.Name)
		}
	}
	return names
}

// pickComponents runs the interactive picker and returns the chosen
// include list. A cancelled picker returns nil, which keeps every
// component.
func pickComponents(components []*registry.Component) ([]string, error) {
	model := NewComponentListModel(components)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, err
	}
	result, ok := final.(ComponentListModel)
	if !ok || !result.Confirmed {
		return nil, nil
	}
	return result.Selection(), nil
}
