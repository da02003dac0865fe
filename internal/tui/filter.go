package tui

import (
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// filterPage lets the user narrow the table to records whose title, summary
// or keyword contains a typed phrase.
type filterPage struct {
	width       int
	height      int
	filterInput textinput.Model
}

func (m filterPage) Init() tea.Cmd {
	return nil
}

func (m filterPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			if m.filterInput.Focused() {
				query := strings.TrimSpace(m.filterInput.Value())
				return m, tea.Batch(
					func() tea.Msg { return applyKeywordFilterMsg{query: query} },
					func() tea.Msg { return goToTableMsg{} },
				)
			}
		}

		if msg.Type == tea.KeyTab {
			if !m.filterInput.Focused() {
				m.filterInput.Focus()
			}
		}
		switch msg.String() {
		case "esc":
			if m.filterInput.Focused() {
				m.filterInput.Blur()
			} else {
				return m, tea.Quit
			}
		case "1":
			if !m.filterInput.Focused() {
				return m, func() tea.Msg { return goToTableMsg{} }
			}
		default:
			updated, cmd := m.filterInput.Update(msg)
			m.filterInput = updated
			return m, cmd
		}
	case goToFilterMsg:
		if m.filterInput.Value() == "" {
			m.filterInput = initializeInput()
		}
		m.filterInput.Focus()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func initializeInput() textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "explosion"
	input.PlaceholderStyle.Width(40)
	input.Width = 50

	return input
}

func (m filterPage) View() string {
	instructions := lipgloss.NewStyle().
		MarginTop(min(m.height/4, 10)).
		MarginBottom(2).
		Render("Type a phrase to narrow the table; Enter with an empty field clears the filter")

	borderColor := lipgloss.Color("8")
	if m.filterInput.Focused() {
		borderColor = lipgloss.Color("15")
	}

	input := lipgloss.NewStyle().
		Width(50).
		AlignHorizontal(lipgloss.Left).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(m.filterInput.View())

	var helpInfo string
	if m.filterInput.Focused() {
		helpInfo = helpBar([]string{
			"Enter: apply filter",
			"Esc: unfocus input",
		})
	} else {
		helpInfo = helpBar([]string{
			"1: go to table view",
			"Tab: focus input",
			"Esc: quit vigil",
		})
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		renderMenu(1, m.width),
		instructions,
		input,
		lipgloss.NewStyle().MarginTop(2).Render(helpInfo),
	)

	return pageLayout("Keyword filter", content)
}
