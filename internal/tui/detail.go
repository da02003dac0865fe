package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vigil/internal/record"
)

type detailPage struct {
	width    int
	height   int
	viewport viewport.Model
	selected *record.Record
}

func (m detailPage) Init() tea.Cmd {
	return nil
}

func (m detailPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, func() tea.Msg { return goToTableMsg{} }
		case "k":
			m.viewport.ScrollUp(1)
			return m, nil
		case "j":
			m.viewport.ScrollDown(1)
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width - 4
		m.height = msg.Height - 4
		if m.selected != nil {
			m.viewport = setupViewport(m.width, m.height, m.selected)
		}
		return m, nil
	case goToDetailMsg:
		rec := msg.rec
		m.selected = &rec
		m.viewport = setupViewport(m.width, m.height, m.selected)
		return m, nil
	}

	return m, nil
}

func (m detailPage) View() string {
	if m.selected == nil {
		return "No record selected"
	}

	lightBlue := lightBlue()
	darkBlue := darkBlue()

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(darkBlue)

	titleStyle := lipgloss.NewStyle().
		Foreground(darkBlue).
		Bold(true).
		Align(lipgloss.Left).
		MarginBottom(1).
		Width(m.width - 8)

	urlStyle := lipgloss.NewStyle().
		Foreground(lightBlue).
		Italic(true).
		MarginBottom(1).
		Width(m.width - 8)

	metaStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		MarginBottom(1)

	title := m.selected.Title
	if strings.TrimSpace(title) == "" {
		title = "No title"
	}
	titleRendered := titleStyle.Render(title)

	url := m.selected.URL
	if url == "" {
		url = "Not available"
	}
	urlRendered := urlStyle.Render("URL: " + url)

	sentiment := lipgloss.NewStyle().
		Foreground(sentimentColor(string(m.selected.Sentiment))).
		Bold(true).
		Render(string(m.selected.Sentiment))
	metaRendered := metaStyle.Render(fmt.Sprintf("%s • %s • %s • keyword: %s • %s",
		m.selected.Source, m.selected.Admin1, sentiment, m.selected.Keyword, m.selected.Timestamp))

	helpInfo := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		MarginTop(1).
		Render("j/k: scroll • g/G: top/bottom • esc/q: back")

	header := lipgloss.JoinVertical(lipgloss.Left, titleRendered, urlRendered, metaRendered)
	content := lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), helpInfo)

	return pageLayout(titleRendered, borderStyle.Render(content))
}

func setupViewport(width, height int, rec *record.Record) viewport.Model {
	contentWidth := width
	if contentWidth < 20 {
		contentWidth = 20
	}

	body := strings.TrimSpace(rec.Summary)
	if body == "" {
		body = "No summary available"
	}

	viewportHeight := height - 10
	if viewportHeight < 5 {
		viewportHeight = 5
	}

	vp := viewport.New(contentWidth, viewportHeight)
	vp.SetContent(body)

	return vp
}
