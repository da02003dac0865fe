package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"vigil/internal/list"
	"vigil/internal/record"
)

const allFilter = "All"

type tablePage struct {
	all  []record.Record // full snapshot in discovery order
	rows []record.Record // view after filters

	sourceOptions []string
	sourceIdx     int
	sentimentIdx  int
	keywordQuery  string
	failures      int
	archiveErr    error

	table *table.Table

	ready         bool
	cursor        int
	currentPage   int
	totalPages    int
	tableWidth    int
	tableHeight   int
	dateWidth     int
	sourceWidth   int
	admin1Width   int
	keywordWidth  int
	sentWidth     int
	titleWidth    int
	pageSize      int
}

var sentimentOptions = []string{allFilter, "Warning", "Rumor", "Neutral"}

func newTablePage(records []record.Record, failures int) tablePage {
	m := tablePage{
		all:           records,
		sourceOptions: sourceOptions(records),
		failures:      failures,
		pageSize:      10,
	}
	m.applyFilters()
	return m
}

// sourceOptions collects distinct sources in discovery order, prefixed with
// the "All" pseudo-filter.
func sourceOptions(records []record.Record) []string {
	opts := []string{allFilter}
	seen := map[string]bool{}
	for _, r := range records {
		if !seen[r.Source] {
			seen[r.Source] = true
			opts = append(opts, r.Source)
		}
	}
	return opts
}

func (m *tablePage) applyFilters() {
	source, sentiment := "", ""
	if m.sourceIdx > 0 && m.sourceIdx < len(m.sourceOptions) {
		source = m.sourceOptions[m.sourceIdx]
	}
	if m.sentimentIdx > 0 {
		sentiment = sentimentOptions[m.sentimentIdx]
	}
	rows := list.Filter(m.all, source, sentiment)
	if q := strings.ToLower(strings.TrimSpace(m.keywordQuery)); q != "" {
		var kept []record.Record
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.Title), q) ||
				strings.Contains(strings.ToLower(r.Keyword), q) ||
				strings.Contains(strings.ToLower(r.Summary), q) {
				kept = append(kept, r)
			}
		}
		rows = kept
	}
	m.rows = rows
	m.cursor = 0
	m.currentPage = 0
	if m.pageSize > 0 {
		m.totalPages = (len(m.rows) + m.pageSize - 1) / m.pageSize
	}
}

func (m tablePage) Init() tea.Cmd {
	return nil
}

func (m tablePage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsReloadedMsg:
		m.all = msg.records
		m.failures = msg.failures
		m.archiveErr = msg.archiveErr
		m.sourceOptions = sourceOptions(msg.records)
		m.sourceIdx = 0
		m.applyFilters()
		m.updateTableRows()
		return m, nil
	case applyKeywordFilterMsg:
		m.keywordQuery = msg.query
		m.applyFilters()
		m.updateTableRows()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s": // cycle source filter
			if len(m.sourceOptions) > 0 {
				m.sourceIdx = (m.sourceIdx + 1) % len(m.sourceOptions)
				m.applyFilters()
				m.updateTableRows()
			}
			return m, nil
		case "w": // cycle sentiment filter
			m.sentimentIdx = (m.sentimentIdx + 1) % len(sentimentOptions)
			m.applyFilters()
			m.updateTableRows()
			return m, nil
		case "r":
			return m, func() tea.Msg { return requestRefreshMsg{} }
		case " ":
			if len(m.rows) > 0 {
				globalCursor := m.currentPage*m.pageSize + m.cursor
				if globalCursor < len(m.rows) {
					selected := m.rows[globalCursor]
					return m, func() tea.Msg { return goToDetailMsg{rec: selected} }
				}
			}
			return m, nil
		case "2":
			return m, func() tea.Msg { return goToFilterMsg{} }
		case "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.currentPage > 0 {
				m.currentPage--
				m.cursor = m.pageSize - 1
			}
			m.updateTableRows()
			return m, nil
		case "j":
			onPage := min(m.pageSize, len(m.rows)-m.currentPage*m.pageSize)
			if m.cursor < onPage-1 {
				m.cursor++
			} else if m.currentPage < m.totalPages-1 {
				m.currentPage++
				m.cursor = 0
			}
			m.updateTableRows()
			return m, nil
		case "g":
			m.currentPage = 0
			m.cursor = 0
			m.updateTableRows()
			return m, nil
		case "G":
			if m.totalPages > 0 {
				m.currentPage = m.totalPages - 1
				last := len(m.rows) % m.pageSize
				if last == 0 {
					last = m.pageSize
				}
				m.cursor = last - 1
				m.updateTableRows()
			}
			return m, nil
		case "l":
			if m.currentPage < m.totalPages-1 {
				m.currentPage++
				m.cursor = 0
				m.updateTableRows()
				return m, tea.ClearScreen // force refresh to fix border rendering
			}
			return m, nil
		case "h":
			if m.currentPage > 0 {
				m.currentPage--
				m.cursor = 0
				m.updateTableRows()
				return m, tea.ClearScreen
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.tableWidth = msg.Width - 2
		m.tableHeight = msg.Height
		m.configureTable(msg.Width, msg.Height-4)
		m.ready = true
		return m, tea.ClearScreen
	}

	return m, nil
}

func (m tablePage) View() string {
	if !m.ready {
		return "...Loading"
	}

	menu := renderMenu(0, m.tableWidth)
	status := m.renderStatus()

	if len(m.rows) == 0 {
		empty := "No data to display. Press r to fetch the latest feeds and searches."
		return pageLayout("Records", lipgloss.JoinVertical(lipgloss.Left, menu, status, empty, m.renderHelp()))
	}

	return pageLayout("Records", lipgloss.JoinVertical(lipgloss.Left, menu, status, m.table.Render(), m.renderHelp()))
}

func (m tablePage) renderStatus() string {
	source := m.sourceOptions[min(m.sourceIdx, len(m.sourceOptions)-1)]
	sentiment := sentimentOptions[m.sentimentIdx]
	parts := []string{
		fmt.Sprintf("Source: %s", source),
		fmt.Sprintf("Sentiment: %s", sentiment),
		fmt.Sprintf("Rows: %d/%d", len(m.rows), len(m.all)),
	}
	if m.keywordQuery != "" {
		parts = append(parts, fmt.Sprintf("Text: %q", m.keywordQuery))
	}
	if m.failures > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("3")).
			Render(fmt.Sprintf("%d source(s) failed last run", m.failures)))
	}
	if m.archiveErr != nil {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("3")).
			Render("archive failed: "+m.archiveErr.Error()))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
		Render(strings.Join(parts, "  │  "))
}

func (m tablePage) renderHelp() string {
	return helpBar([]string{
		"j/k: move", "l/h: page", "s: cycle source", "w: cycle sentiment",
		"r: refresh", "Space: details", "q: quit",
	})
}

func (m *tablePage) updateTableRows() {
	if len(m.rows) == 0 {
		return
	}

	headers := []string{
		truncateString("Date", m.dateWidth),
		truncateString("Source", m.sourceWidth),
		truncateString("Admin1", m.admin1Width),
		truncateString("Keyword", m.keywordWidth),
		truncateString("Sentiment", m.sentWidth),
		truncateString("Title", m.titleWidth),
	}

	var rows [][]string
	startIdx := m.currentPage * m.pageSize
	endIdx := min(startIdx+m.pageSize, len(m.rows))

	for i := startIdx; i < endIdx; i++ {
		r := m.rows[i]
		date := r.Timestamp
		if !r.Published.IsZero() {
			date = r.Published.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			truncateString(date, m.dateWidth),
			truncateString(r.Source, m.sourceWidth),
			truncateString(r.Admin1, m.admin1Width),
			truncateString(r.Keyword, m.keywordWidth),
			truncateString(string(r.Sentiment), m.sentWidth),
			truncateString(strings.ReplaceAll(r.Title, "\n", " "), m.titleWidth),
		})
	}

	onPage := len(rows)
	if onPage > 0 {
		if m.cursor >= onPage {
			m.cursor = onPage - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
	}

	lightBlue := lightBlue()
	darkBlue := darkBlue()

	borderStyle := lipgloss.NewStyle().Foreground(darkBlue)

	headerStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(darkBlue).
		Align(lipgloss.Center)

	view := m.rows
	cursor := m.cursor
	page := m.currentPage
	pageSize := m.pageSize
	m.table = table.New().
		Width(m.tableWidth).
		Border(lipgloss.ThickBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == cursor {
				return lipgloss.NewStyle().
					Padding(0, 1).
					Background(lightBlue).
					Foreground(lipgloss.Color("0"))
			}
			if col == 4 { // sentiment column
				idx := page*pageSize + row
				if idx >= 0 && idx < len(view) {
					return lipgloss.NewStyle().Padding(0, 1).
						Foreground(sentimentColor(string(view[idx].Sentiment)))
				}
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// configureTable sets up the table with dynamic column widths based on available space
func (m *tablePage) configureTable(width, height int) {
	m.pageSize = max(5, height-7)
	if len(m.rows) > 0 {
		m.totalPages = (len(m.rows) + m.pageSize - 1) / m.pageSize
	} else {
		m.totalPages = 0
	}

	if m.currentPage >= m.totalPages {
		m.currentPage = max(0, m.totalPages-1)
	}
	if m.currentPage < 0 {
		m.currentPage = 0
	}

	globalCursor := m.currentPage*m.pageSize + m.cursor
	if len(m.rows) > 0 && globalCursor >= len(m.rows) {
		globalCursor = len(m.rows) - 1
		m.currentPage = globalCursor / m.pageSize
		m.cursor = globalCursor % m.pageSize
	}

	m.dateWidth = 16
	m.sentWidth = 9
	// Borders plus per-column padding for 6 columns.
	borderPaddingWidth := 4 + (3 * 6)
	remaining := width - m.dateWidth - m.sentWidth - borderPaddingWidth

	m.sourceWidth = remaining * 20 / 100
	m.admin1Width = remaining * 12 / 100
	m.keywordWidth = remaining * 12 / 100
	m.titleWidth = remaining * 56 / 100

	if m.sourceWidth < 12 {
		m.sourceWidth = 12
	}
	if m.admin1Width < 8 {
		m.admin1Width = 8
	}
	if m.keywordWidth < 8 {
		m.keywordWidth = 8
	}
	if m.titleWidth < 20 {
		m.titleWidth = 20
	}

	m.updateTableRows()
}
