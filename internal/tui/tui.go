// Package tui renders the monitoring dashboard: a filterable table over the
// current snapshot, a keyword filter page and a per-record detail page. A
// fresh pipeline run only happens on explicit user action (the r key).
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"vigil/internal/config"
	"vigil/internal/pipeline"
	"vigil/internal/record"
	"vigil/internal/snapshot"
	"vigil/internal/vigildb"
)

type viewMode int

const (
	tableView viewMode = iota
	filterView
	detailView
)

// Navigation and data messages
type goToDetailMsg struct {
	rec record.Record
}
type goToFilterMsg struct{}
type goToTableMsg struct{}
type applyKeywordFilterMsg struct {
	query string
}
type requestRefreshMsg struct{}
type recordsReloadedMsg struct {
	records    []record.Record
	failures   int
	archiveErr error
}

type rootPage struct {
	ctx        context.Context
	cfg        config.AppConfig
	viewMode   viewMode
	detailPage detailPage
	tablePage  tablePage
	filterPage filterPage
	width      int
	height     int
	err        error
}

// Run loads the last snapshot and starts the dashboard.
func Run(ctx context.Context) error {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return err
	}

	rows := snapshot.Load(cfg.SnapshotPath)

	m := rootPage{
		ctx:       ctx,
		cfg:       cfg,
		tablePage: newTablePage(rows, 0),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}

func (m rootPage) Init() tea.Cmd {
	return nil
}

func (m rootPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.viewMode {
	case tableView:
		m.tablePage, cmd = update[tablePage](m.tablePage, msg)
	case detailView:
		m.detailPage, cmd = update[detailPage](m.detailPage, msg)
	case filterView:
		m.filterPage, cmd = update[filterPage](m.filterPage, msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
	case requestRefreshMsg:
		return m, m.refresh()
	case recordsReloadedMsg:
		m.viewMode = tableView
		m.tablePage, cmd = update[tablePage](m.tablePage, msg)
	case applyKeywordFilterMsg:
		m.tablePage, cmd = update[tablePage](m.tablePage, msg)
	case goToFilterMsg:
		m.viewMode = filterView
		m.filterPage, cmd = update[filterPage](m.filterPage, msg)
	case goToTableMsg:
		m.viewMode = tableView
	case goToDetailMsg:
		m.viewMode = detailView
		m.detailPage, cmd = update[detailPage](m.detailPage, msg)
	case tea.WindowSizeMsg:
		var cmds []tea.Cmd

		m.tablePage, cmd = update[tablePage](m.tablePage, msg)
		cmds = append(cmds, cmd)

		m.detailPage, cmd = update[detailPage](m.detailPage, msg)
		cmds = append(cmds, cmd)

		m.filterPage, cmd = update[filterPage](m.filterPage, msg)
		cmds = append(cmds, cmd)

		m.width = msg.Width - 4
		m.height = msg.Height - 4

		return m, tea.Batch(cmds...)
	}

	return m, cmd
}

// refresh runs the full pipeline synchronously, persists the snapshot and
// archive, and reloads the table.
func (m rootPage) refresh() tea.Cmd {
	return func() tea.Msg {
		if err := m.cfg.Validate(); err != nil {
			return recordsReloadedMsg{records: m.tablePage.all}
		}
		p := pipeline.New(m.cfg, nil)
		rep := p.Run(m.ctx, []string{"feeds", "search"})
		_ = snapshot.Save(m.cfg.SnapshotPath, rep.Records)
		_, archiveErr := vigildb.Archive(m.ctx, m.cfg.DatabasePath, rep.Records)
		return recordsReloadedMsg{records: rep.Records, failures: len(rep.Failures), archiveErr: archiveErr}
	}
}

func (m rootPage) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v", m.err)
	}

	switch m.viewMode {
	case detailView:
		return m.detailPage.View()
	case filterView:
		return m.filterPage.View()
	case tableView:
		return m.tablePage.View()
	default:
		return "Unknown View"
	}
}

func update[T any](model tea.Model, msg tea.Msg) (T, tea.Cmd) {
	newModel, cmd := model.Update(msg)
	return newModel.(T), cmd
}
