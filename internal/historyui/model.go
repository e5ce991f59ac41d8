// Package historyui provides the Bubble Tea browser for recorded runs.
package historyui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kathe/internal/history"
	"github.com/verte-zerg/kathe/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

const maxBarWidth = 40

// BucketLoader loads the bucket counts of a run.
type BucketLoader interface {
	ListBucketCounts(ctx context.Context, runID int64) ([]model.BucketCount, error)
}

// Model implements the Bubble Tea history browser.
type Model struct {
	loader BucketLoader
	runs   []model.Run

	runTable table.Model
	selected int64
	buckets  []model.BucketCount
	errMsg   string

	width  int
	height int
}

// NewModel constructs a browser over runs, newest last.
func NewModel(loader BucketLoader, runs []model.Run) *Model {
	m := &Model{loader: loader, runs: runs, selected: -1}
	m.runTable = buildRunTable(runs)
	if len(runs) > 0 {
		m.runTable.GotoBottom()
	}
	m.loadSelected()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "g", "home":
			m.runTable.GotoTop()
		case "G", "end":
			m.runTable.GotoBottom()
		default:
			var cmd tea.Cmd
			m.runTable, cmd = m.runTable.Update(msg)
			m.loadSelected()
			return m, cmd
		}
		m.loadSelected()
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.runs) == 0 {
		return "No runs recorded. Run kathe with --record first.\n\n" + footerStyle.Render("q quit")
	}
	parts := []string{
		titleStyle.Render("Runs"),
		m.runTable.View(),
		m.renderBuckets(),
		footerStyle.Render("↑/↓ select  g/G top/bottom  q quit"),
	}
	return strings.Join(parts, "\n")
}

func (m *Model) updateLayout() {
	if m.width > 0 {
		m.runTable.SetWidth(m.width)
	}
	if m.height > 0 {
		m.runTable.SetHeight(maxInt(3, m.height/3))
	}
}

func (m *Model) loadSelected() {
	row := m.runTable.SelectedRow()
	if len(row) == 0 {
		return
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		m.errMsg = fmt.Sprintf("invalid run id %q", row[0])
		return
	}
	if id == m.selected {
		return
	}
	buckets, err := m.loader.ListBucketCounts(context.Background(), id)
	if err != nil {
		m.errMsg = fmt.Sprintf("Failed to load run %d: %v", id, err)
		return
	}
	m.errMsg = ""
	m.selected = id
	m.buckets = buckets
}

func (m *Model) renderBuckets() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	if len(m.buckets) == 0 {
		return footerStyle.Render("No bucket counts for run.")
	}
	maxWords := 0
	for _, b := range m.buckets {
		if b.Words > maxWords {
			maxWords = b.Words
		}
	}
	lines := make([]string, 0, len(m.buckets)+1)
	lines = append(lines, titleStyle.Render(fmt.Sprintf("Run %d", m.selected)))
	for _, b := range m.buckets {
		lines = append(lines, fmt.Sprintf("%02d %s %7d %s", b.Rank, b.Letter, b.Words, barStyle.Render(bar(b.Words, maxWords))))
	}
	return strings.Join(lines, "\n")
}

func bar(value, maxValue int) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	n := value * maxBarWidth / maxValue
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func buildRunTable(runs []model.Run) table.Model {
	columns := []table.Column{
		{Title: history.RunHeaders[0], Width: 5},
		{Title: history.RunHeaders[1], Width: 19},
		{Title: history.RunHeaders[2], Width: 10},
		{Title: history.RunHeaders[3], Width: 6},
		{Title: history.RunHeaders[4], Width: 8},
		{Title: history.RunHeaders[5], Width: 8},
		{Title: history.RunHeaders[6], Width: 6},
		{Title: history.RunHeaders[7], Width: 30},
	}
	rows := make([]table.Row, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, table.Row(history.RunRow(r)))
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(maxInt(5, minInt(len(rows)+3, 12))),
	)
	t.SetStyles(runTableStyles())
	return t
}

func runTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
