// record_model.go - Dataset browser model for Bubble Tea
package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Danny-Dasilva/fake-useragent/cmd/fakeua/styles"
	"github.com/Danny-Dasilva/fake-useragent/internal/cycletls"
	"github.com/Danny-Dasilva/fake-useragent/internal/useragent"
)

// CopyFunc places text on the system clipboard.
type CopyFunc func(text string) error

// RecordModel lists the records accepted by a UserAgent and shows the
// selected one in detail.
type RecordModel struct {
	list   list.Model
	ua     *useragent.UserAgent
	copyFn CopyFunc
	status string
	failed bool
	width  int
	height int
}

// RecordItem represents a record in the list
type RecordItem struct {
	record useragent.Record
}

// FilterValue returns the filter value for the item
func (i RecordItem) FilterValue() string {
	return i.record.System + " " + i.record.OS + " " + i.record.Type + " " + i.record.UserAgent
}

// Title returns the title for display
func (i RecordItem) Title() string {
	return i.record.System
}

// Description returns the description for display
func (i RecordItem) Description() string {
	return fmt.Sprintf("%s • %s • %.2f%%", i.record.OS, i.record.Type, i.record.Percent)
}

// Record returns the underlying record
func (i RecordItem) Record() useragent.Record {
	return i.record
}

// NewRecordModel builds a browser over the records ua would serve for
// "random". copyFn may be nil, in which case copying is reported as unavailable.
func NewRecordModel(ua *useragent.UserAgent, copyFn CopyFunc) RecordModel {
	records := ua.Filter(useragent.RandomKey)
	items := make([]list.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, RecordItem{record: rec})
	}

	l := list.New(items, newRecordDelegate(), 0, 0)
	l.Title = "User Agents"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = styles.TitleStyle

	return RecordModel{
		list:   l,
		ua:     ua,
		copyFn: copyFn,
	}
}

// Init initializes the record model
func (m RecordModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the record model
func (m RecordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.listWidth(), msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.selectRandom()
			return m, nil
		case "c", "y":
			m.copySelected()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Selected returns the highlighted record
func (m RecordModel) Selected() (useragent.Record, bool) {
	item, ok := m.list.SelectedItem().(RecordItem)
	if !ok {
		return useragent.Record{}, false
	}
	return item.record, true
}

// Status returns the last status line
func (m RecordModel) Status() string {
	return m.status
}

// selectRandom draws a record the way the engine would and highlights it.
func (m *RecordModel) selectRandom() {
	rec, err := m.ua.GetRandom()
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	for i, item := range m.list.Items() {
		if ri, ok := item.(RecordItem); ok && ri.record == rec {
			m.list.Select(i)
			m.setStatus("Picked "+rec.System, false)
			return
		}
	}
	// Fallback records are not part of the list.
	m.setStatus("Fallback: "+rec.UserAgent, false)
}

func (m *RecordModel) copySelected() {
	rec, ok := m.Selected()
	if !ok {
		return
	}
	if m.copyFn == nil {
		m.setStatus("Clipboard unavailable", true)
		return
	}
	if err := m.copyFn(rec.UserAgent); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("Copied "+rec.System, false)
}

func (m *RecordModel) setStatus(text string, failed bool) {
	m.status = text
	m.failed = failed
}

func (m RecordModel) listWidth() int {
	if m.width > 80 {
		return m.width / 2
	}
	return m.width - 4
}

// View renders the record model
func (m RecordModel) View() string {
	var content strings.Builder

	cfg := m.ua.Config()
	header := styles.HeaderStyle.Render(fmt.Sprintf("%d records • browsers %s • platforms %s",
		len(m.list.Items()),
		strings.Join(cfg.Browsers, ","),
		strings.Join(cfg.Platforms, ",")))
	content.WriteString(header)
	content.WriteString("\n\n")

	if m.width > 80 {
		listWidth := m.listWidth()
		detailWidth := m.width - listWidth - 2

		content.WriteString(
			lipgloss.JoinHorizontal(
				lipgloss.Top,
				lipgloss.NewStyle().Width(listWidth).Render(m.list.View()),
				styles.DetailPanelStyle(detailWidth).Render(m.renderDetail(detailWidth)),
			),
		)
	} else {
		content.WriteString(m.list.View())
		content.WriteString("\n")
		content.WriteString(m.renderDetail(m.width))
	}

	if m.status != "" {
		content.WriteString("\n")
		if m.failed {
			content.WriteString(styles.ErrorStyle.Render(m.status))
		} else {
			content.WriteString(styles.SuccessStyle.Render(m.status))
		}
	}

	content.WriteString("\n")
	content.WriteString(styles.FooterStyle.Render("↑/↓ navigate • R random • C copy • / filter • Q quit"))

	return content.String()
}

// renderDetail renders detailed information about the selected record
func (m RecordModel) renderDetail(width int) string {
	rec, ok := m.Selected()
	if !ok {
		return styles.MutedStyle.Width(width).Render("No records match the active filters")
	}

	var content strings.Builder
	content.WriteString(styles.TitleStyle.Render(rec.System))
	content.WriteString("\n\n")

	details := []struct {
		label string
		value string
	}{
		{"Browser", fmt.Sprintf("%s %g", rec.Browser, rec.Version)},
		{"OS", rec.OS},
		{"Platform", rec.Type},
		{"Usage", fmt.Sprintf("%.2f%%", rec.Percent)},
		{"User Agent", wordWrap(rec.UserAgent, width-4)},
		{"JA3 Fingerprint", wordWrap(cycletls.JA3For(rec.Browser), width-4)},
	}

	for _, detail := range details {
		content.WriteString(styles.LabelStyle.Render(detail.label + ":"))
		content.WriteString("\n")
		content.WriteString(styles.ValueStyle.Render(detail.value))
		content.WriteString("\n\n")
	}

	example := fmt.Sprintf(`curl -H "X-URL: https://httpbin.org/headers" \
     -H "X-IDENTIFIER: %s" \
     http://localhost:8080`, rec.Browser)

	content.WriteString(styles.LabelStyle.Render("Example Usage:"))
	content.WriteString("\n")
	content.WriteString(styles.CodeStyle.Render(example))

	return content.String()
}

func newRecordDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	d.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(styles.Secondary)
	d.Styles.NormalTitle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	d.Styles.NormalDesc = lipgloss.NewStyle().Foreground(styles.TextMuted)
	d.Styles.DimmedTitle = lipgloss.NewStyle().Foreground(styles.TextMuted)
	d.Styles.DimmedDesc = lipgloss.NewStyle().Foreground(styles.TextDimmed)

	return d
}

// wordWrap breaks text at spaces, or hard-wraps tokens longer than width.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		for len(word) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case line == "":
			line = word
		case len(line)+len(word)+1 > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
