package termui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	mdt "github.com/goliatone/go-mdt/components/mdt"
)

var counterLabels = []struct {
	anchor mdt.Anchor
	label  string
}{
	{mdt.AnchorActiveCalls, "Active Calls"},
	{mdt.AnchorOpenCases, "Open Cases"},
	{mdt.AnchorArrestsToday, "Arrests Today"},
	{mdt.AnchorActiveWarrants, "Active Warrants"},
}

const sparkBars = "▁▂▃▄▅▆▇█"

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.view.visible {
		return m.styles.muted.Render("MDT is closed. Waiting for the host to open it. Press q to quit.") + "\n"
	}

	sections := []string{m.renderHeader(), m.renderTabs()}
	if m.searching {
		sections = append(sections, m.search.View())
	}
	if m.view.loading {
		sections = append(sections, m.spinner.View()+" Loading...")
	}
	sections = append(sections, m.renderPage())
	if m.view.modal != nil {
		sections = append(sections, m.renderModal())
	}
	if len(m.view.notifications) > 0 {
		sections = append(sections, m.renderNotifications())
	}
	if m.lastErr != "" {
		sections = append(sections, m.styles.errorText.Render(m.lastErr))
	}
	sections = append(sections, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	user := m.view.user
	name := user.Name
	if name == "" {
		name = "Unknown"
	}
	parts := []string{m.styles.header.Render("MDT  " + name)}
	if user.Badge != "" {
		parts = append(parts, m.styles.badge.Render(user.Badge))
	}
	if user.Callsign != "" {
		parts = append(parts, m.styles.badge.Render("["+user.Callsign+"]"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(m.pages))
	for i, page := range m.pages {
		title := page.Title
		if title == "" {
			title = string(page.ID)
		}
		label := fmt.Sprintf("%d %s", i+1, title)
		if page.ID == m.view.page {
			tabs = append(tabs, m.styles.activeTab.Render(label))
			continue
		}
		tabs = append(tabs, m.styles.tab.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderPage() string {
	if m.view.page == mdt.PageDashboard {
		return m.renderDashboard()
	}
	table, ok := m.view.tables[m.view.page]
	if !ok {
		return m.styles.muted.Render("Nothing loaded yet.")
	}
	return m.renderTable(table)
}

func (m Model) renderDashboard() string {
	cards := make([]string, 0, len(counterLabels))
	for _, c := range counterLabels {
		value, ok := m.view.stats[c.anchor]
		text := "-"
		if ok {
			text = strconv.Itoa(value)
		}
		cards = append(cards, m.styles.card.Render(
			m.styles.cardValue.Render(text)+"\n"+m.styles.cardLabel.Render(c.label),
		))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, cards...)}
	for _, anchor := range sortedAnchors(m.view.charts) {
		rows = append(rows, m.renderChart(m.view.charts[anchor]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderChart(chart mdt.ChartEvent) string {
	title := m.styles.cardLabel.Render(chart.Spec.Title)
	return title + "\n" + sparkline(chart.Spec.Values) + "  " +
		m.styles.muted.Render(strings.Join(chart.Spec.Labels, " "))
}

// sparkline scales values onto block characters, lowest value first.
func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	bars := []rune(sparkBars)
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(bars)-1))
		}
		b.WriteRune(bars[idx])
	}
	return b.String()
}

func (m Model) renderTable(table mdt.TableView) string {
	if len(table.Rows) == 0 {
		msg := table.EmptyMessage
		if msg == "" {
			msg = "No records found"
		}
		return m.styles.muted.Render(msg)
	}
	widths := make([]int, len(table.Columns))
	for i, col := range table.Columns {
		widths[i] = lipgloss.Width(col)
	}
	for _, row := range table.Rows {
		for i, cell := range row.Cells {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell.Text))
			}
		}
	}

	head := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		head[i] = pad(col, widths[i])
	}
	lines := []string{m.styles.tableHead.Render(strings.Join(head, "  "))}
	for _, row := range table.Rows {
		cells := make([]string, 0, len(widths))
		for i := range widths {
			var cell mdt.TableCell
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			text := pad(cell.Text, widths[i])
			if cell.Badge != "" {
				text = m.styles.status(cell.Badge).Render(text)
			}
			cells = append(cells, text)
		}
		lines = append(lines, strings.Join(cells, "  "))
	}
	return strings.Join(lines, "\n")
}

func pad(text string, width int) string {
	if gap := width - lipgloss.Width(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}

func (m Model) renderModal() string {
	modal := m.view.modal
	body := []string{m.styles.modalTitle.Render(modal.Title)}
	if m.form != nil {
		for i, field := range m.form.tmpl.Fields {
			label := field.Label
			if field.Required {
				label += " *"
			}
			body = append(body, m.styles.label.Render(label), m.form.inputs[i].View())
		}
		submit := m.form.tmpl.SubmitLabel
		if submit == "" {
			submit = "Submit"
		}
		body = append(body, "", m.styles.muted.Render("ctrl+s "+submit+" · esc Cancel"))
	} else if text, ok := modal.Body.(string); ok && text != "" {
		body = append(body, text)
	}
	return m.styles.modal.Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func (m Model) renderNotifications() string {
	lines := make([]string, 0, len(m.view.notifications))
	for _, n := range m.view.notifications {
		lines = append(lines, m.styles.status(string(n.Kind)).Render(kindGlyph(n.Kind))+" "+n.Message)
	}
	return strings.Join(lines, "\n")
}

func kindGlyph(kind mdt.NotificationKind) string {
	switch kind.Normalize() {
	case mdt.KindSuccess:
		return "✔"
	case mdt.KindError:
		return "✖"
	case mdt.KindWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

func (m Model) renderHelp() string {
	if m.form != nil {
		return m.help.View(m.formKeys)
	}
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.help.View(m.keys)
}
