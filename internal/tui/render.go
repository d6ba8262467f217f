package tui

import (
	"fmt"
	"strings"

	"git.sr.ht/~jakintosh/feescan/internal/core"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
)

const (
	appTitle       = "Bank Fee & Charges Detector"
	appTagline     = "Upload your bank statement and instantly uncover hidden fees: ATM charges, service charges, SMS alerts, annual card fees, NEFT/IMPS and more."
	dropHint       = "⇩ Drag & drop your statement here"
	formatHint     = "CSV or PDF • bank/export statements work best"
	footerNote     = "No bank credentials required. Statements are sent only to the configured analysis service."
	noFeesMessage  = "No fees detected. Try another statement."
	noEntries      = "No entries"
	unknownPeriod  = "Detected period"
	scanLabel      = "Scan Fees"
	analyzingLabel = "Analyzing…"
)

// Match table column widths; the description takes what is left
const (
	colCursor   = 2
	colDate     = 12
	colAmount   = 14
	colCategory = 16
	colGap      = 2

	colDateNarrow   = 10
	colAmountNarrow = 10
)

// contentWidth returns the usable width for the page
func (m *Model) contentWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	return min(w, maxContentWidth)
}

// renderUploadView displays the upload screen and, once available, the report
func (m *Model) renderUploadView() string {
	sections := []string{m.renderTop()}
	if m.state.Result != nil {
		sections = append(sections, m.reportView().render(m.state.Result, m.tableWindow()))
	}
	sections = append(sections, m.renderFooter())
	return strings.Join(sections, "\n\n")
}

// renderTop displays everything above the results panel
func (m *Model) renderTop() string {
	var b strings.Builder
	b.WriteString(m.renderHero())
	b.WriteString("\n\n")
	b.WriteString(m.renderUploadCard())
	b.WriteString("\n")
	b.WriteString(m.renderSubmitButton())
	if m.state.Err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.errorPanel.Width(m.contentWidth() - 2).Render("! " + m.state.Err))
	}
	if msg := m.statusLine(); msg != "" {
		b.WriteString("\n")
		b.WriteString(msg)
	}
	return b.String()
}

// resultsLine is the first page line of the results panel
func (m *Model) resultsLine() int {
	return lipgloss.Height(m.renderTop()) + 1
}

// renderHero displays the title block and the fee teaser
func (m *Model) renderHero() string {
	width := m.contentWidth()
	title := m.styles.title.Render(appTitle)
	if width < teaserMinWidth {
		return lipgloss.JoinVertical(lipgloss.Left, title, m.styles.tagline.Width(width).Render(appTagline))
	}

	teaser := m.styles.teaserBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.teaserLabel.Render("Last quarter fees"),
		m.styles.teaserValue.Render(m.teaserAmount()),
	))
	leftWidth := width - lipgloss.Width(teaser) - 2
	left := lipgloss.JoinVertical(lipgloss.Left, title, m.styles.tagline.Width(leftWidth).Render(appTagline))
	left = m.renderer.NewStyle().Width(leftWidth).Render(left)
	return lipgloss.JoinHorizontal(lipgloss.Center, left, "  ", teaser)
}

// teaserAmount formats the total fee, or zero before any report
func (m *Model) teaserAmount() string {
	total := core.NewAmount(decimal.Zero)
	currency := ""
	if r := m.state.Result; r != nil {
		currency = r.Summary.Currency
		if r.Summary.TotalFee.Valid {
			total = r.Summary.TotalFee
		}
	}
	return m.formatter.Format(total, currency)
}

// renderUploadCard displays the drop target, path input and picker trigger
func (m *Model) renderUploadCard() string {
	lines := []string{
		m.styles.dropHint.Render(dropHint),
		m.styles.muted.Render(formatHint),
		"",
		m.focusMarker(focusPath) + m.pathInput.View(),
		m.focusMarker(focusBrowse) + m.browseLabel(),
	}
	if s := m.state.Statement; s != nil {
		lines = append(lines, "", m.styles.selected.Render("Selected: "+s.Name))
	}
	return m.styles.uploadCard.Width(m.contentWidth() - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) browseLabel() string {
	label := "[ Browse files ]"
	if m.focus == focusBrowse {
		return m.styles.focused.Render(label)
	}
	return label
}

// renderSubmitButton displays the scan button, busy while a request runs
func (m *Model) renderSubmitButton() string {
	marker := m.focusMarker(focusScan)
	if m.state.Loading {
		return marker + m.styles.buttonBusy.Render(m.spinner.View()+" "+analyzingLabel)
	}
	return marker + m.styles.button.Render(scanLabel)
}

// focusMarker returns the cursor shown beside the focused element
func (m *Model) focusMarker(field focusedField) string {
	if m.focus == field && m.currentView == viewUpload {
		return m.styles.focused.Render(">") + " "
	}
	return "  "
}

// renderFooter displays the credential note and command hints
func (m *Model) renderFooter() string {
	commands := []string{
		m.styles.formatCommand("[tab]next", true),
		m.styles.formatCommand("[enter]select", true),
		m.styles.formatCommand("[ctrl+s]scan", !m.state.Loading),
		m.styles.formatCommand("[ctrl+o]browse", true),
		m.styles.formatCommand("[esc]cancel", m.state.Loading),
		m.styles.formatCommand("[ctrl+y]copy", m.state.Result != nil),
		m.styles.formatCommand("[pgup/pgdn]scroll", true),
		m.styles.formatCommand("[ctrl+q]quit", true),
	}
	hints := m.renderer.NewStyle().Width(m.contentWidth()).Render(strings.Join(commands, "  "))
	return m.styles.footer.Render(footerNote) + "\n" + hints
}

// renderPickerView displays the file picker screen
func (m *Model) renderPickerView() string {
	var b strings.Builder
	b.WriteString(m.styles.heading.Render("-- Choose a bank statement --"))
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(m.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n\n[enter]select  [←/→]navigate  [esc]back")
	return b.String()
}

// visiblePage cuts the page down to the window height at the scroll offset
func (m *Model) visiblePage(page string) string {
	if m.height <= 0 {
		return page
	}
	lines := strings.Split(page, "\n")
	offset := min(max(m.pageOffset, 0), max(len(lines)-m.height, 0))
	end := min(offset+m.height, len(lines))
	return strings.Join(lines[offset:end], "\n")
}

// scrollPage moves the page window by delta lines
func (m *Model) scrollPage(delta int) {
	total := lipgloss.Height(m.renderUploadView())
	maxOffset := max(total-m.height, 0)
	m.pageOffset = min(max(m.pageOffset+delta, 0), maxOffset)
}

func (m *Model) pageStep() int {
	return max(m.height-2, 1)
}

func (m *Model) tableWindow() tableWindow {
	return tableWindow{
		offset:    m.matchOffset,
		limit:     maxVisibleMatches,
		cursor:    m.matchCursor,
		highlight: m.focus == focusMatches,
	}
}

func (m *Model) reportView() reportView {
	return reportView{styles: m.styles, renderer: m.renderer, formatter: m.formatter, width: m.contentWidth()}
}

// RenderReport draws the results panel for result without any cursor,
// listing every match. Used for one-shot output and the clipboard. A nil
// result renders as the empty string.
func RenderReport(result *core.AnalysisResult, formatter *core.Formatter, renderer *lipgloss.Renderer, width int) string {
	if formatter == nil {
		formatter = core.DefaultFormatter()
	}
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	if result == nil {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	v := reportView{styles: newStyles(renderer), renderer: renderer, formatter: formatter, width: width}
	return v.render(result, tableWindow{cursor: -1})
}

// tableWindow selects which match rows are drawn; limit 0 draws all
type tableWindow struct {
	offset    int
	limit     int
	cursor    int
	highlight bool
}

// reportView renders the results panel independent of any Model
type reportView struct {
	styles    styles
	renderer  *lipgloss.Renderer
	formatter *core.Formatter
	width     int
}

// render displays the summary header, category cards and match table
func (v reportView) render(result *core.AnalysisResult, window tableWindow) string {
	inner := v.width - 4
	summary := result.Summary
	currency := summary.Currency

	period := unknownPeriod
	if summary.HasPeriod() {
		period = fmt.Sprintf("%s to %s", summary.StartDate, summary.EndDate)
	}
	header := v.styles.heading.Render(fmt.Sprintf("You paid %s in fees", v.formatter.Format(summary.TotalFee, currency)))
	periodLine := spread(v.styles.muted.Render(period), fmt.Sprintf("%d fee entries", summary.TotalCount), inner)

	parts := []string{
		header,
		periodLine,
		"",
		v.categoryGrid(result, inner),
		"",
		v.styles.heading.Render("All fee entries"),
		v.matchTable(result, inner, window),
	}
	if window.highlight && window.cursor >= 0 && window.cursor < len(result.Matches) {
		full := result.Matches[window.cursor].Description
		parts = append(parts, v.styles.muted.Width(inner).Render("› "+full))
	}
	return v.styles.panel.Width(v.width - 2).Render(strings.Join(parts, "\n"))
}

// categoryGrid displays one card per category, or a note when there are none
func (v reportView) categoryGrid(result *core.AnalysisResult, width int) string {
	if len(result.ByCategory) == 0 {
		return v.styles.muted.Render(noFeesMessage)
	}
	cols := 3
	if width < 60 {
		cols = 2
	}
	if width < 36 {
		cols = 1
	}
	cardWidth := (width - (cols - 1)) / cols
	labelWidth := max(cardWidth-4, 1)

	cards := make([]string, 0, len(result.ByCategory))
	for _, c := range result.ByCategory {
		content := strings.Join([]string{
			v.styles.cardLabel.Render(truncate(c.Category, labelWidth)),
			v.styles.cardAmount.Render(v.formatter.Format(c.Amount, result.Summary.Currency)),
			v.styles.muted.Render(occurrenceLabel(c.Count.Int())),
		}, "\n")
		cards = append(cards, v.styles.card.Width(cardWidth-2).Render(content))
	}

	var rows []string
	for i := 0; i < len(cards); i += cols {
		var row []string
		for j, card := range cards[i:min(i+cols, len(cards))] {
			if j > 0 {
				row = append(row, " ")
			}
			row = append(row, card)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// occurrenceLabel returns "1 time" or "N times"
func occurrenceLabel(count int) string {
	if count == 1 {
		return "1 time"
	}
	return fmt.Sprintf("%d times", count)
}

// tableLayout holds the match table column widths for one panel width.
// Narrow panels drop the category column, then tighten date and amount.
type tableLayout struct {
	date     int
	desc     int
	amount   int
	category int // 0 hides the column
}

func newTableLayout(width int) tableLayout {
	l := tableLayout{date: colDate, amount: colAmount, category: colCategory}
	l.desc = width - colCursor - l.date - l.amount - l.category - 3*colGap
	if l.desc < descriptionMinCols {
		l.category = 0
		l.desc = width - colCursor - l.date - l.amount - 2*colGap
	}
	if l.desc < descriptionMinCols {
		l.date, l.amount = colDateNarrow, colAmountNarrow
		l.desc = width - colCursor - l.date - l.amount - 2*colGap
	}
	l.desc = max(l.desc, 1)
	return l
}

// width is the total cell width of a row, cursor column included
func (l tableLayout) width() int {
	w := colCursor + l.date + l.desc + l.amount + 2*colGap
	if l.category > 0 {
		w += colGap + l.category
	}
	return w
}

// row joins the cells, truncating and padding each to its column
func (l tableLayout) row(date, desc, amount, category string) string {
	gap := strings.Repeat(" ", colGap)
	out := runewidth.FillRight(truncate(date, l.date), l.date) + gap +
		runewidth.FillRight(truncate(desc, l.desc), l.desc) + gap +
		runewidth.FillLeft(truncate(amount, l.amount), l.amount)
	if l.category > 0 {
		out += gap + runewidth.FillRight(truncate(category, l.category), l.category)
	}
	return out
}

// matchTable displays the header and one row per match, or a single
// placeholder row spanning every column when there are none
func (v reportView) matchTable(result *core.AnalysisResult, width int, window tableWindow) string {
	layout := newTableLayout(width)
	cursorPad := strings.Repeat(" ", colCursor)

	header := cursorPad + layout.row("Date", "Description", "Amount", "Category")
	lines := []string{v.styles.tableHeader.Render(header)}

	matches := result.Matches
	if len(matches) == 0 {
		lines = append(lines, v.styles.placeholder.Width(layout.width()).Align(lipgloss.Center).Render(noEntries))
		return strings.Join(lines, "\n")
	}

	start := min(max(window.offset, 0), len(matches)-1)
	end := len(matches)
	if window.limit > 0 {
		end = min(start+window.limit, len(matches))
	}
	if start > 0 {
		lines = append(lines, v.styles.muted.Render(fmt.Sprintf("  … %d more above", start)))
	}
	for i := start; i < end; i++ {
		m := matches[i]
		date := m.Date
		if date == "" {
			date = "-"
		}
		row := layout.row(date, m.Description, v.formatter.Format(m.Amount, result.Summary.Currency), m.Category)
		if window.highlight && i == window.cursor {
			lines = append(lines, v.styles.tableCursor.Render("› "+row))
		} else {
			lines = append(lines, cursorPad+row)
		}
	}
	if end < len(matches) {
		lines = append(lines, v.styles.muted.Render(fmt.Sprintf("  … %d more below", len(matches)-end)))
	}
	return strings.Join(lines, "\n")
}

// spread places left and right at opposite ends of width
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

// truncate shortens s to width display cells, ending in an ellipsis
func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}
