package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/lachiem1/monthlens/internal/aggregate"
	"github.com/lachiem1/monthlens/internal/records"
	"github.com/lachiem1/monthlens/internal/widget"
	"github.com/shopspring/decimal"
)

const (
	colorCoral  = "#F47A60"
	colorYellow = "#FFD54A"
	colorBlue   = "#5FA8FF"
	colorSky    = "#87CEEB"
	colorRed    = "#F15B5B"
	colorGreen  = "#5CCB76"
	colorMuted  = "#9CA3AF"

	barWidth      = 24
	maxListRows   = 12
	labelColWidth = 16
)

var (
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorSky)).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorCoral)).
		Padding(1, 2)
	if m.width > 0 {
		frame = frame.Width(max(1, m.width-frame.GetHorizontalBorderSize()))
	}
	layoutWidth := max(40, m.width-frame.GetHorizontalFrameSize())

	if m.showHelp {
		return frame.Render(lipgloss.Place(layoutWidth, max(1, m.height-frame.GetVerticalFrameSize()),
			lipgloss.Center, lipgloss.Center, renderHelpOverlay(layoutWidth)))
	}

	sections := []string{
		lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, renderTitle()),
		lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, m.renderPeriodBar()),
		"",
		m.renderSummary(),
		"",
		m.renderDistribution(),
		"",
		m.renderList(),
		"",
		m.renderFooter(),
	}
	return frame.Render(strings.Join(sections, "\n"))
}

func renderTitle() string {
	raw := []string{
		"█▀▄▀█ █▀█ █▄ █ ▀█▀ █ █ █   █▀▀ █▄ █ █▀",
		"█ ▀ █ █▄█ █ ▀█  █  █▀█ █▄▄ ██▄ █ ▀█ ▄█",
	}
	coral := lipgloss.NewStyle().Foreground(lipgloss.Color(colorCoral)).Bold(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)).Bold(true)

	rows := make([]string, 0, len(raw))
	for _, line := range raw {
		// alternate colour per glyph, glyphs are separated by single spaces
		var out strings.Builder
		glyph := 0
		for _, ch := range line {
			if ch == ' ' {
				glyph++
				out.WriteRune(' ')
				continue
			}
			style := coral
			if glyph%2 == 1 {
				style = yellow
			}
			out.WriteString(style.Render(string(ch)))
		}
		rows = append(rows, out.String())
	}
	return strings.Join(rows, "\n")
}

func (m model) renderPeriodBar() string {
	arrow := lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue)).Bold(true)
	label := valueStyle.Render(m.page.Period().Label())
	bar := arrow.Render("◀ ") + label + arrow.Render(" ▶")
	if m.jumping {
		bar += "   " + m.jump.View()
	}
	return bar
}

func (m model) renderSummary() string {
	out := m.summary.Output()
	lines := []string{headingStyle.Render("Summary")}
	switch out.State {
	case widget.Idle, widget.Loading:
		return strings.Join(append(lines, mutedStyle.Render("loading...")), "\n")
	case widget.Failed:
		return strings.Join(append(lines, errorStyle.Render(describeError(out.Err))), "\n")
	}

	s := out.Summary
	if s == nil {
		return strings.Join(append(lines, mutedStyle.Render("loading...")), "\n")
	}
	avg := "n/a"
	if s.Average != nil {
		avg = formatMoney(*s.Average)
	}
	lines = append(lines, fmt.Sprintf(
		"total %s   transactions %s   average %s",
		valueStyle.Render(formatMoney(s.Total)),
		valueStyle.Render(strconv.Itoa(s.Count)),
		valueStyle.Render(avg),
	))

	prevLabel := out.Period.Prev().Label()
	switch out.ComparisonState {
	case widget.Loading:
		lines = append(lines, mutedStyle.Render("vs "+prevLabel+": loading..."))
	case widget.Failed:
		lines = append(lines, mutedStyle.Render("vs "+prevLabel+": comparison unavailable"))
	case widget.Loaded:
		if c := out.Comparison; c != nil {
			lines = append(lines, renderComparison(prevLabel, *c))
		}
	}
	return strings.Join(lines, "\n")
}

func renderComparison(prevLabel string, c aggregate.Comparison) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen))
	if c.Delta.IsPositive() {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	}
	pct := "no prior spend"
	if c.PercentChange != nil {
		pct = formatSignedPercent(*c.PercentChange)
	}
	return fmt.Sprintf("vs %s: %s (%s), %+d transactions",
		prevLabel,
		style.Render(formatSignedMoney(c.Delta)),
		pct,
		c.CountDelta,
	)
}

func (m model) renderDistribution() string {
	out := m.dist.Output()
	lines := []string{headingStyle.Render("By category")}
	switch out.State {
	case widget.Idle, widget.Loading:
		return strings.Join(append(lines, mutedStyle.Render("loading...")), "\n")
	case widget.Failed:
		return strings.Join(append(lines, errorStyle.Render(describeError(out.Err))), "\n")
	}
	if len(out.Buckets) == 0 {
		return strings.Join(append(lines, mutedStyle.Render("no spending this month")), "\n")
	}
	for _, b := range out.Buckets {
		lines = append(lines, renderBucket(b))
	}
	return strings.Join(lines, "\n")
}

func renderBucket(b aggregate.CategoryAggregate) string {
	filled := int(b.Percentage.Mul(decimal.NewFromInt(barWidth)).Div(decimal.NewFromInt(100)).Round(0).IntPart())
	filled = min(barWidth, max(0, filled))
	if filled == 0 && b.Amount.IsPositive() {
		filled = 1
	}
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%-*s %s %10s %6s",
		labelColWidth, truncate(b.Label, labelColWidth),
		bar,
		formatMoney(b.Amount),
		b.Percentage.StringFixed(1)+"%",
	)
}

func (m model) renderList() string {
	out := m.list.Output()
	lines := []string{headingStyle.Render("Transactions")}
	switch out.State {
	case widget.Idle, widget.Loading:
		return strings.Join(append(lines, mutedStyle.Render("loading...")), "\n")
	case widget.Failed:
		return strings.Join(append(lines, errorStyle.Render(describeError(out.Err))), "\n")
	}
	if len(out.Records) == 0 {
		return strings.Join(append(lines, mutedStyle.Render("no transactions")), "\n")
	}

	if st := out.Stats; st.Highest != nil {
		parts := []string{
			"highest " + formatMoney(st.Highest.Amount),
			"lowest " + formatMoney(st.Lowest.Amount),
		}
		if st.MostCommon != nil {
			parts = append(parts, "most common "+st.MostCommon.Label)
		}
		lines = append(lines, mutedStyle.Render(strings.Join(parts, " · ")))
	}

	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)).Bold(true)
	start := max(0, m.cursor-maxListRows+1)
	idx := 0
	shown := 0
	for _, day := range out.Days {
		dayShown := false
		for _, r := range day.Records {
			if idx < start || shown >= maxListRows {
				idx++
				continue
			}
			if !dayShown {
				lines = append(lines, renderDayHeader(day))
				dayShown = true
			}
			prefix := "  "
			if idx == m.cursor {
				prefix = cursorStyle.Render("> ")
			}
			lines = append(lines, prefix+renderRecord(r, out.Catalog))
			idx++
			shown++
		}
	}
	return strings.Join(lines, "\n")
}

func renderDayHeader(day aggregate.Day) string {
	label := "undated"
	if !day.Date.IsZero() {
		label = day.Date.Format("Mon 02 Jan")
	}
	return mutedStyle.Render(label + " · " + formatMoney(day.Total))
}

func renderRecord(r records.Record, catalog aggregate.Catalog) string {
	desc := strings.TrimSpace(r.Description)
	if desc == "" {
		desc = "(no description)"
	}
	category := aggregate.UncategorizedLabel
	if r.Category != nil && r.Category.Name != "" {
		category = r.Category.Name
	} else if id := r.CategoryKey(); id != "" {
		category = id.String()
		if name, _, ok := catalog.Lookup(id); ok && name != "" {
			category = name
		}
	}
	amount := formatMoney(r.Amount)
	if r.Malformed {
		amount = errorStyle.Render("unreadable")
	}
	line := fmt.Sprintf("%-28s %-14s %10s", truncate(desc, 28), truncate(category, 14), amount)
	if r.Recurring {
		line += mutedStyle.Render("  ↻")
	}
	return line
}

func (m model) renderFooter() string {
	var lines []string
	if m.feedback != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)).Render(m.feedback))
	}
	if status := m.statusLine(); status != "" {
		lines = append(lines, mutedStyle.Render(status))
	}
	lines = append(lines, mutedStyle.Render("←/→ month · g jump · t today · ↑/↓ select · d delete · space recurring · r retry · ? help · q quit"))
	return strings.Join(lines, "\n")
}

// statusLine reports when the list last loaded, falling back to the
// previous session's outcome before the first load.
func (m model) statusLine() string {
	if out := m.list.Output(); out.State == widget.Loaded && !out.LoadedAt.IsZero() {
		return "loaded " + humanize.RelTime(out.LoadedAt, m.now(), "ago", "from now")
	}
	for _, st := range m.lastSession {
		if st.LastErrorKind != "" && st.LastAttempt != nil {
			return fmt.Sprintf("last run: %s failed (%s) %s", st.Widget, st.LastErrorKind,
				humanize.RelTime(*st.LastAttempt, m.now(), "ago", "from now"))
		}
	}
	return ""
}

func renderHelpOverlay(maxWidth int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorBlue)).
		Bold(true).
		Render("Keys")

	keys := [][2]string{
		{"← / h", "previous month"},
		{"→ / l", "next month"},
		{"g", "jump to a month (YYYY-MM)"},
		{"t", "this month"},
		{"↑ / ↓", "select a transaction"},
		{"d", "delete selected transaction"},
		{"space", "toggle recurring on selected"},
		{"r", "retry failed widgets"},
		{"q", "quit"},
	}
	rows := make([]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, fmt.Sprintf("%-8s %s", k[0], k[1]))
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorYellow)).
		Bold(true).
		Render("Esc to close")

	content := strings.Join([]string{title, "", strings.Join(rows, "\n"), "", footer}, "\n")
	panelWidth := max(36, min(maxWidth-6, 64))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#6CBFE6")).
		Padding(1, 2).
		Width(panelWidth).
		Render(content)
}

// formatMoney rounds to cents for display only.
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	fixed := d.Abs().StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + "$" + fixed
	}
	return sign + "$" + humanize.Comma(n) + "." + cents
}

func formatSignedMoney(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + formatMoney(d)
	}
	return formatMoney(d)
}

func formatSignedPercent(d decimal.Decimal) string {
	s := d.StringFixed(1) + "%"
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
