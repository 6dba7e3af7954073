package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/termtasks/internal/query"
	"github.com/nibzard/termtasks/internal/todo"
	"github.com/nibzard/termtasks/internal/utils"
)

const (
	appTitle       = "ZERETSU MATRIX TASKS SYS v2.0"
	defaultWidth   = 72
	statsRuleWidth = 50
	deleteTextLen  = 35
	timestampFmt   = "2006-01-02 15:04"
)

// View renders the current screen.
func (m *Model) View() string {
	var b strings.Builder
	switch m.mode {
	case modeBoot:
		m.writeBoot(&b)
		return b.String()
	case modeEdit:
		return m.place(m.editDialogView())
	case modeDelete:
		return m.place(m.deleteDialogView())
	case modeClear:
		return m.place(m.clearDialogView())
	case modeHelp:
		m.writeHeader(&b)
		writeHelp(&b, m.styles)
		return b.String()
	}

	top := m.chromeTop()
	bottom := m.chromeBottom()
	b.WriteString(top)
	m.writeTasks(&b)
	b.WriteString(bottom)
	return b.String()
}

func (m *Model) place(s string) string {
	if m.width <= 0 || m.height <= 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m *Model) chromeTop() string {
	var b strings.Builder
	m.writeHeader(&b)
	b.WriteString(m.styles.dim.Render(statsText(query.Summarize(m.tasks, m.today))))
	b.WriteString("\n")
	m.writeTabs(&b)
	b.WriteString(m.search.View())
	b.WriteString("\n")
	m.writeNewTask(&b)
	b.WriteString("\n")
	return b.String()
}

func (m *Model) chromeBottom() string {
	var b strings.Builder
	if query.Summarize(m.tasks, m.today).Completed > 0 {
		b.WriteString(m.styles.high.Render("[c] PURGE COMPLETED PROTOCOLS"))
		b.WriteString("\n")
	}
	m.writeStatus(&b)
	b.WriteString(m.styles.meta.Render("n new  / search  1-5 filter  space toggle  e edit  d delete  m sound  ? help  q quit"))
	return b.String()
}

// listHeight is the number of lines left for task cards, or 0 when the
// terminal size is unknown.
func (m *Model) listHeight() int {
	if m.height <= 0 {
		return 0
	}
	return max(m.height-lipgloss.Height(m.chromeTop())-lipgloss.Height(m.chromeBottom()), 1)
}

func (m *Model) writeBoot(b *strings.Builder) {
	lines := bootLines[:m.bootShown]
	body := m.styles.accent.Render(strings.Join(lines, "\n"))
	box := m.styles.dialog.Width(46).Height(len(bootLines)).Render(body)
	b.WriteString(m.place(box))
}

func (m *Model) writeHeader(b *strings.Builder) {
	snd := "SND:OFF"
	if m.sound != nil && m.sound.Enabled() {
		snd = "SND:ON"
	}
	title := m.styles.title.Render(appTitle)
	right := m.styles.dim.Render(snd)
	gap := max(m.contentWidth()-lipgloss.Width(title)-lipgloss.Width(right), 1)
	b.WriteString(title + strings.Repeat(" ", gap) + right)
	b.WriteString("\n")
}

// statsText is the statistics block shown above the filter tabs.
func statsText(s query.Stats) string {
	rule := strings.Repeat("=", statsRuleWidth)
	return fmt.Sprintf("%s\n"+
		"  TOTAL PROTOCOLS  : %03d    |    HIGH PRIORITY : %03d\n"+
		"  ACTIVE THREADS   : %03d    |    OVERDUE       : %03d\n"+
		"  COMPLETED        : %03d    |    COMPLETION    : [%s] %d%%\n"+
		"%s",
		rule,
		s.Total, s.HighPriority,
		s.Pending, s.Overdue,
		s.Completed, s.Bar(10), s.Percent,
		rule)
}

func (m *Model) writeTabs(b *strings.Builder) {
	tabs := make([]string, 0, len(query.Kinds()))
	for _, k := range query.Kinds() {
		if k == m.filter {
			tabs = append(tabs, m.styles.tabOn.Render(k.Label()))
			continue
		}
		tabs = append(tabs, m.styles.tab.Render(k.Label()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
}

func (m *Model) writeNewTask(b *strings.Builder) {
	b.WriteString(m.input.View())
	b.WriteString(" ")
	b.WriteString(m.priorityBadge(m.newPriority, false, true))
	b.WriteString(" ")
	if m.mode == modeAdd {
		b.WriteString(m.styles.tabOn.Render("EXEC"))
	} else {
		b.WriteString(m.styles.tab.Render("EXEC"))
	}
	b.WriteString("\n")
}

// priorityBadge renders "[HIGH]" style labels. NONE renders nothing unless
// always is set.
func (m *Model) priorityBadge(p todo.Priority, done, always bool) string {
	if p == todo.PriorityNone && !always {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(lg(m.theme.PriorityColor(p))).Bold(true)
	if done {
		style = m.styles.dim
	}
	return style.Render("[" + string(p) + "]")
}

func (m *Model) writeTasks(b *strings.Builder) {
	if len(m.visible) == 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.dim.Render(emptyMessage(len(m.tasks), m.search.Value())))
		b.WriteString("\n\n")
		return
	}
	heights := make([]int, len(m.visible))
	for i, t := range m.visible {
		heights[i] = cardHeight(t)
	}
	start, end := window(heights, m.cursor, m.offset, m.listHeight())
	for i := start; i < end; i++ {
		b.WriteString(m.renderCard(m.visible[i], i == m.cursor))
		b.WriteString("\n")
	}
}

// emptyMessage is shown when no task passes the filter.
func emptyMessage(total int, search string) string {
	switch {
	case total == 0:
		return "SYSTEM IDLE. AWAITING INPUT."
	case strings.TrimSpace(search) != "":
		return fmt.Sprintf("NO RESULTS FOR: '%s'", strings.ToUpper(strings.TrimSpace(search)))
	default:
		return "NO MATCHING RECORDS"
	}
}

// cardHeight is the rendered line count of a task card.
func cardHeight(t todo.Task) int {
	if metaLine(t, todo.Date{}) == "" {
		return 3
	}
	return 4
}

// metaLine joins the created, due and completed stamps of a task.
func metaLine(t todo.Task, today todo.Date) string {
	var parts []string
	if !t.CreatedAt.IsZero() {
		parts = append(parts, "CREATED: "+t.CreatedAt.Local().Format(timestampFmt))
	}
	if due := query.DueLabel(t, today); due != "" {
		parts = append(parts, due)
	}
	if t.Completed && t.CompletedAt != nil {
		parts = append(parts, "COMPLETED: "+t.CompletedAt.Local().Format(timestampFmt))
	}
	return strings.Join(parts, "  |  ")
}

func (m *Model) renderCard(t todo.Task, selected bool) string {
	overdue := query.IsOverdue(t, m.today)
	phase := 0.0
	if m.animate {
		phase = m.pulse.Phase
	}
	border := m.theme.BorderColor(t, overdue, selected, phase)

	width := m.contentWidth() - 2
	inner := max(width-4, 10)

	check := m.styles.dim.Render("[ ]")
	textStyle := m.styles.accent
	if t.Completed {
		check = m.styles.accent.Render("[X]")
		textStyle = m.styles.dim
	}
	line := check + " "
	if badge := m.priorityBadge(t.Priority, t.Completed, false); badge != "" {
		line += badge + " "
	}
	room := inner - lipgloss.Width(line)
	line += textStyle.Render(utils.Truncate(t.Text, max(room-3, 1), "..."))

	lines := []string{line}
	if meta := metaLine(t, m.today); meta != "" {
		style := m.styles.meta
		if overdue {
			style = m.styles.high
		}
		lines = append(lines, "    "+style.Render(utils.Truncate(meta, inner-4, "")))
	}
	return m.styles.card.Width(width).BorderForeground(lg(border)).Render(strings.Join(lines, "\n"))
}

func (m *Model) writeStatus(b *strings.Builder) {
	if m.status == "" {
		return
	}
	style := m.styles.status
	if m.statusBad {
		style = m.styles.high
	}
	b.WriteString(style.Render("> " + m.status))
	b.WriteString("\n")
}

func (m *Model) editDialogView() string {
	e := m.edit
	var b strings.Builder
	b.WriteString(m.styles.title.Render("MODIFY TASK DATA:"))
	b.WriteString("\n\n")

	label := func(f editField, s string) string {
		if e.focus == f {
			return m.styles.accent.Render(s)
		}
		return m.styles.dim.Render(s)
	}

	b.WriteString(label(editText, "> OBJECTIVE:") + "\n")
	b.WriteString(e.text.View() + "\n\n")

	b.WriteString(label(editPriority, "> PRIORITY LEVEL:") + "\n")
	prios := make([]string, 0, 4)
	for _, p := range todo.Priorities() {
		if p == e.priority {
			prios = append(prios, m.styles.tabOn.Background(lg(m.theme.PriorityColor(p))).Render(string(p)))
			continue
		}
		prios = append(prios, m.styles.tab.Render(string(p)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, prios...) + "\n\n")

	b.WriteString(label(editDue, "> DUE DATE:") + "\n")
	b.WriteString(e.due.View() + "\n")
	quick := make([]string, 0, len(quickDates))
	for i, q := range quickDates {
		if e.focus == editQuick && i == e.quick {
			quick = append(quick, m.styles.tabOn.Render(q.label))
			continue
		}
		quick = append(quick, m.styles.tab.Render(q.label))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, quick...) + "\n\n")

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.button.Render("CANCEL [esc]"), " ",
		m.styles.buttonOn.Render("SAVE CHANGES [enter]"))
	b.WriteString(buttons + "\n")
	b.WriteString(m.styles.meta.Render("tab next field  ←/→ choose  space apply"))
	if m.status != "" && m.statusBad {
		b.WriteString("\n" + m.styles.high.Render("> "+m.status))
	}
	return m.styles.dialog.Render(b.String())
}

func (m *Model) deleteDialogView() string {
	var b strings.Builder
	b.WriteString(m.styles.high.Bold(true).Render("⚠ WARNING"))
	b.WriteString("  ")
	b.WriteString(m.styles.dim.Render("DELETE_PROTOCOL"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.accent.Render(deleteMessage(m.pendingTxt)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.button.Render("ABORT [n]"), " ",
		m.styles.buttonOn.Background(lg(m.theme.High())).BorderForeground(lg(m.theme.High())).Render("CONFIRM [y]")))
	return m.styles.danger.Render(b.String())
}

// deleteMessage is the confirmation prompt for deleting a task.
func deleteMessage(text string) string {
	return fmt.Sprintf("Permanently delete task:\n'%s'?", utils.Truncate(text, deleteTextLen, "..."))
}

func (m *Model) clearDialogView() string {
	n := query.Summarize(m.tasks, m.today).Completed
	var b strings.Builder
	b.WriteString(m.styles.high.Bold(true).Render("⚠ WARNING"))
	b.WriteString("  ")
	b.WriteString(m.styles.dim.Render("PURGE_PROTOCOLS"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.accent.Render(fmt.Sprintf("Permanently delete %d completed task(s)?", n)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.button.Render("ABORT [n]"), " ",
		m.styles.buttonOn.Background(lg(m.theme.High())).BorderForeground(lg(m.theme.High())).Render("CONFIRM [y]")))
	return m.styles.danger.Render(b.String())
}

func writeHelp(b *strings.Builder, s styles) {
	keys := [][2]string{
		{"n, ctrl+n", "new task (tab cycles priority, enter adds, esc leaves)"},
		{"/, ctrl+f", "search (enter keeps, esc clears)"},
		{"1-5, tab", "filter: ALL, ACTIVE, DONE, !HIGH, OVERDUE"},
		{"j/k, up/down", "move selection"},
		{"space, x, enter", "toggle complete"},
		{"e", "edit selected task"},
		{"d", "delete selected task"},
		{"c", "purge completed tasks"},
		{"p", "cycle new-task priority"},
		{"m", "sound on/off"},
		{"q, ctrl+c", "quit"},
	}
	b.WriteString("\n")
	b.WriteString(s.title.Render("KEYBINDINGS"))
	b.WriteString("\n\n")
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("  %s  %s\n", s.accent.Render(fmt.Sprintf("%-16s", k[0])), s.dim.Render(k[1])))
	}
	b.WriteString("\n")
	b.WriteString(s.meta.Render("press any key to return"))
}
