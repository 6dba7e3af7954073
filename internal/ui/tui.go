// Package ui is the interactive terminal front end: boot screen, task list
// with filters and search, the new-task line, the edit dialog and the
// delete confirmation.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/termtasks/internal/notify"
	"github.com/nibzard/termtasks/internal/query"
	"github.com/nibzard/termtasks/internal/todo"
)

// Sender receives cosmetic events. *notify.Dispatcher satisfies it.
type Sender interface {
	Send(notify.Event)
}

// SoundSwitch mutes and unmutes sound cues. *notify.BellSink satisfies it.
type SoundSwitch interface {
	Enabled() bool
	Toggle() bool
}

// Options configures the TUI.
type Options struct {
	Store      *todo.Store
	Clock      todo.Clock
	Events     Sender
	Sound      SoundSwitch
	Theme      Theme
	Boot       bool
	Animations bool
	Filter     query.Kind
	Logger     *log.Logger
}

type mode int

const (
	modeBoot mode = iota
	modeList
	modeAdd
	modeSearch
	modeEdit
	modeDelete
	modeClear
	modeHelp
)

type editField int

const (
	editText editField = iota
	editPriority
	editDue
	editQuick
	editFieldCount
)

type quickDate struct {
	label string
	days  int
	clear bool
}

var quickDates = []quickDate{
	{label: "TODAY"},
	{label: "+1 DAY", days: 1},
	{label: "+7 DAYS", days: 7},
	{label: "CLEAR", clear: true},
}

type editDialog struct {
	id       string
	text     textinput.Model
	due      textinput.Model
	priority todo.Priority
	focus    editField
	quick    int
}

type (
	bootLineMsg struct{}
	bootDoneMsg struct{}
	pulseMsg    time.Time
	dateMsg     time.Time
)

// dateInterval is how often the date is rechecked when the pulse is off.
const dateInterval = time.Minute

// Model is the bubbletea model of the task screen.
type Model struct {
	store   *todo.Store
	clock   todo.Clock
	events  Sender
	sound   SoundSwitch
	theme   Theme
	styles  styles
	logger  *log.Logger
	animate bool
	intn    func(int) int

	mode      mode
	bootShown int
	width     int
	height    int

	filter      query.Kind
	search      textinput.Model
	input       textinput.Model
	newPriority todo.Priority

	today   todo.Date
	tasks   []todo.Task
	visible []todo.Task
	cursor  int
	offset  int
	pulse   Pulse

	edit       editDialog
	pendingID  string
	pendingTxt string

	status    string
	statusBad bool
}

// New builds the model. A zero Theme selects the default palette.
func New(opts Options) *Model {
	m := &Model{
		store:   opts.Store,
		clock:   opts.Clock,
		events:  opts.Events,
		sound:   opts.Sound,
		theme:   opts.Theme,
		logger:  opts.Logger,
		animate: opts.Animations,
		intn:    rand.Intn,
		filter:  opts.Filter,
		mode:    modeList,
	}
	if m.clock == nil {
		m.clock = todo.SystemClock
	}
	if m.theme.base == nil {
		m.theme = DefaultTheme()
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	if !m.filter.Valid() {
		m.filter = query.All
	}
	if opts.Boot {
		m.mode = modeBoot
	}
	m.styles = newStyles(m.theme)

	m.search = textinput.New()
	m.search.Prompt = "SEARCH: "
	m.search.Placeholder = "FILTER_BY_KEYWORD..."
	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.Placeholder = "INIT_NEW_OBJECTIVE..."
	m.newPriority = todo.PriorityNone
	for _, ti := range []*textinput.Model{&m.search, &m.input} {
		ti.PromptStyle = m.styles.accent
		ti.TextStyle = m.styles.accent
		ti.PlaceholderStyle = m.styles.meta
	}

	m.refresh()
	return m
}

// Init starts the boot sequence and the pulse clock, or a slower date clock
// when animations are off.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.mode == modeBoot {
		cmds = append(cmds, tea.Tick(bootStartDelay, func(time.Time) tea.Msg { return bootLineMsg{} }))
	} else {
		m.finishBoot()
	}
	if m.animate {
		cmds = append(cmds, pulseTick())
	} else {
		cmds = append(cmds, dateTick())
	}
	return tea.Batch(cmds...)
}

func dateTick() tea.Cmd {
	return tea.Tick(dateInterval, func(t time.Time) tea.Msg {
		return dateMsg(t)
	})
}

// checkDate refilters when the calendar date has moved on, so overdue
// markers follow midnight.
func (m *Model) checkDate() {
	if todo.Today(m.clock) != m.today {
		m.refresh()
	}
}

func pulseTick() tea.Cmd {
	return tea.Tick(pulseInterval, func(t time.Time) tea.Msg {
		return pulseMsg(t)
	})
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.search.Width = max(msg.Width-len(m.search.Prompt)-4, 10)
		m.input.Width = max(msg.Width-len(m.input.Prompt)-24, 10)
	case pulseMsg:
		if m.mode != modeBoot {
			m.pulse.Step()
		}
		m.checkDate()
		return m, pulseTick()
	case dateMsg:
		m.checkDate()
		return m, dateTick()
	case bootLineMsg:
		return m, m.nextBootLine()
	case bootDoneMsg:
		if m.mode == modeBoot {
			m.finishBoot()
		}
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeBoot:
			m.finishBoot()
		case modeList:
			cmd = m.updateList(msg)
		case modeAdd:
			cmd = m.updateAdd(msg)
		case modeSearch:
			cmd = m.updateSearch(msg)
		case modeEdit:
			cmd = m.updateEdit(msg)
		case modeDelete:
			m.updateDelete(msg)
		case modeClear:
			m.updateClear(msg)
		case modeHelp:
			m.mode = modeList
		}
	default:
		cmd = m.updateFocused(msg)
	}
	m.syncOffset()
	return m, cmd
}

// updateFocused forwards non-key messages such as cursor blinks to the
// focused input.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case modeAdd:
		m.input, cmd = m.input.Update(msg)
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeEdit:
		switch m.edit.focus {
		case editText:
			m.edit.text, cmd = m.edit.text.Update(msg)
		case editDue:
			m.edit.due, cmd = m.edit.due.Update(msg)
		}
	}
	return cmd
}

func (m *Model) nextBootLine() tea.Cmd {
	if m.mode != modeBoot {
		return nil
	}
	if m.bootShown < len(bootLines) {
		m.bootShown++
	}
	if m.bootShown == len(bootLines) {
		return tea.Tick(bootFinishDelay, func(time.Time) tea.Msg { return bootDoneMsg{} })
	}
	d := bootDelay(bootLines[m.bootShown-1], m.intn)
	return tea.Tick(d, func(time.Time) tea.Msg { return bootLineMsg{} })
}

// finishBoot enters the list and announces overdue tasks.
func (m *Model) finishBoot() {
	m.mode = modeList
	m.bootShown = len(bootLines)
	m.refresh()
	if ev, ok := notify.OverdueDigest(m.tasks, m.today); ok {
		m.logger.Info("overdue tasks", "count", len(query.OverdueTasks(m.tasks, m.today)))
		m.send(ev)
	}
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "q":
		return tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.visible)-1, 0)
	case "n", "ctrl+n", "a":
		m.mode = modeAdd
		return m.input.Focus()
	case "/", "ctrl+f":
		m.mode = modeSearch
		return m.search.Focus()
	case "1", "2", "3", "4", "5":
		m.setFilter(query.Kinds()[key[0]-'1'])
	case "tab":
		kinds := query.Kinds()
		for i, k := range kinds {
			if k == m.filter {
				m.setFilter(kinds[(i+1)%len(kinds)])
				break
			}
		}
	case " ", "x", "enter":
		m.toggleSelected()
	case "e":
		return m.openEdit()
	case "d", "delete":
		if t, ok := m.selected(); ok {
			m.pendingID, m.pendingTxt = t.ID, t.Text
			m.mode = modeDelete
		}
	case "c":
		if query.Summarize(m.tasks, m.today).Completed == 0 {
			m.setStatus("NO COMPLETED PROTOCOLS", false)
			return nil
		}
		m.mode = modeClear
	case "m":
		m.toggleSound()
	case "p":
		m.newPriority = m.newPriority.Next()
	case "?":
		m.mode = modeHelp
	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.refresh()
		}
		m.status = ""
	}
	return nil
}

func (m *Model) updateAdd(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.mode = modeList
		return nil
	case "enter":
		m.addTask()
		return nil
	case "tab":
		m.newPriority = m.newPriority.Next()
		return nil
	case "shift+tab":
		m.newPriority = prevPriority(m.newPriority)
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.mode = modeList
		m.refresh()
		return nil
	case "enter", "down", "tab":
		m.search.Blur()
		m.mode = modeList
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return cmd
}

func (m *Model) updateDelete(msg tea.KeyMsg) {
	switch msg.String() {
	case "y", "Y", "enter":
		if m.store.Delete(m.pendingID) {
			m.logger.Debug("task deleted", "id", m.pendingID)
			m.send(notify.Event{Kind: notify.Delete, TaskID: m.pendingID, TaskText: m.pendingTxt})
			m.afterMutation("DELETED")
		}
		m.pendingID, m.pendingTxt = "", ""
		m.mode = modeList
	case "n", "N", "esc", "q":
		m.pendingID, m.pendingTxt = "", ""
		m.mode = modeList
	}
}

func (m *Model) updateClear(msg tea.KeyMsg) {
	switch msg.String() {
	case "y", "Y", "enter":
		if n := m.store.ClearCompleted(); n > 0 {
			m.logger.Debug("completed tasks cleared", "count", n)
			m.send(notify.Event{Kind: notify.Clear, TaskText: fmt.Sprintf("%d", n)})
			m.afterMutation(fmt.Sprintf("PURGED %d", n))
		}
		m.mode = modeList
	case "n", "N", "esc", "q":
		m.mode = modeList
	}
}

func (m *Model) openEdit() tea.Cmd {
	t, ok := m.selected()
	if !ok {
		return nil
	}
	text := textinput.New()
	text.Prompt = ""
	text.SetValue(t.Text)
	text.CursorEnd()
	due := textinput.New()
	due.Prompt = ""
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = len(todo.DateLayout)
	if t.DueDate != nil {
		due.SetValue(t.DueDate.String())
	}
	for _, ti := range []*textinput.Model{&text, &due} {
		ti.TextStyle = m.styles.accent
		ti.PlaceholderStyle = m.styles.meta
		ti.Width = 40
	}
	m.edit = editDialog{id: t.ID, text: text, due: due, priority: t.Priority, focus: editText}
	m.mode = modeEdit
	return m.edit.text.Focus()
}

func (m *Model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	e := &m.edit
	switch msg.String() {
	case "esc":
		m.closeEdit()
		return nil
	case "enter", "ctrl+s":
		m.saveEdit()
		return nil
	case "tab", "down":
		return m.focusEdit((e.focus + 1) % editFieldCount)
	case "shift+tab", "up":
		return m.focusEdit((e.focus + editFieldCount - 1) % editFieldCount)
	}

	var cmd tea.Cmd
	switch e.focus {
	case editText:
		e.text, cmd = e.text.Update(msg)
	case editDue:
		e.due, cmd = e.due.Update(msg)
	case editPriority:
		switch msg.String() {
		case "right", "l", " ":
			e.priority = e.priority.Next()
		case "left", "h":
			e.priority = prevPriority(e.priority)
		}
	case editQuick:
		switch msg.String() {
		case "right", "l":
			e.quick = (e.quick + 1) % len(quickDates)
		case "left", "h":
			e.quick = (e.quick + len(quickDates) - 1) % len(quickDates)
		case " ":
			m.applyQuickDate(quickDates[e.quick])
		}
	}
	return cmd
}

func (m *Model) focusEdit(f editField) tea.Cmd {
	m.edit.focus = f
	m.edit.text.Blur()
	m.edit.due.Blur()
	switch f {
	case editText:
		return m.edit.text.Focus()
	case editDue:
		return m.edit.due.Focus()
	}
	return nil
}

func (m *Model) applyQuickDate(q quickDate) {
	if q.clear {
		m.edit.due.SetValue("")
		return
	}
	m.edit.due.SetValue(todo.Today(m.clock).AddDays(q.days).String())
	m.edit.due.CursorEnd()
}

func (m *Model) saveEdit() {
	e := m.edit
	due := e.due.Value()
	t, ok := m.store.Edit(e.id, e.text.Value(), e.priority, due)
	if !ok {
		if _, exists := m.store.Get(e.id); !exists {
			m.closeEdit()
			return
		}
		m.setStatus("OBJECTIVE REQUIRED", true)
		return
	}
	m.logger.Debug("task edited", "id", t.ID)
	m.send(notify.Event{Kind: notify.Edit, TaskID: t.ID, TaskText: t.Text})
	msg := "UPDATED"
	if due != "" && t.DueDate == nil {
		msg = "UPDATED. INVALID DUE DATE CLEARED"
	}
	m.closeEdit()
	m.afterMutation(msg)
	m.selectID(t.ID)
}

func (m *Model) closeEdit() {
	m.edit.text.Blur()
	m.edit.due.Blur()
	m.edit = editDialog{}
	m.mode = modeList
}

func (m *Model) addTask() {
	t, ok := m.store.Add(m.input.Value(), m.newPriority)
	if !ok {
		m.setStatus("OBJECTIVE REQUIRED", true)
		return
	}
	m.logger.Debug("task added", "id", t.ID, "priority", t.Priority)
	m.input.Reset()
	m.newPriority = todo.PriorityNone
	m.send(notify.Event{Kind: notify.Add, TaskID: t.ID, TaskText: t.Text})
	m.afterMutation("ADDED")
	m.selectID(t.ID)
}

func (m *Model) toggleSelected() {
	sel, ok := m.selected()
	if !ok {
		return
	}
	t, ok := m.store.Toggle(sel.ID)
	if !ok {
		return
	}
	kind, msg := notify.Reopen, "REOPENED"
	if t.Completed {
		kind, msg = notify.Complete, "COMPLETED"
	}
	m.send(notify.Event{Kind: kind, TaskID: t.ID, TaskText: t.Text})
	m.afterMutation(msg)
}

func (m *Model) toggleSound() {
	if m.sound == nil {
		m.setStatus("SOUND UNAVAILABLE", true)
		return
	}
	if m.sound.Toggle() {
		m.setStatus("SND:ON", false)
		return
	}
	m.setStatus("SND:OFF", false)
}

func (m *Model) setFilter(k query.Kind) {
	m.filter = k
	m.cursor = 0
	m.offset = 0
	m.send(notify.Event{Kind: notify.Click})
	m.refresh()
}

func (m *Model) afterMutation(msg string) {
	m.refresh()
	if err := m.store.LastSaveError(); err != nil {
		m.setStatus("SAVE FAILED: "+err.Error(), true)
		return
	}
	m.setStatus(msg, false)
}

func (m *Model) setStatus(s string, bad bool) {
	m.status, m.statusBad = s, bad
}

func (m *Model) send(ev notify.Event) {
	if m.events != nil {
		m.events.Send(ev)
	}
}

// refresh re-reads the store and reapplies the filter and search.
func (m *Model) refresh() {
	m.today = todo.Today(m.clock)
	if m.store != nil {
		m.tasks = m.store.Tasks()
	}
	m.visible = query.Filter(m.tasks, m.filter, m.search.Value(), m.today)
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m *Model) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
}

func (m *Model) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return todo.Task{}, false
	}
	return m.visible[m.cursor], true
}

func (m *Model) selectID(id string) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

// syncOffset scrolls the list so the cursor card is on screen.
func (m *Model) syncOffset() {
	if m.mode == modeBoot {
		return
	}
	heights := make([]int, len(m.visible))
	for i, t := range m.visible {
		heights[i] = cardHeight(t)
	}
	m.offset, _ = window(heights, m.cursor, m.offset, m.listHeight())
}

// window returns the [start,end) range of cards that fit in avail lines
// starting near offset and containing cursor. avail <= 0 shows everything.
func window(heights []int, cursor, offset, avail int) (int, int) {
	n := len(heights)
	if n == 0 {
		return 0, 0
	}
	if avail <= 0 {
		return 0, n
	}
	start := min(max(offset, 0), n-1)
	if cursor < start {
		start = cursor
	}
	for start < cursor && span(heights, start, cursor+1) > avail {
		start++
	}
	end := start
	used := 0
	for end < n && (end == start || used+heights[end] <= avail) {
		used += heights[end]
		end++
	}
	return start, end
}

func span(heights []int, from, to int) int {
	total := 0
	for _, h := range heights[from:to] {
		total += h
	}
	return total
}

func prevPriority(p todo.Priority) todo.Priority {
	all := todo.Priorities()
	return all[(p.Rank()+len(all)-1)%len(all)]
}

// Run shows the TUI until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
