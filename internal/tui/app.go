// ABOUTME: Main mood TUI with a tracker tab for recording moods and a history tab listing them.
// ABOUTME: History rows support mouse drag and keyboard swipe-to-delete backed by the gesture package.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/moodlog/internal/gesture"
	"github.com/2389-research/moodlog/internal/models"
	"github.com/2389-research/moodlog/internal/mood"
)

// MoodSource is what the screens need from the mood store.
type MoodSource interface {
	Context() mood.Context
	Subscribe() (<-chan models.MoodList, func())
}

// Tab identifies a screen.
type Tab int

const (
	TabTracker Tab = iota
	TabHistory
)

// frameInterval paces row animations at roughly 60fps.
const frameInterval = 16 * time.Millisecond

// Lines above the first row on each screen; mouse Y is mapped through these.
const (
	historyHeaderLines = 2
	trackerHeaderLines = 4
)

// AppOptions tunes the swipe behaviour. Zero values fall back to gesture defaults.
type AppOptions struct {
	Threshold   float64
	DeleteDelay time.Duration
	// CellUnits converts one terminal column of mouse travel into gesture units.
	CellUnits float64
	Now       func() time.Time
	Scheduler gesture.AfterFunc
}

type listMsg struct {
	list models.MoodList
	ok   bool
}

type frameMsg time.Time

type dragState struct {
	active    bool
	timestamp int64
	startX    int
}

// AppModel is the bubbletea model for the mood screens.
type AppModel struct {
	ctx         mood.Context
	updates     <-chan models.MoodList
	unsubscribe func()

	opts      AppOptions
	rows      map[int64]*gesture.Swipe
	drag      dragState
	animating bool

	tab           Tab
	optionCursor  int
	historyCursor int
	status        string

	keys     keyMap
	help     help.Model
	width    int
	quitting bool
}

// NewAppModel subscribes to src and returns a model showing its moods.
func NewAppModel(src MoodSource, opts AppOptions) AppModel {
	if opts.CellUnits <= 0 {
		opts.CellUnits = 8
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx := mood.DefaultContext()
	if src != nil {
		ctx = src.Context()
	}

	m := AppModel{
		ctx:         ctx,
		unsubscribe: func() {},
		opts:        opts,
		rows:        make(map[int64]*gesture.Swipe),
		keys:        newKeyMap(),
		help:        help.New(),
	}
	if src != nil {
		m.updates, m.unsubscribe = src.Subscribe()
	}
	return m
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return m.waitForList()
}

func (m AppModel) waitForList() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	updates := m.updates
	return func() tea.Msg {
		list, ok := <-updates
		return listMsg{list: list, ok: ok}
	}
}

func (m AppModel) nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case listMsg:
		if !msg.ok {
			m.updates = nil
			return m, nil
		}
		m.applyList(msg.list)
		return m, m.waitForList()

	case frameMsg:
		return m.advanceFrame(time.Time(msg))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Tab):
			m.switchTab()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if m.tab == TabTracker {
			return m.updateTracker(msg)
		}
		return m.updateHistory(msg)
	}
	return m, nil
}

func (m *AppModel) switchTab() {
	if m.tab == TabTracker {
		m.tab = TabHistory
	} else {
		m.tab = TabTracker
	}
	m.status = ""
	m.drag = dragState{}
}

func (m AppModel) quit() (tea.Model, tea.Cmd) {
	// Pending deletes run now so the final write is queued before the store closes.
	for _, row := range m.rows {
		row.Settle()
	}
	m.unsubscribe()
	m.quitting = true
	return m, tea.Quit
}

// applyList takes a new snapshot and forgets rows whose entries are gone.
func (m *AppModel) applyList(list models.MoodList) {
	m.ctx.MoodList = list
	for ts := range m.rows {
		if !list.Contains(ts) {
			delete(m.rows, ts)
		}
	}
	if m.drag.active && !list.Contains(m.drag.timestamp) {
		m.drag = dragState{}
	}
	m.clampHistoryCursor()
}

func (m *AppModel) clampHistoryCursor() {
	if n := len(m.ctx.MoodList); m.historyCursor >= n {
		m.historyCursor = n - 1
	}
	if m.historyCursor < 0 {
		m.historyCursor = 0
	}
}

// displayed returns the history rows newest first.
func (m AppModel) displayed() models.MoodList {
	return m.ctx.MoodList.Reversed()
}

// rowFor returns the swipe state for entry, creating it on first use.
func (m AppModel) rowFor(entry models.MoodEntry) *gesture.Swipe {
	if row, ok := m.rows[entry.Timestamp]; ok {
		return row
	}

	ctx := m.ctx
	opts := []gesture.Option{
		gesture.WithThreshold(m.opts.Threshold),
		gesture.WithNow(m.opts.Now),
	}
	if m.opts.DeleteDelay > 0 {
		opts = append(opts, gesture.WithDeleteDelay(m.opts.DeleteDelay))
	}
	if m.opts.Scheduler != nil {
		opts = append(opts, gesture.WithScheduler(m.opts.Scheduler))
	}

	row := gesture.New(func() { ctx.DeleteMood(entry) }, opts...)
	m.rows[entry.Timestamp] = row
	return row
}

func (m AppModel) updateTracker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.optionCursor > 0 {
			m.optionCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.optionCursor < len(models.MoodOptions)-1 {
			m.optionCursor++
		}
	case key.Matches(msg, m.keys.Pick):
		idx := int(msg.Runes[0] - '1')
		if idx >= 0 && idx < len(models.MoodOptions) {
			m.optionCursor = idx
			m.record(models.MoodOptions[idx])
		}
	case key.Matches(msg, m.keys.Select):
		m.record(models.MoodOptions[m.optionCursor])
	}
	return m, nil
}

func (m *AppModel) record(opt models.MoodOption) {
	m.ctx.SelectMood(opt)
	m.status = "Recorded " + opt.Emoji + " " + opt.Description
}

func (m AppModel) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.displayed()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.historyCursor > 0 {
			m.historyCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.historyCursor < len(list)-1 {
			m.historyCursor++
		}
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		if len(list) == 0 {
			return m, nil
		}
		direction := 1.0
		if key.Matches(msg, m.keys.Left) {
			direction = -1
		}
		return m.flick(list[m.historyCursor], direction)
	case key.Matches(msg, m.keys.Delete):
		if len(list) == 0 {
			return m, nil
		}
		entry := list[m.historyCursor]
		if row, ok := m.rows[entry.Timestamp]; ok && row.State() == gesture.Dismissing {
			return m, nil
		}
		m.ctx.DeleteMood(entry)
		m.status = "Deleted " + entry.Mood.Emoji + " from " + entry.FormatTime()
	}
	return m, nil
}

// flick swipes the row past its threshold in one step.
func (m AppModel) flick(entry models.MoodEntry, direction float64) (tea.Model, tea.Cmd) {
	row := m.rowFor(entry)
	row.Begin()
	row.Move(direction * (row.Threshold() + m.opts.CellUnits))
	if row.Release() == gesture.NoOutcome {
		return m, nil
	}
	return m.startAnimating()
}

func (m AppModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch m.tab {
	case TabTracker:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			idx := msg.Y - trackerHeaderLines
			if idx >= 0 && idx < len(models.MoodOptions) {
				m.optionCursor = idx
				m.record(models.MoodOptions[idx])
			}
		}
		return m, nil

	case TabHistory:
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button != tea.MouseButtonLeft {
				return m, nil
			}
			list := m.displayed()
			idx := msg.Y - historyHeaderLines
			if idx < 0 || idx >= len(list) {
				return m, nil
			}
			m.historyCursor = idx
			row := m.rowFor(list[idx])
			row.Begin()
			if row.State() != gesture.Dragging {
				return m, nil
			}
			m.drag = dragState{active: true, timestamp: list[idx].Timestamp, startX: msg.X}

		case tea.MouseActionMotion:
			if !m.drag.active {
				return m, nil
			}
			if row, ok := m.rows[m.drag.timestamp]; ok {
				row.Move(float64(msg.X-m.drag.startX) * m.opts.CellUnits)
			}

		case tea.MouseActionRelease:
			if !m.drag.active {
				return m, nil
			}
			drag := m.drag
			m.drag = dragState{}
			row, ok := m.rows[drag.timestamp]
			if !ok {
				return m, nil
			}
			row.Move(float64(msg.X-drag.startX) * m.opts.CellUnits)
			if row.Release() == gesture.NoOutcome {
				return m, nil
			}
			return m.startAnimating()
		}
	}
	return m, nil
}

func (m AppModel) startAnimating() (tea.Model, tea.Cmd) {
	if m.animating {
		return m, nil
	}
	m.animating = true
	return m, m.nextFrame()
}

func (m AppModel) advanceFrame(now time.Time) (tea.Model, tea.Cmd) {
	still := false
	for _, row := range m.rows {
		row.Advance(now)
		if row.Animating() {
			still = true
		}
	}
	if !still {
		m.animating = false
		return m, nil
	}
	return m, m.nextFrame()
}

// Tab returns the active screen.
func (m AppModel) Tab() Tab {
	return m.tab
}

// Quitting reports whether the user asked to leave.
func (m AppModel) Quitting() bool {
	return m.quitting
}
