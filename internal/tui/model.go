// Package tui is the focus mode: one task on screen at a time, with keys to
// start, finish or skip it.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/routineos/internal/logger"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/routine"
	"github.com/julianstephens/routineos/internal/utils"
)

const tickInterval = 30 * time.Second

type tickMsg time.Time

type Model struct {
	ctx context.Context
	svc *routine.Service
	now func() time.Time
	loc *time.Location

	date     string
	schedule routine.Schedule
	cursor   int

	keys     KeyMap
	help     help.Model
	bar      progress.Model
	message  string
	err      error
	width    int
	height   int
	quitting bool
}

// NewModel loads today's schedule and focuses the current task.
func NewModel(ctx context.Context, svc *routine.Service, now func() time.Time, loc *time.Location) Model {
	m := Model{
		ctx:  ctx,
		svc:  svc,
		now:  now,
		loc:  loc,
		keys: DefaultKeyMap(),
		help: help.New(),
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
	}
	m.reload(true)
	return m
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// reload reads the schedule again. With follow set the cursor moves to the
// current task.
func (m *Model) reload(follow bool) {
	m.date = utils.DateKey(m.now().In(m.loc))
	sched, err := m.svc.DaySchedule(m.ctx, m.date)
	if err != nil {
		logger.Error("Failed to load schedule", "date", m.date, "error", err)
		m.err = err
		return
	}
	m.err = nil
	m.schedule = sched
	if follow || m.cursor >= len(sched.View.Items) {
		m.cursor = m.currentIndex()
	}
}

func (m Model) currentIndex() int {
	for i, item := range m.schedule.View.Items {
		if item.Entry.ID == m.schedule.CurrentEntryID {
			return i
		}
	}
	return 0
}

// Selected is the task on screen.
func (m Model) Selected() (models.DayItem, bool) {
	items := m.schedule.View.Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return models.DayItem{}, false
	}
	return items[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if utils.DateKey(time.Time(msg).In(m.loc)) != m.date {
			m.reload(true)
		}
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Next):
			if m.cursor < len(m.schedule.View.Items)-1 {
				m.cursor++
			}
			m.message = ""
		case key.Matches(msg, m.keys.Prev):
			if m.cursor > 0 {
				m.cursor--
			}
			m.message = ""
		case key.Matches(msg, m.keys.Now):
			m.cursor = m.currentIndex()
			m.message = ""
		case key.Matches(msg, m.keys.Start):
			m.apply("start", true, func(id string) error { return m.svc.Start(m.ctx, id) })
		case key.Matches(msg, m.keys.Done):
			m.apply("finish", true, func(id string) error { return m.svc.Complete(m.ctx, id, nil, nil) })
		case key.Matches(msg, m.keys.Skip):
			m.skip()
		case key.Matches(msg, m.keys.Undo):
			m.apply("undo", false, func(id string) error { return m.svc.Reset(m.ctx, id) })
		}
	}
	return m, nil
}

func (m *Model) skip() {
	item, ok := m.Selected()
	if !ok {
		return
	}
	if !item.Block.IsSkippable {
		m.message = fmt.Sprintf("%s is required. Use 'routineos skip %s --force' to skip it anyway.", item.Block.Label, item.Block.Slug)
		return
	}
	m.apply("skip", true, func(id string) error { return m.svc.Skip(m.ctx, id) })
}

func (m *Model) apply(verb string, follow bool, fn func(entryID string) error) {
	item, ok := m.Selected()
	if !ok {
		return
	}
	if st := item.Entry.Status(); verb == "undo" && st != models.StatusCompleted && st != models.StatusSkipped {
		m.message = "Nothing to undo for " + item.Block.Label + "."
		return
	}

	err := fn(item.Entry.ID)
	switch {
	case errors.Is(err, models.ErrInvalidTransition):
		m.message = fmt.Sprintf("Can't %s a %s task.", verb, item.Entry.Status())
		return
	case err != nil:
		logger.Error("Failed to update entry", "entry", item.Entry.ID, "action", verb, "error", err)
		m.err = err
		return
	}

	switch verb {
	case "start":
		m.message = "Started " + item.Block.Label + "."
	case "finish":
		m.message = "Finished " + item.Block.Label + "."
	case "skip":
		m.message = "Skipped " + item.Block.Label + "."
	case "undo":
		m.message = item.Block.Label + " is pending again."
	}
	m.reload(follow)
}
