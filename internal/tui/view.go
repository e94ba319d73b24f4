package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.viewHeader())

	switch {
	case m.err != nil:
		sections = append(sections, warningStyle.Render("Error: "+m.err.Error()))
	case len(m.schedule.View.Items) == 0:
		sections = append(sections, mutedStyle.Render("Nothing scheduled today. Add blocks with 'routineos block add'."))
	default:
		sections = append(sections, m.viewFocus(), m.viewNext())
	}

	if m.message != "" {
		sections = append(sections, warningStyle.Render(m.message))
	}
	sections = append(sections, m.help.View(m.keys))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return docStyle.Render(content)
}

func (m Model) viewHeader() string {
	now := m.now().In(m.loc)
	p := m.schedule.Progress
	done := 0.0
	if p.Total > 0 {
		done = float64(p.Completed+p.Skipped) / float64(p.Total)
	}
	counts := fmt.Sprintf("%d/%d done", p.Completed, p.Total)
	if m.schedule.EndTime != "" {
		counts += " · ends " + m.schedule.EndTime
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(fmt.Sprintf("%s  %s", now.Format("Monday, Jan 2"), now.Format(constants.TimeFormat))),
		m.bar.ViewAs(done),
		timeStyle.Render(counts),
	)
}

func (m Model) viewFocus() string {
	item, _ := m.Selected()
	label := item.Block.Label
	if item.Block.Icon != "" {
		label = item.Block.Icon + " " + label
	}

	var details []string
	if at := m.schedule.Times[item.Entry.ID]; at != "" {
		details = append(details, at)
	}
	details = append(details, fmt.Sprintf("%d min", item.Block.DefaultDurationMin))
	details = append(details, m.statusLabel(item.Entry))

	position := fmt.Sprintf("%d of %d", m.cursor+1, len(m.schedule.View.Items))
	if item.Entry.ID != m.schedule.CurrentEntryID {
		position += " · press . for the current task"
	}

	box := taskStyle.BorderForeground(lipgloss.Color(item.Block.Color))
	return lipgloss.JoinVertical(lipgloss.Center,
		box.Render(label),
		timeStyle.Render(strings.Join(details, " · ")),
		mutedStyle.Render(position),
	)
}

func (m Model) statusLabel(e models.BlockEntry) string {
	status := e.Status()
	switch status {
	case models.StatusActive:
		if started, ok := e.StartedAt(); ok {
			return "in progress since " + started.In(m.loc).Format(constants.TimeFormat)
		}
	case models.StatusCompleted:
		if d, ok := e.DurationMin(); ok {
			return fmt.Sprintf("done in %d min", d)
		}
	}
	return string(status)
}

func (m Model) viewNext() string {
	items := m.schedule.View.Items
	for i := m.cursor + 1; i < len(items); i++ {
		if items[i].Entry.Status() == models.StatusPending {
			return mutedStyle.Render("Up next: " + items[i].Block.Label)
		}
	}
	return mutedStyle.Render("Last task of the day")
}
