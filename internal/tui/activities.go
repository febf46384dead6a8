package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tenk/internal/tracker"
)

var activityColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

// activityColor picks a stable color for label from its position in labels.
func activityColor(labels []string, label string) lipgloss.Color {
	for i, l := range labels {
		if l == label {
			return lipgloss.Color(activityColors[i%len(activityColors)])
		}
	}
	return colorMuted
}

type activitiesModel struct {
	tracker *tracker.Tracker

	activities []tracker.Activity
	cursor     int

	formActive bool
	form       *huh.Form
	formType   string // "new", "adjust", "remove"
	target     string

	// Form field pointers (survive value copies)
	formName    *string
	formDelta   *string
	formConfirm *bool
}

func newActivitiesModel(t *tracker.Tracker) activitiesModel {
	name, delta, confirm := "", "", false
	a := activitiesModel{
		tracker:     t,
		formName:    &name,
		formDelta:   &delta,
		formConfirm: &confirm,
	}
	a.refresh()
	return a
}

func (a *activitiesModel) refresh() {
	a.activities = a.tracker.List()
	if a.cursor >= len(a.activities) {
		a.cursor = max(0, len(a.activities)-1)
	}
}

func (a activitiesModel) selected() (tracker.Activity, bool) {
	if a.cursor >= len(a.activities) {
		return tracker.Activity{}, false
	}
	return a.activities[a.cursor], true
}

func (a activitiesModel) update(msg tea.Msg) (activitiesModel, tea.Cmd) {
	if a.formActive && a.form != nil {
		return a.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch {
	case key.Matches(km, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(km, keys.Down):
		if a.cursor < len(a.activities)-1 {
			a.cursor++
		}
	case key.Matches(km, keys.New):
		return a.showNewForm()
	case key.Matches(km, keys.Adjust):
		if sel, ok := a.selected(); ok {
			return a.showAdjustForm(sel.Label)
		}
	case key.Matches(km, keys.Delete):
		if sel, ok := a.selected(); ok {
			return a.showRemoveForm(sel.Label)
		}
	}
	return a, nil
}

func (a activitiesModel) showNewForm() (activitiesModel, tea.Cmd) {
	*a.formName = ""
	a.formType = "new"
	a.target = ""

	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Activity Name").Value(a.formName).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name is required")
				}
				return nil
			}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	a.formActive = true
	return a, a.form.Init()
}

func (a activitiesModel) showAdjustForm(label string) (activitiesModel, tea.Cmd) {
	*a.formDelta = ""
	a.formType = "adjust"
	a.target = label

	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Seconds to add").
				Description("Use negative numbers to subtract.").
				Value(a.formDelta).
				Validate(validateSeconds),
		),
	).WithShowHelp(true).WithShowErrors(true)

	a.formActive = true
	return a, a.form.Init()
}

func (a activitiesModel) showRemoveForm(label string) (activitiesModel, tea.Cmd) {
	*a.formConfirm = false
	a.formType = "remove"
	a.target = label

	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Are you sure you want to remove '%s'?", label)).
				Affirmative("Yes").
				Negative("No").
				Value(a.formConfirm),
		),
	).WithShowHelp(true)

	a.formActive = true
	return a, a.form.Init()
}

func validateSeconds(s string) error {
	if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
		return errors.New("enter a whole number of seconds")
	}
	return nil
}

func (a activitiesModel) updateForm(msg tea.Msg) (activitiesModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			a.formActive = false
			a.form = nil
			return a, nil
		}
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		return a.submit()
	}
	return a, cmd
}

// submit applies the completed form.
func (a activitiesModel) submit() (activitiesModel, tea.Cmd) {
	a.formActive = false
	a.form = nil

	switch a.formType {
	case "new":
		created, err := a.tracker.Create(*a.formName)
		if err != nil {
			return a, errStatus(err)
		}
		a.refresh()
		a.cursor = len(a.activities) - 1
		return a, status("New activity '%s' created with %s", created.Label, formatHours(created.Remaining))

	case "adjust":
		delta, err := strconv.ParseInt(strings.TrimSpace(*a.formDelta), 10, 64)
		if err != nil {
			return a, errStatus(err)
		}
		updated, err := a.tracker.AddTime(a.target, delta)
		if err != nil {
			return a, errStatus(err)
		}
		a.refresh()
		return a, status("Updated '%s'. New time remaining: %s", updated.Label, updated.Display())

	case "remove":
		if !*a.formConfirm {
			return a, status("Removal cancelled.")
		}
		if err := a.tracker.Remove(a.target); err != nil {
			return a, errStatus(err)
		}
		a.refresh()
		return a, status("Activity '%s' has been removed.", a.target)
	}
	return a, nil
}

func (a activitiesModel) view(w int) string {
	if a.formActive && a.form != nil {
		title := titleStyle.Render("New Activity")
		switch a.formType {
		case "adjust":
			title = titleStyle.Render("Adjust " + a.target)
		case "remove":
			title = titleStyle.Render("Remove " + a.target)
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", a.form.View())
		return activePanelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Activities")
	if len(a.activities) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No activities yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	labels := make([]string, len(a.activities))
	for i, act := range a.activities {
		labels[i] = act.Label
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %14s  %s", "", "Name", "Remaining", "Started On")))

	for i, act := range a.activities {
		dot := lipgloss.NewStyle().Foreground(activityColor(labels, act.Label)).Render("●")
		if act.Running {
			dot = successStyle.Render("▶")
		}
		cursor := "  "
		style := normalItemStyle
		if i == a.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-24s %14s  %s", cursor, dot, act.Label, act.Display(), act.StartTime)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  s: start  p: pause  n: new  a: adjust  d: remove"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
