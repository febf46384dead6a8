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
	"github.com/dustin/go-humanize"
	"github.com/sadopc/tenk/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	budgetHours *string
	historyDays *string
}

func newSettingsModel(s *store.Store) settingsModel {
	bh, hd := "", ""
	return settingsModel{
		store:       s,
		budgetHours: &bh,
		historyDays: &hd,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	if s.store == nil {
		return nil
	}
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			if s.store == nil {
				return s, nil
			}
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.budgetHours = s.getVal(store.SettingDefaultBudgetHours, "10000")
	*s.historyDays = s.getVal(store.SettingHistoryDays, "7")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Budget for new activities (hours)").Value(s.budgetHours).Validate(positiveInt),
			huh.NewInput().Title("History chart range (days)").Value(s.historyDays).Validate(positiveInt),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func positiveInt(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return errors.New("enter a positive whole number")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, errStatus(err)
		}
		return s, tea.Batch(s.refresh(), status("Settings saved"))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	if err := s.store.SetSetting(store.SettingDefaultBudgetHours, strings.TrimSpace(*s.budgetHours)); err != nil {
		return err
	}
	return s.store.SetSetting(store.SettingHistoryDays, strings.TrimSpace(*s.historyDays))
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingDefaultBudgetHours:
		if hours, err := strconv.ParseInt(v, 10, 64); err == nil {
			return humanize.Comma(hours) + " hours"
		}
	case store.SettingHistoryDays:
		if days, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d days", days)
		}
	}
	return v
}
