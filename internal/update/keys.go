package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmdv/remindd/internal/commands"
	"github.com/mmdv/remindd/internal/reminder"
)

func (m Model) handleTaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch msg.String() {
	case "a":
		m.CaptureMode = true
		m.quickAddInput.Focus()
		m.quickAddInput.SetValue("")
		m.Status = StatusBar{Text: "quick add: title, optionally at:2006-01-02T15:04", IsError: false}
		return m, nil
	case "j", "down":
		m.TaskCursor = clamp(m.TaskCursor+1, len(m.Tasks))
		return m, nil
	case "k", "up":
		m.TaskCursor = clamp(m.TaskCursor-1, len(m.Tasks))
		return m, nil
	case "v":
		m.ShowArchived = !m.ShowArchived
		return m, nil
	case " ", "space":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if _, err := m.Coordinator.ToggleComplete(ctx, task.ID); err != nil {
			return m.fail(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("toggled: %s", task.Title), IsError: false}
		return m, m.refreshAllCmd()
	case "d":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if err := m.Coordinator.DeleteTask(ctx, task.ID); err != nil {
			return m.fail(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", task.Title), IsError: false}
		return m, m.refreshAllCmd()
	case "e":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if _, err := m.Coordinator.Archive(ctx, task.ID); err != nil {
			return m.fail(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("archived: %s", task.Title), IsError: false}
		return m, m.refreshAllCmd()
	case "A":
		n, err := m.Coordinator.ArchiveAllCompleted(ctx)
		if err != nil {
			return m.fail(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("archived %d completed task(s)", n), IsError: false}
		return m, m.refreshAllCmd()
	case "M":
		n, err := m.Coordinator.CancelAllReminders(ctx)
		if err != nil {
			return m.fail(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("muted %d reminder(s)", n), IsError: false}
		return m, m.refreshAllCmd()
	}
	return m, nil
}

func (m Model) handleBirthdayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch msg.String() {
	case "b":
		// Birthdays need name, date, and an optional phone, so the key
		// opens the palette with the command prefilled.
		m.Palette.Active = true
		m.Palette.Input = "birthday "
		m.commandInput.Focus()
		m.commandInput.SetValue("birthday ")
		m.Status = StatusBar{Text: "birthday: name YYYY-MM-DD [phone:+...]", IsError: false}
		return m, nil
	case "j", "down":
		m.BirthdayCursor = clamp(m.BirthdayCursor+1, len(m.Birthdays))
		return m, nil
	case "k", "up":
		m.BirthdayCursor = clamp(m.BirthdayCursor-1, len(m.Birthdays))
		return m, nil
	case "g":
		bd, ok := m.selectedBirthday()
		if !ok {
			return m, nil
		}
		if _, err := m.Coordinator.MarkGreetingSent(ctx, bd.ID); err != nil {
			return m.fail(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("greeting recorded for %s", bd.Name), IsError: false}
		return m, m.refreshAllCmd()
	case "d":
		bd, ok := m.selectedBirthday()
		if !ok {
			return m, nil
		}
		if err := m.Coordinator.DeleteBirthday(ctx, bd.ID); err != nil {
			return m.fail(err)
		}
		m.Status = StatusBar{Text: fmt.Sprintf("removed birthday: %s", bd.Name), IsError: false}
		return m, m.refreshAllCmd()
	}
	return m, nil
}

func (m Model) handleNotificationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	reg := m.Coordinator.Registry()
	switch msg.String() {
	case "j", "down":
		m.NotifCursor = clamp(m.NotifCursor+1, len(m.Notifications))
		return m, nil
	case "k", "up":
		m.NotifCursor = clamp(m.NotifCursor-1, len(m.Notifications))
		return m, nil
	case "r":
		n, ok := m.selectedNotification()
		if !ok {
			return m, nil
		}
		if err := reg.MarkRead(ctx, n.ID); err != nil {
			return m.fail(err)
		}
		return m, m.refreshAllCmd()
	case "R":
		if err := reg.MarkAllRead(ctx); err != nil {
			return m.fail(err)
		}
		m.Status = StatusBar{Text: "all notifications marked read", IsError: false}
		return m, m.refreshAllCmd()
	case "C":
		if err := reg.Clear(ctx); err != nil {
			return m.fail(err)
		}
		m.Status = StatusBar{Text: "notification history cleared", IsError: false}
		return m, m.refreshAllCmd()
	}
	return m, nil
}

// commitQuickAdd turns the capture input into an add command so the
// "at:" reminder token works the same in both input surfaces.
func (m Model) commitQuickAdd() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.quickAddInput.Value())
	m.CaptureMode = false
	m.quickAddInput.Blur()
	m.quickAddInput.SetValue("")
	if raw == "" {
		return m, nil
	}

	cmd, err := commands.Parse("add " + raw)
	if err != nil {
		return m.fail(err)
	}
	if err := m.addTaskFromArgs(*cmd.Add); err != nil {
		return m.fail(err)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("added task: %s", cmd.Add.Title), IsError: false}
	return m, m.refreshAllCmd()
}

func (m Model) addTaskFromArgs(a commands.AddArgs) error {
	ctx := context.Background()
	params := reminder.AddTaskParams{Title: a.Title}
	if a.ReminderAt != nil {
		handle, err := m.Coordinator.ScheduleTaskReminder(ctx, a.Title, *a.ReminderAt)
		if err != nil {
			return err
		}
		params.ReminderAt = a.ReminderAt
		params.NotificationID = handle
	}
	_, err := m.Coordinator.AddTask(ctx, params)
	return err
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	return m, nil
}
