package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/mmdv/remindd/internal/views"
)

func (m Model) renderTaskView() string {
	items := make([]views.TaskItemData, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		items = append(items, views.TaskItemData{
			ID:         t.ID,
			Title:      t.Title,
			Completed:  t.Completed,
			Archived:   t.Archived,
			ReminderAt: formatReminder(t.ReminderAt),
			Cancelled:  t.ReminderCancelled,
		})
	}
	selectedID := ""
	if task, ok := m.selectedTask(); ok {
		selectedID = task.ID
	}
	return views.RenderTaskPanel(views.TaskPanelData{
		QuickAddView: m.quickAddInput.View(),
		ListView:     m.taskList.View(),
		Items:        items,
		SelectedID:   selectedID,
		ShowArchived: m.ShowArchived,
	})
}

func (m Model) renderBirthdayView() string {
	items := make([]views.BirthdayItemData, 0, len(m.Birthdays))
	for _, b := range m.Birthdays {
		items = append(items, views.BirthdayItemData{
			ID:           b.ID,
			Name:         b.Name,
			DaysUntil:    b.DaysUntil,
			Age:          b.Age,
			GreetingSent: b.GreetingSent,
			Phone:        b.Phone,
		})
	}
	selectedID := ""
	if bd, ok := m.selectedBirthday(); ok {
		selectedID = bd.ID
	}
	return views.RenderBirthdayPanel(views.BirthdayPanelData{
		Items:      items,
		SelectedID: selectedID,
		WindowDays: m.Coordinator.Config().UpcomingWindowDays,
	})
}

func (m Model) renderNotificationView() string {
	items := make([]views.NotificationItemData, 0, len(m.Notifications))
	for _, n := range m.Notifications {
		items = append(items, views.NotificationItemData{
			ID:     n.ID,
			Title:  n.Title,
			FireAt: n.FireAt.Format("2006-01-02 15:04"),
			Status: string(n.Status),
			Read:   n.Read,
		})
	}
	selectedID := ""
	if n, ok := m.selectedNotification(); ok {
		selectedID = n.ID
	}
	return views.RenderNotificationPanel(views.NotificationPanelData{
		TableView:   m.notifTable.View(),
		Items:       items,
		SelectedID:  selectedID,
		UnreadCount: m.UnreadCount,
	})
}

func (m Model) renderStatsView() string {
	avgMin := 0
	if m.Totals.Completed > 0 {
		avgMin = int(m.Totals.CompletionTimeMs / int64(m.Totals.Completed) / int64(time.Minute/time.Millisecond))
	}
	days := make([]views.StatDayData, 0, len(m.Days))
	for _, d := range m.Days {
		days = append(days, views.StatDayData{
			Day:       d.Day,
			Created:   d.Created,
			Completed: d.Completed,
			Deleted:   d.Deleted,
			Archived:  d.Archived,
		})
	}
	return views.RenderStatsPanel(views.StatsPanelData{
		Created:          m.Totals.Created,
		Completed:        m.Totals.Completed,
		Deleted:          m.Totals.Deleted,
		Archived:         m.Totals.Archived,
		AvgCompletionMin: avgMin,
		Days:             days,
	})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	vp := m.helpViewport
	vp.SetContent(views.RenderMarkdown(helpMarkdown))
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	}) + "\n" + vp.View()
}

const helpMarkdown = `# remindd

Tasks with one-shot reminders and yearly birthday notifications.

- Completing, deleting, or editing a task withdraws its pending reminder.
- Fired notifications land in the Notifications view until cleared.
- Statistics accumulate per day and never decrease.
`

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Tasks, Action: "switch to Tasks"},
		{Key: m.Keys.Birthdays, Action: "switch to Birthdays"},
		{Key: m.Keys.Notifications, Action: "switch to Notifications"},
		{Key: m.Keys.Stats, Action: "switch to Stats"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewTasks:
		return []KeyBinding{
			{Key: "a", Action: "quick add task"},
			{Key: "j/k", Action: "move cursor"},
			{Key: "space", Action: "toggle complete"},
			{Key: "d", Action: "delete task"},
			{Key: "e/A", Action: "archive / archive all done"},
			{Key: "M", Action: "mute all reminders"},
			{Key: "v", Action: "show/hide archived"},
		}
	case ViewBirthdays:
		return []KeyBinding{
			{Key: "b", Action: "add birthday"},
			{Key: "j/k", Action: "move cursor"},
			{Key: "g", Action: "mark greeting sent"},
			{Key: "d", Action: "delete birthday"},
		}
	case ViewNotifications:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "r/R", Action: "mark read / all read"},
			{Key: "C", Action: "clear history"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
