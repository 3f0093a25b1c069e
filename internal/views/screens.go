package views

import (
	"fmt"
	"strings"
)

type TaskItemData struct {
	ID         string
	Title      string
	Completed  bool
	Archived   bool
	ReminderAt string
	Cancelled  bool
}

type TaskPanelData struct {
	QuickAddView string
	ListView     string
	Items        []TaskItemData
	SelectedID   string
	ShowArchived bool
}

type BirthdayItemData struct {
	ID           string
	Name         string
	DaysUntil    int
	Age          int
	GreetingSent bool
	Phone        string
}

type BirthdayPanelData struct {
	Items      []BirthdayItemData
	SelectedID string
	WindowDays int
}

type NotificationItemData struct {
	ID     string
	Title  string
	FireAt string
	Status string
	Read   bool
}

type NotificationPanelData struct {
	TableView   string
	Items       []NotificationItemData
	SelectedID  string
	UnreadCount int
}

type StatDayData struct {
	Day       string
	Created   int
	Completed int
	Deleted   int
	Archived  int
}

type StatsPanelData struct {
	Created          int
	Completed        int
	Deleted          int
	Archived         int
	AvgCompletionMin int
	Days             []StatDayData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTaskPanel(data TaskPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	b.WriteString(data.QuickAddView + "\n")
	b.WriteString("actions: [a]add [space]done [d]delete [e]archive [A]archive-done [j/k]move\n")
	b.WriteString(data.ListView + "\n")
	count := 0
	for _, item := range data.Items {
		if item.Archived && !data.ShowArchived {
			continue
		}
		count++
		cursor := " "
		if data.SelectedID == item.ID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s", cursor, taskBadge(item), item.Title))
		if item.ReminderAt != "" {
			suffix := " @" + item.ReminderAt
			if item.Cancelled {
				suffix += " (muted)"
			}
			b.WriteString(suffix)
		}
		b.WriteString("\n")
	}
	if count == 0 {
		b.WriteString("(no tasks)\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderBirthdayPanel(data BirthdayPanelData) string {
	var b strings.Builder
	b.WriteString("birthdays:\n")
	b.WriteString("actions: [b]add [g]greet [d]delete [j/k]move\n")
	if len(data.Items) == 0 {
		b.WriteString("(no birthdays)")
		return b.String()
	}
	for _, item := range data.Items {
		cursor := " "
		if data.SelectedID == item.ID {
			cursor = ">"
		}
		when := fmt.Sprintf("in %d day(s)", item.DaysUntil)
		if item.DaysUntil == 0 {
			when = "TODAY"
		}
		greeted := ""
		if item.GreetingSent {
			greeted = " [greeted]"
		}
		b.WriteString(fmt.Sprintf("%s %s (%d) %s%s\n", cursor, item.Name, item.Age, when, greeted))
	}
	b.WriteString(fmt.Sprintf("\nwindow: next %d days", data.WindowDays))
	return strings.TrimSpace(b.String())
}

func RenderNotificationPanel(data NotificationPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("notifications (%d unread):\n", data.UnreadCount))
	b.WriteString("actions: [r]read [R]all-read [C]clear [j/k]move\n")
	b.WriteString(data.TableView + "\n")
	if len(data.Items) == 0 {
		b.WriteString("(no notifications)")
	}
	return strings.TrimSpace(b.String())
}

func RenderStatsPanel(data StatsPanelData) string {
	var b strings.Builder
	b.WriteString("statistics:\n")
	b.WriteString(fmt.Sprintf("created: %d | completed: %d | deleted: %d | archived: %d\n",
		data.Created, data.Completed, data.Deleted, data.Archived))
	b.WriteString(fmt.Sprintf("avg completion time: %d min\n", data.AvgCompletionMin))
	if len(data.Days) == 0 {
		b.WriteString("\n(no daily history)")
		return b.String()
	}
	b.WriteString("\nby day:\n")
	for _, d := range data.Days {
		b.WriteString(fmt.Sprintf("%s  +%d done:%d del:%d arch:%d\n",
			d.Day, d.Created, d.Completed, d.Deleted, d.Archived))
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotificationToast(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("\nnotification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func taskBadge(item TaskItemData) string {
	switch {
	case item.Archived:
		return "[ARCH]"
	case item.Completed:
		return "[DONE]"
	default:
		return "[    ]"
	}
}
