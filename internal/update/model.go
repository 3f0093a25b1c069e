// Package update implements the Elm-style state container for the
// terminal UI. All domain mutations go through the reminder coordinator;
// this package only routes keys, holds view state, and renders.
package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	domainmodel "github.com/mmdv/remindd/internal/model"
	"github.com/mmdv/remindd/internal/reminder"
	"github.com/mmdv/remindd/internal/scheduler"
	"github.com/mmdv/remindd/internal/storage"
)

type View string

const (
	ViewTasks         View = "Tasks"
	ViewBirthdays     View = "Birthdays"
	ViewNotifications View = "Notifications"
	ViewStats         View = "Stats"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks         string
	Birthdays     string
	Notifications string
	Stats         string
	Help          string
	Quit          string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView View
	Coordinator *reminder.Coordinator
	Engine      *scheduler.Engine

	Tasks         []storage.Task
	Birthdays     []reminder.BirthdayView
	Notifications []domainmodel.Notification
	UnreadCount   int
	Totals        storage.StatTotals
	Days          []storage.StatDay

	TaskCursor     int
	BirthdayCursor int
	NotifCursor    int
	ShowArchived   bool

	Palette        CommandPaletteState
	CaptureMode    bool
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	DesktopEnabled bool
	notifier       DesktopNotifier

	// Bubble components used for rich TUI controls
	taskList      list.Model
	notifTable    table.Model
	quickAddInput textinput.Model
	commandInput  textinput.Model
	helpModel     help.Model
	helpViewport  viewport.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

type DesktopNotification struct {
	Title string
	Body  string
}

type DesktopNotifier interface {
	Send(DesktopNotification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(DesktopNotification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n DesktopNotification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type RefreshMsg struct{}

type tasksLoadedMsg struct {
	Tasks []storage.Task
}

type birthdaysLoadedMsg struct {
	Items []reminder.BirthdayView
}

type notificationsLoadedMsg struct {
	Items  []domainmodel.Notification
	Unread int
}

type statsLoadedMsg struct {
	Totals storage.StatTotals
	Days   []storage.StatDay
}

type DeliveryDueMsg struct {
	Delivery scheduler.Delivery
}

func NewModel(coord *reminder.Coordinator, engine *scheduler.Engine, notifier DesktopNotifier, cfg RuntimeConfig) Model {
	m := Model{
		CurrentView: ViewTasks,
		Coordinator: coord,
		Engine:      engine,
		Keys: GlobalKeyMap{
			Tasks:         "1",
			Birthdays:     "2",
			Notifications: "3",
			Stats:         "4",
			Help:          "?",
			Quit:          "q",
		},
		DesktopEnabled: cfg.DesktopNotifications,
		notifier:       NoopDesktopNotifier{},
	}
	if notifier != nil {
		m.notifier = notifier
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.taskList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.taskList.Title = "Tasks"
	m.taskList.SetShowHelp(false)
	m.taskList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Fire", Width: 17},
		{Title: "Status", Width: 22},
		{Title: "Read", Width: 5},
		{Title: "Title", Width: 24},
	}
	m.notifTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "add> "
	m.quickAddInput.CharLimit = 256
	m.quickAddInput.Width = 42

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.helpViewport = viewport.New(54, 12)
}

func (m *Model) syncBubbleData() {
	taskItems := make([]list.Item, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		desc := ""
		if t.ReminderAt != nil {
			desc = t.ReminderAt.Format("2006-01-02 15:04")
		}
		taskItems = append(taskItems, listItem{title: t.Title, description: desc})
	}
	m.taskList.SetItems(taskItems)
	if len(taskItems) > 0 && m.TaskCursor < len(taskItems) {
		m.taskList.Select(m.TaskCursor)
	}

	rows := make([]table.Row, 0, len(m.Notifications))
	for _, n := range m.Notifications {
		read := "no"
		if n.Read {
			read = "yes"
		}
		rows = append(rows, table.Row{
			n.FireAt.Format("2006-01-02 15:04"),
			string(n.Status),
			read,
			n.Title,
		})
	}
	m.notifTable.SetRows(rows)
	if len(rows) > 0 && m.NotifCursor < len(rows) {
		m.notifTable.SetCursor(m.NotifCursor)
	}

	if m.CaptureMode {
		m.quickAddInput.Focus()
	}
	if m.Palette.Active {
		m.commandInput.Focus()
	}
}

func (m Model) selectedTask() (storage.Task, bool) {
	if m.TaskCursor < 0 || m.TaskCursor >= len(m.Tasks) {
		return storage.Task{}, false
	}
	return m.Tasks[m.TaskCursor], true
}

func (m Model) selectedBirthday() (reminder.BirthdayView, bool) {
	if m.BirthdayCursor < 0 || m.BirthdayCursor >= len(m.Birthdays) {
		return reminder.BirthdayView{}, false
	}
	return m.Birthdays[m.BirthdayCursor], true
}

func (m Model) selectedNotification() (domainmodel.Notification, bool) {
	if m.NotifCursor < 0 || m.NotifCursor >= len(m.Notifications) {
		return domainmodel.Notification{}, false
	}
	return m.Notifications[m.NotifCursor], true
}

func (m *Model) clampCursors() {
	m.TaskCursor = clamp(m.TaskCursor, len(m.Tasks))
	m.BirthdayCursor = clamp(m.BirthdayCursor, len(m.Birthdays))
	m.NotifCursor = clamp(m.NotifCursor, len(m.Notifications))
}

func clamp(cursor, size int) int {
	if cursor < 0 {
		return 0
	}
	if size == 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	return cursor
}

// findTask resolves a palette target: exact id first, then
// case-insensitive title prefix.
func (m Model) findTask(target string) (storage.Task, bool) {
	needle := strings.TrimSpace(target)
	for _, t := range m.Tasks {
		if t.ID == needle {
			return t, true
		}
	}
	lower := strings.ToLower(needle)
	for _, t := range m.Tasks {
		if strings.HasPrefix(strings.ToLower(t.Title), lower) {
			return t, true
		}
	}
	return storage.Task{}, false
}

func (m Model) findBirthday(target string) (reminder.BirthdayView, bool) {
	needle := strings.TrimSpace(target)
	for _, b := range m.Birthdays {
		if b.ID == needle {
			return b, true
		}
	}
	lower := strings.ToLower(needle)
	for _, b := range m.Birthdays {
		if strings.HasPrefix(strings.ToLower(b.Name), lower) {
			return b, true
		}
	}
	return reminder.BirthdayView{}, false
}

func (m *Model) notify(title, body string) {
	if !m.DesktopEnabled || m.notifier == nil {
		return
	}
	_ = m.notifier.Send(DesktopNotification{Title: title, Body: body})
}

func formatReminder(at *time.Time) string {
	if at == nil {
		return ""
	}
	return at.Format("2006-01-02 15:04")
}
