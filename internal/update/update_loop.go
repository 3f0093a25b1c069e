package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmdv/remindd/internal/scheduler"
	"github.com/mmdv/remindd/internal/storage"
	"github.com/mmdv/remindd/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refreshAllCmd()}
	if m.Engine != nil {
		cmds = append(cmds, waitForDeliveryCmd(m.Engine.C()))
	}
	return tea.Batch(cmds...)
}

// Update routes the message, then mirrors the resulting state into the
// bubble components. The sync has to run on the model copy that is
// actually returned, so it wraps dispatch instead of being deferred.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.dispatch(msg)
	if nm, ok := next.(Model); ok {
		nm.syncBubbleData()
		return nm, cmd
	}
	return next, cmd
}

func (m Model) dispatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}

		keyStr := typed.String()
		if m.CaptureMode && keyStr != "ctrl+c" && keyStr != "esc" && keyStr != "enter" {
			var cmd tea.Cmd
			m.quickAddInput, cmd = m.quickAddInput.Update(typed)
			_ = cmd
			return m, nil
		}

		switch keyStr {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case "esc":
			if m.CaptureMode {
				m.CaptureMode = false
				m.quickAddInput.Blur()
				m.quickAddInput.SetValue("")
			}
			return m, nil
		case "enter":
			if m.CaptureMode {
				return m.commitQuickAdd()
			}
			return m, nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			return m, nil
		case m.Keys.Birthdays:
			m.CurrentView = ViewBirthdays
			return m, nil
		case m.Keys.Notifications:
			m.CurrentView = ViewNotifications
			return m, nil
		case m.Keys.Stats:
			m.CurrentView = ViewStats
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewTasks:
			return m.handleTaskKey(typed)
		case ViewBirthdays:
			return m.handleBirthdayKey(typed)
		case ViewNotifications:
			return m.handleNotificationKey(typed)
		}
		return m, nil

	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case RefreshMsg:
		return m, m.refreshAllCmd()
	case tasksLoadedMsg:
		m.Tasks = typed.Tasks
		m.clampCursors()
		return m, nil
	case birthdaysLoadedMsg:
		m.Birthdays = typed.Items
		m.clampCursors()
		return m, nil
	case notificationsLoadedMsg:
		m.Notifications = typed.Items
		m.UnreadCount = typed.Unread
		m.clampCursors()
		return m, nil
	case statsLoadedMsg:
		m.Totals = typed.Totals
		m.Days = typed.Days
		return m, nil
	case DeliveryDueMsg:
		return m.onDelivery(typed.Delivery)
	}

	return m, nil
}

func (m Model) View() string {
	leftPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTaskView()
	case ViewBirthdays:
		leftPane = m.renderBirthdayView()
	case ViewNotifications:
		leftPane = m.renderNotificationView()
	case ViewStats:
		leftPane = m.renderStatsView()
	}
	rightPane := strings.TrimSpace(m.renderCommandPalette() + m.renderHelpIfVisible())

	toast := ""
	if m.UnreadCount > 0 {
		toast = strings.TrimSpace(views.RenderNotificationToast("info", fmt.Sprintf("%d unread notification(s)", m.UnreadCount)))
	}

	return views.RenderApp(views.AppData{
		Header:      fmt.Sprintf("remindd | view: %s", m.CurrentView),
		LeftPane:    leftPane,
		RightPane:   rightPane,
		StatusLine:  m.Status.Text,
		StatusIsErr: m.Status.IsError,
		Toast:       toast,
		Footer: fmt.Sprintf("keys: %s tasks | %s birthdays | %s notifications | %s stats | / cmd | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Birthdays, m.Keys.Notifications, m.Keys.Stats, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewTasks, ViewBirthdays, ViewNotifications, ViewStats:
		return true
	default:
		return false
	}
}

// onDelivery routes a fired notification through the coordinator (which
// marks the registry record Sent), mirrors it to the desktop, and
// re-arms the wait on the delivery channel.
func (m Model) onDelivery(d scheduler.Delivery) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	if err := m.Coordinator.HandleDelivery(ctx, d.ID); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("notification fired: %s", d.Title), IsError: false}
		m.notify(d.Title, d.Body)
	}

	cmds := []tea.Cmd{m.refreshAllCmd()}
	if m.Engine != nil {
		cmds = append(cmds, waitForDeliveryCmd(m.Engine.C()))
	}
	return m, tea.Batch(cmds...)
}

func waitForDeliveryCmd(ch <-chan scheduler.Delivery) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return nil
		}
		return DeliveryDueMsg{Delivery: d}
	}
}

func (m Model) refreshAllCmd() tea.Cmd {
	coord := m.Coordinator
	return tea.Batch(
		func() tea.Msg {
			tasks, err := coord.Tasks(context.Background(), storage.TaskListFilter{})
			if err != nil {
				return AppErrorMsg{Err: err}
			}
			return tasksLoadedMsg{Tasks: tasks}
		},
		func() tea.Msg {
			items, err := coord.UpcomingBirthdays(context.Background())
			if err != nil {
				return AppErrorMsg{Err: err}
			}
			return birthdaysLoadedMsg{Items: items}
		},
		func() tea.Msg {
			ctx := context.Background()
			items, err := coord.Registry().List(ctx, storage.NotificationListFilter{})
			if err != nil {
				return AppErrorMsg{Err: err}
			}
			unread, err := coord.Registry().UnreadCount(ctx)
			if err != nil {
				return AppErrorMsg{Err: err}
			}
			return notificationsLoadedMsg{Items: items, Unread: unread}
		},
		func() tea.Msg {
			ctx := context.Background()
			totals, err := coord.StatTotals(ctx)
			if err != nil {
				return AppErrorMsg{Err: err}
			}
			days, err := coord.StatDays(ctx)
			if err != nil {
				return AppErrorMsg{Err: err}
			}
			return statsLoadedMsg{Totals: totals, Days: days}
		},
	)
}
