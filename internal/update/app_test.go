package update

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmdv/remindd/internal/model"
	"github.com/mmdv/remindd/internal/registry"
	"github.com/mmdv/remindd/internal/reminder"
	"github.com/mmdv/remindd/internal/scheduler"
	"github.com/mmdv/remindd/internal/storage"
)

func setupModel(t *testing.T) (Model, *reminder.Coordinator, *scheduler.Engine) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "update-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	engine := scheduler.NewEngine(8)
	reg := registry.New(repo)
	coord := reminder.NewCoordinator(repo, reg, engine, slog.Default(), reminder.DefaultConfig())
	m := NewModel(coord, engine, nil, DefaultRuntimeConfig())
	return m, coord, engine
}

func runesKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewSwitchingKeys(t *testing.T) {
	m, _, _ := setupModel(t)

	cases := []struct {
		key  string
		want View
	}{
		{"2", ViewBirthdays},
		{"3", ViewNotifications},
		{"4", ViewStats},
		{"1", ViewTasks},
	}
	var cur tea.Model = m
	for _, tc := range cases {
		cur, _ = cur.Update(runesKey(tc.key))
		got := cur.(Model)
		if got.CurrentView != tc.want {
			t.Fatalf("key %q view = %s, want %s", tc.key, got.CurrentView, tc.want)
		}
	}
}

func TestLoadedDataReachesBubbleComponents(t *testing.T) {
	m, _, _ := setupModel(t)

	next, _ := m.Update(tasksLoadedMsg{Tasks: []storage.Task{
		{ID: "t1", Title: "water plants", CreatedAt: time.Now().UTC()},
	}})
	got := next.(Model)
	if items := got.taskList.Items(); len(items) != 1 {
		t.Fatalf("task list items = %d, want 1", len(items))
	}

	next, _ = got.Update(notificationsLoadedMsg{Items: []model.Notification{
		{ID: "n1", Title: "water plants", FireAt: time.Now().UTC(), Status: model.StatusPending},
	}, Unread: 1})
	got = next.(Model)
	if rows := got.notifTable.Rows(); len(rows) != 1 {
		t.Fatalf("notification table rows = %d, want 1", len(rows))
	}
}

func TestBirthdayAddKeyOpensPrefilledPalette(t *testing.T) {
	m, _, _ := setupModel(t)

	next, _ := m.Update(runesKey("2"))
	next, _ = next.Update(runesKey("b"))
	got := next.(Model)
	if !got.Palette.Active {
		t.Fatal("palette should open on b in the birthday view")
	}
	if got.commandInput.Value() != "birthday " {
		t.Fatalf("palette input = %q, want prefilled birthday command", got.commandInput.Value())
	}
}

func TestQuickAddCommitCreatesTask(t *testing.T) {
	m, coord, _ := setupModel(t)

	m.CaptureMode = true
	m.quickAddInput.SetValue("write release notes")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := next.(Model)
	if got.Status.IsError {
		t.Fatalf("quick add failed: %s", got.Status.Text)
	}
	if got.CaptureMode {
		t.Fatal("capture mode should end on commit")
	}

	tasks, err := coord.Tasks(context.Background(), storage.TaskListFilter{})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "write release notes" {
		t.Fatalf("tasks = %#v", tasks)
	}
}

func TestPaletteDoneCompletesTask(t *testing.T) {
	m, coord, _ := setupModel(t)
	ctx := context.Background()

	task, err := coord.AddTask(ctx, reminder.AddTaskParams{Title: "ship it"})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	next, _ := m.Update(tasksLoadedMsg{Tasks: []storage.Task{task}})
	m = next.(Model)

	m.Palette.Active = true
	m.commandInput.SetValue("done ship")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := next.(Model)
	if got.Status.IsError {
		t.Fatalf("palette command failed: %s", got.Status.Text)
	}

	updated, err := coord.Tasks(ctx, storage.TaskListFilter{})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(updated) != 1 || !updated[0].Completed {
		t.Fatalf("task not completed: %#v", updated)
	}
}

func TestPaletteUnknownCommandSetsErrorStatus(t *testing.T) {
	m, _, _ := setupModel(t)

	m.Palette.Active = true
	m.commandInput.SetValue("frobnicate now")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := next.(Model)
	if !got.Status.IsError {
		t.Fatalf("expected error status, got %q", got.Status.Text)
	}
	if got.Palette.Active {
		t.Fatal("palette should close after execution")
	}
}

func TestDeliveryMarksNotificationSent(t *testing.T) {
	m, coord, engine := setupModel(t)
	ctx := context.Background()

	fireAt := time.Now().UTC().Add(time.Hour)
	handle, err := engine.Schedule(ctx, "Ping", "Task reminder", fireAt)
	if err != nil || handle == "" {
		t.Fatalf("schedule: handle=%q err=%v", handle, err)
	}
	if _, err := coord.AddTask(ctx, reminder.AddTaskParams{
		Title:          "Ping",
		ReminderAt:     &fireAt,
		NotificationID: handle,
	}); err != nil {
		t.Fatalf("add task: %v", err)
	}

	next, _ := m.Update(DeliveryDueMsg{Delivery: scheduler.Delivery{ID: handle, Title: "Ping"}})
	got := next.(Model)
	if got.Status.IsError {
		t.Fatalf("delivery handling failed: %s", got.Status.Text)
	}

	status, ok, err := coord.Registry().Status(ctx, handle)
	if err != nil || !ok {
		t.Fatalf("registry lookup: ok=%v err=%v", ok, err)
	}
	if status != model.StatusSent {
		t.Fatalf("status = %s, want Sent", status)
	}
}

func TestStrayDeliveryIsAbsorbed(t *testing.T) {
	m, _, _ := setupModel(t)

	next, _ := m.Update(DeliveryDueMsg{Delivery: scheduler.Delivery{ID: "ghost", Title: "Ghost"}})
	got := next.(Model)
	if got.Status.IsError {
		t.Fatalf("stray delivery must not error: %s", got.Status.Text)
	}
}
