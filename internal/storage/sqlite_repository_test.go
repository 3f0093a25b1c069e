package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "remindd-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestTaskCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-08-31T12:00:00Z")
	reminder := parseRFC3339(t, "2026-08-31T15:00:00Z")

	task := Task{
		ID:             "task-1",
		Title:          "Buy milk",
		CreatedAt:      created,
		ReminderAt:     &reminder,
		NotificationID: "ntf-1",
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Title != task.Title || got.NotificationID != "ntf-1" {
		t.Fatalf("unexpected task get result: %#v", got)
	}
	if got.ReminderAt == nil || !got.ReminderAt.Equal(reminder) {
		t.Fatalf("unexpected reminder time: %#v", got.ReminderAt)
	}

	completedAt := created.Add(time.Hour)
	task.Title = "Buy oat milk"
	task.Completed = true
	task.CompletedAt = &completedAt
	task.NotificationID = ""
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("update task: %v", err)
	}

	completed := true
	list, err := repo.ListTasks(ctx, TaskListFilter{Completed: &completed})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(list) != 1 || list[0].ID != task.ID || list[0].NotificationID != "" {
		t.Fatalf("unexpected completed list: %#v", list)
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	_, err = repo.GetTask(ctx, task.ID)
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestBirthdayCRUDAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-08-31T12:00:00Z")
	birth := parseRFC3339(t, "1990-03-15T00:00:00Z")

	b := Birthday{
		ID:             "bd-1",
		Name:           "Ada",
		BirthDate:      birth,
		Phone:          "+1555",
		Note:           "cake",
		CreatedAt:      now,
		NotificationID: "ntf-bd-1",
	}
	if err := repo.CreateBirthday(ctx, b); err != nil {
		t.Fatalf("create birthday: %v", err)
	}

	got, err := repo.GetBirthday(ctx, b.ID)
	if err != nil {
		t.Fatalf("get birthday: %v", err)
	}
	if got.Name != "Ada" || !got.BirthDate.Equal(birth) || got.NotificationID != "ntf-bd-1" {
		t.Fatalf("unexpected birthday: %#v", got)
	}

	b.GreetingSent = true
	b.GreetingYear = 2026
	b.NotificationID = ""
	if err := repo.UpdateBirthday(ctx, b); err != nil {
		t.Fatalf("update birthday: %v", err)
	}

	list, err := repo.ListBirthdays(ctx, BirthdayListFilter{})
	if err != nil {
		t.Fatalf("list birthdays: %v", err)
	}
	if len(list) != 1 || !list[0].GreetingSent || list[0].GreetingYear != 2026 {
		t.Fatalf("unexpected birthday list: %#v", list)
	}

	if err := repo.DeleteBirthday(ctx, b.ID); err != nil {
		t.Fatalf("delete birthday: %v", err)
	}
	_, err = repo.GetBirthday(ctx, b.ID)
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestNotificationCRUDAndBulkOps(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-08-31T12:00:00Z")

	for _, id := range []string{"ntf-1", "ntf-2"} {
		n := Notification{
			ID:        id,
			Title:     "Reminder " + id,
			Body:      "body",
			FireAt:    now.Add(time.Hour),
			Status:    "Pending",
			CreatedAt: now,
		}
		if err := repo.CreateNotification(ctx, n); err != nil {
			t.Fatalf("create notification %s: %v", id, err)
		}
	}

	unread, err := repo.CountUnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if unread != 2 {
		t.Fatalf("unread = %d, want 2", unread)
	}

	got, err := repo.GetNotification(ctx, "ntf-1")
	if err != nil {
		t.Fatalf("get notification: %v", err)
	}
	got.Status = "Sent"
	got.Read = true
	if err := repo.UpdateNotification(ctx, got); err != nil {
		t.Fatalf("update notification: %v", err)
	}

	pending, err := repo.ListNotifications(ctx, NotificationListFilter{Status: "Pending"})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "ntf-2" {
		t.Fatalf("unexpected pending list: %#v", pending)
	}

	if err := repo.MarkAllNotificationsRead(ctx); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	unread, err = repo.CountUnreadNotifications(ctx)
	if err != nil {
		t.Fatalf("count unread after mark: %v", err)
	}
	if unread != 0 {
		t.Fatalf("unread after mark = %d, want 0", unread)
	}

	if err := repo.DeleteNotification(ctx, "ntf-1"); err != nil {
		t.Fatalf("delete notification: %v", err)
	}
	if err := repo.DeleteAllNotifications(ctx); err != nil {
		t.Fatalf("delete all notifications: %v", err)
	}
	list, err := repo.ListNotifications(ctx, NotificationListFilter{})
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty registry, got: %#v", list)
	}
}

func TestApplyStatDeltaKeepsTotalsAndDaysInSync(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	deltas := []struct {
		day   string
		delta StatDelta
	}{
		{"2026-08-30", StatDelta{Created: 1}},
		{"2026-08-30", StatDelta{Completed: 1, CompletionTimeMs: 1500}},
		{"2026-08-31", StatDelta{Created: 2, Deleted: 1}},
		{"2026-08-31", StatDelta{Archived: 3}},
	}
	for _, d := range deltas {
		if err := repo.ApplyStatDelta(ctx, d.day, d.delta); err != nil {
			t.Fatalf("apply delta %s: %v", d.day, err)
		}
	}

	totals, err := repo.GetStatTotals(ctx)
	if err != nil {
		t.Fatalf("get totals: %v", err)
	}
	want := StatTotals{Created: 3, Completed: 1, Deleted: 1, Archived: 3, CompletionTimeMs: 1500}
	if totals != want {
		t.Fatalf("totals = %#v, want %#v", totals, want)
	}

	days, err := repo.ListStatDays(ctx)
	if err != nil {
		t.Fatalf("list days: %v", err)
	}
	var sum StatTotals
	for _, d := range days {
		sum.Created += d.Created
		sum.Completed += d.Completed
		sum.Deleted += d.Deleted
		sum.Archived += d.Archived
		sum.CompletionTimeMs += d.CompletionTimeMs
	}
	if sum != totals {
		t.Fatalf("day-bucket sum %#v diverged from totals %#v", sum, totals)
	}

	day, err := repo.GetStatDay(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("get day: %v", err)
	}
	if day.Created != 1 || day.Completed != 1 || day.CompletionTimeMs != 1500 {
		t.Fatalf("unexpected day bucket: %#v", day)
	}

	if err := repo.ApplyStatDelta(ctx, "", StatDelta{Created: 1}); err == nil {
		t.Fatal("expected error for empty day key")
	}
}
