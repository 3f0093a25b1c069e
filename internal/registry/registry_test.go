package registry

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmdv/remindd/internal/model"
	"github.com/mmdv/remindd/internal/storage"
)

func setupRegistry(t *testing.T) *Registry {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "registry-test.db")
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
	return New(repo)
}

func pendingRecord(id string) model.Notification {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	return model.Notification{
		ID:        id,
		Title:     "Buy milk",
		Body:      "Task reminder",
		FireAt:    now.Add(10 * time.Minute),
		Status:    model.StatusPending,
		CreatedAt: now,
	}
}

func TestAddRejectsDuplicateID(t *testing.T) {
	reg := setupRegistry(t)
	ctx := context.Background()

	if err := reg.Add(ctx, pendingRecord("ntf-1")); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := reg.Add(ctx, pendingRecord("ntf-1"))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got: %v", err)
	}
}

func TestUpdateStatusAdvancesPendingOnly(t *testing.T) {
	reg := setupRegistry(t)
	ctx := context.Background()

	if err := reg.Add(ctx, pendingRecord("ntf-1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.UpdateStatus(ctx, "ntf-1", model.StatusSent); err != nil {
		t.Fatalf("pending -> sent: %v", err)
	}

	// A late cancellation callback must not overwrite the terminal state.
	if err := reg.UpdateStatus(ctx, "ntf-1", model.StatusCancelled); err != nil {
		t.Fatalf("terminal transition must no-op, got: %v", err)
	}
	status, ok, err := reg.Status(ctx, "ntf-1")
	if err != nil || !ok {
		t.Fatalf("status lookup: ok=%v err=%v", ok, err)
	}
	if status != model.StatusSent {
		t.Fatalf("status = %s, want Sent", status)
	}
}

func TestUpdateStatusUnknownIDIsNoOp(t *testing.T) {
	reg := setupRegistry(t)
	ctx := context.Background()

	if err := reg.Add(ctx, pendingRecord("ntf-1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.UpdateStatus(ctx, "nonexistent", model.StatusSent); err != nil {
		t.Fatalf("unknown id must no-op, got: %v", err)
	}
	status, ok, err := reg.Status(ctx, "ntf-1")
	if err != nil || !ok || status != model.StatusPending {
		t.Fatalf("existing record disturbed: status=%s ok=%v err=%v", status, ok, err)
	}
}

func TestRemoveUnknownIDIsNoOp(t *testing.T) {
	reg := setupRegistry(t)
	if err := reg.Remove(context.Background(), "nonexistent"); err != nil {
		t.Fatalf("remove unknown id must no-op, got: %v", err)
	}
}

func TestReadTrackingIndependentOfStatus(t *testing.T) {
	reg := setupRegistry(t)
	ctx := context.Background()

	if err := reg.Add(ctx, pendingRecord("ntf-1")); err != nil {
		t.Fatalf("add ntf-1: %v", err)
	}
	if err := reg.Add(ctx, pendingRecord("ntf-2")); err != nil {
		t.Fatalf("add ntf-2: %v", err)
	}
	if err := reg.UpdateStatus(ctx, "ntf-1", model.StatusCancelled); err != nil {
		t.Fatalf("cancel ntf-1: %v", err)
	}

	count, err := reg.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 2 {
		t.Fatalf("unread = %d, want 2", count)
	}

	if err := reg.MarkRead(ctx, "ntf-1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := reg.MarkRead(ctx, "nonexistent"); err != nil {
		t.Fatalf("mark read unknown must no-op, got: %v", err)
	}
	count, err = reg.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 1 {
		t.Fatalf("unread = %d, want 1", count)
	}

	if err := reg.MarkAllRead(ctx); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	count, err = reg.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 0 {
		t.Fatalf("unread = %d, want 0", count)
	}
}

func TestClearLeavesDanglingReferencesToUnknown(t *testing.T) {
	reg := setupRegistry(t)
	ctx := context.Background()

	if err := reg.Add(ctx, pendingRecord("ntf-1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	_, ok, err := reg.Status(ctx, "ntf-1")
	if err != nil {
		t.Fatalf("status after clear: %v", err)
	}
	if ok {
		t.Fatal("cleared record must resolve as unknown")
	}
}
