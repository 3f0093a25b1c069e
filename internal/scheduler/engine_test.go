package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestEngineDeliversInFireOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	ctx := context.Background()
	now := time.Now().UTC()
	laterID, err := engine.Schedule(ctx, "later", "", now.Add(80*time.Millisecond))
	if err != nil || laterID == "" {
		t.Fatalf("schedule later: id=%q err=%v", laterID, err)
	}
	soonerID, err := engine.Schedule(ctx, "sooner", "", now.Add(20*time.Millisecond))
	if err != nil || soonerID == "" {
		t.Fatalf("schedule sooner: id=%q err=%v", soonerID, err)
	}

	first := waitDelivery(t, engine.C(), time.Second)
	second := waitDelivery(t, engine.C(), time.Second)
	if first.ID != soonerID || second.ID != laterID {
		t.Fatalf("unexpected order: first=%s second=%s", first.Title, second.Title)
	}
}

func TestSchedulePastFireTimeYieldsNoHandle(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	id, err := engine.Schedule(context.Background(), "old", "", time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("schedule past: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty handle for past fire time, got %q", id)
	}
}

func TestCancelSuppressesDelivery(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	ctx := context.Background()
	now := time.Now().UTC()
	cancelledID, err := engine.Schedule(ctx, "cancelled", "", now.Add(30*time.Millisecond))
	if err != nil {
		t.Fatalf("schedule cancelled: %v", err)
	}
	keptID, err := engine.Schedule(ctx, "kept", "", now.Add(60*time.Millisecond))
	if err != nil {
		t.Fatalf("schedule kept: %v", err)
	}

	if err := engine.Cancel(ctx, cancelledID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	got := waitDelivery(t, engine.C(), time.Second)
	if got.ID != keptID {
		t.Fatalf("expected kept delivery, got %s", got.Title)
	}
}

func TestCancelUnknownHandleIsNoOp(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	if err := engine.Cancel(context.Background(), "nonexistent"); err != nil {
		t.Fatalf("cancel unknown handle must no-op, got: %v", err)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	ctx := context.Background()
	fireAt := time.Now().UTC().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if _, err := engine.Schedule(ctx, "burst", "", fireAt); err != nil {
			t.Fatalf("schedule burst: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped deliveries > 0, got %d", engine.Dropped())
	}
}

func TestScheduleAfterStopFails(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()

	_, err := engine.Schedule(context.Background(), "late", "", time.Now().UTC().Add(time.Minute))
	if err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func waitDelivery(t *testing.T, ch <-chan Delivery, timeout time.Duration) Delivery {
	t.Helper()
	select {
	case d := <-ch:
		return d
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for delivery")
		return Delivery{}
	}
}
