package service

import (
	"testing"
	"time"

	"attachmi/internal/models"
)

func TestAutosaverCoalescesRapidEdits(t *testing.T) {
	saved := make(chan models.Attachment, 8)
	a := NewAutosaver(20*time.Millisecond, func(att models.Attachment) { saved <- att })

	a.Schedule(models.Attachment{ID: 1, Notes: "draft one"})
	a.Schedule(models.Attachment{ID: 1, Notes: "draft two"})
	a.Schedule(models.Attachment{ID: 1, Notes: "final"})

	select {
	case got := <-saved:
		if got.Notes != "final" {
			t.Fatalf("expected last scheduled payload, got %#v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for save")
	}

	select {
	case got := <-saved:
		t.Fatalf("expected a single save, got extra %#v", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAutosaverUsesScheduleTimePayload(t *testing.T) {
	saved := make(chan models.Attachment, 1)
	a := NewAutosaver(20*time.Millisecond, func(att models.Attachment) { saved <- att })

	attachment := models.Attachment{ID: 7, Notes: "as scheduled"}
	a.Schedule(attachment)
	attachment.Notes = "mutated after schedule"

	select {
	case got := <-saved:
		if got.Notes != "as scheduled" {
			t.Fatalf("save must use the snapshot captured at schedule time, got %#v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for save")
	}
}

func TestAutosaverFlushRunsPendingImmediately(t *testing.T) {
	saved := make(chan models.Attachment, 1)
	a := NewAutosaver(time.Hour, func(att models.Attachment) { saved <- att })

	a.Schedule(models.Attachment{ID: 3})
	a.Flush()

	select {
	case got := <-saved:
		if got.ID != 3 {
			t.Fatalf("unexpected payload %#v", got)
		}
	default:
		t.Fatal("expected flush to save synchronously")
	}

	// A second flush has nothing left to save.
	a.Flush()
	select {
	case got := <-saved:
		t.Fatalf("unexpected second save %#v", got)
	default:
	}
}

func TestAutosaverStopDropsPending(t *testing.T) {
	saved := make(chan models.Attachment, 1)
	a := NewAutosaver(20*time.Millisecond, func(att models.Attachment) { saved <- att })

	a.Schedule(models.Attachment{ID: 4})
	a.Stop()

	select {
	case got := <-saved:
		t.Fatalf("stop must drop the pending save, got %#v", got)
	case <-time.After(100 * time.Millisecond):
	}
}
