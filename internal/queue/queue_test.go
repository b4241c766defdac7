package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestInMemoryRoundTrip(t *testing.T) {
	q := NewInMemory(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msg, err := NewCheckInMessage(CheckInRecorded{
		RecordID:  "rec1",
		StudentID: "stu1",
		ClassID:   "cls1",
		Status:    "PRESENT",
	})
	if err != nil {
		t.Fatalf("NewCheckInMessage failed: %v", err)
	}
	if err := q.Publish(ctx, msg); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	out, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}

	select {
	case got := <-out:
		if got.Type != "checkin.recorded" {
			t.Errorf("unexpected type %q", got.Type)
		}
		var payload CheckInRecorded
		if err := json.Unmarshal(got.Body, &payload); err != nil {
			t.Fatalf("payload decode failed: %v", err)
		}
		if payload.RecordID != "rec1" || payload.Status != "PRESENT" {
			t.Errorf("unexpected payload %+v", payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestInMemoryPublishCancelled(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := q.Publish(ctx, Message{Type: "x"}); err != nil {
		t.Fatalf("first publish should fit the buffer: %v", err)
	}
	cancel()
	if err := q.Publish(ctx, Message{Type: "x"}); err == nil {
		t.Error("publish into a full queue with a cancelled context should fail")
	}
}

func TestConsumeStopsOnCancel(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())
	out, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	cancel()
	select {
	case _, open := <-out:
		if open {
			t.Error("channel should close after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}
