package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestOutboxDrainsOnStop(t *testing.T) {
	repo := newMockUserScheduleRepo()
	ob := newScheduleOutbox(repo, zap.NewNop())
	ob.retryDelay = time.Millisecond
	ob.Start()

	ob.Enqueue(outboxOp{kind: outboxUpsert, userID: "user-1", termCode: "202508", crn: "80331"})
	ob.Stop()

	rows, _ := repo.ListByUser(context.Background(), "user-1")
	if len(rows) != 1 {
		t.Fatalf("expected the queued write persisted on Stop, got %d rows", len(rows))
	}
}

func TestOutboxFullQueueKeepsWriteOrder(t *testing.T) {
	repo := newMockUserScheduleRepo()
	ob := newScheduleOutbox(repo, zap.NewNop())
	ob.retryDelay = time.Millisecond
	// A one-slot queue so the second enqueue hits the full-queue path.
	ob.ops = make(chan outboxOp, 1)

	ob.Enqueue(outboxOp{kind: outboxUpsert, userID: "user-1", termCode: "202508", crn: "80331"})

	done := make(chan struct{})
	go func() {
		// Blocks until the worker frees a slot; the delete must land
		// after the add it follows, never ahead of it.
		ob.Enqueue(outboxOp{kind: outboxDelete, userID: "user-1", termCode: "202508", crn: "80331"})
		close(done)
	}()

	ob.Start()
	<-done
	ob.Stop()

	rows, _ := repo.ListByUser(context.Background(), "user-1")
	if len(rows) != 0 {
		t.Fatalf("expected the trailing delete to win, got %d rows", len(rows))
	}
}
