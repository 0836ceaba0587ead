package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/OfficialEseosa/panther-watch/internal/model"
	"github.com/OfficialEseosa/panther-watch/internal/repository"
)

// The schedule outbox pushes row writes to the database after the cached
// read model has already been mutated. The cache mutation is the
// user-visible result; the row write retries in the background so a
// database hiccup never fails an add or remove. A write that exhausts
// its retries is logged and dropped; the next full sync reconciles it.

type outboxKind int

const (
	outboxUpsert outboxKind = iota
	outboxDelete
)

type outboxOp struct {
	kind     outboxKind
	userID   string
	termCode string
	crn      string
}

type scheduleOutbox struct {
	repo        repository.UserScheduleRepository
	logger      *zap.Logger
	ops         chan outboxOp
	quit        chan struct{}
	wg          sync.WaitGroup
	maxAttempts int
	retryDelay  time.Duration
}

func newScheduleOutbox(repo repository.UserScheduleRepository, logger *zap.Logger) *scheduleOutbox {
	return &scheduleOutbox{
		repo:        repo,
		logger:      logger,
		ops:         make(chan outboxOp, 256),
		quit:        make(chan struct{}),
		maxAttempts: 5,
		retryDelay:  2 * time.Second,
	}
}

func (o *scheduleOutbox) Start() {
	o.wg.Add(1)
	go o.run()
}

// Stop drains queued writes and waits for the worker to exit.
func (o *scheduleOutbox) Stop() {
	close(o.quit)
	o.wg.Wait()
}

// Enqueue hands a write to the worker. A full queue blocks until the
// worker catches up; writes must land in the order they were enqueued,
// so jumping the queue is never an option.
func (o *scheduleOutbox) Enqueue(op outboxOp) {
	select {
	case o.ops <- op:
	default:
		o.logger.Warn("schedule outbox full, waiting for worker",
			zap.String("user_id", op.userID),
			zap.String("crn", op.crn))
		o.ops <- op
	}
}

func (o *scheduleOutbox) run() {
	defer o.wg.Done()
	for {
		select {
		case op := <-o.ops:
			o.apply(op)
		case <-o.quit:
			for {
				select {
				case op := <-o.ops:
					o.apply(op)
				default:
					return
				}
			}
		}
	}
}

func (o *scheduleOutbox) apply(op outboxOp) {
	var lastErr error
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		lastErr = o.applyOnce(context.Background(), op)
		if lastErr == nil {
			return
		}
		time.Sleep(o.retryDelay)
	}
	o.logger.Error("schedule write dropped after retries",
		zap.String("user_id", op.userID),
		zap.String("term", op.termCode),
		zap.String("crn", op.crn),
		zap.Int("attempts", o.maxAttempts),
		zap.Error(lastErr))
}

func (o *scheduleOutbox) applyOnce(ctx context.Context, op outboxOp) error {
	switch op.kind {
	case outboxDelete:
		return o.repo.Delete(ctx, op.userID, op.termCode, op.crn)
	default:
		_, err := o.repo.Create(ctx, &model.UserSchedule{
			UserID:   op.userID,
			TermCode: op.termCode,
			CRN:      op.crn,
			AddedAt:  time.Now(),
		})
		return err
	}
}
