package ledger

import (
	"context"
	"sync"

	"github.com/amirhossein-jamali/flash-sale/internal/domain/entity"
	errs "github.com/amirhossein-jamali/flash-sale/internal/domain/error"
	coreport "github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/usecase"
)

// CommitQueue funnels commits of the same sale through one worker goroutine.
// It sits in front of a SaleLedger and takes in-process contention off the
// database lock; the ledger's own serialization still applies across instances.
type CommitQueue struct {
	next      usecase.SaleLedger
	logger    coreport.Logger
	queueSize int

	saleQueues sync.Map // map[string]chan *commitRequest
	workers    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

type commitRequest struct {
	ctx        context.Context
	saleID     string
	userID     string
	resultChan chan commitResult
}

type commitResult struct {
	purchase *entity.Purchase
	err      error
}

// NewCommitQueue wraps next with per-sale sequential commits
func NewCommitQueue(next usecase.SaleLedger, logger coreport.Logger, queueSize int) *CommitQueue {
	if next == nil {
		panic("commit queue requires a ledger")
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &CommitQueue{
		next:      next,
		logger:    logger,
		queueSize: queueSize,
	}
}

var _ usecase.SaleLedger = (*CommitQueue)(nil)

// GetCurrentSale delegates to the wrapped ledger
func (q *CommitQueue) GetCurrentSale(ctx context.Context) (*entity.Sale, error) {
	return q.next.GetCurrentSale(ctx)
}

// FindConfirmedPurchase delegates to the wrapped ledger
func (q *CommitQueue) FindConfirmedPurchase(ctx context.Context, saleID, userID string) (*entity.Purchase, error) {
	return q.next.FindConfirmedPurchase(ctx, saleID, userID)
}

// CommitPurchase enqueues the commit on the sale's worker and waits for its result.
// Once enqueued the commit always runs and its result is always delivered, so the
// caller can pair a failure with compensation.
func (q *CommitQueue) CommitPurchase(ctx context.Context, saleID, userID string) (*entity.Purchase, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return nil, errs.ErrInternal
	}

	queue := q.queueFor(saleID)
	req := &commitRequest{
		ctx:        ctx,
		saleID:     saleID,
		userID:     userID,
		resultChan: make(chan commitResult, 1),
	}

	select {
	case queue <- req:
	case <-ctx.Done():
		q.logger.Warn("Context canceled while enqueueing purchase commit", map[string]any{
			"sale_id": saleID,
			"user_id": userID,
			"error":   ctx.Err().Error(),
		})
		return nil, ctx.Err()
	}

	result := <-req.resultChan
	return result.purchase, result.err
}

func (q *CommitQueue) queueFor(saleID string) chan *commitRequest {
	if existing, ok := q.saleQueues.Load(saleID); ok {
		return existing.(chan *commitRequest)
	}

	queueIface, loaded := q.saleQueues.LoadOrStore(saleID, make(chan *commitRequest, q.queueSize))
	queue := queueIface.(chan *commitRequest)
	if !loaded {
		q.logger.Info("Starting purchase commit worker", map[string]any{"sale_id": saleID})
		q.workers.Add(1)
		go q.processSaleCommits(saleID, queue)
	}
	return queue
}

func (q *CommitQueue) processSaleCommits(saleID string, queue chan *commitRequest) {
	defer q.workers.Done()

	for req := range queue {
		purchase, err := q.next.CommitPurchase(req.ctx, req.saleID, req.userID)
		req.resultChan <- commitResult{purchase: purchase, err: err}
	}

	q.logger.Info("Purchase commit worker stopped", map[string]any{"sale_id": saleID})
}

// Shutdown drains every queue and waits for the workers to finish
func (q *CommitQueue) Shutdown() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.saleQueues.Range(func(_, value any) bool {
		close(value.(chan *commitRequest))
		return true
	})
	q.workers.Wait()
}
