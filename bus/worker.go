package bus

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// WorkThunk is a unit of blocking work submitted to the worker bridge; its
// return value is carried back as WorkResult.Payload.
type WorkThunk func() (any, error)

// WorkItem is an in-flight submission, identified for correlation with its
// eventual WorkResult.
type WorkItem struct {
	ID     string
	Sender string
	Thunk  WorkThunk
}

// WorkerBridge runs submitted WorkThunks on a bounded goroutine pool and
// republishes their outcome as a TypeWorkerResult message on the bus,
// letting callers that must stay on one goroutine (the frame executor)
// consume results only through Process.
type WorkerBridge struct {
	logger *slog.Logger
	bus    *Bus

	items chan WorkItem
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewWorkerBridge starts workers goroutines pulling from a queue of depth
// queueDepth. Submissions beyond queueDepth block the submitter.
func NewWorkerBridge(logger *slog.Logger, b *Bus, workers, queueDepth int) *WorkerBridge {
	wb := &WorkerBridge{
		logger: logger,
		bus:    b,
		items:  make(chan WorkItem, queueDepth),
		done:   make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		wb.wg.Add(1)
		go wb.run()
	}
	return wb
}

// SubmitWork enqueues a thunk for execution on a worker goroutine and
// returns its correlation ID immediately.
func (wb *WorkerBridge) SubmitWork(sender string, thunk WorkThunk) string {
	id := uuid.NewString()
	wb.items <- WorkItem{ID: id, Sender: sender, Thunk: thunk}
	return id
}

func (wb *WorkerBridge) run() {
	defer wb.wg.Done()
	for {
		select {
		case item, ok := <-wb.items:
			if !ok {
				return
			}
			wb.execute(item)
		case <-wb.done:
			// Drain whatever is already queued before exiting so a shutdown
			// mid-frame doesn't silently lose submitted work.
			for {
				select {
				case item, ok := <-wb.items:
					if !ok {
						return
					}
					wb.execute(item)
				default:
					return
				}
			}
		}
	}
}

func (wb *WorkerBridge) execute(item WorkItem) {
	defer func() {
		if r := recover(); r != nil {
			wb.logger.Error("work item panicked", "id", item.ID, "sender", item.Sender, "recovered", r)
			wb.bus.Publish(Message{
				Type:     TypeWorkerResult,
				Sender:   item.Sender,
				Category: CategoryWorker,
				Payload: WorkResult{
					WorkID:  item.ID,
					Sender:  item.Sender,
					Success: false,
				},
			})
		}
	}()
	result, err := item.Thunk()
	wb.bus.Publish(Message{
		Type:     TypeWorkerResult,
		Sender:   item.Sender,
		Category: CategoryWorker,
		Payload: WorkResult{
			WorkID:  item.ID,
			Sender:  item.Sender,
			Success: err == nil,
			Err:     err,
			Payload: result,
		},
	})
}

// Shutdown stops accepting new work, signals every worker to drain its
// already-queued items, and blocks until all workers have exited.
func (wb *WorkerBridge) Shutdown() {
	close(wb.items)
	close(wb.done)
	wb.wg.Wait()
}
