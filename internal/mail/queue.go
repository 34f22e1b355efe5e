package mail

import (
	"sync"

	"github.com/tajoco/contacts/pkg/logger"
	"go.uber.org/zap"
)

// Queue hands send requests to a pool of worker goroutines. Enqueue never
// blocks the calling request: when the buffer is full the message is dropped
// with a warning, delivery failures are logged by the worker and never reach
// the producer.
type Queue struct {
	tasks  chan Message
	sender Sender
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewQueue(sender Sender, workers, size int) *Queue {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}

	q := &Queue{
		tasks:  make(chan Message, size),
		sender: sender,
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	return q
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()

	for msg := range q.tasks {
		if err := q.sender.Send(msg); err != nil {
			logger.GetLogger().Warn("Email delivery failed",
				zap.Int("worker", id),
				zap.String("to", msg.To),
				zap.Error(err),
			)
			continue
		}

		logger.GetLogger().Debug("Email delivered",
			zap.Int("worker", id),
			zap.String("to", msg.To),
		)
	}
}

// Enqueue submits msg for background delivery, reporting whether it was
// accepted.
func (q *Queue) Enqueue(msg Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	select {
	case q.tasks <- msg:
		return true
	default:
		logger.GetLogger().Warn("Email queue full, message dropped",
			zap.String("to", msg.To),
		)
		return false
	}
}

// Close stops accepting messages and waits for the workers to drain.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
}
