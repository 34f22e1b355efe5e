package mail

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []Message
	failing bool
	block   chan struct{}
}

func (s *recordingSender) Send(msg Message) error {
	if s.block != nil {
		<-s.block
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestQueueDeliversMessages(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, 2, 8)

	for i := 0; i < 5; i++ {
		if !q.Enqueue(Message{To: "user@example.com"}) {
			t.Fatal("Expected enqueue to be accepted")
		}
	}

	q.Close()

	if sender.count() != 5 {
		t.Errorf("Expected 5 delivered messages, got %d", sender.count())
	}
}

func TestQueueEnqueueAfterClose(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, 1, 4)
	q.Close()

	if q.Enqueue(Message{To: "user@example.com"}) {
		t.Error("Expected enqueue on closed queue to be rejected")
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	sender := &recordingSender{block: block}
	q := NewQueue(sender, 1, 1)

	// First message occupies the single worker, second fills the buffer.
	q.Enqueue(Message{To: "a@example.com"})

	accepted := 0
	for i := 0; i < 10; i++ {
		if q.Enqueue(Message{To: "b@example.com"}) {
			accepted++
		}
		time.Sleep(time.Millisecond)
	}
	if accepted >= 10 {
		t.Error("Expected some messages to be dropped when the buffer is full")
	}

	close(block)
	q.Close()
}

func TestQueueSurvivesSendFailures(t *testing.T) {
	sender := &recordingSender{failing: true}
	q := NewQueue(sender, 1, 4)

	if !q.Enqueue(Message{To: "user@example.com"}) {
		t.Fatal("Expected enqueue to be accepted")
	}

	// Failures are logged by the worker, Close must still drain cleanly.
	q.Close()
}

func TestConfirmationBody(t *testing.T) {
	body := confirmationBody(Message{
		To:       "user@example.com",
		Username: "tester",
		Token:    "tok123",
		BaseURL:  "http://localhost:8000",
	})

	if !strings.Contains(body, "http://localhost:8000/api/auth/confirmed_email/tok123") {
		t.Errorf("Expected confirmation link in body, got %s", body)
	}
	if !strings.Contains(body, "http://localhost:8000/api/auth/tester") {
		t.Errorf("Expected tracking pixel URL in body, got %s", body)
	}
}
