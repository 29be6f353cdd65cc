package notify

import (
	"errors"
	"sync"
	"testing"
)

type stubSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
	gate chan struct{}
}

func (s *stubSender) Send(msg Message) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func TestNotifierDeliversInOrder(t *testing.T) {
	sender := &stubSender{}
	n := New(sender, 8)
	n.Enqueue(Message{Kind: KindWelcome, ToEmail: "a@example.com"})
	n.Enqueue(Message{Kind: KindRemoval, ToEmail: "b@example.com"})
	n.Close()

	if len(sender.sent) != 2 {
		t.Fatalf("delivered %d messages, expected 2", len(sender.sent))
	}
	if sender.sent[0].Kind != KindWelcome || sender.sent[1].Kind != KindRemoval {
		t.Errorf("unexpected delivery order: %v", sender.sent)
	}
}

func TestNotifierSwallowsSenderFailures(t *testing.T) {
	sender := &stubSender{err: errors.New("smtp down")}
	n := New(sender, 8)
	// the caller never sees the failure
	n.Enqueue(Message{Kind: KindRejection, ToEmail: "c@example.com"})
	n.Enqueue(Message{Kind: KindWelcome, ToEmail: "d@example.com"})
	n.Close()

	if len(sender.sent) != 2 {
		t.Errorf("a failed delivery must not stop the worker, delivered %d", len(sender.sent))
	}
}

func TestEnqueueNeverBlocks(t *testing.T) {
	sender := &stubSender{gate: make(chan struct{})}
	n := New(sender, 1)

	// fill the worker and the buffer, then keep going: the extra
	// messages are dropped, not waited on
	for i := 0; i < 10; i++ {
		n.Enqueue(Message{Kind: KindWelcome})
	}
	close(sender.gate)
	n.Close()
}
