package notify

import "log"

type Kind string

const (
	KindRegistrationNotice Kind = "registration_notice"
	KindWelcome            Kind = "welcome"
	KindRejection          Kind = "rejection"
	KindRemoval            Kind = "removal"
)

// Message is one outbound notification. ToEmail is empty for the
// registration notice, which goes to the configured admin address.
type Message struct {
	Kind    Kind
	ToEmail string
	ToName  string
}

type Sender interface {
	Send(msg Message) error
}

// Notifier decouples best-effort outbound notifications from the mutation
// that triggered them. Enqueue never blocks the caller; delivery failures
// are logged and dropped, never surfaced.
type Notifier struct {
	queue chan Message
	done  chan struct{}
}

func New(sender Sender, buffer int) *Notifier {
	n := &Notifier{
		queue: make(chan Message, buffer),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(n.done)
		for msg := range n.queue {
			if err := sender.Send(msg); err != nil {
				log.Printf("notify: %s to %q failed: %v", msg.Kind, msg.ToEmail, err)
			}
		}
	}()
	return n
}

func (n *Notifier) Enqueue(msg Message) {
	select {
	case n.queue <- msg:
	default:
		log.Printf("notify: queue full, dropping %s to %q", msg.Kind, msg.ToEmail)
	}
}

// Close stops accepting messages and waits for the worker to drain.
func (n *Notifier) Close() {
	close(n.queue)
	<-n.done
}
