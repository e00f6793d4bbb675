package services

import (
	"context"
	"sync"

	"github.com/avolkovs/talentdesk/internal/logging"
)

// Notification kinds.
const (
	NotificationWelcome = "welcome"
)

// Notification is an outbound message queued for best-effort delivery.
type Notification struct {
	Kind      string
	Recipient string
	Token     string
}

// Notifier delivers notifications asynchronously so that registration never
// waits on (or fails because of) a mail backend. Messages are dropped when
// the queue is full; delivery is not guaranteed by design of the workflow,
// which treats the welcome email as a side effect outside the provisioning
// contract.
type Notifier struct {
	ch     chan Notification
	logger logging.Logger
	wg     sync.WaitGroup
}

// NewNotifier creates a notifier with a fixed-size queue.
func NewNotifier(logger logging.Logger, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Notifier{
		ch:     make(chan Notification, queueSize),
		logger: logger.With("module", "notifier"),
	}
}

// Start launches the delivery loop. It drains until ctx is cancelled.
func (n *Notifier) Start(ctx context.Context) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-n.ch:
				n.deliver(ctx, msg)
			}
		}
	}()
}

// Enqueue queues a notification without blocking. A full queue drops the
// message and logs the fact.
func (n *Notifier) Enqueue(msg Notification) {
	select {
	case n.ch <- msg:
	default:
		n.logger.Warn(context.Background(), "notification queue full, dropping message",
			"kind", msg.Kind, "recipient", msg.Recipient)
	}
}

// Wait blocks until the delivery loop has stopped.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// deliver hands the message to the mail backend. No SMTP transport is wired
// yet, so delivery is a structured log line that downstream tooling can tail.
func (n *Notifier) deliver(ctx context.Context, msg Notification) {
	n.logger.Info(ctx, "notification sent", "kind", msg.Kind, "recipient", msg.Recipient)
}
