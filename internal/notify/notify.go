// Package notify delivers fire-and-forget notification events. The request
// path only enqueues; a detached worker publishes, and every failure is
// logged and swallowed so a notification can never fail its parent request.
package notify

import (
	"encoding/json"
	"log"
	"sync"
)

// Events is what services use to emit a notification.
type Events interface {
	Notify(routingKey string, payload any)
}

// Publisher is the outbound transport, satisfied by rabbitmq.Client.
type Publisher interface {
	Publish(routingKey string, body []byte) error
}

type event struct {
	routingKey string
	body       []byte
}

// Notifier buffers events on a channel and publishes them from a single
// worker goroutine.
type Notifier struct {
	pub    Publisher
	queue  chan event
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewNotifier starts the worker. A nil publisher is allowed; events are then
// logged and dropped, which keeps local development working without a broker.
func NewNotifier(pub Publisher, buffer int) *Notifier {
	if buffer <= 0 {
		buffer = 64
	}
	n := &Notifier{
		pub:    pub,
		queue:  make(chan event, buffer),
		closed: make(chan struct{}),
	}
	n.wg.Add(1)
	go n.run()
	return n
}

// Notify marshals the payload and enqueues it without blocking. When the
// buffer is full the event is dropped and logged.
func (n *Notifier) Notify(routingKey string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal notification %s: %v", routingKey, err)
		return
	}

	select {
	case <-n.closed:
		log.Printf("Notifier closed, dropping notification %s", routingKey)
	case n.queue <- event{routingKey: routingKey, body: body}:
	default:
		log.Printf("Notification buffer full, dropping %s", routingKey)
	}
}

// Close stops accepting events, drains the buffer and waits for the worker.
func (n *Notifier) Close() {
	n.once.Do(func() {
		close(n.closed)
	})
	n.wg.Wait()
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for {
		select {
		case ev := <-n.queue:
			n.publish(ev)
		case <-n.closed:
			// Drain whatever was enqueued before shutdown.
			for {
				select {
				case ev := <-n.queue:
					n.publish(ev)
				default:
					return
				}
			}
		}
	}
}

func (n *Notifier) publish(ev event) {
	if n.pub == nil {
		log.Printf("No publisher configured, dropping notification %s: %s", ev.routingKey, ev.body)
		return
	}
	if err := n.pub.Publish(ev.routingKey, ev.body); err != nil {
		log.Printf("Warning: failed to publish notification %s: %v", ev.routingKey, err)
	}
}
