package agent

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/julianstephens/pausa/internal/constants"
	"github.com/julianstephens/pausa/internal/logger"
)

// Transport delivers one message to the background agent.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// Outbox is a bounded queue of outbound messages drained by Run. Send never
// blocks; a full queue drops the message.
type Outbox struct {
	queue     chan Message
	transport Transport
	timeout   time.Duration

	dropped atomic.Int64
	failed  atomic.Int64
}

// NewOutbox creates an outbox holding up to size pending messages.
func NewOutbox(transport Transport, size int) *Outbox {
	if size <= 0 {
		size = constants.DefaultAgentQueueSize
	}
	return &Outbox{
		queue:     make(chan Message, size),
		transport: transport,
		timeout:   constants.DefaultAgentDeliverTimeout,
	}
}

func (o *Outbox) Send(msg Message) {
	select {
	case o.queue <- msg:
	default:
		o.dropped.Add(1)
		logger.Debug("Agent outbox full, dropping message", "type", msg.Type)
	}
}

// Run delivers queued messages until ctx is cancelled. Delivery failures are
// logged and not retried.
func (o *Outbox) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-o.queue:
			o.deliver(ctx, msg)
		}
	}
}

func (o *Outbox) deliver(ctx context.Context, msg Message) {
	if o.transport == nil {
		return
	}
	dctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if err := o.transport.Deliver(dctx, msg); err != nil {
		o.failed.Add(1)
		logger.Debug("Failed to deliver agent message", "type", msg.Type, "error", err)
	}
}

// Pending is the number of queued messages.
func (o *Outbox) Pending() int { return len(o.queue) }

// Dropped is the number of messages discarded because the queue was full.
func (o *Outbox) Dropped() int64 { return o.dropped.Load() }

// Failed is the number of messages the transport rejected.
func (o *Outbox) Failed() int64 { return o.failed.Load() }
