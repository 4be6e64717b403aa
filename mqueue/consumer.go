package mqueue

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgoffredo/ipc/log"
	"github.com/dgoffredo/ipc/posixmq"
)

// consumerPollInterval bounds how long the consumer's worker blocks in a
// single receive, and therefore how long shutdown can take to be observed.
const consumerPollInterval = 100 * time.Millisecond

// MessageCallback is the function a Consumer invokes with each received
// message and its priority. The payload slice is reused between
// deliveries; it is only valid for the duration of the call.
type MessageCallback func(payload []byte, priority uint)

// Consumer manages a goroutine that receives messages from a message
// queue, invoking a callback function with each message received.
//
// The callback runs on the consumer's worker goroutine, sequentially and
// never re-entrantly. The callback must not call Close on its own
// Consumer: Close waits for the worker to finish, so the worker would be
// waiting for itself.
type Consumer struct {
	shuttingDown atomic.Bool
	buffer       []byte
	receiver     *Receiver
	callback     MessageCallback
	done         chan struct{}
	started      bool
	closed       bool
}

// NewConsumer opens for reading the message queue named by cfg and begins
// consuming messages immediately, invoking callback with every message
// received and its priority. If the queue cannot be opened, the returned
// Consumer is inert (no worker runs, IsOpen reports false) and the failure
// is logged; OpenResult reports why.
func NewConsumer(cfg Config, callback MessageCallback) *Consumer {
	c := &Consumer{
		receiver: NewReceiver(cfg),
		callback: callback,
		done:     make(chan struct{}),
	}
	if !c.receiver.IsOpen() {
		log.Errorw(
			"unable to open message queue for consuming",
			"queue", cfg.Name,
			"result", c.receiver.OpenResult(),
		)
		return c
	}

	c.started = true
	go c.consume()
	return c
}

func (c *Consumer) consume() {
	defer close(c.done)

	queueName := c.receiver.Queue().Name()
	timedOut := posixmq.ReceiveTimedOut.Code()

	for !c.shuttingDown.Load() {
		var priority uint
		rc := c.receiver.ReceiveTimeout(&c.buffer, consumerPollInterval, &priority)
		if rc == 0 {
			start := time.Now()
			c.callback(c.buffer, priority)
			consumerCallbackTimer.WithLabelValues(queueName).Observe(
				time.Since(start).Seconds(),
			)
			consumerDeliveries.WithLabelValues(queueName).Inc()
		} else if rc != timedOut {
			consumerReceiveErrors.WithLabelValues(queueName).Inc()
			log.Errorw(
				"unable to receive message from message queue",
				"queue", queueName,
				"code", rc,
				"description", Description(rc),
			)
		}
	}
}

// OpenResult returns the result of having opened this consumer's queue.
func (c *Consumer) OpenResult() posixmq.OpenResult {
	return c.receiver.OpenResult()
}

// IsOpen returns whether the queue consumed by this object is open.
func (c *Consumer) IsOpen() bool {
	return c.receiver.IsOpen()
}

// Close stops the worker goroutine, waits for it to finish, and closes the
// consumer's queue. Because the worker polls with a short deadline, Close
// returns within roughly one poll interval. Close is idempotent. If the
// worker never started (the queue failed to open), Close only closes
// whatever state exists.
func (c *Consumer) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	if c.started {
		c.shuttingDown.Store(true)
		<-c.done
	}

	if c.receiver.IsOpen() {
		if rc := c.receiver.Close(); rc != posixmq.CloseSuccess {
			return fmt.Errorf("mqueue: close consumer queue: %v", rc)
		}
	}
	return nil
}
