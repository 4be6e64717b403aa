package mqueue

import (
	"time"

	"github.com/dgoffredo/ipc/mqformat"
	"github.com/dgoffredo/ipc/posixmq"
)

// Receiver receives messages from a message queue in a particular format.
//
// Like the queue handle it wraps, a Receiver is not safe for concurrent
// use.
type Receiver struct {
	queue      *posixmq.Queue
	owned      bool
	decoder    mqformat.Decoder
	openResult posixmq.OpenResult
}

// NewReceiver opens for reading the message queue named by cfg, creating
// it with cfg's attributes and permissions if it does not already exist.
// On failure, the returned Receiver is inert: IsOpen reports false and
// OpenResult reports why.
func NewReceiver(cfg Config) *Receiver {
	queue := posixmq.New()
	r := &Receiver{
		queue:   queue,
		owned:   true,
		decoder: cfg.Format.Decoder(),
	}
	r.openResult = queue.Open(
		cfg.Name,
		posixmq.ReadOnly(),
		posixmq.OpenOrCreate(cfg.Permissions),
		cfg.Attributes,
	)
	return r
}

// ReceiverFor returns a Receiver that receives from the given open queue
// handle in the given format. The caller remains responsible for the
// handle's lifetime.
func ReceiverFor(queue *posixmq.Queue, format mqformat.Format) *Receiver {
	return &Receiver{
		queue:      queue,
		decoder:    format.Decoder(),
		openResult: posixmq.OpenSuccess,
	}
}

// Receive dequeues the next message into *output, blocking if the queue is
// empty. If priority is not nil, the received message's priority is
// written through it. It returns zero on success or a code from the
// unified error space otherwise.
func (r *Receiver) Receive(output *[]byte, priority *uint) int {
	if rc := r.queue.SetNonBlocking(false); rc != posixmq.SetNonBlockingSuccess {
		return rc.Code()
	}
	if rc := r.queue.Receive(output, priority); rc != posixmq.ReceiveSuccess {
		return rc.Code()
	}
	return r.decoder(output)
}

// ReceiveTimeout is Receive, except that it blocks no longer than timeout,
// relative to the beginning of the invocation.
func (r *Receiver) ReceiveTimeout(output *[]byte, timeout time.Duration, priority *uint) int {
	if rc := r.queue.SetNonBlocking(false); rc != posixmq.SetNonBlockingSuccess {
		return rc.Code()
	}
	deadline := time.Now().Add(timeout)
	if rc := r.queue.ReceiveDeadline(output, deadline, priority); rc != posixmq.ReceiveSuccess {
		return rc.Code()
	}
	return r.decoder(output)
}

// TryReceive is Receive, except that it does not block: if the queue is
// empty, it returns posixmq.ReceiveEmpty's code immediately.
func (r *Receiver) TryReceive(output *[]byte, priority *uint) int {
	if rc := r.queue.SetNonBlocking(true); rc != posixmq.SetNonBlockingSuccess {
		return rc.Code()
	}
	if rc := r.queue.Receive(output, priority); rc != posixmq.ReceiveSuccess {
		return rc.Code()
	}
	return r.decoder(output)
}

// Unlink marks for deletion the message queue this receiver is attached
// to.
func (r *Receiver) Unlink() int {
	return posixmq.Unlink(r.queue.Name()).Code()
}

// OpenResult returns the result of having opened this receiver's queue. It
// is only meaningful for receivers constructed with NewReceiver.
func (r *Receiver) OpenResult() posixmq.OpenResult {
	return r.openResult
}

// IsOpen returns whether this receiver's queue is open.
func (r *Receiver) IsOpen() bool {
	return r.queue.IsOpen()
}

// Queue returns the underlying queue handle.
func (r *Receiver) Queue() *posixmq.Queue {
	return r.queue
}

// Close closes the underlying queue handle if this receiver owns it. For a
// borrowing receiver (constructed with ReceiverFor), Close does nothing;
// the handle's owner is responsible for it.
func (r *Receiver) Close() posixmq.CloseResult {
	if !r.owned {
		return posixmq.CloseSuccess
	}
	return r.queue.Close()
}
