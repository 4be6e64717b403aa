package mqueue

import (
	"time"

	"github.com/dgoffredo/ipc/posixmq"
)

// Queue is a message queue opened for both sending and receiving. One
// read-write queue handle backs a coupled sender and receiver pair.
//
// Like the handle it wraps, a Queue is not safe for concurrent use.
type Queue struct {
	handle     *posixmq.Queue
	sender     *Sender
	receiver   *Receiver
	openResult posixmq.OpenResult
}

// NewQueue opens the message queue named by cfg for both reading and
// writing, creating it with cfg's attributes and permissions if it does
// not already exist. On failure, the returned Queue is inert: IsOpen
// reports false and OpenResult reports why.
func NewQueue(cfg Config) *Queue {
	handle := posixmq.New()
	q := &Queue{
		handle:   handle,
		sender:   SenderFor(handle, cfg.Format),
		receiver: ReceiverFor(handle, cfg.Format),
	}
	q.openResult = handle.Open(
		cfg.Name,
		posixmq.ReadWrite(),
		posixmq.OpenOrCreate(cfg.Permissions),
		cfg.Attributes,
	)
	return q
}

// Send enqueues payload with the given priority, blocking if the queue is
// full.
func (q *Queue) Send(payload []byte, priority uint) int {
	return q.sender.Send(payload, priority)
}

// SendTimeout is Send with a relative timeout.
func (q *Queue) SendTimeout(payload []byte, timeout time.Duration, priority uint) int {
	return q.sender.SendTimeout(payload, timeout, priority)
}

// TrySend is Send without blocking.
func (q *Queue) TrySend(payload []byte, priority uint) int {
	return q.sender.TrySend(payload, priority)
}

// Receive dequeues the next message into *output, blocking if the queue is
// empty.
func (q *Queue) Receive(output *[]byte, priority *uint) int {
	return q.receiver.Receive(output, priority)
}

// ReceiveTimeout is Receive with a relative timeout.
func (q *Queue) ReceiveTimeout(output *[]byte, timeout time.Duration, priority *uint) int {
	return q.receiver.ReceiveTimeout(output, timeout, priority)
}

// TryReceive is Receive without blocking.
func (q *Queue) TryReceive(output *[]byte, priority *uint) int {
	return q.receiver.TryReceive(output, priority)
}

// Unlink marks this queue for deletion.
func (q *Queue) Unlink() int {
	return posixmq.Unlink(q.handle.Name()).Code()
}

// OpenResult returns the result of having opened this queue.
func (q *Queue) OpenResult() posixmq.OpenResult {
	return q.openResult
}

// IsOpen returns whether this queue is open.
func (q *Queue) IsOpen() bool {
	return q.handle.IsOpen()
}

// Handle returns the underlying queue handle.
func (q *Queue) Handle() *posixmq.Queue {
	return q.handle
}

// Close closes the underlying queue handle.
func (q *Queue) Close() posixmq.CloseResult {
	return q.handle.Close()
}
