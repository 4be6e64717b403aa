package mqueue

import (
	"time"

	"github.com/dgoffredo/ipc/mqformat"
	"github.com/dgoffredo/ipc/posixmq"
)

// senderScratchCapacity is the initial capacity of a sender's encoding
// buffer. 8192 was chosen because it's the observed maximum message size
// on Linux, and is no more than a small multiple of the page size
// elsewhere.
const senderScratchCapacity = 8192

// Sender sends messages to a message queue in a particular format.
//
// Like the queue handle it wraps, a Sender is not safe for concurrent use.
type Sender struct {
	queue      *posixmq.Queue
	owned      bool
	encoder    mqformat.Encoder
	scratch    []byte
	openResult posixmq.OpenResult
}

// NewSender opens for writing the message queue named by cfg, creating it
// with cfg's attributes and permissions if it does not already exist. On
// failure, the returned Sender is inert: IsOpen reports false and
// OpenResult reports why.
func NewSender(cfg Config) *Sender {
	queue := posixmq.New()
	s := &Sender{
		queue:   queue,
		owned:   true,
		encoder: cfg.Format.Encoder(),
		scratch: make([]byte, 0, senderScratchCapacity),
	}
	s.openResult = queue.Open(
		cfg.Name,
		posixmq.WriteOnly(),
		posixmq.OpenOrCreate(cfg.Permissions),
		cfg.Attributes,
	)
	return s
}

// SenderFor returns a Sender that sends to the given open queue handle in
// the given format. The caller remains responsible for the handle's
// lifetime.
func SenderFor(queue *posixmq.Queue, format mqformat.Format) *Sender {
	return &Sender{
		queue:      queue,
		encoder:    format.Encoder(),
		scratch:    make([]byte, 0, senderScratchCapacity),
		openResult: posixmq.OpenSuccess,
	}
}

// Send enqueues a message with the given payload and priority, blocking if
// the queue is full. It returns zero on success or a code from the unified
// error space otherwise.
func (s *Sender) Send(payload []byte, priority uint) int {
	if rc := s.queue.SetNonBlocking(false); rc != posixmq.SetNonBlockingSuccess {
		return rc.Code()
	}
	encoded, code := s.encoder(s.queue.MaxMessageSize(), payload, &s.scratch)
	if code != 0 {
		return code
	}
	return s.queue.Send(encoded, priority).Code()
}

// SendTimeout is Send, except that it blocks no longer than timeout,
// relative to the beginning of the invocation.
func (s *Sender) SendTimeout(payload []byte, timeout time.Duration, priority uint) int {
	deadline := time.Now().Add(timeout)
	if rc := s.queue.SetNonBlocking(false); rc != posixmq.SetNonBlockingSuccess {
		return rc.Code()
	}
	encoded, code := s.encoder(s.queue.MaxMessageSize(), payload, &s.scratch)
	if code != 0 {
		return code
	}
	return s.queue.SendDeadline(encoded, deadline, priority).Code()
}

// TrySend is Send, except that it does not block: if the queue is full, it
// returns posixmq.SendFull's code immediately.
func (s *Sender) TrySend(payload []byte, priority uint) int {
	if rc := s.queue.SetNonBlocking(true); rc != posixmq.SetNonBlockingSuccess {
		return rc.Code()
	}
	encoded, code := s.encoder(s.queue.MaxMessageSize(), payload, &s.scratch)
	if code != 0 {
		return code
	}
	return s.queue.Send(encoded, priority).Code()
}

// Unlink marks for deletion the message queue this sender is attached to.
func (s *Sender) Unlink() int {
	return posixmq.Unlink(s.queue.Name()).Code()
}

// OpenResult returns the result of having opened this sender's queue. It
// is only meaningful for senders constructed with NewSender.
func (s *Sender) OpenResult() posixmq.OpenResult {
	return s.openResult
}

// IsOpen returns whether this sender's queue is open.
func (s *Sender) IsOpen() bool {
	return s.queue.IsOpen()
}

// Queue returns the underlying queue handle.
func (s *Sender) Queue() *posixmq.Queue {
	return s.queue
}

// Close closes the underlying queue handle if this sender owns it. For a
// borrowing sender (constructed with SenderFor), Close does nothing; the
// handle's owner is responsible for it.
func (s *Sender) Close() posixmq.CloseResult {
	if !s.owned {
		return posixmq.CloseSuccess
	}
	return s.queue.Close()
}
