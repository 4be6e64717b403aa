package posixmq

import (
	"syscall"
	"time"

	"github.com/dgoffredo/ipc/log"
)

type openState int

const (
	stateClosed openState = iota
	stateBlocking
	stateNonBlocking
)

// queueAttributes mirrors the kernel's struct-of-longs attributes type.
type queueAttributes struct {
	Flags           int64
	MaxMessages     int64
	MaxMessageSize  int64
	CurrentMessages int64
}

// Queue is a handle to a POSIX message queue.
//
// A Queue starts closed; Open attaches it to a named queue in blocking
// mode. SetNonBlocking moves it between blocking and non-blocking mode, and
// Close detaches it. The handle caches the queue's maximum message size to
// size receive buffers.
//
// Queue is not safe for concurrent mutation.
type Queue struct {
	fd             int
	name           string
	state          openState
	maxMessageSize int64
}

// New returns a closed Queue.
func New() *Queue {
	return &Queue{
		fd:             -1,
		maxMessageSize: fallbackMaxMessageSize,
	}
}

// Open opens the message queue having the given name for reading or writing
// or both depending on openMode, possibly creating the queue or requiring
// creation based on createMode. If the queue does not exist and creating is
// permitted, the queue is created with the given attributes. If the queue
// already exists, attributes are ignored by the kernel. On success the
// handle is in blocking mode.
//
// Note that specifying Max() for any of the attributes' fields might
// exhaust system resources.
func (q *Queue) Open(name string, openMode OpenMode, createMode CreateMode, attributes Attributes) OpenResult {
	var openFlags int
	switch openMode.kind {
	case openModeReadOnly:
		openFlags = syscall.O_RDONLY
	case openModeWriteOnly:
		openFlags = syscall.O_WRONLY
	case openModeReadWrite:
		openFlags = syscall.O_RDWR
	default:
		return OpenInvalidParameter
	}

	var permissions uint32
	switch createMode.kind {
	case createModeOpenOnly:
		// permissions are ignored
	case createModeCreateOnly:
		openFlags |= syscall.O_CREAT | syscall.O_EXCL
		permissions = uint32(createMode.permissions)
	case createModeOpenOrCreate:
		openFlags |= syscall.O_CREAT
		permissions = uint32(createMode.permissions)
	default:
		return OpenInvalidParameter
	}

	// If both attribute fields are defaulted, or if we won't be creating a
	// queue, there is no need to resolve the attribute values (resolving
	// "max" is expensive the first time).
	var attrPtr *queueAttributes
	if !(attributes.MaxMessages.isDefault() && attributes.MaxMessageSize.isDefault()) &&
		createMode.kind != createModeOpenOnly {
		attrPtr = &queueAttributes{
			MaxMessages:    attributes.MaxMessages.resolve(DefaultMaxMessages, MaxMaxMessages),
			MaxMessageSize: attributes.MaxMessageSize.resolve(DefaultMaxMessageSize, MaxMaxMessageSize),
		}
	}

	fd, errno := mqOpen(name, openFlags, permissions, attrPtr)
	if errno != 0 {
		switch errno {
		case syscall.EACCES:
			return OpenPermissionDenied
		case syscall.EEXIST:
			return OpenAlreadyExists
		case syscall.EINTR:
			return OpenInterrupted
		case syscall.EINVAL:
			return OpenInvalidParameter
		case syscall.EMFILE, syscall.ENFILE:
			return OpenLimitReached
		case syscall.ENAMETOOLONG:
			return OpenNameTooLong
		case syscall.ENOENT:
			return OpenDoesNotExist
		case syscall.ENOSPC:
			return OpenNotEnoughSpace
		case syscall.ESPIPE:
			// seen on Solaris when a leading '/' isn't used.
			return OpenInvalidParameter
		default:
			logUnexpectedErrno("mq_open", errno)
			return OpenUnknown
		}
	}

	q.fd = fd
	q.name = name
	q.state = stateBlocking

	// The queue might already have existed, so the actual maximum message
	// size must be queried rather than assumed from the requested
	// attributes. If the query fails, the handle keeps its conservative
	// default, which is no larger than any system maximum likely to be
	// found in practice.
	if attr, errno := mqGetAttr(q.fd); errno != 0 {
		log.Warnw(
			"unable to query attributes of newly opened message queue; keeping conservative maximum message size",
			"queue", q.name,
			"maxMessageSize", q.maxMessageSize,
			"errno", int(errno),
		)
	} else {
		q.maxMessageSize = attr.MaxMessageSize
	}

	return OpenSuccess
}

// Close closes the message queue. It does not unlink the queue. Close is
// idempotent: closing an already closed handle returns CloseClosed. After
// Close returns, the handle is closed regardless of the result.
func (q *Queue) Close() CloseResult {
	if q.state == stateClosed {
		return CloseClosed
	}

	fd := q.fd
	q.fd = -1
	q.name = ""
	q.state = stateClosed

	if errno := mqClose(fd); errno != 0 {
		switch errno {
		case syscall.EBADF:
			return CloseBadDescriptor
		default:
			logUnexpectedErrno("mq_close", errno)
			return CloseUnknown
		}
	}
	return CloseSuccess
}

// SetNonBlocking sets whether Send and Receive return immediately. It is a
// no-op when the handle is already in the requested mode.
func (q *Queue) SetNonBlocking(nonBlocking bool) SetNonBlockingResult {
	if (nonBlocking && q.state == stateNonBlocking) ||
		(!nonBlocking && q.state == stateBlocking) {
		return SetNonBlockingSuccess
	}
	if q.state == stateClosed {
		return SetNonBlockingClosed
	}

	attr, errno := mqGetAttr(q.fd)
	if errno != 0 {
		return convertGetSetAttrError(errno)
	}

	if nonBlocking {
		attr.Flags |= int64(syscall.O_NONBLOCK)
	} else {
		attr.Flags &^= int64(syscall.O_NONBLOCK)
	}

	if errno := mqSetAttr(q.fd, attr); errno != 0 {
		return convertGetSetAttrError(errno)
	}

	if nonBlocking {
		q.state = stateNonBlocking
	} else {
		q.state = stateBlocking
	}
	return SetNonBlockingSuccess
}

// Send enqueues a message with the given payload and priority, where higher
// priorities are received before lower ones. In blocking mode, Send blocks
// until there is room in the queue.
func (q *Queue) Send(payload []byte, priority uint) SendResult {
	if errno := mqTimedSend(q.fd, payload, priority, nil); errno != 0 {
		return convertSendError(errno)
	}
	return SendSuccess
}

// SendDeadline is Send with an absolute deadline. If the queue is still
// full at the deadline, SendDeadline returns SendTimedOut. A deadline
// already in the past fails immediately.
func (q *Queue) SendDeadline(payload []byte, deadline time.Time, priority uint) SendResult {
	if errno := mqTimedSend(q.fd, payload, priority, &deadline); errno != 0 {
		return convertSendError(errno)
	}
	return SendSuccess
}

// Receive dequeues the next available message into *output, growing or
// shrinking *output as needed. If priority is not nil, the priority of the
// received message is written through it. In blocking mode, Receive blocks
// until a message is available.
func (q *Queue) Receive(output *[]byte, priority *uint) ReceiveResult {
	return q.receive(output, nil, priority)
}

// ReceiveDeadline is Receive with an absolute deadline. If the queue is
// still empty at the deadline, ReceiveDeadline returns ReceiveTimedOut. A
// deadline already in the past fails immediately.
func (q *Queue) ReceiveDeadline(output *[]byte, deadline time.Time, priority *uint) ReceiveResult {
	return q.receive(output, &deadline, priority)
}

func (q *Queue) receive(output *[]byte, deadline *time.Time, priority *uint) ReceiveResult {
	// The kernel rejects receives whose buffer is smaller than the queue's
	// maximum message size, so size the buffer accordingly and shrink it to
	// the received length afterwards.
	buf := *output
	if int64(cap(buf)) < q.maxMessageSize {
		buf = make([]byte, q.maxMessageSize)
	} else {
		buf = buf[:q.maxMessageSize]
	}

	n, errno := mqTimedReceive(q.fd, buf, priority, deadline)
	if errno != 0 {
		return convertReceiveError(errno)
	}

	*output = buf[:n]
	return ReceiveSuccess
}

// Name returns the name of the currently opened queue, or an empty string
// if this handle is closed.
func (q *Queue) Name() string {
	return q.name
}

// IsOpen returns whether this handle currently represents an open message
// queue.
func (q *Queue) IsOpen() bool {
	return q.state != stateClosed
}

// MaxMessageSize returns the maximum allowed message size for this queue,
// as reported by the kernel when the queue was opened.
func (q *Queue) MaxMessageSize() int64 {
	return q.maxMessageSize
}

// NumCurrentMessages returns the number of messages currently enqueued in
// this queue. It returns zero if this handle is closed or if the query
// fails.
func (q *Queue) NumCurrentMessages() int64 {
	if q.state == stateClosed {
		return 0
	}
	attr, errno := mqGetAttr(q.fd)
	if errno != 0 {
		log.Warnw(
			"unable to query message queue attributes; reporting zero current messages",
			"queue", q.name,
			"errno", int(errno),
		)
		return 0
	}
	return attr.CurrentMessages
}

// Unlink marks for deletion the message queue with the given name. If
// successful, the system will delete the queue once all currently open
// handles to it are closed.
func Unlink(name string) UnlinkResult {
	errno := mqUnlink(name)
	if errno == 0 {
		return UnlinkSuccess
	}
	switch errno {
	case syscall.EACCES:
		return UnlinkPermissionDenied
	case syscall.EINTR:
		return UnlinkInterrupted
	case syscall.EINVAL:
		// Encountered on Linux when an empty name is specified.
		return UnlinkInvalidParameter
	case syscall.ENOENT:
		return UnlinkDoesNotExist
	case syscall.ENAMETOOLONG:
		return UnlinkNameTooLong
	default:
		logUnexpectedErrno("mq_unlink", errno)
		return UnlinkUnknown
	}
}

func convertSendError(errno syscall.Errno) SendResult {
	switch errno {
	case syscall.EAGAIN:
		return SendFull
	case syscall.EBADF:
		return SendWrongMode
	case syscall.EINTR:
		return SendInterrupted
	case syscall.EINVAL:
		return SendBadPriorityOrDeadline
	case syscall.EMSGSIZE:
		return SendMessageTooLarge
	case syscall.ETIMEDOUT:
		return SendTimedOut
	default:
		logUnexpectedErrno("mq_timedsend", errno)
		return SendUnknown
	}
}

func convertReceiveError(errno syscall.Errno) ReceiveResult {
	switch errno {
	case syscall.EAGAIN:
		return ReceiveEmpty
	case syscall.EBADF:
		return ReceiveWrongMode
	case syscall.EINTR:
		return ReceiveInterrupted
	case syscall.EINVAL:
		return ReceiveBadDeadline
	case syscall.ETIMEDOUT:
		return ReceiveTimedOut
	case syscall.EBADMSG:
		return ReceiveCorruptedMessage
	default:
		// EMSGSIZE lands here: the handle already knows the maximum
		// message size, so a buffer-too-small report is unexpected.
		logUnexpectedErrno("mq_timedreceive", errno)
		return ReceiveUnknown
	}
}

func convertGetSetAttrError(errno syscall.Errno) SetNonBlockingResult {
	switch errno {
	case syscall.EBADF:
		return SetNonBlockingBadDescriptor
	default:
		logUnexpectedErrno("mq_getsetattr", errno)
		return SetNonBlockingUnknown
	}
}

func logUnexpectedErrno(operation string, errno syscall.Errno) {
	log.Warnw(
		"unexpected error number from message queue syscall",
		"operation", operation,
		"errno", int(errno),
		"description", errno.Error(),
	)
}
