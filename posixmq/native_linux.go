//go:build linux

package posixmq

import (
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// C version:
//
//	struct mq_attr {
//	    long mq_flags;       /* Flags (ignored for mq_open()) */
//	    long mq_maxmsg;      /* Max. # of messages on queue */
//	    long mq_msgsize;     /* Max. message size (bytes) */
//	    long mq_curmsgs;     /* # of messages currently in queue
//	                            (ignored for mq_open()) */
//	    long __reserved[4];
//	};
//
// Note that this only works on 64-bit systems.
type mqAttr struct {
	Flags           int64
	MaxMessages     int64
	MaxMessageSize  int64
	CurrentMessages int64
	_               [4]int64
}

// The kernel requires a non-nil message pointer even for zero-length
// payloads and buffers.
var emptyPayload byte

// Callers use the same "/somename" format as the C library wrappers; the
// name format validation that glibc would normally do happens here instead.
// As glibc does, the leading slash is stripped before the name is passed to
// the kernel, which rejects names containing a slash with EACCES.
func kernelQueueName(name string) (*byte, syscall.Errno) {
	if len(name) < 2 || name[0] != '/' {
		return nil, syscall.EINVAL
	}
	nameBytes, err := unix.BytePtrFromString(name[1:])
	if err != nil {
		// The name contains a NUL byte; the kernel would say EINVAL too.
		return nil, syscall.EINVAL
	}
	return nameBytes, 0
}

func mqOpen(name string, flags int, mode uint32, attr *queueAttributes) (int, syscall.Errno) {
	nameBytes, errno := kernelQueueName(name)
	if errno != 0 {
		return -1, errno
	}

	var attrPtr unsafe.Pointer
	var kernelAttr mqAttr
	if attr != nil {
		kernelAttr = mqAttr{
			MaxMessages:    attr.MaxMessages,
			MaxMessageSize: attr.MaxMessageSize,
		}
		attrPtr = unsafe.Pointer(&kernelAttr)
	}

	// From MQ_OPEN(3):
	// mqd_t mq_open(const char *name, int oflag, mode_t mode, struct mq_attr *attr);
	fd, _, errno := unix.Syscall6(
		unix.SYS_MQ_OPEN,
		uintptr(unsafe.Pointer(nameBytes)), // name
		uintptr(flags),                     // oflag
		uintptr(mode),                      // mode
		uintptr(attrPtr),                   // attr
		0,                                  // unused
		0,                                  // unused
	)
	if errno != 0 {
		return -1, errno
	}
	return int(fd), 0
}

func mqClose(fd int) syscall.Errno {
	err := unix.Close(fd)
	if err == nil {
		return 0
	}
	if errno, ok := err.(syscall.Errno); ok {
		return errno
	}
	return syscall.EIO
}

func mqUnlink(name string) syscall.Errno {
	nameBytes, errno := kernelQueueName(name)
	if errno != 0 {
		return errno
	}

	// From MQ_UNLINK(3):
	// int mq_unlink(const char *name);
	_, _, errno = unix.Syscall(
		unix.SYS_MQ_UNLINK,
		uintptr(unsafe.Pointer(nameBytes)), // name
		0,                                  // unused
		0,                                  // unused
	)
	return errno
}

func mqTimedSend(fd int, payload []byte, priority uint, deadline *time.Time) syscall.Errno {
	var timeoutPtr unsafe.Pointer
	var timeout unix.Timespec
	if deadline != nil {
		ts, err := unix.TimeToTimespec(*deadline)
		if err != nil {
			return syscall.EINVAL
		}
		timeout = ts
		timeoutPtr = unsafe.Pointer(&timeout)
	}

	payloadPtr := unsafe.Pointer(&emptyPayload)
	if len(payload) > 0 {
		payloadPtr = unsafe.Pointer(&payload[0])
	}

	// From MQ_SEND(3):
	// int mq_timedsend(mqd_t mqdes, const char *msg_ptr, size_t msg_len,
	//                  unsigned int msg_prio, const struct timespec *abs_timeout);
	// A null abs_timeout blocks indefinitely.
	_, _, errno := unix.Syscall6(
		unix.SYS_MQ_TIMEDSEND,
		uintptr(fd),           // mqdes
		uintptr(payloadPtr),   // msg_ptr
		uintptr(len(payload)), // msg_len
		uintptr(priority),     // msg_prio
		uintptr(timeoutPtr),   // abs_timeout
		0,                     // unused
	)
	return errno
}

func mqTimedReceive(fd int, buf []byte, priority *uint, deadline *time.Time) (int, syscall.Errno) {
	var timeoutPtr unsafe.Pointer
	var timeout unix.Timespec
	if deadline != nil {
		ts, err := unix.TimeToTimespec(*deadline)
		if err != nil {
			return 0, syscall.EINVAL
		}
		timeout = ts
		timeoutPtr = unsafe.Pointer(&timeout)
	}

	var priority32 uint32
	var priorityPtr unsafe.Pointer
	if priority != nil {
		priorityPtr = unsafe.Pointer(&priority32)
	}

	bufPtr := unsafe.Pointer(&emptyPayload)
	if len(buf) > 0 {
		bufPtr = unsafe.Pointer(&buf[0])
	}

	// From MQ_RECEIVE(3):
	// ssize_t mq_timedreceive(mqd_t mqdes, char *msg_ptr, size_t msg_len,
	//                         unsigned int *msg_prio, const struct timespec *abs_timeout);
	// A null abs_timeout blocks indefinitely.
	n, _, errno := unix.Syscall6(
		unix.SYS_MQ_TIMEDRECEIVE,
		uintptr(fd),          // mqdes
		uintptr(bufPtr),      // msg_ptr
		uintptr(len(buf)),    // msg_len
		uintptr(priorityPtr), // msg_prio
		uintptr(timeoutPtr),  // abs_timeout
		0,                    // unused
	)
	if errno != 0 {
		return 0, errno
	}
	if priority != nil {
		*priority = uint(priority32)
	}
	return int(n), 0
}

func mqGetAttr(fd int) (queueAttributes, syscall.Errno) {
	var kernelAttr mqAttr

	// From MQ_GETATTR(3), which on Linux is the mq_getsetattr syscall:
	// int mq_getsetattr(mqd_t mqdes, const struct mq_attr *newattr,
	//                   struct mq_attr *oldattr);
	_, _, errno := unix.Syscall(
		unix.SYS_MQ_GETSETATTR,
		uintptr(fd), // mqdes
		0,           // newattr
		uintptr(unsafe.Pointer(&kernelAttr)), // oldattr
	)
	if errno != 0 {
		return queueAttributes{}, errno
	}
	return queueAttributes{
		Flags:           kernelAttr.Flags,
		MaxMessages:     kernelAttr.MaxMessages,
		MaxMessageSize:  kernelAttr.MaxMessageSize,
		CurrentMessages: kernelAttr.CurrentMessages,
	}, 0
}

func mqSetAttr(fd int, attr queueAttributes) syscall.Errno {
	kernelAttr := mqAttr{
		Flags:           attr.Flags,
		MaxMessages:     attr.MaxMessages,
		MaxMessageSize:  attr.MaxMessageSize,
		CurrentMessages: attr.CurrentMessages,
	}

	_, _, errno := unix.Syscall(
		unix.SYS_MQ_GETSETATTR,
		uintptr(fd), // mqdes
		uintptr(unsafe.Pointer(&kernelAttr)), // newattr
		0, // oldattr
	)
	return errno
}
