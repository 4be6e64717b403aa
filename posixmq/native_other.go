//go:build !linux

package posixmq

import (
	"syscall"
	"time"
)

// POSIX message queues are only wired up on Linux. On other platforms every
// native operation fails with ENOSYS, which surfaces as the operation's
// unknown result code (and, for the capacity probe, as the fallback
// limits).

func mqOpen(name string, flags int, mode uint32, attr *queueAttributes) (int, syscall.Errno) {
	return -1, syscall.ENOSYS
}

func mqClose(fd int) syscall.Errno {
	return syscall.ENOSYS
}

func mqUnlink(name string) syscall.Errno {
	return syscall.ENOSYS
}

func mqTimedSend(fd int, payload []byte, priority uint, deadline *time.Time) syscall.Errno {
	return syscall.ENOSYS
}

func mqTimedReceive(fd int, buf []byte, priority *uint, deadline *time.Time) (int, syscall.Errno) {
	return 0, syscall.ENOSYS
}

func mqGetAttr(fd int) (queueAttributes, syscall.Errno) {
	return queueAttributes{}, syscall.ENOSYS
}

func mqSetAttr(fd int, attr queueAttributes) syscall.Errno {
	return syscall.ENOSYS
}
