package posixmq

import (
	"errors"
	"fmt"
	"sync"
	"syscall"

	retry "github.com/avast/retry-go"
	"github.com/gofrs/uuid"

	"github.com/dgoffredo/ipc/algoutil"
	"github.com/dgoffredo/ipc/errorsbp"
	"github.com/dgoffredo/ipc/log"
)

// Pessimistically small fallback values, used only when the kernel refuses
// to create even a default-configured queue.
const (
	fallbackMaxMessages    = 1
	fallbackMaxMessageSize = 1024
)

// Minimums the POSIX spec guarantees for path and name component lengths.
// Queue names generated by the probe are shrunk to fit them so that the
// probe works on any conforming host.
const (
	posixPathMax = 256
	posixNameMax = 14
)

const probeAttempts = 3

func randomQueueName() string {
	name := "/" + uuid.Must(uuid.NewV4()).String()

	limit := len(name)
	if posixPathMax-1 < limit {
		limit = posixPathMax - 1
	}
	if posixNameMax-1 < limit {
		limit = posixNameMax - 1
	}
	return name[:limit]
}

func closeAndUnlinkTemporaryQueue(fd int, name string) {
	var batch errorsbp.Batch
	if errno := mqClose(fd); errno != 0 {
		batch.Add(fmt.Errorf("close temporary queue: %w", errno))
	}
	if errno := mqUnlink(name); errno != 0 {
		batch.Add(fmt.Errorf("unlink temporary queue %q: %w", name, errno))
	}
	if err := batch.Compile(); err != nil {
		log.Warnw("unable to clean up temporary message queue", "err", err)
	}
}

// temporaryQueue creates and then destroys a message queue with a randomly
// generated name. If input is not nil, those attributes are specified when
// creating the queue. If output is not nil, the created queue's attributes
// are queried and stored into it before the queue is destroyed. A
// non-unique generated name is retried, up to probeAttempts times in total.
func temporaryQueue(input, output *queueAttributes) error {
	var fd int
	var name string
	err := retry.Do(
		func() error {
			name = randomQueueName()
			// The choice of "write only" is arbitrary. What matters is
			// "create only."
			flags := syscall.O_WRONLY | syscall.O_CREAT | syscall.O_EXCL
			opened, errno := mqOpen(name, flags, uint32(userReadWrite), input)
			if errno != 0 {
				return fmt.Errorf("create temporary queue %q: %w", name, errno)
			}
			fd = opened
			return nil
		},
		retry.Attempts(probeAttempts),
		retry.RetryIf(func(err error) bool {
			// Maybe the random name was not unique; only then is another
			// attempt worthwhile.
			return errors.Is(err, syscall.EEXIST)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		log.Debugw("unable to create a temporary message queue", "err", err)
		return err
	}

	defer closeAndUnlinkTemporaryQueue(fd, name)

	if output != nil {
		attr, errno := mqGetAttr(fd)
		if errno != 0 {
			log.Warnw(
				"unable to query attributes of temporary queue; fallback values will be used",
				"errno", int(errno),
			)
			return fmt.Errorf("query temporary queue attributes: %w", errno)
		}
		*output = attr
	}

	return nil
}

var (
	systemDefaultsOnce  sync.Once
	systemDefaultsValue queueAttributes

	maxMaxMessagesOnce  sync.Once
	maxMaxMessagesValue int64

	maxMaxMessageSizeOnce  sync.Once
	maxMaxMessageSizeValue int64
)

// systemDefaults returns the attributes of a message queue created without
// specifying any attributes. The measurement happens once per process; the
// first caller wins and everyone else observes the completed result.
func systemDefaults() queueAttributes {
	systemDefaultsOnce.Do(func() {
		systemDefaultsValue = queueAttributes{
			MaxMessages:    fallbackMaxMessages,
			MaxMessageSize: fallbackMaxMessageSize,
		}

		var measured queueAttributes
		if err := temporaryQueue(nil, &measured); err == nil {
			systemDefaultsValue = measured
		}

		log.Debugw(
			"system default message queue attributes calculated",
			"maxMessages", systemDefaultsValue.MaxMessages,
			"maxMessageSize", systemDefaultsValue.MaxMessageSize,
		)
	})
	return systemDefaultsValue
}

func canCreateQueueWith(maxMessages, maxMessageSize int64) bool {
	attr := queueAttributes{
		MaxMessages:    maxMessages,
		MaxMessageSize: maxMessageSize,
	}
	return temporaryQueue(&attr, nil) == nil
}

// DefaultMaxMessages returns the maximum number of messages that a
// default-created queue can hold before blocking senders. The value is
// calculated once at runtime and then cached.
func DefaultMaxMessages() int64 {
	return systemDefaults().MaxMessages
}

// DefaultMaxMessageSize returns the maximum message size for a
// default-created queue. The value is calculated once at runtime and then
// cached.
func DefaultMaxMessageSize() int64 {
	return systemDefaults().MaxMessageSize
}

// MaxMaxMessages returns the maximum number of messages that the system
// will allow to be specified when creating a message queue, assuming that
// the maximum message size is defaulted. The value is calculated once at
// runtime and then cached.
func MaxMaxMessages() int64 {
	maxMaxMessagesOnce.Do(func() {
		maxMaxMessagesValue = algoutil.FindMaxIf(
			DefaultMaxMessages(),
			func(candidate int64) bool {
				return canCreateQueueWith(candidate, DefaultMaxMessageSize())
			},
		)
		log.Debugw(
			"system maximum for queue max messages calculated",
			"maxMaxMessages", maxMaxMessagesValue,
		)
	})
	return maxMaxMessagesValue
}

// MaxMaxMessageSize returns the maximum message size that the system will
// allow to be specified when creating a message queue, assuming that the
// maximum number of messages is defaulted. The value is calculated once at
// runtime and then cached.
func MaxMaxMessageSize() int64 {
	maxMaxMessageSizeOnce.Do(func() {
		maxMaxMessageSizeValue = algoutil.FindMaxIf(
			DefaultMaxMessageSize(),
			func(candidate int64) bool {
				return canCreateQueueWith(DefaultMaxMessages(), candidate)
			},
		)
		log.Debugw(
			"system maximum for queue max message size calculated",
			"maxMaxMessageSize", maxMaxMessageSizeValue,
		)
	})
	return maxMaxMessageSizeValue
}
