package posixmq

// Each operation on a Queue returns a dedicated result code from a specific
// category. Every category has a zero success value, and the last (greatest)
// value in every category is its unknown code. The non-success codes of all
// categories form one contiguous integer space, so that any of them can be
// passed to Description, and so that APIs that mix categories can return a
// plain int without losing meaning.

// OpenResult is the result of Queue.Open.
type OpenResult int

// Open error codes occupy [1, 9].
const (
	OpenSuccess OpenResult = iota
	OpenPermissionDenied
	OpenAlreadyExists
	OpenInterrupted
	OpenNameTooLong
	OpenInvalidParameter
	OpenLimitReached
	OpenDoesNotExist
	OpenNotEnoughSpace
	OpenUnknown
)

// UnlinkResult is the result of Unlink.
type UnlinkResult int

// Unlink error codes occupy [10, 15].
const (
	UnlinkSuccess          UnlinkResult = 0
	UnlinkPermissionDenied UnlinkResult = UnlinkResult(OpenUnknown) + iota
	UnlinkInterrupted
	UnlinkInvalidParameter
	UnlinkDoesNotExist
	UnlinkNameTooLong
	UnlinkUnknown
)

// SendResult is the result of Queue.Send and Queue.SendDeadline.
type SendResult int

// Send error codes occupy [16, 22].
const (
	SendSuccess SendResult = 0
	SendFull    SendResult = SendResult(UnlinkUnknown) + iota
	SendWrongMode
	SendInterrupted
	SendBadPriorityOrDeadline
	SendMessageTooLarge
	SendTimedOut
	SendUnknown
)

// ReceiveResult is the result of Queue.Receive and Queue.ReceiveDeadline.
type ReceiveResult int

// Receive error codes occupy [23, 29].
const (
	ReceiveSuccess ReceiveResult = 0
	ReceiveEmpty   ReceiveResult = ReceiveResult(SendUnknown) + iota
	ReceiveWrongMode
	ReceiveInterrupted
	ReceiveBadDeadline
	ReceiveTimedOut
	ReceiveCorruptedMessage
	ReceiveUnknown
)

// SetNonBlockingResult is the result of Queue.SetNonBlocking.
type SetNonBlockingResult int

// SetNonBlocking error codes occupy [30, 32].
const (
	SetNonBlockingSuccess SetNonBlockingResult = 0
	SetNonBlockingClosed  SetNonBlockingResult = SetNonBlockingResult(ReceiveUnknown) + iota
	SetNonBlockingBadDescriptor
	SetNonBlockingUnknown
)

// CloseResult is the result of Queue.Close.
type CloseResult int

// Close error codes occupy [33, 35].
const (
	CloseSuccess CloseResult = 0
	CloseClosed  CloseResult = CloseResult(SetNonBlockingUnknown) + iota
	CloseBadDescriptor
	CloseUnknown
)

// maxReturnCode is the greatest code known to this package. Codes above it
// belong to whoever called MakeError, typically the message codecs.
const maxReturnCode = int(CloseUnknown)

const (
	successMessage = "success"
	unknownMessage = "An error occurred that this library did not anticipate."
)

// The wording of most of the error descriptions below is derived from The
// Open Group Base Specifications Issue 7, IEEE Std 1003.1-2008, 2016
// Edition.
var errorDescriptions = [maxReturnCode + 1]string{
	int(OpenSuccess): successMessage,

	// Open
	int(OpenPermissionDenied): "The message queue exists and the permissions specified by oflag " +
		"are denied, or the message queue does not exist and permission to " +
		"create the message queue is denied.",
	int(OpenAlreadyExists): "O_CREAT and O_EXCL are set and the named message queue already " +
		"exists.",
	int(OpenInterrupted): "The mq_open() function was interrupted by a signal.",
	int(OpenNameTooLong): "The length of the name argument exceeds {PATH_MAX} or a pathname " +
		"component is longer than {NAME_MAX}.",
	int(OpenInvalidParameter): "Either the mq_open() function is not supported for the given name, " +
		"or O_CREAT was specified in oflag, the value of attr is not NULL, " +
		"and either mq_maxmsg or mq_msgsize was less than or equal to zero " +
		"or greater than allowed by the system.",
	int(OpenLimitReached): "Too many message queue descriptors or file descriptors are " +
		"currently in use by this process or by the system as a whole.",
	int(OpenDoesNotExist):   "O_CREAT is not set and the named message queue does not exist.",
	int(OpenNotEnoughSpace): "There is insufficient space for the creation of the new message queue.",
	int(OpenUnknown):        unknownMessage,

	// Unlink
	int(UnlinkPermissionDenied): "Permission is denied to unlink the named message queue.",
	int(UnlinkInterrupted): "The call to mq_unlink() blocked waiting for all references to the " +
		"named message queue to be closed and a signal interrupted the call.",
	int(UnlinkInvalidParameter): "The specified queue name is not a valid name.",
	int(UnlinkDoesNotExist):     "The named message queue does not exist.",
	int(UnlinkNameTooLong): "The length of the name argument exceeds {PATH_MAX} or a pathname " +
		"component is longer than {NAME_MAX}.",
	int(UnlinkUnknown): unknownMessage,

	// Send
	int(SendFull): "The O_NONBLOCK flag is set in the message queue description " +
		"associated with mqdes, and the specified message queue is full.",
	int(SendWrongMode): "The mqdes argument is not a valid message queue descriptor open " +
		"for writing.",
	int(SendInterrupted): "A signal interrupted the call to mq_send() or mq_timedsend().",
	int(SendBadPriorityOrDeadline): "The value of msg_prio was outside the valid range, or the process " +
		"or thread would have blocked, and the abstime parameter specified " +
		"a nanoseconds field value less than zero or greater than or equal " +
		"to 1000 million.",
	int(SendMessageTooLarge): "The specified message length, msg_len, exceeds the message size " +
		"attribute of the message queue.",
	int(SendTimedOut): "The O_NONBLOCK flag was not set when the message queue was opened, " +
		"but the timeout expired before the message could be added to the " +
		"queue.",
	int(SendUnknown): unknownMessage,

	// Receive
	int(ReceiveEmpty): "O_NONBLOCK was set in the message description associated with " +
		"mqdes, and the specified message queue is empty.",
	int(ReceiveWrongMode): "The mqdes argument is not a valid message queue descriptor open " +
		"for reading.",
	int(ReceiveInterrupted): "The mq_receive() or mq_timedreceive() operation was interrupted " +
		"by a signal.",
	int(ReceiveBadDeadline): "The process or thread would have blocked, and the abstime " +
		"parameter specified a nanoseconds field value less than zero or " +
		"greater than or equal to 1000 million.",
	int(ReceiveTimedOut): "The O_NONBLOCK flag was not set when the message queue was opened, " +
		"but no message arrived on the queue before the specified timeout " +
		"expired.",
	int(ReceiveCorruptedMessage): "The implementation has detected a data corruption problem with " +
		"the message.",
	int(ReceiveUnknown): unknownMessage,

	// SetNonBlocking
	int(SetNonBlockingClosed):        "This queue handle is closed, so there is nothing to set.",
	int(SetNonBlockingBadDescriptor): "The mqdes argument is not a valid message queue descriptor.",
	int(SetNonBlockingUnknown):       unknownMessage,

	// Close
	int(CloseClosed):        "This queue handle is already closed.",
	int(CloseBadDescriptor): "The mqdes argument is not a valid message queue descriptor.",
	int(CloseUnknown):       unknownMessage,
}

// Description returns a technical description of the error indicated by
// code. Codes beyond the ones defined by this package get a generic
// message; use DescriptionWith to supply your own handling for those.
func Description(code int) string {
	return DescriptionWith(code, func(int) string {
		return "The error code is not known to this package."
	})
}

// DescriptionWith is like Description, except that if code is larger than
// any code known to this package, it returns the result of invoking
// overflow with the amount by which code exceeds the greatest known code.
func DescriptionWith(code int, overflow func(int) string) string {
	if code >= 0 && code <= maxReturnCode {
		return errorDescriptions[code]
	}
	return overflow(code - (maxReturnCode + 1))
}

// MakeError returns code increased by an amount such that if the result
// were passed to DescriptionWith, the overflow callback would be invoked
// with the original value of code. The behavior is undefined unless code is
// non-negative.
func MakeError(code int) int {
	return (maxReturnCode + 1) + code
}

// Code returns r as a plain integer in the unified error space.
func (r OpenResult) Code() int { return int(r) }

// Code returns r as a plain integer in the unified error space.
func (r UnlinkResult) Code() int { return int(r) }

// Code returns r as a plain integer in the unified error space.
func (r SendResult) Code() int { return int(r) }

// Code returns r as a plain integer in the unified error space.
func (r ReceiveResult) Code() int { return int(r) }

// Code returns r as a plain integer in the unified error space.
func (r SetNonBlockingResult) Code() int { return int(r) }

// Code returns r as a plain integer in the unified error space.
func (r CloseResult) Code() int { return int(r) }

func (r OpenResult) String() string           { return Description(int(r)) }
func (r UnlinkResult) String() string         { return Description(int(r)) }
func (r SendResult) String() string           { return Description(int(r)) }
func (r ReceiveResult) String() string        { return Description(int(r)) }
func (r SetNonBlockingResult) String() string { return Description(int(r)) }
func (r CloseResult) String() string          { return Description(int(r)) }
