// Package posixmq is a pure go wrapper around POSIX message queues for
// Linux, using syscalls.
//
// A Queue is a stateful handle over a native message queue descriptor. Every
// operation returns a result code from a per-operation enumeration rather
// than a Go error; the zero value of every enumeration means success, and
// all codes live in one flat integer space so that Description can turn any
// of them into a human-readable string. See the package-level result types
// (OpenResult, SendResult, ...) for the full taxonomy.
//
// The per-queue limits a host will accept (maximum message count, maximum
// message size) are not reliably introspectable, so this package measures
// them at runtime by creating throwaway queues; see MaxMaxMessages and
// MaxMaxMessageSize. The measured values are cached for the life of the
// process.
//
// A Queue is not safe for concurrent mutation: two goroutines must not call
// Open, Close, Send, Receive, or SetNonBlocking on the same Queue without
// external synchronization.
//
// On non-Linux platforms every native operation fails, surfacing as the
// operation's unknown result code.
package posixmq
