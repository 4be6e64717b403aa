// Package mqueue combines a posixmq queue handle with a message format
// into sender and receiver facades, and provides a background consumer
// that turns pull-style receives into a push-style callback pipeline.
//
// A Sender or Receiver either owns its queue handle (constructed from a
// queue name) or borrows one (constructed from an existing handle); the
// combined Queue type uses a single read-write handle to back both roles.
// Every operation puts the handle in the blocking mode appropriate for the
// call before touching the kernel, so facades never trip over the mode an
// earlier call left behind.
//
// Operations return integer codes in the unified error space shared by
// packages posixmq and mqformat; Description turns any of them into a
// human-readable string.
package mqueue
