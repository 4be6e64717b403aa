// Package mqformat implements the message formats used on top of a raw
// POSIX message queue.
//
// The Raw format is the identity: what you send is what appears on the
// queue. The Extended format appends a one-byte trailer to every message;
// payloads that fit within the queue's message size limit travel in place,
// while oversized payloads are spilled to a temporary file and only the
// file's path travels on the queue. Receivers using the Extended format
// read and delete the temporary file transparently, so senders and
// receivers are freed from the queue's per-message size limit.
//
// Encoder and decoder failures are reported as integer codes layered above
// the codes of package posixmq, so the combined space decodes uniquely
// through Description.
package mqformat
