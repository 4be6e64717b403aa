package mqformat

import (
	"github.com/dgoffredo/ipc/log"
)

// The trailer byte of every extended-format message.
const (
	trailerInPlace      = 0x00
	trailerExternalFile = 0x01
)

// EncodeRaw does nothing: the encoded message is the payload itself.
func EncodeRaw(maxMessageSize int64, payload []byte, buffer *[]byte) ([]byte, int) {
	return payload, 0
}

// DecodeRaw does nothing.
func DecodeRaw(payload *[]byte) int {
	return 0
}

// EncodeExtended encodes payload for a queue whose maximum message size is
// maxMessageSize. If the payload and its one-byte trailer fit within the
// limit, the encoded message is the payload followed by the "in place"
// trailer. Otherwise the payload is written to a temporary file and the
// encoded message is the file's absolute path followed by the "external
// file" trailer. Either way the encoded message is built in *buffer.
func EncodeExtended(maxMessageSize int64, payload []byte, buffer *[]byte) ([]byte, int) {
	buf := (*buffer)[:0]

	// In-place only when the trailer byte still fits under the limit.
	if int64(len(payload)) <= maxMessageSize-1 {
		// When payload already aliases buf this copies a region onto
		// itself, which is fine.
		buf = append(buf, payload...)
		buf = append(buf, trailerInPlace)
		*buffer = buf
		return buf, 0
	}

	path, err := writeSpillFile(payload)
	if err != nil {
		log.Errorw(
			"unable to spill oversized message to a temporary file",
			"payloadSize", len(payload),
			"err", err,
		)
		return nil, EncoderError
	}

	buf = append(buf, path...)
	buf = append(buf, trailerExternalFile)
	*buffer = buf
	return buf, 0
}

// DecodeExtended decodes, in place, a message that was encoded with
// EncodeExtended. If the message's trailer byte says "external file", the
// bytes preceding it are treated as the path of a temporary file whose
// contents are the payload; the file is read in full and then deleted
// (deletion failure is logged, not reported).
func DecodeExtended(payload *[]byte) int {
	message := *payload
	if len(message) == 0 {
		log.Errorw("the extended codec cannot decode an empty message")
		return DecoderError
	}

	switch trailer := message[len(message)-1]; trailer {
	case trailerInPlace:
		*payload = message[:len(message)-1]
		return 0
	case trailerExternalFile:
		path := string(message[:len(message)-1])
		contents, err := readAndRemoveSpillFile(path)
		if err != nil {
			log.Errorw(
				"unable to read spilled message from its temporary file",
				"path", path,
				"err", err,
			)
			return DecoderError
		}
		*payload = contents
		return 0
	default:
		log.Errorf(
			"the final byte of the message is %#02x, which is not one of the accepted values for the extended codec",
			trailer,
		)
		return DecoderError
	}
}
