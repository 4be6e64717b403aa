package mqformat

import (
	"fmt"
	"strings"

	"github.com/dgoffredo/ipc/posixmq"
)

// Format selects how payloads are represented on the queue.
type Format int

// The supported formats.
const (
	Raw Format = iota
	Extended
)

func (f Format) String() string {
	switch f {
	case Extended:
		return "extended"
	default:
		return "raw"
	}
}

// UnmarshalYAML implements yaml.Unmarshaler (gopkg.in/yaml.v2). Accepted
// values are "raw" and "extended"; an empty value means Raw.
func (f *Format) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw":
		*f = Raw
	case "extended":
		*f = Extended
	default:
		return fmt.Errorf("mqformat: invalid format %q", s)
	}
	return nil
}

// An Encoder turns a payload into the bytes to enqueue. The returned slice
// is the encoded message, which may be the payload itself or may alias
// *buffer; buffer is scratch space that the encoder may grow and that the
// caller may reuse across calls. A nonzero returned code indicates failure.
type Encoder func(maxMessageSize int64, payload []byte, buffer *[]byte) ([]byte, int)

// A Decoder turns the bytes received from a queue into the user payload, in
// place. A nonzero returned code indicates failure.
type Decoder func(payload *[]byte) int

// Encoder returns the encoding function for this format.
func (f Format) Encoder() Encoder {
	if f == Extended {
		return EncodeExtended
	}
	return EncodeRaw
}

// Decoder returns the decoding function for this format.
func (f Format) Decoder() Decoder {
	if f == Extended {
		return DecodeExtended
	}
	return DecodeRaw
}

// Codec error codes, layered above the posixmq categories.
var (
	// EncoderError is the code returned when encoding a message fails.
	EncoderError = posixmq.MakeError(0)

	// DecoderError is the code returned when decoding a message fails.
	DecoderError = posixmq.MakeError(1)
)

var codecErrorDescriptions = []string{
	"An error occurred while encoding the message.",
	"An error occurred while decoding the message.",
}

// Description returns a description of any error code produced by this
// package or by package posixmq.
func Description(code int) string {
	return posixmq.DescriptionWith(code, func(overflow int) string {
		if overflow >= 0 && overflow < len(codecErrorDescriptions) {
			return codecErrorDescriptions[overflow]
		}
		return "The error code is not known to this package."
	})
}
