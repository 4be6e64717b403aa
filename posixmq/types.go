package posixmq

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// userReadWrite is the permission bitmask used when a create mode is
// constructed without explicit permissions.
const userReadWrite os.FileMode = 0600

type openModeKind int

const (
	openModeInvalid openModeKind = iota
	openModeReadOnly
	openModeWriteOnly
	openModeReadWrite
)

// OpenMode selects whether a queue is opened for reading, writing, or both.
//
// The zero value is invalid; construct one with ReadOnly, WriteOnly, or
// ReadWrite. Opening with the zero value fails with OpenInvalidParameter.
type OpenMode struct {
	kind openModeKind
}

// ReadOnly returns the OpenMode that opens a queue for receiving only.
func ReadOnly() OpenMode { return OpenMode{kind: openModeReadOnly} }

// WriteOnly returns the OpenMode that opens a queue for sending only.
func WriteOnly() OpenMode { return OpenMode{kind: openModeWriteOnly} }

// ReadWrite returns the OpenMode that opens a queue for both sending and
// receiving.
func ReadWrite() OpenMode { return OpenMode{kind: openModeReadWrite} }

type createModeKind int

const (
	createModeInvalid createModeKind = iota
	createModeOpenOnly
	createModeCreateOnly
	createModeOpenOrCreate
)

// CreateMode selects whether Open may, must, or must not create the named
// queue.
//
// The zero value is invalid; construct one with OpenOnly, CreateOnly, or
// OpenOrCreate. Opening with the zero value fails with
// OpenInvalidParameter.
type CreateMode struct {
	kind        createModeKind
	permissions os.FileMode
}

// OpenOnly returns the CreateMode that requires the queue to already exist.
func OpenOnly() CreateMode { return CreateMode{kind: createModeOpenOnly} }

// CreateOnly returns the CreateMode that requires the queue to not already
// exist. The queue is created with the given permissions, or owner
// read/write if permissions is zero.
func CreateOnly(permissions os.FileMode) CreateMode {
	if permissions == 0 {
		permissions = userReadWrite
	}
	return CreateMode{kind: createModeCreateOnly, permissions: permissions}
}

// OpenOrCreate returns the CreateMode that opens the queue if it exists and
// otherwise creates it. A created queue gets the given permissions, or
// owner read/write if permissions is zero.
func OpenOrCreate(permissions os.FileMode) CreateMode {
	if permissions == 0 {
		permissions = userReadWrite
	}
	return CreateMode{kind: createModeOpenOrCreate, permissions: permissions}
}

type attributeKind int

const (
	attributeDefault attributeKind = iota
	attributeMax
	attributeExactly
)

// Attribute is one field of a queue's open-time configuration: either a
// concrete positive value, the system default, or the largest value this
// host admits (as measured by the capacity probe).
//
// The zero value is Default().
type Attribute struct {
	kind  attributeKind
	value int64
}

// Default returns the Attribute that uses the system's default value.
func Default() Attribute { return Attribute{kind: attributeDefault} }

// Max returns the Attribute that uses the largest value this host admits.
// Note that opening a queue with Max attributes might exhaust system
// resources.
func Max() Attribute { return Attribute{kind: attributeMax} }

// Exactly returns the Attribute with the concrete value n. The kernel
// rejects values that are not positive.
func Exactly(n int64) Attribute { return Attribute{kind: attributeExactly, value: n} }

func (a Attribute) String() string {
	switch a.kind {
	case attributeMax:
		return "max"
	case attributeExactly:
		return strconv.FormatInt(a.value, 10)
	default:
		return "default"
	}
}

// UnmarshalYAML implements yaml.Unmarshaler (gopkg.in/yaml.v2).
//
// Accepted values are "default" (or empty), "max", or a positive integer.
func (a *Attribute) UnmarshalYAML(unmarshal func(interface{}) error) error {
	// Integers first: a yaml number also decodes into a string, so the
	// other order would shadow the numeric case.
	var n int64
	if err := unmarshal(&n); err == nil {
		if n <= 0 {
			return fmt.Errorf("posixmq: attribute value must be positive, got %d", n)
		}
		*a = Exactly(n)
		return nil
	}

	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		*a = Default()
		return nil
	case "max":
		*a = Max()
		return nil
	default:
		return fmt.Errorf("posixmq: invalid attribute value %q", s)
	}
}

// resolve returns the concrete value this attribute denotes, consulting the
// capacity probe for the default and max variants.
func (a Attribute) resolve(defaultValue, maxValue func() int64) int64 {
	switch a.kind {
	case attributeExactly:
		return a.value
	case attributeMax:
		return maxValue()
	default:
		return defaultValue()
	}
}

func (a Attribute) isDefault() bool { return a.kind == attributeDefault }

// Attributes is the open-time configuration of a queue: how many messages
// it can hold, and how large each message may be.
//
// The zero value uses the system defaults for both fields. When opening an
// existing queue, attributes are advisory and do not alter the underlying
// queue.
type Attributes struct {
	MaxMessages    Attribute `yaml:"maxMessages"`
	MaxMessageSize Attribute `yaml:"maxMessageSize"`
}
