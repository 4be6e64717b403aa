package mqueue

import (
	"io"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/dgoffredo/ipc/mqformat"
	"github.com/dgoffredo/ipc/posixmq"
)

// Config configures a Sender, Receiver, Queue, or Consumer.
//
// Can be deserialized from YAML.
//
// Example:
//
//	name: /orders
//	format: extended
//	attributes:
//	  maxMessages: 8
//	  maxMessageSize: max
//	permissions: 0600
type Config struct {
	// Required. Name of the message queue. On POSIX systems it begins
	// with a forward slash and contains no other slashes.
	Name string `yaml:"name"`

	// Optional. The message format to use. Defaults to raw.
	Format mqformat.Format `yaml:"format"`

	// Optional. The attributes used if the queue has to be created. Each
	// field accepts a positive integer, "default", or "max".
	Attributes posixmq.Attributes `yaml:"attributes"`

	// Optional. The file permissions used if the queue has to be created.
	// Defaults to owner read/write.
	Permissions os.FileMode `yaml:"permissions"`
}

// ParseConfigYAML parses a Config from YAML read from reader. Unknown
// fields are an error.
func ParseConfigYAML(reader io.Reader) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(reader)
	decoder.SetStrict(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, err
	}
	return cfg, nil
}

// Description returns a description of any error code returned by the
// operations in this package.
func Description(code int) string {
	return mqformat.Description(code)
}
