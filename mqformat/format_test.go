package mqformat

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/dgoffredo/ipc/posixmq"
)

func TestFormatUnmarshalYAML(t *testing.T) {
	cases := []struct {
		yaml     string
		expected Format
		wantErr  bool
	}{
		{`"raw"`, Raw, false},
		{`"extended"`, Extended, false},
		{`"EXTENDED"`, Extended, false},
		{`""`, Raw, false},
		{`"telegraph"`, Raw, true},
	}
	for _, c := range cases {
		var format Format
		err := yaml.Unmarshal([]byte(c.yaml), &format)
		if c.wantErr {
			if err == nil {
				t.Errorf("unmarshal %s: expected an error", c.yaml)
			}
			continue
		}
		if err != nil {
			t.Errorf("unmarshal %s: %v", c.yaml, err)
			continue
		}
		if format != c.expected {
			t.Errorf("unmarshal %s = %v, want %v", c.yaml, format, c.expected)
		}
	}
}

func TestFormatString(t *testing.T) {
	if got := Raw.String(); got != "raw" {
		t.Errorf("Raw.String() = %q", got)
	}
	if got := Extended.String(); got != "extended" {
		t.Errorf("Extended.String() = %q", got)
	}
}

func TestCodecErrorCodesAreAboveQueueCodes(t *testing.T) {
	if EncoderError != posixmq.MakeError(0) {
		t.Errorf("EncoderError = %d, want %d", EncoderError, posixmq.MakeError(0))
	}
	if DecoderError != EncoderError+1 {
		t.Errorf("DecoderError = %d, want %d", DecoderError, EncoderError+1)
	}
}

func TestDescription(t *testing.T) {
	if got := Description(EncoderError); !strings.Contains(got, "encoding") {
		t.Errorf("Description(EncoderError) = %q", got)
	}
	if got := Description(DecoderError); !strings.Contains(got, "decoding") {
		t.Errorf("Description(DecoderError) = %q", got)
	}
	// Queue codes pass through to the posixmq descriptions.
	if got := Description(0); got != "success" {
		t.Errorf("Description(0) = %q", got)
	}
	code := posixmq.ReceiveTimedOut.Code()
	if got := Description(code); got != posixmq.Description(code) {
		t.Errorf("Description(%d) = %q, want the posixmq description", code, got)
	}
}
