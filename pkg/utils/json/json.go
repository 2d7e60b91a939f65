// Package json wraps bytedance/sonic with an encoding/json fallback.
// sonic is only used on amd64 and arm64.
package json

import (
	stdjson "encoding/json"
	"io"
	"runtime"

	"github.com/bytedance/sonic"
)

// Encoder is a JSON encoder.
type Encoder interface {
	Encode(v interface{}) error
}

// Decoder is a JSON decoder.
type Decoder interface {
	Decode(v interface{}) error
}

var (
	// Marshal encodes v into JSON bytes.
	Marshal func(v interface{}) ([]byte, error)

	// Unmarshal decodes JSON bytes into v.
	Unmarshal func(data []byte, v interface{}) error

	// NewEncoder creates a new JSON encoder for the writer.
	NewEncoder func(w io.Writer) Encoder

	// NewDecoder creates a new JSON decoder for the reader.
	NewDecoder func(r io.Reader) Decoder

	usingSonic bool
)

func init() {
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		useSonic(sonic.ConfigDefault)
		return
	}

	Marshal = stdjson.Marshal
	Unmarshal = stdjson.Unmarshal
	NewEncoder = func(w io.Writer) Encoder { return stdjson.NewEncoder(w) }
	NewDecoder = func(r io.Reader) Decoder { return stdjson.NewDecoder(r) }
}

func useSonic(api sonic.API) {
	Marshal = api.Marshal
	Unmarshal = api.Unmarshal
	NewEncoder = func(w io.Writer) Encoder { return api.NewEncoder(w) }
	NewDecoder = func(r io.Reader) Decoder { return api.NewDecoder(r) }
	usingSonic = true
}

// ConfigFastestMode switches sonic to its fastest configuration.
// No-op on the encoding/json fallback.
func ConfigFastestMode() {
	if usingSonic {
		useSonic(sonic.ConfigFastest)
	}
}

// ConfigStandardMode restores sonic's default configuration.
func ConfigStandardMode() {
	if usingSonic {
		useSonic(sonic.ConfigDefault)
	}
}

// IsUsingSonic reports whether sonic backs this package.
func IsUsingSonic() bool {
	return usingSonic
}
