// Package json provides a JSON body codec for veil boundaries.
package json

import (
	"encoding/json"

	"github.com/zoobzio/veil"
)

// ContentType is the MIME type handled by this codec.
const ContentType = "application/json"

var _ veil.Codec = (*jsonCodec)(nil)

// jsonCodec implements veil.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec.
func New() veil.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return ContentType
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
