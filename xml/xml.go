// Package xml provides a XML body codec for veil boundaries.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/veil"
)

// ContentType is the MIME type handled by this codec.
const ContentType = "application/xml"

var _ veil.Codec = (*xmlCodec)(nil)

// xmlCodec implements veil.Codec for XML.
type xmlCodec struct{}

// New returns a XML codec.
func New() veil.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return ContentType
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	return xml.Marshal(v)
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
