// Package yaml provides a YAML body codec for veil boundaries.
package yaml

import (
	"gopkg.in/yaml.v3"
	"github.com/zoobzio/veil"
)

// ContentType is the MIME type handled by this codec.
const ContentType = "application/yaml"

var _ veil.Codec = (*yamlCodec)(nil)

// yamlCodec implements veil.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() veil.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return ContentType
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
