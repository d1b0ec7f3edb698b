// Package bson provides a BSON body codec for veil boundaries.
package bson

import (
	"go.mongodb.org/mongo-driver/bson"
	"github.com/zoobzio/veil"
)

// ContentType is the MIME type handled by this codec.
const ContentType = "application/bson"

var _ veil.Codec = (*bsonCodec)(nil)

// bsonCodec implements veil.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() veil.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return ContentType
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}
