package veil

import (
	"context"
	"reflect"
	"time"
)

// Processor couples a body codec with the graph walk for one type.
// Use Receive for ingress (tokens in the body are decoded) and Send for
// egress (raw identifiers are encoded).
//
// Processors are immutable after construction and safe for concurrent use.
type Processor[T Cloner[T]] struct {
	codec    Codec
	walker   *Walker
	typeName string
}

// NewProcessor creates a Processor for type T. Struct types have their tags
// resolved immediately, so unknown domains fail here rather than per request.
func NewProcessor[T Cloner[T]](codec Codec, obf *Obfuscator) (*Processor[T], error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Struct {
		if err := Register[T](); err != nil {
			return nil, err
		}
	}

	p := &Processor[T]{
		codec:    codec,
		walker:   NewWalker(obf),
		typeName: rt.String(),
	}

	emitProcessorCreated(context.Background(), codec.ContentType(), p.typeName)
	return p, nil
}

// ContentType returns the content type of the processor's codec.
func (p *Processor[T]) ContentType() string {
	return p.codec.ContentType()
}

// Receive unmarshals data and decodes every token in marked fields.
// Both unmarshal and decode failures are reported as ErrUnmarshal so callers
// can treat them as bad input.
func (p *Processor[T]) Receive(ctx context.Context, data []byte) (*T, error) {
	start := time.Now()
	emitReceiveStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	var decoded int
	defer func() {
		emitReceiveComplete(ctx, p.codec.ContentType(), p.typeName,
			time.Since(start), decoded, retErr)
	}()

	var obj T
	if err := p.codec.Unmarshal(data, &obj); err != nil {
		retErr = newCodecError(ErrUnmarshal, err)
		return nil, retErr
	}

	_, n, err := p.walker.transform(ctx, &obj)
	decoded = n
	if err != nil {
		retErr = newCodecError(ErrUnmarshal, err)
		return nil, retErr
	}

	return &obj, nil
}

// Send encodes every raw identifier in marked fields of a clone of obj and
// marshals the result. obj itself is not modified.
func (p *Processor[T]) Send(ctx context.Context, obj *T) ([]byte, error) {
	start := time.Now()
	emitSendStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	var retData []byte
	var encoded int
	defer func() {
		emitSendComplete(ctx, p.codec.ContentType(), p.typeName,
			len(retData), time.Since(start), encoded, retErr)
	}()

	if obj == nil {
		retData, retErr = p.codec.Marshal(nil)
		if retErr != nil {
			retErr = newCodecError(ErrMarshal, retErr)
		}
		return retData, retErr
	}

	// Clone to avoid mutating original
	clone := (*obj).Clone()

	_, n, err := p.walker.transform(ctx, &clone)
	encoded = n
	if err != nil {
		retErr = err
		return nil, retErr
	}

	data, err := p.codec.Marshal(&clone)
	if err != nil {
		retErr = newCodecError(ErrMarshal, err)
		return nil, retErr
	}
	retData = data
	return retData, nil
}
