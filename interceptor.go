package veil

import (
	"context"
	"errors"
	"reflect"
	"time"
)

// Handler is a boundary call: positional arguments in, a result out.
type Handler func(ctx context.Context, args []any) (any, error)

// Interceptor decodes marked arguments before a handler runs and encodes
// marked fields of its result afterwards. It holds no per-call state and is
// safe for concurrent use.
type Interceptor struct {
	obf    *Obfuscator
	walker *Walker
}

// NewInterceptor creates an interceptor backed by obf.
func NewInterceptor(obf *Obfuscator) *Interceptor {
	ic := &Interceptor{
		obf:    obf,
		walker: NewWalker(obf),
	}
	emitInterceptorCreated(context.Background(), len(Domains()))
	return ic
}

// Obfuscator returns the obfuscator used by the interceptor.
func (ic *Interceptor) Obfuscator() *Obfuscator {
	return ic.obf
}

// Walker returns the walker used by the interceptor.
func (ic *Interceptor) Walker() *Walker {
	return ic.walker
}

// Wrap returns h decorated with the boundary transform. name identifies the
// call in signals. params lists the argument positions to decode; handlers
// without markers still have composite arguments and results walked.
//
// Handler errors are returned unchanged. Argument failures are ParamErrors
// (client errors) and result failures are TransformErrors (internal errors).
func (ic *Interceptor) Wrap(name string, h Handler, params ...Parameter) Handler {
	return func(ctx context.Context, args []any) (result any, retErr error) {
		start := time.Now()
		emitCallStart(ctx, name)

		var decoded, encoded int
		defer func() {
			emitCallComplete(ctx, name, time.Since(start), decoded, encoded, retErr)
		}()

		prepared, n, err := ic.before(ctx, name, args, params)
		decoded = n
		if err != nil {
			return nil, err
		}

		result, err = h(ctx, prepared)
		if err != nil {
			return result, err
		}
		if result == nil {
			return nil, nil
		}

		out, n, err := ic.walker.transform(ctx, result)
		encoded = n
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

// before prepares a private copy of args for the handler.
func (ic *Interceptor) before(ctx context.Context, name string, args []any, params []Parameter) ([]any, int, error) {
	prepared := make([]any, len(args))
	copy(prepared, args)

	marked := make(map[int]bool, len(params))
	applied := 0

	for _, p := range params {
		marked[p.Position] = true
		if p.Domain.IsZero() {
			continue
		}

		if p.Position < 0 || p.Position >= len(prepared) {
			return nil, applied, newParamError(ErrMissingParam, p.Position, p.Domain, nil)
		}
		raw, ok := stringify(prepared[p.Position])
		if !ok {
			return nil, applied, newParamError(ErrMissingParam, p.Position, p.Domain, nil)
		}

		value, err := ic.obf.Apply(raw, p.Domain)
		if err != nil {
			return nil, applied, newParamError(ErrInvalidParam, p.Position, p.Domain, err)
		}
		prepared[p.Position] = value
		applied++
		emitParamApplied(ctx, name, p.Position, p.Domain.Name)
	}

	for i, arg := range prepared {
		if marked[i] || !walkable(arg) {
			continue
		}
		out, n, err := ic.walker.transform(ctx, arg)
		applied += n
		if err != nil {
			var ce *ConfigError
			if errors.As(err, &ce) {
				return nil, applied, err
			}
			var d Domain
			var te *TransformError
			if errors.As(err, &te) {
				d, _ = ResolveDomain(te.Domain)
			}
			return nil, applied, newParamError(ErrInvalidParam, i, d, err)
		}
		prepared[i] = out
	}

	return prepared, applied, nil
}

// walkable reports whether an argument can hold marked fields.
func walkable(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Pointer, reflect.Struct, reflect.Slice, reflect.Array, reflect.Map, reflect.Interface:
		return true
	}
	return false
}
