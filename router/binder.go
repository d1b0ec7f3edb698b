package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/zoobzio/veil"
)

// maxBodySize caps request bodies read by Body binders. Larger bodies are
// rejected with ErrBodyTooLarge.
const maxBodySize = 1 << 20

// BindFunc extracts one argument from a request.
type BindFunc func(ctx context.Context, r *http.Request, codec veil.Codec, obf *veil.Obfuscator) (any, error)

// Binder produces a single handler argument.
type Binder struct {
	name     string
	domain   veil.Domain
	prepared bool
	bind     BindFunc
}

// Name returns the request element the binder reads.
func (b Binder) Name() string {
	return b.name
}

// Domain returns the domain applied to the bound value, if any.
func (b Binder) Domain() veil.Domain {
	return b.domain
}

// parameter returns the interceptor marker for position, if any.
func (b Binder) parameter(position int) (veil.Parameter, bool) {
	switch {
	case b.prepared:
		return veil.Prepared(position), true
	case !b.domain.IsZero():
		return veil.Param(position, b.domain), true
	}
	return veil.Parameter{}, false
}

// Path binds a chi URL parameter. With a domain the value is decoded.
func Path(name string, d ...veil.Domain) Binder {
	return Binder{
		name:   name,
		domain: firstDomain(d),
		bind: func(_ context.Context, r *http.Request, _ veil.Codec, _ *veil.Obfuscator) (any, error) {
			v := chi.URLParam(r, name)
			if v == "" {
				return nil, nil
			}
			return v, nil
		},
	}
}

// Query binds a query string parameter. With a domain the value is decoded.
// Absent parameters bind as nil.
func Query(name string, d ...veil.Domain) Binder {
	return Binder{
		name:   name,
		domain: firstDomain(d),
		bind: func(_ context.Context, r *http.Request, _ veil.Codec, _ *veil.Obfuscator) (any, error) {
			q := r.URL.Query()
			if !q.Has(name) {
				return nil, nil
			}
			return q.Get(name), nil
		},
	}
}

// Body binds the request body as *T, decoded by a cached veil.Processor for
// the request's codec.
func Body[T veil.Cloner[T]]() Binder {
	return Binder{
		name:     "body",
		prepared: true,
		bind: func(ctx context.Context, r *http.Request, codec veil.Codec, obf *veil.Obfuscator) (any, error) {
			proc, err := veil.Use[T](codec, obf)
			if err != nil {
				return nil, err
			}
			data, err := io.ReadAll(r.Body)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
				}
				return nil, &veil.CodecError{Err: veil.ErrUnmarshal, Cause: err}
			}
			return proc.Receive(ctx, data)
		},
	}
}

// Custom binds with an arbitrary function. The result is walked by the
// interceptor like any other unmarked argument.
func Custom(name string, fn BindFunc) Binder {
	return Binder{name: name, bind: fn}
}

func firstDomain(d []veil.Domain) veil.Domain {
	if len(d) == 0 {
		return veil.Domain{}
	}
	return d[0]
}
