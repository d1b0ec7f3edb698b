package router

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/munnerz/goautoneg"
	"github.com/zoobzio/veil"
)

// Sentinel errors for request negotiation.
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrNotAcceptable        = errors.New("not acceptable")
	ErrInvalidRoute         = errors.New("invalid route")
	ErrBodyTooLarge         = errors.New("request body too large")
)

// Route describes one boundary endpoint.
type Route struct {
	Method  string
	Pattern string
	Name    string       // identifies the call in signals and logs
	Args    []Binder     // positional handler arguments
	Handler veil.Handler // receives decoded arguments
	Status  int          // success status; defaults to 200
}

// Server binds routes to a chi router behind a veil interceptor.
type Server struct {
	ic       *veil.Interceptor
	mux      chi.Router
	codecs   map[string]veil.Codec
	offers   []string
	fallback veil.Codec

	mu       sync.RWMutex
	statuses []statusMapping
}

type statusMapping struct {
	err    error
	status int
}

// New creates a server. The first codec is used when a request does not
// state a preference. At least one codec is required.
func New(ic *veil.Interceptor, codecs ...veil.Codec) *Server {
	if len(codecs) == 0 {
		panic("router: at least one codec is required")
	}
	s := &Server{
		ic:       ic,
		mux:      chi.NewRouter(),
		codecs:   make(map[string]veil.Codec, len(codecs)),
		fallback: codecs[0],
	}
	for _, c := range codecs {
		if _, ok := s.codecs[c.ContentType()]; ok {
			continue
		}
		s.codecs[c.ContentType()] = c
		s.offers = append(s.offers, c.ContentType())
	}
	return s
}

// Mux returns the underlying chi router for middleware and extra endpoints.
func (s *Server) Mux() chi.Router {
	return s.mux
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// MapError registers the status written when a handler error matches target
// via errors.Is. Client errors from the boundary always map to 400.
func (s *Server) MapError(target error, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, statusMapping{err: target, status: status})
}

// Handle validates and registers a route.
func (s *Server) Handle(rt Route) error {
	if rt.Method == "" || rt.Pattern == "" || rt.Name == "" || rt.Handler == nil {
		return fmt.Errorf("%w: method, pattern, name and handler are required", ErrInvalidRoute)
	}

	var params []veil.Parameter
	for i, b := range rt.Args {
		if b.bind == nil {
			return fmt.Errorf("%w: %s argument %d has no binder", ErrInvalidRoute, rt.Name, i)
		}
		if p, ok := b.parameter(i); ok {
			params = append(params, p)
		}
	}

	status := rt.Status
	if status == 0 {
		status = http.StatusOK
	}

	call := s.ic.Wrap(rt.Name, rt.Handler, params...)
	s.mux.MethodFunc(rt.Method, rt.Pattern, func(w http.ResponseWriter, r *http.Request) {
		s.serve(w, r, rt, call, status)
	})
	return nil
}

// MustHandle is like Handle but panics on error.
func (s *Server) MustHandle(rt Route) {
	if err := s.Handle(rt); err != nil {
		panic(err)
	}
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, rt Route, call veil.Handler, status int) {
	out, err := s.responseCodec(r)
	if err != nil {
		s.writeError(w, s.fallback, http.StatusNotAcceptable, err)
		return
	}

	ctx := r.Context()
	args := make([]any, len(rt.Args))
	for i, b := range rt.Args {
		in := s.fallback
		if b.prepared {
			in, err = s.requestCodec(r)
			if err != nil {
				s.writeError(w, out, http.StatusUnsupportedMediaType, err)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
			}
		}
		v, bindErr := b.bind(ctx, r, in, s.ic.Obfuscator())
		if bindErr != nil {
			s.fail(w, out, bindErr)
			return
		}
		args[i] = v
	}

	result, err := call(ctx, args)
	if err != nil {
		s.fail(w, out, err)
		return
	}

	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	data, err := out.Marshal(result)
	if err != nil {
		s.fail(w, out, &veil.CodecError{Err: veil.ErrMarshal, Cause: err})
		return
	}
	w.Header().Set("Content-Type", out.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// requestCodec selects the codec for the request body from Content-Type.
func (s *Server) requestCodec(r *http.Request) (veil.Codec, error) {
	header := r.Header.Get("Content-Type")
	if header == "" {
		return s.fallback, nil
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
	}
	c, ok := s.codecs[mt]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mt)
	}
	return c, nil
}

// responseCodec selects the codec for the response from Accept.
func (s *Server) responseCodec(r *http.Request) (veil.Codec, error) {
	header := strings.TrimSpace(r.Header.Get("Accept"))
	if header == "" {
		return s.fallback, nil
	}
	mt := goautoneg.Negotiate(header, s.offers)
	if mt == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotAcceptable, header)
	}
	return s.codecs[mt], nil
}

// StatusOf returns the HTTP status for err.
func (s *Server) StatusOf(err error) int {
	if errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if veil.IsClientError(err) {
		return http.StatusBadRequest
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.statuses {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, c veil.Codec, err error) {
	s.writeError(w, c, s.StatusOf(err), err)
}
