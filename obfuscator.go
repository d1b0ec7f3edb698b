package veil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/speps/go-hashids/v2"
)

// Obfuscator converts integers to domain-prefixed tokens and back.
// It is immutable after construction and safe for concurrent use.
type Obfuscator struct {
	h   *hashids.HashID
	cfg Config
}

// NewObfuscator validates cfg and builds an obfuscator.
func NewObfuscator(cfg Config) (*Obfuscator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	data := hashids.NewData()
	data.Salt = cfg.Salt
	data.MinLength = cfg.MinLength
	data.Alphabet = cfg.alphabet()

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, &ConfigError{Err: ErrInvalidConfig, Reason: err.Error()}
	}

	return &Obfuscator{h: h, cfg: cfg}, nil
}

// MustObfuscator is like NewObfuscator but panics on error.
func MustObfuscator(cfg Config) *Obfuscator {
	o, err := NewObfuscator(cfg)
	if err != nil {
		panic(err)
	}
	return o
}

// Config returns the configuration the obfuscator was built with.
func (o *Obfuscator) Config() Config {
	return o.cfg
}

// Encode returns d.Prefix + "-" + the encoded body of n.
func (o *Obfuscator) Encode(n int64, d Domain) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: %d is negative", ErrInvalidValue, n)
	}
	body, err := o.h.EncodeInt64([]int64{n})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return d.Prefix + Separator + body, nil
}

// Decode strips the domain prefix from token and returns the identifier.
func (o *Obfuscator) Decode(token string, d Domain) (int64, error) {
	prefix := d.Prefix + Separator
	if !strings.HasPrefix(token, prefix) {
		return 0, fmt.Errorf("%w: expected prefix %q", ErrMalformedToken, prefix)
	}

	body := token[len(prefix):]
	if body == "" {
		return 0, fmt.Errorf("%w: empty body", ErrMalformedToken)
	}

	numbers, err := o.h.DecodeInt64WithError(body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if len(numbers) != 1 {
		return 0, fmt.Errorf("%w: body holds %d values", ErrMalformedToken, len(numbers))
	}

	// Reject bodies that decode but are not canonical for this salt.
	canonical, err := o.h.EncodeInt64(numbers)
	if err != nil || canonical != body {
		return 0, fmt.Errorf("%w: body does not match salt", ErrMalformedToken)
	}

	return numbers[0], nil
}

// Apply runs value through the codec in the direction its shape suggests:
// numeric text is encoded, anything else is decoded back to decimal text.
// Empty values are returned unchanged.
//
// A token whose body consists only of digits is indistinguishable from a raw
// identifier and is encoded, not decoded.
func (o *Obfuscator) Apply(value string, d Domain) (string, error) {
	if value == "" {
		return value, nil
	}

	if IsNumeric(value) {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) {
				err = numErr.Err
			}
			return "", fmt.Errorf("%w: %q: %v", ErrInvalidValue, value, err)
		}
		return o.Encode(n, d)
	}

	n, err := o.Decode(value, d)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

// IsNumeric reports whether s parses as a finite number.
func IsNumeric(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
