package veil

import (
	"fmt"
	"strconv"
)

// Parameter marks a handler argument position for decoding.
type Parameter struct {
	Position int
	Domain   Domain
}

// Param marks the argument at position as belonging to domain d.
func Param(position int, d Domain) Parameter {
	return Parameter{Position: position, Domain: d}
}

// Prepared marks the argument at position as already transformed, for
// example a body decoded by a Processor. It is neither decoded nor walked.
func Prepared(position int) Parameter {
	return Parameter{Position: position}
}

// ParamsFor builds a parameter list from domain names by position.
// An empty name leaves that position untransformed. Unknown names fail
// with ErrUnknownDomain so routes cannot be registered with a bad marker.
//
//	veil.ParamsFor("student", "", "teacher") // positions 0 and 2
func ParamsFor(names ...string) ([]Parameter, error) {
	params := make([]Parameter, 0, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		d, err := ResolveDomain(name)
		if err != nil {
			return nil, &ConfigError{Err: ErrUnknownDomain, Domain: name, Field: fmt.Sprintf("param %d", i)}
		}
		params = append(params, Param(i, d))
	}
	return params, nil
}

// MustParams is like ParamsFor but panics on unknown names.
func MustParams(names ...string) []Parameter {
	params, err := ParamsFor(names...)
	if err != nil {
		panic(err)
	}
	return params
}

// stringify renders an argument the way it arrives at the boundary.
func stringify(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case *string:
		if s == nil {
			return "", false
		}
		return *s, true
	case int64:
		return strconv.FormatInt(s, 10), true
	case int:
		return strconv.Itoa(s), true
	case fmt.Stringer:
		return s.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
