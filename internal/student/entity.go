// Package student is the students API: badger-backed storage with integer
// keys behind a boundary that only ever shows tokens.
package student

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by the service.
var (
	ErrNotFound = errors.New("no student found with provided id")
	ErrInvalid  = errors.New("invalid student")
)

// Entity is a stored student. Identifiers are raw integers.
type Entity struct {
	ID        int64  `msgpack:"id"`
	FirstName string `msgpack:"first_name"`
	LastName  string `msgpack:"last_name"`
	Email     string `msgpack:"email"`
	AdvisorID int64  `msgpack:"advisor_id,omitempty"`
}

// Validate checks the fields a client must supply.
func (e Entity) Validate() error {
	if strings.TrimSpace(e.FirstName) == "" || strings.TrimSpace(e.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalid)
	}
	if e.Email != "" && !strings.Contains(e.Email, "@") {
		return fmt.Errorf("%w: email is malformed", ErrInvalid)
	}
	if e.AdvisorID < 0 {
		return fmt.Errorf("%w: advisor id is negative", ErrInvalid)
	}
	return nil
}
