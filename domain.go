package veil

import "strings"

// Separator joins a domain prefix and an encoded body.
const Separator = "-"

// Domain namespaces identifiers so a token minted for one kind of entity
// cannot be replayed against another.
type Domain struct {
	Name   string
	Prefix string
}

// String returns the domain name as used in struct tags.
func (d Domain) String() string {
	return d.Name
}

// IsZero reports whether d is the zero Domain.
func (d Domain) IsZero() bool {
	return d.Name == "" && d.Prefix == ""
}

var (
	// Student identifies students.
	Student = Domain{Name: "student", Prefix: "STD"}

	// Teacher identifies teachers.
	Teacher = Domain{Name: "teacher", Prefix: "TCH"}

	// Staff identifies staff members.
	Staff = Domain{Name: "staff", Prefix: "STF"}
)

// knownDomains contains every valid domain keyed by name.
var knownDomains = map[string]Domain{
	Student.Name: Student,
	Teacher.Name: Teacher,
	Staff.Name:   Staff,
}

// Domains returns the closed set of domains.
func Domains() []Domain {
	return []Domain{Student, Teacher, Staff}
}

// IsValidDomain returns true if name resolves to a known domain.
func IsValidDomain(name string) bool {
	_, ok := knownDomains[strings.ToLower(name)]
	return ok
}

// ResolveDomain returns the domain registered under name.
// Names are matched case-insensitively.
func ResolveDomain(name string) (Domain, error) {
	d, ok := knownDomains[strings.ToLower(name)]
	if !ok {
		return Domain{}, &ConfigError{Err: ErrUnknownDomain, Domain: name}
	}
	return d, nil
}

// MustResolveDomain is like ResolveDomain but panics on unknown names.
// Use for static wiring at startup.
func MustResolveDomain(name string) Domain {
	d, err := ResolveDomain(name)
	if err != nil {
		panic(err)
	}
	return d
}
