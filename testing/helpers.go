// Package testing provides test utilities for veil.
package testing

import (
	"testing"

	"github.com/zoobzio/veil"
)

// TestSalt is the salt used by TestConfig.
const TestSalt = "veil-test-salt"

// TestConfig returns a deterministic configuration for tests.
func TestConfig() veil.Config {
	return veil.Config{
		Salt:      TestSalt,
		MinLength: 8,
		Alphabet:  veil.DefaultAlphabet,
	}
}

// TestObfuscator returns an obfuscator built from TestConfig.
func TestObfuscator(tb testing.TB) *veil.Obfuscator {
	tb.Helper()
	obf, err := veil.NewObfuscator(TestConfig())
	if err != nil {
		tb.Fatalf("NewObfuscator() error: %v", err)
	}
	return obf
}

// Token encodes n in domain d, failing the test on error.
func Token(tb testing.TB, obf *veil.Obfuscator, n int64, d veil.Domain) string {
	tb.Helper()
	token, err := obf.Encode(n, d)
	if err != nil {
		tb.Fatalf("Encode(%d, %s) error: %v", n, d, err)
	}
	return token
}

// PlainRecord is a test type with no marked fields.
type PlainRecord struct {
	ID   string `json:"id" yaml:"id" msgpack:"id" bson:"id" xml:"id"`
	Name string `json:"name" yaml:"name" msgpack:"name" bson:"name" xml:"name"`
}

// Clone implements veil.Cloner[PlainRecord].
func (r PlainRecord) Clone() PlainRecord { return r }

// Advisor is a nested composite with a marked identifier.
type Advisor struct {
	ID   string `json:"id" yaml:"id" msgpack:"id" bson:"id" xml:"id" hashid:"teacher"`
	Name string `json:"name" yaml:"name" msgpack:"name" bson:"name" xml:"name"`
}

// VeilComposite implements veil.Composite.
func (Advisor) VeilComposite() {}

// StudentRecord exercises a marked field, an optional marked field, a nested
// composite and a slice of composites.
type StudentRecord struct {
	ID        string    `json:"id" yaml:"id" msgpack:"id" bson:"id" xml:"id" hashid:"student"`
	Name      string    `json:"name" yaml:"name" msgpack:"name" bson:"name" xml:"name"`
	MentorID  *string   `json:"mentorId,omitempty" yaml:"mentorId,omitempty" msgpack:"mentorId,omitempty" bson:"mentorId,omitempty" xml:"mentorId,omitempty" hashid:"staff"`
	Advisor   *Advisor  `json:"advisor,omitempty" yaml:"advisor,omitempty" msgpack:"advisor,omitempty" bson:"advisor,omitempty" xml:"advisor,omitempty"`
	Teachers  []Advisor `json:"teachers" yaml:"teachers" msgpack:"teachers" bson:"teachers" xml:"teachers>teacher"`
	Reference string    `json:"reference" yaml:"reference" msgpack:"reference" bson:"reference" xml:"reference"`
}

// VeilComposite implements veil.Composite.
func (StudentRecord) VeilComposite() {}

// Clone implements veil.Cloner[StudentRecord].
func (r StudentRecord) Clone() StudentRecord {
	out := r
	if r.MentorID != nil {
		id := *r.MentorID
		out.MentorID = &id
	}
	if r.Advisor != nil {
		a := *r.Advisor
		out.Advisor = &a
	}
	if r.Teachers != nil {
		out.Teachers = make([]Advisor, len(r.Teachers))
		copy(out.Teachers, r.Teachers)
	}
	return out
}

// NewStudentRecord returns a fully populated record holding raw identifiers.
func NewStudentRecord() StudentRecord {
	mentor := "9"
	return StudentRecord{
		ID:        "42",
		Name:      "Ada",
		MentorID:  &mentor,
		Advisor:   &Advisor{ID: "7", Name: "Grace"},
		Teachers:  []Advisor{{ID: "3", Name: "Alan"}, {ID: "4", Name: "Barbara"}},
		Reference: "1234",
	}
}
