package veil

import (
	"fmt"
	"strings"
)

// DefaultAlphabet is the Hashids default alphabet.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

// MinAlphabetLength is the shortest alphabet Hashids accepts.
const MinAlphabetLength = 16

// Config holds the codec settings shared by every domain.
// The prefix, not the salt, separates domains.
type Config struct {
	// Salt makes the encoding unique to this deployment.
	Salt string `koanf:"salt" yaml:"salt" json:"salt"`

	// MinLength pads encoded bodies to at least this many characters.
	MinLength int `koanf:"minhashlength" yaml:"minhashlength" json:"minhashlength"`

	// Alphabet is the set of characters bodies are drawn from.
	// Empty means DefaultAlphabet.
	Alphabet string `koanf:"alphabet" yaml:"alphabet" json:"alphabet"`
}

// DefaultConfig returns a config with the default alphabet, no salt and no
// minimum length. Production deployments must set a salt.
func DefaultConfig() Config {
	return Config{
		Alphabet: DefaultAlphabet,
	}
}

// Validate checks that the configuration can build an obfuscator.
func (c Config) Validate() error {
	if c.MinLength < 0 {
		return &ConfigError{Err: ErrInvalidConfig, Field: "minhashlength", Reason: "must not be negative"}
	}

	alphabet := c.alphabet()
	if len(alphabet) < MinAlphabetLength {
		return &ConfigError{
			Err:    ErrInvalidConfig,
			Field:  "alphabet",
			Reason: fmt.Sprintf("must contain at least %d characters, got %d", MinAlphabetLength, len(alphabet)),
		}
	}
	if strings.ContainsAny(alphabet, " \t\n") {
		return &ConfigError{Err: ErrInvalidConfig, Field: "alphabet", Reason: "must not contain whitespace"}
	}

	seen := make(map[rune]bool, len(alphabet))
	for _, r := range alphabet {
		if seen[r] {
			return &ConfigError{Err: ErrInvalidConfig, Field: "alphabet", Reason: fmt.Sprintf("duplicate character %q", r)}
		}
		seen[r] = true
	}

	return nil
}

func (c Config) alphabet() string {
	if c.Alphabet == "" {
		return DefaultAlphabet
	}
	return c.Alphabet
}
