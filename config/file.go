package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/zoobzio/veil"
)

// File is the full deployment configuration.
type File struct {
	Hashids veil.Config `koanf:"hashids" yaml:"hashids"`
	Server  Server      `koanf:"server" yaml:"server"`
	Storage Storage     `koanf:"storage" yaml:"storage"`
	Log     Log         `koanf:"log" yaml:"log"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

// Storage configures the student store.
type Storage struct {
	Path     string `koanf:"path" yaml:"path"`
	InMemory bool   `koanf:"inmemory" yaml:"inmemory"`
}

// Log configures the server logger.
type Log struct {
	Level string `koanf:"level" yaml:"level"`
}

// Defaults returns the configuration used when no source sets a key.
func Defaults() File {
	return File{
		Hashids: veil.DefaultConfig(),
		Server:  Server{Addr: ":8080"},
		Storage: Storage{Path: "data", InMemory: false},
		Log:     Log{Level: "info"},
	}
}

// Validate checks every section.
func (f File) Validate() error {
	if err := f.Hashids.Validate(); err != nil {
		return fmt.Errorf("hashids: %w", err)
	}
	if f.Server.Addr == "" {
		return &veil.ConfigError{Err: veil.ErrInvalidConfig, Field: "server.addr", Reason: "must not be empty"}
	}
	if !f.Storage.InMemory && f.Storage.Path == "" {
		return &veil.ConfigError{Err: veil.ErrInvalidConfig, Field: "storage.path", Reason: "required unless storage.inmemory is set"}
	}
	if f.LogLevel() == hclog.NoLevel {
		return &veil.ConfigError{Err: veil.ErrInvalidConfig, Field: "log.level", Reason: fmt.Sprintf("unknown level %q", f.Log.Level)}
	}
	return nil
}

// LogLevel returns the configured hclog level.
func (f File) LogLevel() hclog.Level {
	return hclog.LevelFromString(strings.TrimSpace(f.Log.Level))
}

func (f File) toMap() map[string]any {
	return map[string]any{
		"hashids": map[string]any{
			"salt":          f.Hashids.Salt,
			"minhashlength": f.Hashids.MinLength,
			"alphabet":      f.Hashids.Alphabet,
		},
		"server": map[string]any{
			"addr": f.Server.Addr,
		},
		"storage": map[string]any{
			"path":     f.Storage.Path,
			"inmemory": f.Storage.InMemory,
		},
		"log": map[string]any{
			"level": f.Log.Level,
		},
	}
}
