package veil_test

import (
	"testing"

	"github.com/zoobzio/veil"
	"github.com/zoobzio/veil/json"
	veiltest "github.com/zoobzio/veil/testing"
	"github.com/zoobzio/veil/yaml"
)

func TestUse_Caching(t *testing.T) {
	veil.Reset()
	obf := veiltest.TestObfuscator(t)

	p1, err := veil.Use[veiltest.StudentRecord](json.New(), obf)
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}
	p2, err := veil.Use[veiltest.StudentRecord](json.New(), obf)
	if err != nil {
		t.Fatalf("Use() error: %v", err)
	}
	if p1 != p2 {
		t.Error("Use() should return cached processor")
	}
}

func TestUse_DistinctKeys(t *testing.T) {
	veil.Reset()
	obf := veiltest.TestObfuscator(t)

	base, _ := veil.Use[veiltest.StudentRecord](json.New(), obf)

	otherCodec, _ := veil.Use[veiltest.StudentRecord](yaml.New(), obf)
	if base == otherCodec {
		t.Error("different codecs should produce different processors")
	}

	otherObf, _ := veil.Use[veiltest.StudentRecord](json.New(), veiltest.TestObfuscator(t))
	if base == otherObf {
		t.Error("different obfuscators should produce different processors")
	}
}

func TestReset(t *testing.T) {
	obf := veiltest.TestObfuscator(t)
	p1, _ := veil.Use[veiltest.StudentRecord](json.New(), obf)

	veil.Reset()

	p2, _ := veil.Use[veiltest.StudentRecord](json.New(), obf)
	if p1 == p2 {
		t.Error("Reset() should clear cache, new processor expected")
	}
}
