// Package config loads the settings of a veil deployment.
//
// Sources are merged with koanf in increasing priority:
//
//  1. Defaults
//  2. Configuration file (YAML)
//  3. Environment variables (VEIL_SECTION_KEY)
//  4. Explicit overrides (LoadMap, typically command-line flags)
//
// The hashids section maps onto veil.Config:
//
//	hashids:
//	  salt: "change-me"
//	  minhashlength: 8
//	  alphabet: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"
package config
