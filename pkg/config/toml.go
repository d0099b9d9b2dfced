package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ToTOML serializes the configuration to TOML format.
func (c *Config) ToTOML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// FromTOML parses a configuration from TOML bytes. Keys absent from data
// keep their default values.
func FromTOML(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := DecodeTOML(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DecodeTOML overlays the keys present in data onto cfg. Unknown keys are
// an error.
func DecodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parse toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("parse toml: unknown option %q", undecoded[0].String())
	}
	return nil
}
