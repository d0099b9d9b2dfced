package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}
	return withHeader(header, yamlBytes), nil
}

// FromYAML parses a configuration from YAML bytes. Keys absent from data
// keep their default values.
func FromYAML(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := DecodeYAML(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DecodeYAML overlays the keys present in data onto cfg.
func DecodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty document decodes to io.EOF; treat it as "no keys".
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	yamlBytes, err := c.ToYAML()
	if err != nil {
		return c.deepCopy()
	}

	clone := &Config{}
	if err := yaml.Unmarshal(yamlBytes, clone); err != nil {
		return c.deepCopy()
	}

	// Copy CLI-only fields that aren't serialized to YAML
	c.copyCLIFields(clone)

	return clone
}

// copyCLIFields copies CLI-only fields (yaml:"-") to the target config.
func (c *Config) copyCLIFields(target *Config) {
	target.Check = c.Check
	target.Emit = c.Emit
	target.OutputFormat = c.OutputFormat
	target.Jobs = c.Jobs
	target.Backup = c.Backup
	target.Color = c.Color
	target.Timeout = c.Timeout
}

// deepCopy creates a manual deep copy of the configuration.
// This is used as a fallback when YAML round-trip fails.
func (c *Config) deepCopy() *Config {
	clone := *c

	if c.Ignore != nil {
		clone.Ignore = make([]string, len(c.Ignore))
		copy(clone.Ignore, c.Ignore)
	}

	for _, field := range []struct{ dst, src **int }{
		{&clone.FnCallWidth, &c.FnCallWidth},
		{&clone.AttrFnLikeWidth, &c.AttrFnLikeWidth},
		{&clone.StructLitWidth, &c.StructLitWidth},
		{&clone.StructVariantWidth, &c.StructVariantWidth},
		{&clone.ArrayWidth, &c.ArrayWidth},
		{&clone.ChainWidth, &c.ChainWidth},
		{&clone.SingleLineIfElseMaxWidth, &c.SingleLineIfElseMaxWidth},
		{&clone.SingleLineLetElseWidth, &c.SingleLineLetElseWidth},
	} {
		if *field.src != nil {
			*field.dst = IntPtr(**field.src)
		}
	}

	return &clone
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}

func withHeader(header string, body []byte) []byte {
	if header == "" {
		return body
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(body)

	return buf.Bytes()
}
