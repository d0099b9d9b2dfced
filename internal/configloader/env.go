package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/rsfmt/pkg/config"
)

// envVarPrefix is the prefix for all rsfmt environment variables.
const envVarPrefix = "RSFMT_"

// envFieldType represents the type of a CLI-only field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeDuration
)

type envMapping struct {
	field string
	typ   envFieldType
	desc  string
}

// cliEnvMappings maps environment variable suffixes to the CLI-only fields.
// Every persisted option is also read from RSFMT_<OPTION>.
//
//nolint:gochecknoglobals // Read-only lookup table.
var cliEnvMappings = map[string]envMapping{
	"CHECK":         {field: "check", typ: envTypeBool, desc: "Report files that would change: true or false"},
	"EMIT":          {field: "emit", typ: envTypeString, desc: "Where formatted output goes: files or stdout"},
	"OUTPUT_FORMAT": {field: "output_format", typ: envTypeString, desc: "Report format: text, json, checkstyle, diff or summary"},
	"JOBS":          {field: "jobs", typ: envTypeInt, desc: "Number of parallel workers (0 = auto)"},
	"BACKUP":        {field: "backup", typ: envTypeBool, desc: "Write a .bk copy before overwriting: true or false"},
	"COLOR":         {field: "color", typ: envTypeString, desc: "Colour output: auto, always or never"},
	"TIMEOUT":       {field: "timeout", typ: envTypeDuration, desc: "Time limit of a run, e.g. 30s"},
}

// LoadFromEnv applies RSFMT_* environment variable overrides to cfg.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromEnv(cfg, os.LookupEnv)
}

func loadFromEnv(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for _, info := range config.Options() {
		envVar := EnvVarName(info.Name)
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}
		if err := cfg.Set(info.Name, value); err != nil {
			return fmt.Errorf("%s: %w", envVar, err)
		}
	}

	for suffix, mapping := range cliEnvMappings {
		envVar := envVarPrefix + suffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}
		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}
	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value, envVar)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a boolean", config.ErrInvalidValue, envVar, value)
		}
		if mapping.field == "check" {
			cfg.Check = b
		} else {
			cfg.Backup = b
		}
	case envTypeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not an integer", config.ErrInvalidValue, envVar, value)
		}
		cfg.Jobs = n
	case envTypeDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a duration", config.ErrInvalidValue, envVar, value)
		}
		cfg.Timeout = d
	}
	return nil
}

func setStringField(cfg *config.Config, field, value, envVar string) error {
	switch field {
	case "emit":
		mode, err := config.ParseEmitMode(value)
		if err != nil {
			return fmt.Errorf("%s: %w", envVar, err)
		}
		cfg.Emit = mode
	case "output_format":
		format, err := config.ParseOutputFormat(value)
		if err != nil {
			return fmt.Errorf("%s: %w", envVar, err)
		}
		cfg.OutputFormat = format
	case "color":
		cfg.Color = value
	}
	return nil
}

// EnvVarName returns the environment variable that overrides an option.
func EnvVarName(option string) string {
	return envVarPrefix + strings.ToUpper(option)
}

// ListEnvVars returns every supported environment variable with its
// description, sorted by name.
func ListEnvVars() [][2]string {
	var vars [][2]string
	for _, info := range config.Options() {
		vars = append(vars, [2]string{EnvVarName(info.Name), info.Description})
	}
	for suffix, mapping := range cliEnvMappings {
		vars = append(vars, [2]string{envVarPrefix + suffix, mapping.desc})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i][0] < vars[j][0] })
	return vars
}

// ListCLIEnvVars returns the environment variables of the CLI-only fields,
// sorted by name.
func ListCLIEnvVars() [][2]string {
	vars := make([][2]string, 0, len(cliEnvMappings))
	for suffix, mapping := range cliEnvMappings {
		vars = append(vars, [2]string{envVarPrefix + suffix, mapping.desc})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i][0] < vars[j][0] })
	return vars
}
