package configloader

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/yaklabco/rsfmt/pkg/config"
)

// optionAliases maps deprecated option names to their replacements.
//
//nolint:gochecknoglobals // Read-only lookup table.
var optionAliases = map[string]string{
	"fn_args_layout":  "fn_params_layout",
	"fn_args_density": "fn_params_layout",

	// Removed, no replacement.
	"report_todo":  "",
	"report_fixme": "",
	"write_mode":   "",
}

// optionInfos indexes config.Options by name.
func optionInfos() map[string]config.OptionInfo {
	infos := config.Options()
	byName := make(map[string]config.OptionInfo, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}
	return byName
}

// CanonicalOption resolves a config key to its option name. Dashes and
// case are ignored. deprecated is set when key is an old alias.
func CanonicalOption(key string) (name string, deprecated, found bool) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
	if target, ok := optionAliases[norm]; ok {
		return target, true, target != ""
	}
	if _, ok := optionInfos()[norm]; ok {
		return norm, false, true
	}
	return norm, false, false
}

// snakeCase converts enum spellings such as "SameLineWhere" to
// "same_line_where". Values already in snake case are unchanged.
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && s[i-1] != '_' {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalizeKeys rewrites the keys of a decoded config document to option
// names, converting enum values to snake case. Unknown and removed keys are
// dropped with a warning; duplicates keep the last value seen.
func normalizeKeys(raw map[string]any, source string) (map[string]any, []string) {
	infos := optionInfos()
	out := make(map[string]any, len(raw))
	seen := make(map[string]string, len(raw))
	var warnings []string

	for _, key := range sortedKeys(raw) {
		value := raw[key]
		name, deprecated, found := CanonicalOption(key)
		if reason, ok := rustfmtOnlyKeys[name]; ok {
			warnings = append(warnings, fmt.Sprintf("%s: option %q is not supported (%s); ignoring it", source, key, reason))
			continue
		}
		switch {
		case !found && deprecated:
			warnings = append(warnings, fmt.Sprintf("%s: option %q was removed; ignoring it", source, key))
			continue
		case !found:
			warnings = append(warnings, fmt.Sprintf("%s: unknown option %q; ignoring it", source, key))
			continue
		case deprecated:
			warnings = append(warnings, fmt.Sprintf("%s: option %q is deprecated; use %q", source, key, name))
		}

		if prev, dup := seen[name]; dup {
			warnings = append(warnings,
				fmt.Sprintf("%s: %q and %q both set %s; using %q", source, prev, key, name, key))
		}
		seen[name] = key

		if s, ok := value.(string); ok && len(infos[name].Values) > 0 {
			value = snakeCase(s)
		}
		out[name] = value
	}
	return out, warnings
}
