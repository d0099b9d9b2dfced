package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// Template formats.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every option with its documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "toml".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", TemplateYAML, TemplateTOML:
	default:
		return nil, fmt.Errorf("%w: template format %q", ErrInvalidValue, opts.Format)
	}
	if opts.Full {
		return generateFullTemplate(opts), nil
	}
	return generateMinimalTemplate(opts), nil
}

// minimalOptions are the options shown in a minimal template.
//
//nolint:gochecknoglobals // Static template content.
var minimalOptions = []string{
	"max_width",
	"tab_spaces",
	"hard_tabs",
	"use_small_heuristics",
	"reorder_imports",
	"trailing_comma",
	"ignore",
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	byName := make(map[string]OptionInfo)
	for _, info := range Options() {
		byName[info.Name] = info
	}
	for _, name := range minimalOptions {
		info := byName[name]
		fmt.Fprintf(&buf, "# %s\n", wrapComment(info.Description, commentWrapWidth))
		writeOption(&buf, opts.Format, info, true)
		buf.WriteByte('\n')
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}

// generateFullTemplate creates a template documenting every option.
func generateFullTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n#\n# Every option with its default value.\n")

	for _, info := range Options() {
		buf.WriteByte('\n')
		fmt.Fprintf(&buf, "# %s\n", wrapComment(info.Description, commentWrapWidth))
		if len(info.Values) > 0 {
			fmt.Fprintf(&buf, "# Values: %s\n", strings.Join(info.Values, ", "))
		}
		writeOption(&buf, opts.Format, info, info.Default == "")
	}
	return buf.Bytes()
}

// writeOption writes one key with its default value, commented out when
// commented is set.
func writeOption(buf *bytes.Buffer, format string, info OptionInfo, commented bool) {
	prefix := ""
	if commented {
		prefix = "# "
	}

	sep := ": "
	if format == TemplateTOML {
		sep = " = "
	}

	value := info.Default
	switch info.Type {
	case "string":
		value = strconv.Quote(value)
	case "int":
		if value == "" {
			value = strconv.Itoa(defaultWidths()[info.Name])
		}
	case "list":
		value = `["target/**"]`
	}
	fmt.Fprintf(buf, "%s%s%s%s\n", prefix, info.Name, sep, value)
}

// defaultWidths maps each width override key to its derived default.
func defaultWidths() map[string]int {
	w := NewConfig().Widths()
	return map[string]int{
		"fn_call_width":                  w.FnCall,
		"attr_fn_like_width":             w.AttrFnLike,
		"struct_lit_width":               w.StructLit,
		"struct_variant_width":           w.StructVariant,
		"array_width":                    w.Array,
		"chain_width":                    w.Chain,
		"single_line_if_else_max_width":  w.SingleLineIfElse,
		"single_line_let_else_max_width": w.SingleLineLetElse,
	}
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n# ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# rsfmt configuration
# See: https://github.com/yaklabco/rsfmt`
}
