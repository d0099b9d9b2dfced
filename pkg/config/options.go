package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ErrUnknownOption is returned when an option key does not exist.
var ErrUnknownOption = errors.New("unknown option")

// ErrInvalidValue is returned when an option value cannot be parsed or is
// not one of the allowed values.
var ErrInvalidValue = errors.New("invalid option value")

// OptionInfo describes a single configuration option.
type OptionInfo struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Default     string   `json:"default"`
	Values      []string `json:"values,omitempty"`
	Description string   `json:"description"`
}

// optionDocs holds the description and allowed values of each option.
//
//nolint:gochecknoglobals // Static option documentation table.
var optionDocs = map[string]struct {
	desc   string
	values []string
}{
	"max_width":                           {desc: "Maximum width of each line"},
	"hard_tabs":                           {desc: "Use tab characters for indentation"},
	"tab_spaces":                          {desc: "Number of spaces per indentation level"},
	"newline_style":                       {"Line terminator of formatted files", []string{"auto", "unix", "windows", "native"}},
	"use_small_heuristics":                {"How width heuristics are derived from max_width", []string{"default", "off", "max"}},
	"fn_call_width":                       {desc: "Maximum width of the arguments of a call before falling back to vertical"},
	"attr_fn_like_width":                  {desc: "Maximum width of the arguments of a function-like attribute"},
	"struct_lit_width":                    {desc: "Maximum width in the body of a struct literal before falling back to vertical"},
	"struct_variant_width":                {desc: "Maximum width in the body of a struct variant before falling back to vertical"},
	"array_width":                         {desc: "Maximum width of an array literal before falling back to vertical"},
	"chain_width":                         {desc: "Maximum width of a chain to fit on one line"},
	"single_line_if_else_max_width":       {desc: "Maximum line length for single line if-else expressions"},
	"single_line_let_else_max_width":      {desc: "Maximum line length for single line let-else statements"},
	"brace_style":                         {"Brace style for items", []string{"always_next_line", "prefer_same_line", "same_line_where"}},
	"control_brace_style":                 {"Brace style for control flow constructs", []string{"always_same_line", "closing_next_line", "always_next_line"}},
	"trailing_comma":                      {"How to handle trailing commas for lists", []string{"always", "never", "vertical"}},
	"trailing_semicolon":                  {desc: "Add trailing semicolon after break, continue and return"},
	"binop_separator":                     {"Where to put a binary operator when a binary expression goes multiline", []string{"front", "back"}},
	"fn_params_layout":                    {"Layout of function parameters", []string{"tall", "compressed", "vertical"}},
	"wrap_comments":                       {desc: "Break comments to fit on the line"},
	"comment_width":                       {desc: "Maximum length of comments when wrapping"},
	"normalize_comments":                  {desc: "Convert /* */ comments to // comments where possible"},
	"format_strings":                      {desc: "Format string literals where necessary"},
	"format_macro_matchers":               {desc: "Format the metavariable matching patterns in macros"},
	"reorder_imports":                     {desc: "Reorder import and extern crate statements alphabetically"},
	"reorder_modules":                     {desc: "Reorder module statements alphabetically in group"},
	"use_field_init_shorthand":            {desc: "Use field initialization shorthand if possible"},
	"use_try_shorthand":                   {desc: "Replace uses of the try! macro by the ? shorthand"},
	"force_multiline_blocks":              {desc: "Force multiline closure bodies and match arms to be wrapped in a block"},
	"match_arm_blocks":                    {desc: "Wrap the body of arms in blocks when it does not fit on the same line"},
	"match_arm_leading_pipes":             {"Leading pipe in match arm patterns", []string{"never", "always", "preserve"}},
	"match_block_trailing_comma":          {desc: "Put a trailing comma after a block based match arm"},
	"blank_lines_upper_bound":             {desc: "Maximum number of blank lines which can be put between items"},
	"blank_lines_lower_bound":             {desc: "Minimum number of blank lines which must be put between items"},
	"empty_item_single_line":              {desc: "Put empty-body functions and impls on a single line"},
	"fn_single_line":                      {desc: "Put single-expression functions on a single line"},
	"where_single_line":                   {desc: "Force where clauses to be on a single line"},
	"struct_lit_single_line":              {desc: "Put small struct literals on a single line"},
	"spaces_around_ranges":                {desc: "Put spaces around the .. and ..= range operators"},
	"overflow_delimited_expr":             {desc: "Allow trailing bracket or brace delimited expressions to overflow"},
	"combine_control_expr":                {desc: "Combine control expressions with function calls"},
	"short_array_element_width_threshold": {desc: "Width threshold for an array element to be considered short"},
	"remove_nested_parens":                {desc: "Remove nested parens"},
	"hex_literal_case":                    {"Format hexadecimal integer literals", []string{"preserve", "upper", "lower"}},
	"error_on_line_overflow":              {desc: "Error if unable to get all lines within max_width"},
	"error_on_unformatted":                {desc: "Error if unable to get comments or string literals within max_width, or they are left with trailing whitespaces"},
	"license_template":                    {desc: "Regular expression the file header must match"},
	"ignore":                              {desc: "Glob patterns of files to skip"},
	"disable_all_formatting":              {desc: "Do not reformat anything"},
}

// Options returns a description of every persisted option in declaration
// order, with the defaults of NewConfig.
func Options() []OptionInfo {
	defaults := reflect.ValueOf(NewConfig()).Elem()
	typ := defaults.Type()

	infos := make([]OptionInfo, 0, typ.NumField())
	for i := range typ.NumField() {
		name := optionKey(typ.Field(i))
		if name == "" {
			continue
		}
		doc := optionDocs[name]
		infos = append(infos, OptionInfo{
			Name:        name,
			Type:        kindName(typ.Field(i).Type),
			Default:     formatValue(defaults.Field(i)),
			Values:      doc.values,
			Description: doc.desc,
		})
	}
	return infos
}

// Set assigns an option by its configuration key, parsing value according
// to the option type.
func (c *Config) Set(key, value string) error {
	field, ok := c.field(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}

	if values := optionDocs[key].values; values != nil && !slices.Contains(values, value) {
		return fmt.Errorf("%w: %s must be one of %s, got %q",
			ErrInvalidValue, key, strings.Join(values, ", "), value)
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a boolean", ErrInvalidValue, key, value)
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not an integer", ErrInvalidValue, key, value)
		}
		field.SetInt(int64(n))
	case reflect.Pointer:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not an integer", ErrInvalidValue, key, value)
		}
		field.Set(reflect.ValueOf(IntPtr(n)))
	case reflect.Slice:
		var items []string
		for part := range strings.SplitSeq(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}
	return nil
}

// Get returns the current value of an option formatted as text.
func (c *Config) Get(key string) (string, bool) {
	field, ok := c.field(key)
	if !ok {
		return "", false
	}
	return formatValue(field), true
}

func (c *Config) field(key string) (reflect.Value, bool) {
	val := reflect.ValueOf(c).Elem()
	typ := val.Type()
	for i := range typ.NumField() {
		if optionKey(typ.Field(i)) == key {
			return val.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// optionKey returns the configuration key of a struct field, or "" for
// CLI-only fields.
func optionKey(f reflect.StructField) string {
	tag := f.Tag.Get("yaml")
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

func kindName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Pointer:
		return "int"
	case reflect.Slice:
		return "list"
	default:
		return "string"
	}
}

func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return ""
		}
		return formatValue(v.Elem())
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range v.Len() {
			parts[i] = v.Index(i).String()
		}
		return strings.Join(parts, ",")
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int:
		return strconv.FormatInt(v.Int(), 10)
	default:
		return v.String()
	}
}
