// Package config defines the formatting options for rsfmt.
// These types are pure data structures; loading and layering live in
// internal/configloader.
package config

import (
	"math"
	"time"
)

// NewlineStyle selects the line terminator written to formatted files.
type NewlineStyle string

const (
	NewlineAuto    NewlineStyle = "auto"
	NewlineUnix    NewlineStyle = "unix"
	NewlineWindows NewlineStyle = "windows"
	NewlineNative  NewlineStyle = "native"
)

// Heuristics selects how the width heuristics are derived from max_width.
type Heuristics string

const (
	HeuristicsDefault Heuristics = "default"
	HeuristicsOff     Heuristics = "off"
	HeuristicsMax     Heuristics = "max"
)

// BraceStyle controls where the opening brace of an item goes.
type BraceStyle string

const (
	BraceAlwaysNextLine BraceStyle = "always_next_line"
	BracePreferSameLine BraceStyle = "prefer_same_line"
	BraceSameLineWhere  BraceStyle = "same_line_where"
)

// ControlBraceStyle controls braces of control flow expressions.
type ControlBraceStyle string

const (
	ControlAlwaysSameLine  ControlBraceStyle = "always_same_line"
	ControlClosingNextLine ControlBraceStyle = "closing_next_line"
	ControlAlwaysNextLine  ControlBraceStyle = "always_next_line"
)

// TrailingComma is the trailing separator policy for lists.
type TrailingComma string

const (
	TrailingAlways   TrailingComma = "always"
	TrailingNever    TrailingComma = "never"
	TrailingVertical TrailingComma = "vertical"
)

// SeparatorPlace puts binary operators at the start or end of broken lines.
type SeparatorPlace string

const (
	SeparatorFront SeparatorPlace = "front"
	SeparatorBack  SeparatorPlace = "back"
)

// FnParamsLayout controls how function parameters are broken.
type FnParamsLayout string

const (
	ParamsTall       FnParamsLayout = "tall"
	ParamsCompressed FnParamsLayout = "compressed"
	ParamsVertical   FnParamsLayout = "vertical"
)

// LeadingPipes controls leading `|` in match arm patterns.
type LeadingPipes string

const (
	PipesNever    LeadingPipes = "never"
	PipesAlways   LeadingPipes = "always"
	PipesPreserve LeadingPipes = "preserve"
)

// HexLiteralCase controls the case of hexadecimal digits.
type HexLiteralCase string

const (
	HexPreserve HexLiteralCase = "preserve"
	HexUpper    HexLiteralCase = "upper"
	HexLower    HexLiteralCase = "lower"
)

// EmitMode selects where formatted output goes.
type EmitMode string

const (
	EmitFiles  EmitMode = "files"
	EmitStdout EmitMode = "stdout"
)

// OutputFormat specifies the report format.
type OutputFormat string

const (
	FormatText       OutputFormat = "text"
	FormatJSON       OutputFormat = "json"
	FormatCheckstyle OutputFormat = "checkstyle"
	FormatDiff       OutputFormat = "diff"
	FormatSummary    OutputFormat = "summary"
)

// DefaultMaxWidth is the reference width the heuristics are scaled from.
const DefaultMaxWidth = 100

// Config is the root configuration structure for rsfmt.
type Config struct {
	// MaxWidth is the maximum width of each line.
	MaxWidth int `yaml:"max_width" toml:"max_width"`

	// HardTabs indents with tabs instead of spaces.
	HardTabs bool `yaml:"hard_tabs" toml:"hard_tabs"`

	// TabSpaces is the number of spaces per indentation level.
	TabSpaces int `yaml:"tab_spaces" toml:"tab_spaces"`

	// NewlineStyle selects the line terminator.
	NewlineStyle NewlineStyle `yaml:"newline_style" toml:"newline_style"`

	// UseSmallHeuristics derives the width heuristics from MaxWidth.
	UseSmallHeuristics Heuristics `yaml:"use_small_heuristics" toml:"use_small_heuristics"`

	// Explicit width overrides; nil means "derive from heuristics".
	FnCallWidth              *int `yaml:"fn_call_width,omitempty" toml:"fn_call_width,omitempty"`
	AttrFnLikeWidth          *int `yaml:"attr_fn_like_width,omitempty" toml:"attr_fn_like_width,omitempty"`
	StructLitWidth           *int `yaml:"struct_lit_width,omitempty" toml:"struct_lit_width,omitempty"`
	StructVariantWidth       *int `yaml:"struct_variant_width,omitempty" toml:"struct_variant_width,omitempty"`
	ArrayWidth               *int `yaml:"array_width,omitempty" toml:"array_width,omitempty"`
	ChainWidth               *int `yaml:"chain_width,omitempty" toml:"chain_width,omitempty"`
	SingleLineIfElseMaxWidth *int `yaml:"single_line_if_else_max_width,omitempty" toml:"single_line_if_else_max_width,omitempty"`
	SingleLineLetElseWidth   *int `yaml:"single_line_let_else_max_width,omitempty" toml:"single_line_let_else_max_width,omitempty"`

	BraceStyle        BraceStyle        `yaml:"brace_style" toml:"brace_style"`
	ControlBraceStyle ControlBraceStyle `yaml:"control_brace_style" toml:"control_brace_style"`
	TrailingComma     TrailingComma     `yaml:"trailing_comma" toml:"trailing_comma"`
	TrailingSemicolon bool              `yaml:"trailing_semicolon" toml:"trailing_semicolon"`
	BinopSeparator    SeparatorPlace    `yaml:"binop_separator" toml:"binop_separator"`
	FnParamsLayout    FnParamsLayout    `yaml:"fn_params_layout" toml:"fn_params_layout"`

	// Comments.
	WrapComments      bool `yaml:"wrap_comments" toml:"wrap_comments"`
	CommentWidth      int  `yaml:"comment_width" toml:"comment_width"`
	NormalizeComments bool `yaml:"normalize_comments" toml:"normalize_comments"`

	FormatStrings       bool `yaml:"format_strings" toml:"format_strings"`
	FormatMacroMatchers bool `yaml:"format_macro_matchers" toml:"format_macro_matchers"`

	// Reordering.
	ReorderImports bool `yaml:"reorder_imports" toml:"reorder_imports"`
	ReorderModules bool `yaml:"reorder_modules" toml:"reorder_modules"`

	UseFieldInitShorthand bool `yaml:"use_field_init_shorthand" toml:"use_field_init_shorthand"`
	UseTryShorthand       bool `yaml:"use_try_shorthand" toml:"use_try_shorthand"`

	// Blocks and match.
	ForceMultilineBlocks    bool           `yaml:"force_multiline_blocks" toml:"force_multiline_blocks"`
	MatchArmBlocks          bool           `yaml:"match_arm_blocks" toml:"match_arm_blocks"`
	MatchArmLeadingPipes    LeadingPipes   `yaml:"match_arm_leading_pipes" toml:"match_arm_leading_pipes"`
	MatchBlockTrailingComma bool           `yaml:"match_block_trailing_comma" toml:"match_block_trailing_comma"`
	BlankLinesUpperBound    int            `yaml:"blank_lines_upper_bound" toml:"blank_lines_upper_bound"`
	BlankLinesLowerBound    int            `yaml:"blank_lines_lower_bound" toml:"blank_lines_lower_bound"`
	EmptyItemSingleLine     bool           `yaml:"empty_item_single_line" toml:"empty_item_single_line"`
	FnSingleLine            bool           `yaml:"fn_single_line" toml:"fn_single_line"`
	WhereSingleLine         bool           `yaml:"where_single_line" toml:"where_single_line"`
	StructLitSingleLine     bool           `yaml:"struct_lit_single_line" toml:"struct_lit_single_line"`
	SpacesAroundRanges      bool           `yaml:"spaces_around_ranges" toml:"spaces_around_ranges"`
	OverflowDelimitedExpr   bool           `yaml:"overflow_delimited_expr" toml:"overflow_delimited_expr"`
	CombineControlExpr      bool           `yaml:"combine_control_expr" toml:"combine_control_expr"`
	ShortArrayElementWidth  int            `yaml:"short_array_element_width_threshold" toml:"short_array_element_width_threshold"`
	RemoveNestedParens      bool           `yaml:"remove_nested_parens" toml:"remove_nested_parens"`
	HexLiteralCase          HexLiteralCase `yaml:"hex_literal_case" toml:"hex_literal_case"`

	// Reporting.
	ErrorOnLineOverflow bool   `yaml:"error_on_line_overflow" toml:"error_on_line_overflow"`
	ErrorOnUnformatted  bool   `yaml:"error_on_unformatted" toml:"error_on_unformatted"`
	LicenseTemplate     string `yaml:"license_template,omitempty" toml:"license_template,omitempty"`

	// Ignore contains doublestar glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// DisableAllFormatting returns every file unchanged.
	DisableAllFormatting bool `yaml:"disable_all_formatting" toml:"disable_all_formatting"`

	// CLI-level options (not persisted to config files).

	// Check reports files that would change instead of writing them.
	Check bool `yaml:"-" toml:"-"`

	// Emit selects where formatted output is written.
	Emit EmitMode `yaml:"-" toml:"-"`

	// OutputFormat specifies the report format.
	OutputFormat OutputFormat `yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel workers (0 = GOMAXPROCS).
	Jobs int `yaml:"-" toml:"-"`

	// Backup writes a `.bk` copy before overwriting a file.
	Backup bool `yaml:"-" toml:"-"`

	// Color is "auto", "always" or "never".
	Color string `yaml:"-" toml:"-"`

	// Timeout bounds a whole run; zero means no limit.
	Timeout time.Duration `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with the default options.
func NewConfig() *Config {
	return &Config{
		MaxWidth:                DefaultMaxWidth,
		TabSpaces:               4,
		NewlineStyle:            NewlineAuto,
		UseSmallHeuristics:      HeuristicsDefault,
		BraceStyle:              BraceSameLineWhere,
		ControlBraceStyle:       ControlAlwaysSameLine,
		TrailingComma:           TrailingVertical,
		TrailingSemicolon:       true,
		BinopSeparator:          SeparatorFront,
		FnParamsLayout:          ParamsTall,
		CommentWidth:            80,
		ReorderImports:          true,
		ReorderModules:          true,
		UseTryShorthand:         false,
		MatchArmBlocks:          true,
		MatchArmLeadingPipes:    PipesNever,
		MatchBlockTrailingComma: false,
		BlankLinesUpperBound:    1,
		BlankLinesLowerBound:    0,
		EmptyItemSingleLine:     true,
		StructLitSingleLine:     true,
		CombineControlExpr:      true,
		ShortArrayElementWidth:  10,
		RemoveNestedParens:      true,
		HexLiteralCase:          HexPreserve,
		Emit:                    EmitFiles,
		OutputFormat:            FormatText,
		Color:                   "auto",
	}
}

// Unbounded is the width used when heuristics are off.
const Unbounded = math.MaxInt32

// WidthHeuristics are the per-construct width limits the rewrite rules use
// to decide whether a construct may be laid out on one line.
type WidthHeuristics struct {
	FnCall            int
	AttrFnLike        int
	StructLit         int
	StructVariant     int
	Array             int
	Chain             int
	SingleLineIfElse  int
	SingleLineLetElse int
}

// ScaledHeuristics derives the heuristics from maxWidth. Widths above the
// default are scaled by the ratio to the default rounded to a tenth.
func ScaledHeuristics(maxWidth int) WidthHeuristics {
	ratio := 1.0
	if maxWidth > DefaultMaxWidth {
		ratio = math.Round(float64(maxWidth)/DefaultMaxWidth*10) / 10
	}
	scale := func(base float64) int {
		return int(math.Round(base * ratio))
	}
	return WidthHeuristics{
		FnCall:            scale(60),
		AttrFnLike:        scale(70),
		StructLit:         scale(18),
		StructVariant:     scale(35),
		Array:             scale(60),
		Chain:             scale(60),
		SingleLineIfElse:  scale(50),
		SingleLineLetElse: scale(50),
	}
}

// uniformHeuristics sets every limit to width.
func uniformHeuristics(width int) WidthHeuristics {
	return WidthHeuristics{
		FnCall:            width,
		AttrFnLike:        width,
		StructLit:         width,
		StructVariant:     width,
		Array:             width,
		Chain:             width,
		SingleLineIfElse:  width,
		SingleLineLetElse: width,
	}
}

// Widths resolves the effective width heuristics: the base values chosen by
// UseSmallHeuristics with explicit overrides applied and capped at MaxWidth.
func (c *Config) Widths() WidthHeuristics {
	var widths WidthHeuristics
	switch c.UseSmallHeuristics {
	case HeuristicsOff:
		widths = uniformHeuristics(Unbounded)
	case HeuristicsMax:
		widths = uniformHeuristics(c.MaxWidth)
	default:
		widths = ScaledHeuristics(c.MaxWidth)
	}

	override := func(dst *int, value *int) {
		if value == nil {
			return
		}
		*dst = min(*value, c.MaxWidth)
	}
	override(&widths.FnCall, c.FnCallWidth)
	override(&widths.AttrFnLike, c.AttrFnLikeWidth)
	override(&widths.StructLit, c.StructLitWidth)
	override(&widths.StructVariant, c.StructVariantWidth)
	override(&widths.Array, c.ArrayWidth)
	override(&widths.Chain, c.ChainWidth)
	override(&widths.SingleLineIfElse, c.SingleLineIfElseMaxWidth)
	override(&widths.SingleLineLetElse, c.SingleLineLetElseWidth)
	return widths
}

// EffectiveCommentWidth is the width comments are wrapped to.
func (c *Config) EffectiveCommentWidth() int {
	return min(c.CommentWidth, c.MaxWidth)
}

// IntPtr returns a pointer to v, for populating width overrides.
func IntPtr(v int) *int {
	return &v
}
