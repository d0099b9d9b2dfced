package lists

import (
	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
)

// StructLitShape returns the one-line shape for a brace-delimited list, if
// any room is left after prefix and suffix, and the block-indented shape
// used when it goes vertical.
func StructLitShape(sh shape.Shape, cfg *config.Config, prefix, suffix int) (shape.Shape, bool, shape.Shape) {
	vShape := sh.BlockIndent(cfg.TabSpaces)
	vShape.Width = max(0, cfg.MaxWidth-vShape.Indent.Width())

	w := sh.Width - prefix - suffix
	if w < 0 {
		return shape.Shape{}, false, vShape
	}
	return shape.Legacy(min(w, cfg.Widths().StructLit), sh.Indent), true, vShape
}

// StructLitTactic picks the tactic for the fields of a struct literal.
func StructLitTactic(hShape shape.Shape, hasH bool, cfg *config.Config, items []ListItem) Tactic {
	if !hasH {
		return Vertical
	}
	tactic := Vertical
	if cfg.StructLitSingleLine {
		tactic = HorizontalVertical
	}
	return DefinitiveTactic(items, tactic, ",", hShape.Width)
}

// ShapeForTactic selects the shape matching a resolved tactic.
func ShapeForTactic(tactic Tactic, hShape shape.Shape, vShape shape.Shape) shape.Shape {
	if tactic == Horizontal {
		return hShape
	}
	return vShape
}

// StructLitFormatting is the formatting for the fields of a struct literal
// or struct pattern.
func StructLitFormatting(sh shape.Shape, tactic Tactic, cfg *config.Config, noTrailingComma bool) Formatting {
	f := NewFormatting(sh, cfg)
	f.Tactic = tactic
	f.Trailing = TrailingFromConfig(cfg.TrailingComma)
	if noTrailingComma {
		f.Trailing = SeparatorNever
	}
	f.EndsWithNewline = tactic == Vertical
	f.PreserveNewline = true
	return f
}
