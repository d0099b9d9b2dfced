package shape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/shape"
)

func TestIndent_String(t *testing.T) {
	cfg := config.NewConfig()
	indent := shape.NewIndent(8, 3)
	assert.Equal(t, "           ", indent.String(cfg))
	assert.Equal(t, "\n    ", shape.NewIndent(4, 0).StringWithNewline(cfg))

	cfg.HardTabs = true
	assert.Equal(t, "\t\t   ", indent.String(cfg))
}

func TestIndent_BlockIndent(t *testing.T) {
	cfg := config.NewConfig()

	block := shape.Empty().BlockIndentBy(cfg).BlockIndentBy(cfg)
	assert.Equal(t, shape.NewIndent(8, 0), block)
	assert.Equal(t, shape.NewIndent(4, 0), block.BlockUnindent(cfg))

	aligned := shape.NewIndent(4, 2).BlockIndentBy(cfg)
	assert.Equal(t, shape.NewIndent(4, 6), aligned)
	assert.Equal(t, shape.NewIndent(0, 0), shape.NewIndent(0, 2).BlockUnindent(cfg))
}

func TestIndent_FromWidth(t *testing.T) {
	cfg := config.NewConfig()
	assert.Equal(t, shape.NewIndent(10, 0), shape.FromWidth(cfg, 10))

	cfg.HardTabs = true
	assert.Equal(t, shape.NewIndent(8, 2), shape.FromWidth(cfg, 10))
}

func TestShape_Narrowing(t *testing.T) {
	cfg := config.NewConfig()
	s := shape.Indented(shape.NewIndent(4, 0), cfg)
	assert.Equal(t, 96, s.Width)

	sub, ok := s.SubWidth(10)
	assert.True(t, ok)
	assert.Equal(t, 86, sub.Width)

	_, ok = s.SubWidth(97)
	assert.False(t, ok)

	off, ok := s.OffsetLeft(6)
	assert.True(t, ok)
	assert.Equal(t, 90, off.Width)
	assert.Equal(t, 6, off.Offset)
	assert.Equal(t, s.Indent, off.Indent)
	assert.Equal(t, 10, off.UsedWidth())

	shrunk, ok := s.ShrinkLeft(6)
	assert.True(t, ok)
	assert.Equal(t, shape.NewIndent(4, 6), shrunk.Indent)

	visual := off.VisualIndent(1)
	assert.Equal(t, shape.NewIndent(4, 7), visual.Indent)
	assert.Equal(t, 7, visual.Offset)

	block, ok := s.BlockLeft(4)
	assert.True(t, ok)
	assert.Equal(t, shape.NewIndent(8, 0), block.Indent)
	assert.Equal(t, 92, block.Width)
}

func TestShape_NeverNegative(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MaxWidth = 10
	s := shape.Indented(shape.NewIndent(16, 0), cfg)
	assert.Equal(t, 0, s.Width)

	_, ok := s.OffsetLeft(1)
	assert.False(t, ok)
	_, ok = s.ShrinkLeft(1)
	assert.False(t, ok)
}

func TestShape_RHSOverhead(t *testing.T) {
	cfg := config.NewConfig()
	s := shape.Shape{Width: 50, Indent: shape.NewIndent(4, 0), Offset: 10}
	assert.Equal(t, 36, s.RHSOverhead(cfg))
}
