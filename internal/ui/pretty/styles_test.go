package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/internal/ui/pretty"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	for _, rendered := range []string{
		styles.Bold.Render("test"),
		styles.Error.Render("test"),
		styles.Kind.Render("test"),
		styles.DiffAdd.Render("test"),
	} {
		assert.Equal(t, "test", rendered)
	}
}

func TestNewStyles_ColorEnabledRendersText(t *testing.T) {
	styles := pretty.NewStyles(true)

	// Lipgloss may drop ANSI codes off a terminal; the text must survive.
	assert.Contains(t, styles.Error.Render("x"), "x")
	assert.Contains(t, styles.Warning.Render("x"), "x")
	assert.Contains(t, styles.TableHeader.Render("x"), "x")
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "buffer is not a terminal")
}

func TestIsColorEnabled_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
	assert.True(t, pretty.IsColorEnabled("always", os.Stdout))
}

func TestIsColorEnabled_UnknownModeIsAuto(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("", &buf))
	assert.False(t, pretty.IsColorEnabled("unknown", &buf))
}
