package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		clone := c.Clone()
		assert.Nil(t, clone)
	})

	t.Run("empty config", func(t *testing.T) {
		c := &config.Config{}
		clone := c.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, c, clone)
	})

	t.Run("deep copies width overrides", func(t *testing.T) {
		original := config.NewConfig()
		original.ChainWidth = config.IntPtr(40)

		clone := original.Clone()
		require.NotNil(t, clone.ChainWidth)
		assert.Equal(t, 40, *clone.ChainWidth)

		*clone.ChainWidth = 10
		assert.Equal(t, 40, *original.ChainWidth)
	})

	t.Run("deep copies Ignore slice", func(t *testing.T) {
		original := &config.Config{
			Ignore: []string{"target/**", "vendor/**"},
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original.Ignore, clone.Ignore)

		clone.Ignore[0] = "changed"
		assert.Equal(t, "target/**", original.Ignore[0])
	})

	t.Run("preserves CLI-only fields", func(t *testing.T) {
		original := config.NewConfig()
		original.Check = true
		original.Emit = config.EmitStdout
		original.OutputFormat = config.FormatJSON
		original.Jobs = 4
		original.Backup = true
		original.Timeout = 3 * time.Second

		clone := original.Clone()
		assert.Equal(t, original, clone)
	})
}

func TestFromYAML(t *testing.T) {
	t.Run("absent keys keep defaults", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte("max_width: 80\nhard_tabs: true\n"))
		require.NoError(t, err)

		want := config.NewConfig()
		want.MaxWidth = 80
		want.HardTabs = true
		assert.Equal(t, want, cfg)
	})

	t.Run("false overrides a true default", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte("reorder_imports: false\n"))
		require.NoError(t, err)
		assert.False(t, cfg.ReorderImports)
	})

	t.Run("empty document", func(t *testing.T) {
		cfg, err := config.FromYAML(nil)
		require.NoError(t, err)
		assert.Equal(t, config.NewConfig(), cfg)
	})

	t.Run("unknown key is an error", func(t *testing.T) {
		_, err := config.FromYAML([]byte("max_widht: 80\n"))
		require.Error(t, err)
	})

	t.Run("round trip", func(t *testing.T) {
		original := config.NewConfig()
		original.FnCallWidth = config.IntPtr(50)
		original.Ignore = []string{"target/**"}

		data, err := original.ToYAML()
		require.NoError(t, err)

		parsed, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})
}

func TestFromTOML(t *testing.T) {
	t.Run("overlay", func(t *testing.T) {
		cfg, err := config.FromTOML([]byte("max_width = 120\ntrailing_comma = \"never\"\n"))
		require.NoError(t, err)
		assert.Equal(t, 120, cfg.MaxWidth)
		assert.Equal(t, config.TrailingNever, cfg.TrailingComma)
		assert.Equal(t, 4, cfg.TabSpaces)
	})

	t.Run("unknown key is an error", func(t *testing.T) {
		_, err := config.FromTOML([]byte("no_such_option = 1\n"))
		require.ErrorContains(t, err, "no_such_option")
	})

	t.Run("round trip", func(t *testing.T) {
		original := config.NewConfig()
		original.ArrayWidth = config.IntPtr(30)
		original.BinopSeparator = config.SeparatorBack

		data, err := original.ToTOML()
		require.NoError(t, err)

		parsed, err := config.FromTOML(data)
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})
}

func TestToYAMLWithHeader(t *testing.T) {
	cfg := config.NewConfig()
	data, err := cfg.ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.Contains(t, string(data), "# header\n\nmax_width: 100\n")
}
