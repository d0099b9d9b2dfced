package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/config"
)

func TestOptions(t *testing.T) {
	infos := config.Options()
	require.NotEmpty(t, infos)
	assert.Equal(t, "max_width", infos[0].Name)
	assert.Equal(t, "100", infos[0].Default)

	names := make(map[string]config.OptionInfo)
	for _, info := range infos {
		assert.NotEmpty(t, info.Description, info.Name)
		names[info.Name] = info
	}
	assert.NotContains(t, names, "check")
	assert.Equal(t, []string{"front", "back"}, names["binop_separator"].Values)
	assert.Equal(t, "int", names["chain_width"].Type)
	assert.Empty(t, names["chain_width"].Default)
}

func TestSet(t *testing.T) {
	cfg := config.NewConfig()

	require.NoError(t, cfg.Set("max_width", "80"))
	require.NoError(t, cfg.Set("hard_tabs", "true"))
	require.NoError(t, cfg.Set("chain_width", "40"))
	require.NoError(t, cfg.Set("brace_style", "always_next_line"))
	require.NoError(t, cfg.Set("ignore", "target/**, vendor/**"))

	assert.Equal(t, 80, cfg.MaxWidth)
	assert.True(t, cfg.HardTabs)
	require.NotNil(t, cfg.ChainWidth)
	assert.Equal(t, 40, *cfg.ChainWidth)
	assert.Equal(t, config.BraceAlwaysNextLine, cfg.BraceStyle)
	assert.Equal(t, []string{"target/**", "vendor/**"}, cfg.Ignore)

	got, ok := cfg.Get("chain_width")
	assert.True(t, ok)
	assert.Equal(t, "40", got)
}

func TestSet_Errors(t *testing.T) {
	cfg := config.NewConfig()

	assert.ErrorIs(t, cfg.Set("nope", "1"), config.ErrUnknownOption)
	assert.ErrorIs(t, cfg.Set("check", "true"), config.ErrUnknownOption)
	assert.ErrorIs(t, cfg.Set("max_width", "wide"), config.ErrInvalidValue)
	assert.ErrorIs(t, cfg.Set("hard_tabs", "sometimes"), config.ErrInvalidValue)
	assert.ErrorIs(t, cfg.Set("trailing_comma", "sometimes"), config.ErrInvalidValue)
	assert.Equal(t, config.NewConfig(), cfg)
}

func TestGenerateTemplate(t *testing.T) {
	t.Run("full yaml decodes to defaults", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true, Format: config.TemplateYAML})
		require.NoError(t, err)
		assert.Contains(t, string(data), "# rsfmt configuration")
		assert.Contains(t, string(data), "# fn_call_width: 60\n")

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, config.NewConfig(), cfg)
	})

	t.Run("full toml decodes to defaults", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true, Format: config.TemplateTOML})
		require.NoError(t, err)
		assert.Contains(t, string(data), `newline_style = "auto"`)

		cfg, err := config.FromTOML(data)
		require.NoError(t, err)
		assert.Equal(t, config.NewConfig(), cfg)
	})

	t.Run("minimal", func(t *testing.T) {
		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)
		assert.Contains(t, string(data), "max_width: 100")
		assert.Contains(t, string(data), `# ignore: ["target/**"]`)
		assert.NotContains(t, string(data), "comment_width")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.ErrorIs(t, err, config.ErrInvalidValue)
	})
}
