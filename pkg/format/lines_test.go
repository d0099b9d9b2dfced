package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rsfmt/pkg/config"
	"github.com/yaklabco/rsfmt/pkg/format/report"
)

func TestCheckLines(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MaxWidth = 20

	text := "fn main() {}\n" +
		"let x = \"" + strings.Repeat("a", 20) + "\";\n" +
		"let y = 1;  \n"
	var skipped report.RangeSet

	diags := checkLines(text, cfg, &skipped)
	require.Len(t, diags, 2)
	assert.Equal(t, report.LineOverflow, diags[0].Kind)
	assert.Equal(t, 2, diags[0].Line)
	assert.Contains(t, diags[0].Message, "maximum: 20")
	assert.Contains(t, diags[0].Message, "found: 31")
	assert.True(t, diags[0].IsWarning())
	assert.Equal(t, report.TrailingWhitespace, diags[1].Kind)
	assert.Equal(t, 3, diags[1].Line)
}

func TestCheckLines_Tabs(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MaxWidth = 10
	cfg.TabSpaces = 4

	diags := checkLines("\t\t\tabc\n", cfg, &report.RangeSet{})
	require.Len(t, diags, 1)
	assert.Equal(t, report.LineOverflow, diags[0].Kind)
}

func TestCheckLines_Skipped(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MaxWidth = 10
	text := strings.Repeat("x", 20) + "\nok\n"

	var skipped report.RangeSet
	skipped.Add(1, 1)
	assert.Empty(t, checkLines(text, cfg, &skipped))

	cfg.ErrorOnUnformatted = true
	diags := checkLines(text, cfg, &skipped)
	require.Len(t, diags, 1)
	assert.Equal(t, 1, diags[0].Line)
}

func TestCheckLicense(t *testing.T) {
	cfg := config.NewConfig()
	assert.Empty(t, checkLicense("anything", cfg))

	cfg.LicenseTemplate = `// SPDX-License-Identifier: (MIT|Apache-2\.0)`
	assert.Empty(t, checkLicense("// SPDX-License-Identifier: MIT\nfn main() {}\n", cfg))

	diags := checkLicense("fn main() {}\n// SPDX-License-Identifier: MIT\n", cfg)
	require.Len(t, diags, 1)
	assert.Equal(t, report.LicenseCheck, diags[0].Kind)
	assert.Equal(t, "fn main() {}", diags[0].LineText)

	cfg.LicenseTemplate = `(unclosed`
	diags = checkLicense("x", cfg)
	require.Len(t, diags, 1)
	assert.False(t, diags[0].IsWarning())
	assert.Contains(t, diags[0].Message, "invalid license_template")
}
