package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/rsfmt/internal/ui/pretty"
)

// helpTheme picks the pretty styles used by each part of a help page.
type helpTheme struct {
	command lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpTheme(styles *pretty.Styles) helpTheme {
	return helpTheme{
		command: styles.Bold,
		heading: styles.SummaryTitle,
		name:    styles.DiffAdd,
		flag:    styles.DiffHunk,
		dim:     styles.Dim,
	}
}

// HelpFormatter renders Cobra help and usage pages with lipgloss styles.
type HelpFormatter struct {
	colorMode string
	theme     helpTheme
	usage     *template.Template
	help      *template.Template
}

// NewHelpFormatter creates a help formatter. colorMode is the default for
// commands without a --color flag; color also requires writer to be a
// terminal.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	h := &HelpFormatter{colorMode: colorMode}
	h.setColor(colorMode, writer)

	funcs := template.FuncMap{
		"cmd":     func(s string) string { return h.theme.command.Render(s) },
		"heading": func(s string) string { return h.theme.heading.Render(s) },
		"name":    func(s string) string { return h.theme.name.Render(s) },
		"dim":     func(s string) string { return h.theme.dim.Render(s) },
		"flags":   h.flagUsages,
		"rpad":    rpad,
		"join":    strings.Join,
		"trim":    trimTrailingWhitespace,
	}
	h.usage = template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	h.help = template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate + usageTemplate))
	return h
}

func (h *HelpFormatter) setColor(colorMode string, writer io.Writer) {
	h.theme = newHelpTheme(pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer)))
}

// resolveColor picks the theme for c from its parsed --color flag and the
// writer the page goes to.
func (h *HelpFormatter) resolveColor(c *cobra.Command, writer io.Writer) {
	mode := h.colorMode
	if flag := c.Flags().Lookup("color"); flag != nil && flag.Changed {
		mode = flag.Value.String()
	}
	h.setColor(mode, writer)
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ cmd .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ cmd .CommandPath }} [command]{{end}}
{{- if .Aliases}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}{{end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}{{end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ name (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}{{end}}
{{- if .HasAvailableSubCommands}}

Use "{{ cmd (print .CommandPath " [command] --help") }}" for more information about a command.{{end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}`

// ApplyToCommand installs the help and usage renderers on cmd. Cobra
// inherits them down the command tree.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		h.resolveColor(c, c.OutOrStderr())
		if err := h.usage.Execute(c.OutOrStderr(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		h.resolveColor(c, c.OutOrStdout())
		if err := h.help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// flagUsages styles the flag names of a pflag usage block. The layout
// pflag computed is kept; only the flag tokens and type hints are colored.
func (h *HelpFormatter) flagUsages(set *pflag.FlagSet) string {
	usages := strings.TrimSuffix(set.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles one line of the form "  -f, --flag type   text".
func (h *HelpFormatter) styleFlagLine(line string) string {
	body := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(body)]

	gap := strings.Index(body, "  ")
	if gap < 0 {
		return line
	}
	desc := strings.TrimLeft(body[gap:], " ")
	pad := body[gap : len(body)-len(desc)]

	tokens := strings.Fields(body[:gap])
	for i, token := range tokens {
		switch {
		case strings.HasSuffix(token, ","):
			tokens[i] = h.theme.flag.Render(strings.TrimSuffix(token, ",")) + ","
		case strings.HasPrefix(token, "-"):
			tokens[i] = h.theme.flag.Render(token)
		default:
			tokens[i] = h.theme.dim.Render(token)
		}
	}
	return indent + strings.Join(tokens, " ") + pad + desc
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
