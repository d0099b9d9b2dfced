package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rsfmt/internal/configloader"
	"github.com/yaklabco/rsfmt/internal/ui/pretty"
	"github.com/yaklabco/rsfmt/pkg/config"
)

type optionsFlags struct {
	format string
}

const formatJSON = "json"

// optionEntry represents an option in JSON output.
type optionEntry struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Default     string   `json:"default"`
	Values      []string `json:"values,omitempty"`
	Description string   `json:"description"`
	EnvVar      string   `json:"env_var"`
}

func newOptionsCommand() *cobra.Command {
	flags := &optionsFlags{}

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List configuration options",
		Long: `List every configuration option with its type, default value,
accepted values and the environment variable that overrides it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := optionEntries()
			switch flags.format {
			case formatJSON:
				return writeOptionsJSON(cmd.OutOrStdout(), entries)
			case "text", "":
				color, _ := cmd.Flags().GetString("color") //nolint:errcheck // defaults to auto
				return writeOptionsText(cmd.OutOrStdout(), entries, color)
			default:
				return fmt.Errorf("%w: --format must be text or json, got %q", ErrInvalidUsage, flags.format)
			}
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func optionEntries() []optionEntry {
	infos := config.Options()
	entries := make([]optionEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, optionEntry{
			Name:        info.Name,
			Type:        info.Type,
			Default:     info.Default,
			Values:      info.Values,
			Description: info.Description,
			EnvVar:      configloader.EnvVarName(info.Name),
		})
	}
	return entries
}

func writeOptionsText(w io.Writer, entries []optionEntry, colorMode string) error {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, w))

	var sb strings.Builder
	for _, entry := range entries {
		def := entry.Default
		if def == "" {
			def = "(none)"
		}
		fmt.Fprintf(&sb, "%s %s\n", styles.Bold.Render(entry.Name), styles.Dim.Render("<"+entry.Type+">"))
		fmt.Fprintf(&sb, "    %s\n", entry.Description)
		fmt.Fprintf(&sb, "    default: %s\n", def)
		if len(entry.Values) > 0 {
			fmt.Fprintf(&sb, "    values:  %s\n", strings.Join(entry.Values, ", "))
		}
		fmt.Fprintf(&sb, "    env:     %s\n\n", entry.EnvVar)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write options: %w", err)
	}
	return nil
}

// writeOptionsJSON outputs options as a JSON array.
func writeOptionsJSON(w io.Writer, entries []optionEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	return nil
}
