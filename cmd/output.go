package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	outputTable outputFormat = "table"
	outputJSON  outputFormat = "json"
	outputYAML  outputFormat = "yaml"
)

func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", string(outputTable), "Output format (table|json|yaml)")
}

func parseOutputFormat(raw string) (outputFormat, error) {
	format := outputFormat(strings.ToLower(strings.TrimSpace(raw)))
	switch format {
	case outputTable, outputJSON, outputYAML:
		return format, nil
	case "":
		return outputTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (supported: table, json, yaml)", raw)
	}
}

// writeOutput encodes value for json and yaml; table output comes from render.
func writeOutput(cmd *cobra.Command, format outputFormat, value any, render func() (string, error)) error {
	out := cmd.OutOrStdout()

	switch format {
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case outputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	default:
		rendered, err := render()
		if err != nil {
			return fmt.Errorf("render output: %w", err)
		}
		_, err = fmt.Fprintln(out, rendered)
		return err
	}
}
