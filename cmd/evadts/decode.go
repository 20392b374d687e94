package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/username/vendingreader/backend/src/models"
	"github.com/username/vendingreader/backend/src/parsers/evadts"
	"github.com/username/vendingreader/backend/src/processors"
	"github.com/username/vendingreader/backend/src/security/validation"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newDecodeCmd(cfgFile *string) *cobra.Command {
	var format string
	var summary, quiet bool

	cmd := &cobra.Command{
		Use:   "decode <file|->",
		Short: "Decode an audit file and print the report",
		Long: `Decode reads an EVA-DTS audit file ("-" for stdin) and prints the decoded
report, or with --summary the reading summary that an upload would store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCLIConfig(*cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = format
			}
			if cmd.Flags().Changed("summary") {
				cfg.Summary = summary
			}
			if cmd.Flags().Changed("quiet") {
				cfg.Quiet = quiet
			}
			if cfg.Format != formatJSON && cfg.Format != formatYAML {
				return fmt.Errorf("unknown format %q (want json or yaml)", cfg.Format)
			}

			report, err := decodeFile(cmd, args[0])
			if err != nil {
				return err
			}

			var out any = report
			if cfg.Summary {
				s, err := processors.NewReadingProcessor().Summarize(report, time.Now())
				if err != nil {
					return err
				}
				out = s
			}
			if err := writeOutput(cmd.OutOrStdout(), out, cfg.Format); err != nil {
				return err
			}
			if !cfg.Quiet {
				printStatus(cmd, args[0], report)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or yaml")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print the reading summary instead of the full report")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the status line on stderr")
	return cmd
}

// decodeFile reads path ("-" for stdin), converts legacy encodings to UTF-8 and decodes it.
func decodeFile(cmd *cobra.Command, path string) (*models.EvaDtsReport, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text, _, err := validation.NormalizeTextEncoding(raw)
	if err != nil {
		return nil, err
	}
	report, err := evadts.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return report, nil
}

func printStatus(cmd *cobra.Command, path string, report *models.EvaDtsReport) {
	w := cmd.ErrOrStderr()
	if report.MachineInfo.SerialNumber == "" && report.MachineInfo.AssetNumber == nil {
		color.New(color.FgYellow).Fprintf(w, "warning: %s has no machine identity (ID1)\n", path)
	}
	color.New(color.FgGreen).Fprintf(w, "decoded %s: %d products, %d events\n", path, len(report.Products), len(report.Events))
}

// writeOutput emits v as indented JSON or as YAML with the same snake_case keys.
func writeOutput(w io.Writer, v any, format string) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if format == formatJSON {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
