package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ehr/hospital/internal/config"
	"github.com/ehr/hospital/internal/domain/billing"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the billing dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), cfg, newLogger(cfg.Env, cfg.LogLevel))
			if err != nil {
				return err
			}
			defer a.close()

			d, err := a.billing.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), d, format)
		},
	}
	cmd.Flags().String("format", "json", "Output format: json or yaml")
	return cmd
}

func writeReport(w io.Writer, d *billing.Dashboard, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported report format %q, want json or yaml", format)
}
