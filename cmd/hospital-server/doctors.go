package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ehr/hospital/internal/config"
)

func doctorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Manage the doctor roster",
	}

	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove doctors, moving their visits to the sentinel doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, _ := cmd.Flags().GetInt64Slice("id")
			if len(ids) == 0 {
				return fmt.Errorf("--id is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), cfg, newLogger(cfg.Env, cfg.LogLevel))
			if err != nil {
				return err
			}
			defer a.close()

			return removeDoctors(cmd.Context(), a, ids, cmd.OutOrStdout())
		},
	}
	removeCmd.Flags().Int64Slice("id", nil, "Doctor id to remove (repeatable)")

	cmd.AddCommand(removeCmd)
	return cmd
}

// removeDoctors prints the deletion report whenever one exists, including
// after a partial failure.
func removeDoctors(ctx context.Context, a *app, ids []int64, w io.Writer) error {
	if _, err := a.resolveSentinel(ctx); err != nil {
		return err
	}
	report, err := a.doctors.DeleteWithReassignment(ctx, ids)
	if report != nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil && err == nil {
			err = encErr
		}
	}
	return err
}
