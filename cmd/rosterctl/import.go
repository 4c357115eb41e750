package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Monalisa-XD/Academix/internal/service"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <faculty|students> <file.csv>",
		Short: "Create roster records from a CSV file with a header row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer file.Close()

			importer := service.NewImportService(nil, a.logger, nil)
			result, err := importer.Import(cmd.Context(), a.workspace(), args[0], file)
			if result != nil {
				printImportResult(cmd, result)
			}
			return err
		},
	}
}

func printImportResult(cmd *cobra.Command, result *service.ImportResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d created, %d failed\n", result.Entity, result.Created, result.Failed)
	for _, rowErr := range result.Errors {
		fmt.Fprintf(out, "  row %d: %s\n", rowErr.Row, rowErr.Message)
	}
}
