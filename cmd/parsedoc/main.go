package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/freightdock/intake/internal/common"
	"github.com/freightdock/intake/internal/export"
	"github.com/freightdock/intake/internal/ingest"
	"github.com/freightdock/intake/internal/pipeline"
	"github.com/freightdock/intake/internal/repository"
	"github.com/freightdock/intake/internal/vendors"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "parsedoc",
		Short: "Freight document extraction tool",
		Long: `parsedoc runs the vendor-detection and extraction engine against
converted freight documents (text line dumps) and prints or stores the
resulting canonical shipment orders.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

func parseCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "parse <document.txt> [more-documents...]",
		Short: "Extract shipment orders from converted documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := quietLogger()
			processor := pipeline.NewProcessor(vendors.NewDefaultRegistry(logger), nil, logger)

			if dbPath != "" {
				repo, err := repository.OpenSQLite(dbPath)
				if err != nil {
					return err
				}
				defer repo.Close()
				processor.Orders = repo
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			ctx := common.WithSource(context.Background(), "cli")
			for _, path := range args {
				lines, err := ingest.ReadLines(path)
				if err != nil {
					return err
				}

				filename := filepath.Base(path)
				if processor.Orders != nil {
					stored, err := processor.Process(ctx, lines, filename)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					if err := enc.Encode(stored); err != nil {
						return err
					}
					continue
				}

				order, vendor, err := processor.ExtractOrder(lines, filename)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "// vendor: %s\n", vendor)
				if err := enc.Encode(order); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "store extracted orders in this SQLite database")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		dbPath string
		out    string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored orders to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := quietLogger()

			repo, err := repository.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			data, err := export.NewService(repo, logger).ExportOrdersXLSX(context.Background(), limit)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write workbook %q: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "data/orders.db", "SQLite database with stored orders")
	cmd.Flags().StringVar(&out, "out", "orders.xlsx", "output XLSX path")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to export (0 = all)")
	return cmd
}
