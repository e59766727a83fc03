// Package cli implements the reconciler command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"transaction-reconciler/internal/config"
	"transaction-reconciler/internal/gateway"
	"transaction-reconciler/internal/logger"
	"transaction-reconciler/internal/storage"
	"transaction-reconciler/internal/usecase"
)

type app struct {
	stdout io.Writer
	stderr io.Writer

	configDir  string
	logLevel   string
	format     string
	outputPath string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the command tree writing reports to stdout.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "reconciler <source> <system>",
		Short: "Reconcile a provider transaction feed against the system of record",
		Long: `Reconciler compares two sets of transaction records and reports
transactions missing on either side and transactions whose amount or status differ.

Each input may be a file path, inline CSV text, or an s3://bucket/key object.

Exit codes:
  0  report produced
  1  input error (missing, unreadable or malformed input)
  2  no data (both inputs contain no valid records)

Examples:
  reconciler source.csv system.csv
  reconciler --format yaml --output report.yaml source.csv system.csv
  reconciler s3://recon/provider.csv s3://recon/ledger.csv`,
		Args:              cobra.ExactArgs(2),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runReconcile,
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.logger.Sync() },
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", ".", "Directory holding an optional .env file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	root.Flags().StringVarP(&a.format, "format", "f", "", "Report format: json or yaml (default from OUTPUT_FORMAT)")
	root.Flags().StringVarP(&a.outputPath, "output", "o", "", "Write the report to a file instead of stdout")

	root.AddCommand(newServeCmd(a))
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, usecase.ErrNoData) {
		fmt.Fprintln(stderr, "Both inputs contain no valid records.")
	} else {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(a.configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = l
	return nil
}

// newRepository builds the CSV repository. The object store is only
// dialed when one of the locators needs it.
func (a *app) newRepository(locators []string, opts ...gateway.Option) (*gateway.CSVRecordRepository, error) {
	opts = append([]gateway.Option{
		gateway.WithIDFields(a.cfg.Ingest.PrimaryIDField, a.cfg.Ingest.FallbackIDField),
		gateway.WithDelimiter(a.cfg.Ingest.DelimiterRune()),
	}, opts...)

	for _, loc := range locators {
		if !storage.IsLocator(loc) {
			continue
		}
		client, err := storage.NewClient(a.cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		opts = append(opts, gateway.WithObjectStore(client))
		break
	}

	return gateway.NewCSVRecordRepository(opts...), nil
}
