package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"transaction-reconciler/internal/domain"
	"transaction-reconciler/internal/logger"
	"transaction-reconciler/internal/report"
	"transaction-reconciler/internal/usecase"
)

func (a *app) runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	l := logger.WithRunID(a.logger, uuid.NewString())

	formatName := a.format
	if formatName == "" {
		formatName = a.cfg.Output.Format
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	repo, err := a.newRepository(args)
	if err != nil {
		return err
	}

	l.Info("starting reconciliation", zap.String("source", describe(args[0])), zap.String("system", describe(args[1])))

	uc := usecase.NewReconciliationUseCase(repo, l)
	rep, err := uc.Reconcile(ctx, args[0], args[1])
	if err != nil {
		l.Debug("reconciliation aborted", zap.Error(err))
		return err
	}

	if a.outputPath == "" {
		return report.Write(a.stdout, rep, format, a.cfg.Output.Indent)
	}
	if err := writeReportFile(a.outputPath, rep, format, a.cfg.Output.Indent); err != nil {
		return err
	}
	l.Info("report written", zap.String("path", a.outputPath))
	return nil
}

func writeReportFile(path string, rep *domain.ReconciliationReport, format report.Format, indent int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := report.Write(f, rep, format, indent); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// describe keeps inline payloads out of the logs.
func describe(locator string) string {
	if strings.ContainsAny(locator, "\r\n") {
		return "inline input"
	}
	return locator
}
