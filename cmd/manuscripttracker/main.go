package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ManuscriptTracker/internal/app"
	"ManuscriptTracker/internal/config"
	"ManuscriptTracker/internal/domain"
	"ManuscriptTracker/internal/infrastructure/report"
	"ManuscriptTracker/internal/journals"
	"ManuscriptTracker/internal/logging"
	"ManuscriptTracker/internal/parser"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "manuscripttracker",
		Short: "Scrapes journal editorial dashboards for manuscript and referee status",
	}
	root.AddCommand(scanCmd(), serveCmd(), parseCmd())
	return root
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run one scrape of all configured journals",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, cleanup, err := buildApp()
			if err != nil {
				return err
			}
			defer cleanup()
			return application.Run(cmd.Context())
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled scrapes until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, cleanup, err := buildApp()
			if err != nil {
				return err
			}
			defer cleanup()
			return application.Serve(cmd.Context())
		},
	}
}

func parseCmd() *cobra.Command {
	var journalCode string

	cmd := &cobra.Command{
		Use:   "parse <table.html>",
		Short: "Parse a saved table fragment and print the report JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := journals.Resolve(journalCode)
			if err != nil {
				return fmt.Errorf("%w (known: %s)", err, strings.Join(journals.Codes(), ", "))
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read fixture: %w", err)
			}

			manuscripts, notices, err := parser.ParseManuscriptTable(string(raw), desc.IDPattern, desc.Layout)
			if err != nil {
				return err
			}

			payload, err := report.Render(domain.ScrapeReport{
				RunID:       uuid.NewString(),
				Journal:     desc.Code,
				Platform:    desc.Platform,
				ScrapedAt:   time.Now(),
				Manuscripts: manuscripts,
				Notices:     notices,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}

	cmd.Flags().StringVarP(&journalCode, "journal", "j", "sicon", "journal code for ID pattern and column layout")
	return cmd
}

func buildApp() (*app.Application, func(), error) {
	cfg := config.Load()
	logger, closeLog := logging.New(cfg.Logging.Level, cfg.Logging.File)

	application, err := app.New(cfg, logger)
	if err != nil {
		_ = closeLog()
		return nil, nil, err
	}

	cleanup := func() {
		if err := application.Close(); err != nil {
			logger.Error("close application", "error", err)
		}
		_ = closeLog()
	}
	return application, cleanup, nil
}
