package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/linehash/hash-contract-tests/config"
	"github.com/linehash/hash-contract-tests/framework"
	"github.com/linehash/hash-contract-tests/hashtests"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errTestsFailed makes the process exit with status 1 without printing anything more.
var errTestsFailed = errors.New("some tests failed")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var params commandParams
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "hash-contract-tests",
		Short:         "Contract tests for line-hashing TCP servers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := params.resolve(v)
			if err != nil {
				return err
			}
			return run(cfg, params, cmd.OutOrStdout())
		},
	}
	if err := params.addFlags(cmd, v); err != nil {
		panic(err)
	}
	return cmd
}

func newLogger(cfg config.Config, out io.Writer) zerolog.Logger {
	if cfg.PrettyLogs {
		out = zerolog.ConsoleWriter{Out: out}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

func run(cfg config.Config, params commandParams, out io.Writer) error {
	runID := uuid.NewString()
	logger := newLogger(cfg, os.Stderr).With().Str("run", runID).Logger()
	if !params.debugAll {
		logger = logger.Level(zerolog.InfoLevel)
	}

	logger.Info().
		Str("server", cfg.ServerPath).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Int("connections", cfg.Connections).
		Int("symbols", cfg.Symbols).
		Msg("Starting contract tests")

	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, params.filters)

	fmt.Fprintln(out, "Running test suite")

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
		Out:                  out,
	}

	results := hashtests.RunTestSuite(
		cfg,
		params.filters.AsFilter,
		framework.MultiTestLogger(testLogger, framework.ZerologTestLogger(logger)),
		framework.ZerologLogger(logger),
	)

	fmt.Fprintln(out)
	framework.PrintResults(out, results)

	if cfg.ReportPath != "" {
		if err := framework.NewReport(runID, results).WriteFile(cfg.ReportPath); err != nil {
			return fmt.Errorf("unable to write report: %w", err)
		}
		logger.Info().Str("path", cfg.ReportPath).Msg("Wrote report")
	}

	if !results.OK() {
		logger.Error().Int("failures", len(results.Failures)).Msg("Contract tests failed")
		return errTestsFailed
	}
	return nil
}
