package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"git.sr.ht/~jakintosh/feescan/internal/core"
	"git.sr.ht/~jakintosh/feescan/internal/tui"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newScanCommand(flags *globalFlags) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "scan <statement>",
		Short: "Analyze a statement and print the fee report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			var logOut io.Writer
			if cfg.Verbose {
				logOut = cmd.ErrOrStderr()
			}
			logger, closeLog, err := openLogger(cfg, logOut)
			if err != nil {
				return err
			}
			defer closeLog()

			statement := core.NewStatement(core.CleanPath(args[0]))
			if err := statement.Validate(); err != nil {
				return errors.New(core.ErrorMessage(err))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
				defer cancel()
			}

			result, err := newClient(cfg, logger).Analyze(ctx, statement)
			if err != nil {
				return errors.New(core.ErrorMessage(err))
			}
			if result == nil {
				logger.Info("service returned no report")
				return nil
			}

			out := cmd.OutOrStdout()
			formatter := core.NewFormatter(cfg.LanguageTag(), cfg.Currency)
			report := tui.RenderReport(result, formatter, lipgloss.NewRenderer(out), width)
			_, err = fmt.Fprintln(out, report)
			return err
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 80, "report width in columns")
	return cmd
}
