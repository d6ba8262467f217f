package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"git.sr.ht/~jakintosh/feescan/internal/analyzer"
	"git.sr.ht/~jakintosh/feescan/internal/clipboard"
	"git.sr.ht/~jakintosh/feescan/internal/config"
	"git.sr.ht/~jakintosh/feescan/internal/core"
	"git.sr.ht/~jakintosh/feescan/internal/logging"
	"git.sr.ht/~jakintosh/feescan/internal/tui"
	"git.sr.ht/~jakintosh/feescan/internal/version"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// globalFlags override values from the config file and environment
type globalFlags struct {
	configPath string
	backendURL string
	currency   string
	locale     string
	logFile    string
	timeout    time.Duration
	verbose    bool
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "feescan [statement]",
		Short: "Find bank fees and charges in a statement",
		Long: "Upload a CSV or PDF bank statement to the fee analysis service and\n" +
			"browse the detected fees in a terminal UI.",
		Args:    cobra.MaximumNArgs(1),
		Version: version.Data().String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, flags, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&flags.backendURL, "backend-url", "", "analysis service base URL (default "+config.DefaultBackendURL+")")
	pf.StringVar(&flags.currency, "currency", "", "currency symbol used when the service sends none")
	pf.StringVar(&flags.locale, "locale", "", "locale for digit grouping, e.g. en-IN")
	pf.DurationVar(&flags.timeout, "timeout", 0, "give up on the service after this long (0 waits forever)")
	pf.StringVar(&flags.logFile, "log-file", "", "append logs to this file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log debug detail")

	root.AddCommand(newScanCommand(flags), newVersionCommand())
	return root
}

// loadConfig layers flags over the config file, .env and environment
func loadConfig(cmd *cobra.Command, flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load(config.Options{
		Path:        flags.configPath,
		DefaultPath: config.DefaultPath(),
		DotEnv:      ".env",
	})
	if err != nil {
		return cfg, err
	}

	set := cmd.Flags()
	if set.Changed("backend-url") {
		cfg.BackendURL = config.NormalizeURL(flags.backendURL)
	}
	if set.Changed("currency") {
		cfg.Currency = flags.currency
	}
	if set.Changed("locale") {
		cfg.Locale = flags.locale
	}
	if set.Changed("timeout") {
		cfg.Timeout = flags.timeout
	}
	if set.Changed("log-file") {
		cfg.LogFile = flags.logFile
	}
	if set.Changed("verbose") {
		cfg.Verbose = flags.verbose
	}
	return cfg, cfg.Validate()
}

// openLogger writes to the configured log file, or to fallback when none is
// set. A nil fallback discards everything.
func openLogger(cfg config.Config, fallback io.Writer) (*logging.Logger, func(), error) {
	level := logging.ParseLevel(cfg.Verbose)
	if cfg.LogFile == "" {
		if fallback == nil {
			return logging.Discard(), func() {}, nil
		}
		return logging.New(logging.Config{Level: level, Writer: fallback}), func() {}, nil
	}
	logger, closer, err := logging.OpenFile(cfg.LogFile, level)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = closer.Close() }, nil
}

func newClient(cfg config.Config, logger *logging.Logger) *analyzer.Client {
	return analyzer.New(cfg.BackendURL,
		analyzer.WithLogger(logger.WithComponent("analyzer")),
		analyzer.WithUserAgent(version.Data().UserAgent()),
	)
}

func runInteractive(cmd *cobra.Command, flags *globalFlags, args []string) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errors.New("not a terminal; use 'feescan scan <statement>' for plain output")
	}

	// the UI owns the screen, so logs only go to a file
	logger, closeLog, err := openLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info("starting", "version", version.Data().Version, "backend", cfg.BackendURL)

	model := tui.NewModel(newClient(cfg, logger), tui.Settings{
		Formatter: core.NewFormatter(cfg.LanguageTag(), cfg.Currency),
		Timeout:   cfg.Timeout,
		Logger:    logger.WithComponent("tui"),
		Copier:    clipboard.Default(),
	})
	if len(args) == 1 {
		model.SelectStatement(args[0])
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
