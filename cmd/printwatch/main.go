package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/printwatch/internal/adapters/fs"
	"github.com/bft-labs/printwatch/internal/cliconfig"
	"github.com/bft-labs/printwatch/internal/domain"
	"github.com/bft-labs/printwatch/pkg/log"
)

const helpDescription = `
Watch a downloads folder for label archives and print them as they arrive.

Every new "Etiquetas - *.zip" is unpacked into a staging folder and each PDF at
its top level is sent to the configured printer through a print-capable reader.
Archives already in the folder when printwatch starts are left alone.

Configure via flags, PRINTWATCH_* environment variables or
$HOME/.printwatch/config.toml. The reader path is remembered in settings.yaml.
`

var exampleUsage = strings.TrimSpace(`
  printwatch --watch-dir ~/Downloads --printer "Zebra ZD420" --adobe-path "/opt/reader/acro"
  printwatch --watch-dir ~/Downloads --printer "Zebra ZD420" --retention ephemeral --tui
  printwatch history --history-db printwatch-history.db
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "printwatch",
		Short:         "Print label archives as soon as they land in a folder",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// The live view owns the terminal; errors still reach the error log.
			var logOut io.Writer = os.Stderr
			if cfg.TUI {
				logOut = io.Discard
			}
			logger := log.New(log.Options{
				Out:       logOut,
				Debug:     cfg.Debug,
				ErrorFile: cfg.ErrorLog,
			})
			logger.Debug("configuration", log.Any("config", cfg))

			exe, err := fs.NewSettingsFile(cfg.SettingsFile).ResolveExecutable(cfg.AdobePath)
			if err != nil {
				logger.Error("print executable not configured", log.Err(err))
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, exe, logger)
		},
	}

	f := root.Flags()
	f.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.printwatch/config.toml)")
	f.StringVar(&cfg.WatchDir, "watch-dir", cfg.WatchDir, "folder to watch for label archives")
	f.StringVar(&cfg.Printer, "printer", cfg.Printer, "printer name passed to the reader")
	f.StringVar(&cfg.AdobePath, "adobe-path", cfg.AdobePath, "path of the print-capable reader (saved to the settings file)")
	f.StringVar(&cfg.SettingsFile, "settings-file", cfg.SettingsFile, "settings file remembering the reader path")
	f.StringVar(&cfg.StagingDir, "staging-dir", cfg.StagingDir, "folder archives are extracted into")
	f.StringVar(&cfg.Retention, "retention", cfg.Retention, "what happens to printed files: archive or ephemeral")
	f.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "how often the folder is listed")
	f.DurationVar(&cfg.PrintTimeout, "print-timeout", cfg.PrintTimeout, "kill the reader after this long (0 waits forever)")
	f.BoolVar(&cfg.StrictExit, "strict-exit", cfg.StrictExit, "treat a non-zero reader exit status as a failure")
	f.BoolVar(&cfg.IsolateFailures, "isolate-failures", cfg.IsolateFailures, "keep watching after an archive fails")
	f.BoolVar(&cfg.Notify, "notify", cfg.Notify, "poll early on file system notifications")
	f.BoolVar(&cfg.CountPages, "count-pages", cfg.CountPages, "report the page count of every document")
	f.StringVar(&cfg.HistoryDB, "history-db", cfg.HistoryDB, "SQLite file recording every dispatched document (empty disables)")
	f.StringVar(&cfg.ErrorLog, "error-log", cfg.ErrorLog, "rotating file receiving error log lines (empty disables)")
	f.BoolVar(&cfg.TUI, "tui", cfg.TUI, "show a live terminal view instead of plain lines")
	f.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	f.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "archive name prefix")
	f.StringVar(&cfg.Suffix, "suffix", cfg.Suffix, "archive name suffix")
	for _, name := range []string{"prefix", "suffix"} {
		if err := f.MarkHidden(name); err != nil {
			fmt.Fprintf(os.Stderr, "hide %s flag: %v\n", name, err)
		}
	}

	root.AddCommand(newHistoryCmd())

	if err := root.Execute(); err != nil {
		if msg := describeError(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

// loadConfig applies the config file and then PRINTWATCH_* variables,
// leaving explicitly set flags untouched.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("%w: load %s: %w", domain.ErrConfiguration, cfgFile, err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
		}
	} else if cfgPath != "" {
		return fmt.Errorf("%w: config file %s not found", domain.ErrConfiguration, cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return nil
}

// describeError turns an error into the single line shown to the operator.
// It returns "" for failures already reported on the progress feed.
func describeError(err error) string {
	var reported reportedError
	switch {
	case errors.As(err, &reported):
		return ""
	case errors.Is(err, domain.ErrConfiguration):
		return "Configuration error: " + strings.TrimPrefix(err.Error(), domain.ErrConfiguration.Error()+": ")
	default:
		return "printwatch: " + err.Error()
	}
}
