package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dyike/FiiGo/config"
	"github.com/dyike/FiiGo/internal/chart"
	"github.com/dyike/FiiGo/internal/dataflows"
	"github.com/dyike/FiiGo/internal/display"
	"github.com/dyike/FiiGo/internal/logger"
	"github.com/dyike/FiiGo/internal/pipeline"
	"github.com/dyike/FiiGo/internal/utils"
)

// Version is set at build time.
var Version = "v0.1.0"

const defaultConfigFilename = "fiigo.json"

// allowMissingConfig marks commands that may run before the --config file exists.
const allowMissingConfig = "fiigo/allow-missing-config"

// app carries what the persistent pre-run resolved to the subcommands.
type app struct {
	cfg   *config.Config
	store *utils.ConfigStore
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}
	var configPath string
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "fiigo",
		Short: "FiiGo - real-estate fund news and prices",
		Long: `FiiGo collects Brazilian real-estate investment fund (FII) data.
It exports the latest FII headlines to CSV and reports a year of price history
for a fund, with an optional closing-price chart.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			fallback, err := config.DefaultConfigPath()
			if err != nil {
				fallback = ""
			}
			a.store = utils.NewConfigStore(defaultConfigFilename, fallback)
			if _, err := a.store.SetPath(configPath); err != nil {
				return err
			}

			load := config.Load
			if cmd.Annotations[allowMissingConfig] == "true" {
				load = config.LoadOrDefault
			}
			cfg, err := load(a.store.Existing())
			if err != nil {
				return err
			}
			if debug {
				cfg.Debug = true
			}
			logger.Init(cfg.Debug, cfg.LogFormat)
			a.cfg = cfg

			logger.Log.WithFields(logger.Fields{
				"config":   a.store.Existing(),
				"provider": cfg.PriceProvider,
			}).Debug("configuration loaded")
			return nil
		},
	}

	rootCmd.AddCommand(newNewsCmd(a))
	rootCmd.AddCommand(newPricesCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path")

	return rootCmd
}

// newNewsCmd creates the news command
func newNewsCmd(a *app) *cobra.Command {
	var opts pipeline.NewsOptions

	cmd := &cobra.Command{
		Use:   "news",
		Short: "Scrape the latest FII headlines and export them to CSV",
		Long: `Fetch the FII news listing page, extract up to --max headline cards and
write them to a UTF-8 CSV file with the columns titulo, link, data and resumo.
Example: fiigo news --max 10 --output noticias.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			session := pipeline.NewNewsSession(a.cfg, opts, cmd.OutOrStdout())
			return session.Execute(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "News listing URL (defaults to news_url)")
	cmd.Flags().IntVar(&opts.MaxItems, "max", 0, "Maximum number of news items (defaults to max_news)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "CSV file name (defaults to noticias_fii_<timestamp>.csv)")

	cmd.AddCommand(newNewsShowCmd(a))
	return cmd
}

// newNewsShowCmd creates the news show subcommand
func newNewsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [FILE]",
		Short: "Print an exported news CSV (the latest one when FILE is omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := utils.NewCSVManager(a.cfg.OutputDir)

			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				latest, err := manager.FindLatestNewsCSV()
				if err != nil {
					return err
				}
				path = latest
			}

			items, err := manager.ReadNewsFromCSV(path)
			if err != nil {
				return err
			}
			display.NewResultsDisplay(cmd.OutOrStdout()).NewsList(path, items)
			return nil
		},
	}
}

// newPricesCmd creates the prices command
func newPricesCmd(a *app) *cobra.Command {
	var provider string
	var chartMode string

	cmd := &cobra.Command{
		Use:   "prices [TICKER]",
		Short: "Report a year of price history for a fund",
		Long: `Fetch basic information and the daily history of the last year (ending
yesterday) for a ticker, print price statistics and optionally save a
closing-price chart.
Example: fiigo prices KNCR11.SA --chart yes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticker := a.cfg.Ticker
			if len(args) == 1 {
				ticker = args[0]
			}
			if provider != "" {
				a.cfg.PriceProvider = strings.ToLower(provider)
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}

			confirm, err := chartDecision(chartMode)
			if err != nil {
				return err
			}

			source, err := dataflows.NewPriceProvider(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to create price provider: %w", err)
			}

			session := pipeline.NewPriceSession(source, chart.NewPriceChart(a.cfg.ChartDir()), confirm, cmd.OutOrStdout())
			return session.Execute(cmd.Context(), ticker)
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Price provider: yahoo, yahoo-http or longport (defaults to price_provider)")
	cmd.Flags().StringVar(&chartMode, "chart", chartAsk, "Render the closing-price chart: yes, no or ask")

	return cmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// The version needs no configuration.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "FiiGo %s\n", Version)
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Inspect, validate and initialize the FiiGo configuration file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			NewConfigManager(a.cfg, a.store).ShowConfig(cmd.OutOrStdout())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and directories",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			NewConfigManager(a.cfg, a.store).Validate(cmd.OutOrStdout())
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewConfigManager(a.cfg, a.store).InitConfig(cmd.OutOrStdout(), force)
		},
	}
	initCmd.Annotations = map[string]string{allowMissingConfig: "true"}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(initCmd)

	return configCmd
}
