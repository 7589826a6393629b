package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dyike/FiiGo/config"
	"github.com/dyike/FiiGo/internal/utils"
)

// ConfigManager backs the config subcommands.
type ConfigManager struct {
	config *config.Config
	store  *utils.ConfigStore
}

func NewConfigManager(cfg *config.Config, store *utils.ConfigStore) *ConfigManager {
	return &ConfigManager{
		config: cfg,
		store:  store,
	}
}

// ShowConfig prints the effective configuration. Credentials are reported as
// configured or not, never printed.
func (cm *ConfigManager) ShowConfig(w io.Writer) {
	cfg := cm.config
	displayTitle(w, "📋 Current FiiGo Configuration")

	source := cm.store.Existing()
	if source == "" {
		source = "(defaults and environment)"
	}
	displayKeyValue(w, "Config file", source)
	displayKeyValue(w, "Project directory", cfg.ProjectDir)
	displayKeyValue(w, "Results directory", cfg.ResultsDir)
	displayKeyValue(w, "Output directory", cfg.OutputDir)
	displayKeyValue(w, "Chart directory", cfg.ChartDir())

	displaySection(w, "📰 News")
	displayKeyValue(w, "News URL", cfg.NewsURL)
	displayKeyValue(w, "Max news", cfg.MaxNews)
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "(client default)"
	}
	displayKeyValue(w, "User agent", userAgent)

	displaySection(w, "📈 Prices")
	displayKeyValue(w, "Ticker", cfg.Ticker)
	displayKeyValue(w, "Price provider", cfg.PriceProvider)
	displayKeyValue(w, "Longport API", configuredMark(cfg.LongportConfigured()))

	displaySection(w, "🔧 Logging")
	displayKeyValue(w, "Debug", cfg.Debug)
	displayKeyValue(w, "Log format", cfg.LogFormat)
}

// ValidateConfiguration returns non-fatal problems with the configuration.
// Hard errors were already rejected when it was loaded.
func (cm *ConfigManager) ValidateConfiguration() []string {
	var warnings []string

	if cm.config.PriceProvider == config.ProviderLongport && !cm.config.LongportConfigured() {
		warnings = append(warnings, "price_provider is longport but LONGPORT_APP_KEY, LONGPORT_APP_SECRET or LONGPORT_ACCESS_TOKEN is missing")
	}

	dirs := []string{cm.config.OutputDir, cm.config.ResultsDir, cm.config.ChartDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			warnings = append(warnings, fmt.Sprintf("Cannot create/access directory: %s", dir))
		}
	}

	return warnings
}

// Validate prints the validation report.
func (cm *ConfigManager) Validate(w io.Writer) {
	displayTitle(w, "🔍 Validating FiiGo Configuration")
	DisplaySuccess(w, "Configuration values are valid")

	warnings := cm.ValidateConfiguration()
	for _, warning := range warnings {
		DisplayWarning(w, warning)
	}

	fmt.Fprintln(w)
	if len(warnings) == 0 {
		DisplaySuccess(w, "Configuration validation completed successfully!")
		return
	}
	DisplayWarning(w, fmt.Sprintf("Configuration validation completed with %d warnings.", len(warnings)))
}

// InitConfig writes the current configuration to the store's target path.
func (cm *ConfigManager) InitConfig(w io.Writer, force bool) error {
	target, err := cm.store.Target()
	if err != nil {
		return err
	}

	// Credentials stay in the environment.
	out := *cm.config
	out.LongportAppKey = ""
	out.LongportAppSecret = ""
	out.LongportAccessToken = ""

	if err := config.WriteFile(target, &out, force); err != nil {
		return err
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	DisplaySuccess(w, "Configuration written to "+abs)
	return nil
}
