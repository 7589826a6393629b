package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultNewsURL = "https://www.infomoney.com.br/tudo-sobre/fundos-imobiliarios/"
	DefaultMaxNews = 20
	DefaultTicker  = "KNCR11.SA"

	ProviderYahoo     = "yahoo"
	ProviderYahooHTTP = "yahoo-http"
	ProviderLongport  = "longport"
)

type Config struct {
	ProjectDir string `json:"project_dir"`
	ResultsDir string `json:"results_dir"`
	OutputDir  string `json:"output_dir"`

	// News pipeline
	NewsURL   string `json:"news_url"`
	MaxNews   int    `json:"max_news"`
	UserAgent string `json:"user_agent,omitempty"`

	// Price pipeline
	Ticker        string `json:"ticker"`
	PriceProvider string `json:"price_provider"`

	Debug     bool   `json:"debug"`
	LogFormat string `json:"log_format"`

	// Longport API Configuration
	LongportAppKey      string `json:"longport_app_key,omitempty"`
	LongportAppSecret   string `json:"longport_app_secret,omitempty"`
	LongportAccessToken string `json:"longport_access_token,omitempty"`
}

// DefaultConfig returns the built-in defaults rooted at the working directory,
// overridden by a .env file and the process environment.
func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

// DefaultConfigWithRoot returns the built-in defaults without consulting the environment.
func DefaultConfigWithRoot(root string) *Config {
	return &Config{
		ProjectDir: root,
		ResultsDir: filepath.Join(root, "results"),
		OutputDir:  root,

		NewsURL: DefaultNewsURL,
		MaxNews: DefaultMaxNews,

		Ticker:        DefaultTicker,
		PriceProvider: ProviderYahoo,

		Debug:     false,
		LogFormat: "text",
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("FIIGO_RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("FIIGO_OUTPUT_DIR"); val != "" {
		c.OutputDir = val
	}

	if val := os.Getenv("FIIGO_NEWS_URL"); val != "" {
		c.NewsURL = val
	}
	if val := os.Getenv("FIIGO_MAX_NEWS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxNews = v
		}
	}
	if val := os.Getenv("FIIGO_USER_AGENT"); val != "" {
		c.UserAgent = val
	}

	if val := os.Getenv("FIIGO_TICKER"); val != "" {
		c.Ticker = val
	}
	if val := os.Getenv("FIIGO_PRICE_PROVIDER"); val != "" {
		c.PriceProvider = strings.ToLower(val)
	}

	if val := os.Getenv("FIIGO_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("FIIGO_LOG_FORMAT"); val != "" {
		c.LogFormat = strings.ToLower(val)
	}

	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}
}

// Validate checks the values both pipelines depend on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.NewsURL) == "" {
		return errors.New("news_url is required")
	}
	if u, err := url.ParseRequestURI(c.NewsURL); err != nil || u.Host == "" {
		return fmt.Errorf("invalid news_url: %s", c.NewsURL)
	}
	if c.MaxNews < 1 {
		return fmt.Errorf("max_news must be at least 1, got %d", c.MaxNews)
	}
	switch c.PriceProvider {
	case ProviderYahoo, ProviderYahooHTTP, ProviderLongport:
	default:
		return fmt.Errorf("unknown price_provider %q", c.PriceProvider)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}

// LongportConfigured reports whether all three Longport credentials are present.
func (c *Config) LongportConfigured() bool {
	return c.LongportAppKey != "" && c.LongportAppSecret != "" && c.LongportAccessToken != ""
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.OutputDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}

// ChartDir is where rendered price charts are written.
func (c *Config) ChartDir() string {
	return filepath.Join(c.ResultsDir, "charts")
}
