package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"feedpress/internal/model"
	"feedpress/pkg/opml"
)

const (
	DefaultPath      = "feedpress.yaml"
	DefaultUserAgent = "feedpress/1.0 (+https://github.com/feedpress)"

	ChromeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	ChromeSecChUa   = `"Google Chrome";v="131", "Chromium";v="131", "Not_A Brand";v="24"`
)

const (
	LayoutFlat    = "flat"
	LayoutGrouped = "grouped"

	OrderFetch = "fetch"
	OrderDate  = "date"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	SiteTitle          string             `yaml:"site_title" toml:"site_title"`
	OutputDir          string             `yaml:"output_dir" toml:"output_dir"`
	Layout             string             `yaml:"layout" toml:"layout"`
	Order              string             `yaml:"order" toml:"order"`
	MaxItemsPerFeed    int                `yaml:"max_items_per_feed" toml:"max_items_per_feed"`
	Concurrency        int                `yaml:"concurrency" toml:"concurrency"`
	RequestTimeout     time.Duration      `yaml:"request_timeout" toml:"request_timeout"`
	HostInterval       time.Duration      `yaml:"host_interval" toml:"host_interval"`
	UserAgent          string             `yaml:"user_agent" toml:"user_agent"`
	ProxyURL           string             `yaml:"proxy_url" toml:"proxy_url"`
	ImpersonateBrowser bool               `yaml:"impersonate_browser" toml:"impersonate_browser"`
	FullContent        bool               `yaml:"full_content" toml:"full_content"`
	LogLevel           string             `yaml:"log_level" toml:"log_level"`
	OPMLPath           string             `yaml:"opml" toml:"opml"`
	Feeds              []model.FeedSource `yaml:"feeds" toml:"feeds"`
	Sanitize           Sanitize           `yaml:"sanitize" toml:"sanitize"`
	QR                 QR                 `yaml:"qr" toml:"qr"`
	Archive            Archive            `yaml:"archive" toml:"archive"`
	Watch              Watch              `yaml:"watch" toml:"watch"`
	Serve              Serve              `yaml:"serve" toml:"serve"`
}

type Sanitize struct {
	Harden          bool   `yaml:"harden" toml:"harden"`
	MaxWidth        string `yaml:"max_width" toml:"max_width"`
	BackgroundColor string `yaml:"background_color" toml:"background_color"`
	HeadingFontSize string `yaml:"heading_font_size" toml:"heading_font_size"`
}

type QR struct {
	Size  int    `yaml:"size" toml:"size"`
	Level string `yaml:"level" toml:"level"`
}

type Archive struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

type Watch struct {
	Interval time.Duration `yaml:"interval" toml:"interval"`
}

type Serve struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// DefaultFeeds is used when neither feeds nor an OPML file are configured.
var DefaultFeeds = []model.FeedSource{
	{Title: "人人都是产品经理", URL: "https://rsshub.bestblogs.dev/woshipm/popular"},
}

func Default() Config {
	return Config{
		SiteTitle:      "RSS Reader",
		OutputDir:      "public",
		Layout:         LayoutFlat,
		Order:          OrderFetch,
		Concurrency:    4,
		RequestTimeout: 30 * time.Second,
		UserAgent:      DefaultUserAgent,
		LogLevel:       "info",
		Sanitize: Sanitize{
			Harden:          true,
			MaxWidth:        "100%",
			BackgroundColor: "transparent",
			HeadingFontSize: "1.4em",
		},
		QR:      QR{Size: 256, Level: "medium"},
		Archive: Archive{Path: "./data/feedpress.db"},
		Watch:   Watch{Interval: time.Hour},
		Serve:   Serve{Addr: ":8080"},
	}
}

// Load reads the config file at path (falling back to FEEDPRESS_CONFIG and
// then DefaultPath), applies environment overrides, merges OPML sources and
// validates the result. A missing default file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := true
	if path == "" {
		path = os.Getenv("FEEDPRESS_CONFIG")
	}
	if path == "" {
		path = DefaultPath
		explicit = false
	}

	if err := decodeFile(path, &cfg); err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return Config{}, err
	}

	applyEnv(&cfg)

	if cfg.OPMLPath != "" {
		sources, err := loadOPML(cfg.OPMLPath)
		if err != nil {
			return Config{}, err
		}
		cfg.Feeds = append(cfg.Feeds, sources...)
	}
	if len(cfg.Feeds) == 0 && cfg.OPMLPath == "" {
		cfg.Feeds = append([]model.FeedSource(nil), DefaultFeeds...)
	}

	cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	cfg.Archive.Path = filepath.Clean(cfg.Archive.Path)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: unsupported config format %q", ErrInvalid, filepath.Ext(path))
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FEEDPRESS_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("FEEDPRESS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FEEDPRESS_PROXY_URL"); v != "" {
		cfg.ProxyURL = v
	}
	if v := os.Getenv("FEEDPRESS_DB_PATH"); v != "" {
		cfg.Archive.Path = v
	}
}

func loadOPML(path string) ([]model.FeedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open opml %s: %w", path, err)
	}
	defer f.Close()

	doc, err := opml.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse opml %s: %w", path, err)
	}

	var sources []model.FeedSource
	for _, s := range doc.Sources() {
		sources = append(sources, model.FeedSource{Title: s.Category, URL: s.URL})
	}
	return sources, nil
}

// ExportOPML renders feeds as an OPML document, one folder per category.
func ExportOPML(title string, feeds []model.FeedSource) ([]byte, error) {
	sources := make([]opml.Source, 0, len(feeds))
	for _, f := range feeds {
		sources = append(sources, opml.Source{Category: f.Title, Title: f.Title, URL: f.URL})
	}
	return opml.Encode(opml.FromSources(title, sources))
}

func (c Config) Validate() error {
	switch c.Layout {
	case LayoutFlat, LayoutGrouped:
	default:
		return fmt.Errorf("%w: layout must be %q or %q, got %q", ErrInvalid, LayoutFlat, LayoutGrouped, c.Layout)
	}
	switch c.Order {
	case OrderFetch, OrderDate:
	default:
		return fmt.Errorf("%w: order must be %q or %q, got %q", ErrInvalid, OrderFetch, OrderDate, c.Order)
	}
	if c.OutputDir == "" || c.OutputDir == "." || c.OutputDir == "/" {
		return fmt.Errorf("%w: refusing output_dir %q", ErrInvalid, c.OutputDir)
	}
	if c.MaxItemsPerFeed < 0 {
		return fmt.Errorf("%w: max_items_per_feed must not be negative", ErrInvalid)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1", ErrInvalid)
	}
	if c.QR.Size <= 0 {
		return fmt.Errorf("%w: qr.size must be positive", ErrInvalid)
	}
	switch strings.ToLower(c.QR.Level) {
	case "low", "medium", "high", "highest":
	default:
		return fmt.Errorf("%w: unknown qr.level %q", ErrInvalid, c.QR.Level)
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("%w: watch.interval must be positive", ErrInvalid)
	}
	if len(c.Feeds) == 0 {
		return fmt.Errorf("%w: no feeds configured", ErrInvalid)
	}
	for i, f := range c.Feeds {
		if !IsValidURL(f.URL) {
			return fmt.Errorf("%w: feeds[%d] url %q", ErrInvalid, i, f.URL)
		}
	}
	return nil
}

// IsValidURL reports whether value is an absolute http(s) URL.
func IsValidURL(value string) bool {
	parsed, err := url.ParseRequestURI(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
