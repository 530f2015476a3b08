package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	StartURL         string `yaml:"start_url"`
	APIHostPrefix    string `yaml:"api_host_prefix"`
	AssetBaseURL     string `yaml:"asset_base_url"`
	LoginFramePrefix string `yaml:"login_frame_prefix"`
	SearchTerm       string `yaml:"search_term"`

	LogDir       string `yaml:"log_dir"`
	DownloadsDir string `yaml:"downloads_dir"`
	DistDir      string `yaml:"dist_dir"`
	DocsDir      string `yaml:"docs_dir"`
	WebsiteDir   string `yaml:"website_dir"`

	DownloadWorkers   int           `yaml:"download_workers"`
	ManifestTimeout   time.Duration `yaml:"manifest_timeout"`
	Attempts          int           `yaml:"attempts"`
	Headless          bool          `yaml:"headless"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`

	UserAgent string `yaml:"user_agent"`
	Debug     bool   `yaml:"debug"`
	EnvFile   string `yaml:"env_file"`
}

type Options struct {
	IgnoreConfig      bool
	Debug             bool
	Headed            bool
	StartURL          string
	SearchTerm        string
	LogDir            string
	DownloadsDir      string
	DistDir           string
	DocsDir           string
	WebsiteDir        string
	DownloadWorkers   int
	ManifestTimeout   time.Duration
	Attempts          int
	NavigationTimeout time.Duration
	UserAgent         string
	EnvFile           string
}

func DefaultConfig() *Config {
	return &Config{
		StartURL:          "https://game-rainbow6.ubi.com/en-us/home",
		APIHostPrefix:     "https://public-ubiservices.ubi.com",
		AssetBaseURL:      "https://game-rainbow6.ubi.com",
		LoginFramePrefix:  "https://connect.ubi.com/?",
		SearchTerm:        "SEARCH",
		LogDir:            "log",
		DownloadsDir:      "downloads",
		DistDir:           "dist",
		DocsDir:           "docs",
		WebsiteDir:        "website",
		DownloadWorkers:   50,
		ManifestTimeout:   10 * time.Second,
		Attempts:          3,
		Headless:          true,
		NavigationTimeout: 100 * time.Second,
		EnvFile:           ".env",
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Fields missing from the file keep their defaults.
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := ActiveConfigPath()
	if err == ErrNoConfig || activePath == "" {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `r6scrape config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	setString(&c.StartURL, o.StartURL)
	setString(&c.SearchTerm, o.SearchTerm)
	setString(&c.LogDir, o.LogDir)
	setString(&c.DownloadsDir, o.DownloadsDir)
	setString(&c.DistDir, o.DistDir)
	setString(&c.DocsDir, o.DocsDir)
	setString(&c.WebsiteDir, o.WebsiteDir)
	setString(&c.UserAgent, o.UserAgent)
	setString(&c.EnvFile, o.EnvFile)

	if o.DownloadWorkers != 0 {
		c.DownloadWorkers = o.DownloadWorkers
	}
	if o.ManifestTimeout != 0 {
		c.ManifestTimeout = o.ManifestTimeout
	}
	if o.Attempts != 0 {
		c.Attempts = o.Attempts
	}
	if o.NavigationTimeout != 0 {
		c.NavigationTimeout = o.NavigationTimeout
	}
	if o.Debug {
		c.Debug = true
	}
	if o.Headed {
		c.Headless = false
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func normalizeDefaults(c *Config) {
	d := DefaultConfig()

	for _, f := range []struct{ v, def *string }{
		{&c.StartURL, &d.StartURL},
		{&c.APIHostPrefix, &d.APIHostPrefix},
		{&c.AssetBaseURL, &d.AssetBaseURL},
		{&c.LoginFramePrefix, &d.LoginFramePrefix},
		{&c.LogDir, &d.LogDir},
		{&c.DownloadsDir, &d.DownloadsDir},
		{&c.DistDir, &d.DistDir},
		{&c.DocsDir, &d.DocsDir},
		{&c.WebsiteDir, &d.WebsiteDir},
	} {
		if *f.v == "" {
			*f.v = *f.def
		}
	}

	if c.DownloadWorkers <= 0 {
		c.DownloadWorkers = d.DownloadWorkers
	}
	if c.ManifestTimeout <= 0 {
		c.ManifestTimeout = d.ManifestTimeout
	}
	if c.Attempts <= 0 {
		c.Attempts = d.Attempts
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = d.NavigationTimeout
	}
}

func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, " -start_url: %s\n", c.StartURL)
	fmt.Fprintf(w, " -api_host_prefix: %s\n", c.APIHostPrefix)
	fmt.Fprintf(w, " -asset_base_url: %s\n", c.AssetBaseURL)
	if c.SearchTerm != "" {
		fmt.Fprintf(w, " -search_term: %s\n", c.SearchTerm)
	}
	fmt.Fprintf(w, " -log_dir: %s\n", c.LogDir)
	fmt.Fprintf(w, " -downloads_dir: %s\n", c.DownloadsDir)
	fmt.Fprintf(w, " -dist_dir: %s\n", c.DistDir)
	fmt.Fprintf(w, " -docs_dir: %s\n", c.DocsDir)
	fmt.Fprintf(w, " -website_dir: %s\n", c.WebsiteDir)
	fmt.Fprintf(w, " -download_workers: %d\n", c.DownloadWorkers)
	fmt.Fprintf(w, " -manifest_timeout: %s\n", c.ManifestTimeout)
	fmt.Fprintf(w, " -attempts: %d\n", c.Attempts)
	fmt.Fprintf(w, " -navigation_timeout: %s\n", c.NavigationTimeout)
	if !c.Headless {
		fmt.Fprintf(w, " -headless: %t\n", c.Headless)
	}
	if c.UserAgent != "" {
		fmt.Fprintf(w, " -user_agent: %s\n", c.UserAgent)
	}
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
	if c.EnvFile != "" {
		fmt.Fprintf(w, " -env_file: %s\n", c.EnvFile)
	}
}

func yamlStrict(b []byte, out *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
