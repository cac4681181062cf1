package config

import (
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	appName        = "debridget"
	configFileName = "config.yaml"
	logFileName    = "debridget.log"
)

// Environment variables that override values from the config file.
const (
	EnvMoviesDir  = "DOWNLOAD_PATH_MOVIES"
	EnvSeriesDir  = "DOWNLOAD_PATH_SERIES"
	EnvListenAddr = "DEBRIDGET_LISTEN_ADDR"
)

// Category names understood by the download API.
const (
	CategoryMovies = "movies"
	CategorySeries = "series"
)

// Config holds the configuration options for the application.
type Config struct {
	ListenAddr      string            `yaml:"listenAddr,omitempty"`
	DownloadDir     string            `yaml:"downloadDir,omitempty"`
	Categories      map[string]string `yaml:"categories,omitempty"`
	ChunkSize       int               `yaml:"chunkSize,omitempty"`
	StagingSuffix   string            `yaml:"stagingSuffix,omitempty"`
	ShutdownTimeout time.Duration     `yaml:"shutdownTimeout,omitempty"`
	UserAgent       string            `yaml:"userAgent,omitempty"`
}

// CategoryDir returns the directory downloads in the given category are written to.
// Unknown or empty categories go to DownloadDir.
func (c *Config) CategoryDir(category string) string {
	if dir, ok := c.Categories[category]; ok && dir != "" {
		return dir
	}

	return c.DownloadDir
}

// Path returns the location of the configuration file.
func Path() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

// LogPath returns the location of the debug log file.
func LogPath() string {
	return filepath.Join(xdg.StateHome, appName, logFileName)
}

// GetConfig reads the configuration file and returns a Config struct.
// If the configuration file does not exist, it returns the default configuration.
// Environment overrides are applied last in both cases.
func GetConfig() (*Config, error) {
	defaults := DefaultConfig()

	b, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(&defaults), nil
		}

		return nil, err
	}

	if len(b) == 0 {
		return applyEnv(&defaults), nil
	}

	var cfg Config

	err = yaml.Unmarshal(b, &cfg)
	if err != nil {
		return nil, err
	}

	downloadDir := zeroOr(cfg.DownloadDir, defaults.DownloadDir)

	categories := defaultCategories(downloadDir)
	for name, dir := range cfg.Categories {
		categories[name] = dir
	}

	return applyEnv(&Config{
		ListenAddr:      zeroOr(cfg.ListenAddr, defaults.ListenAddr),
		DownloadDir:     downloadDir,
		Categories:      categories,
		ChunkSize:       zeroOr(cfg.ChunkSize, defaults.ChunkSize),
		StagingSuffix:   zeroOr(cfg.StagingSuffix, defaults.StagingSuffix),
		ShutdownTimeout: zeroOr(cfg.ShutdownTimeout, defaults.ShutdownTimeout),
		UserAgent:       zeroOr(cfg.UserAgent, defaults.UserAgent),
	}), nil
}

// Save writes cfg to the configuration file, creating its directory if needed.
func Save(cfg *Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(Path()), 0o755); err != nil {
		return err
	}

	return os.WriteFile(Path(), b, 0o644)
}

// WriteDefault saves the default configuration when no config file exists yet, so
// there is a file to edit. It reports whether a file was written.
func WriteDefault() (bool, error) {
	if _, err := os.Stat(Path()); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	defaults := DefaultConfig()
	if err := Save(&defaults); err != nil {
		return false, err
	}

	return true, nil
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:      listenAddr,
		DownloadDir:     downloadDir,
		Categories:      defaultCategories(downloadDir),
		ChunkSize:       chunkSize,
		StagingSuffix:   stagingSuffix,
		ShutdownTimeout: shutdownTimeout,
		UserAgent:       userAgent,
	}
}

func defaultCategories(base string) map[string]string {
	return map[string]string{
		CategoryMovies: filepath.Join(base, CategoryMovies),
		CategorySeries: filepath.Join(base, CategorySeries),
	}
}

func applyEnv(cfg *Config) *Config {
	if dir := os.Getenv(EnvMoviesDir); dir != "" {
		cfg.Categories[CategoryMovies] = dir
	}

	if dir := os.Getenv(EnvSeriesDir); dir != "" {
		cfg.Categories[CategorySeries] = dir
	}

	if addr := os.Getenv(EnvListenAddr); addr != "" {
		cfg.ListenAddr = addr
	}

	return cfg
}

// zeroOr returns def if v is the zero value for its type.
func zeroOr[T any](v, def T) T {
	if reflect.ValueOf(v).IsZero() {
		return def
	}

	return v
}
