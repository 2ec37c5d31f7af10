// Package config loads solver settings from defaults, an optional YAML file,
// a .env file and SWIPE_* environment variables, in increasing precedence.
//
// Keys are dotted (server.addr); the matching variable upper-cases the key
// and replaces dots with underscores (SWIPE_SERVER_ADDR).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ironsheep/swipe-solver/internal/dictionary"
	"github.com/ironsheep/swipe-solver/internal/letters"
	"github.com/ironsheep/swipe-solver/internal/logging"
	"github.com/ironsheep/swipe-solver/internal/ocr"
	"github.com/ironsheep/swipe-solver/internal/swipe"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "SWIPE"

// Config holds every tunable of the service.
type Config struct {
	LogLevel   string           `mapstructure:"log_level"`
	Server     ServerConfig     `mapstructure:"server"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Swipe      swipe.Options    `mapstructure:"swipe"`
	Detection  letters.Options  `mapstructure:"detection"`
	OCR        ocr.Options      `mapstructure:"ocr"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr              string   `mapstructure:"addr"`
	UploadDir         string   `mapstructure:"upload_dir"`
	MaxUploadBytes    int64    `mapstructure:"max_upload_bytes"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// DictionaryConfig configures the word list load chain.
type DictionaryConfig struct {
	CachePath    string        `mapstructure:"cache_path"`
	URL          string        `mapstructure:"url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// SetDefaults registers every key with its default value. Keys must be
// registered for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.max_upload_bytes", int64(16<<20))
	v.SetDefault("server.allowed_extensions", []string{"png", "jpg", "jpeg", "gif", "bmp", "webp"})

	v.SetDefault("dictionary.cache_path", dictionary.DefaultCachePath())
	v.SetDefault("dictionary.url", dictionary.DefaultURL)
	v.SetDefault("dictionary.fetch_timeout", dictionary.DefaultTimeout)

	sw := swipe.DefaultOptions()
	v.SetDefault("swipe.min_word_length", sw.MinLength)
	v.SetDefault("swipe.max_word_length", sw.MaxLength)
	v.SetDefault("swipe.max_results", sw.MaxResults)
	v.SetDefault("swipe.score_per_letter", sw.ScorePerLetter)
	v.SetDefault("swipe.max_alphabet", sw.MaxAlphabet)

	det := letters.DefaultOptions()
	v.SetDefault("detection.min_viable_count", det.MinViableCount)
	v.SetDefault("detection.dedupe_tolerance", det.DedupeTolerance)
	v.SetDefault("detection.glyph_min_side", det.GlyphMinSide)

	o := ocr.DefaultOptions()
	v.SetDefault("ocr.language", o.Language)
	v.SetDefault("ocr.tessdata_prefix", o.TessdataPrefix)
	v.SetDefault("ocr.whitelist", o.Whitelist)
}

// Load reads envFile (missing is fine), then configFile when non-empty, and
// returns the validated result.
func Load(configFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate rejects inconsistent values.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.UploadDir == "" {
		return errors.New("server.upload_dir is required")
	}
	if c.Server.MaxUploadBytes < 1024 {
		return fmt.Errorf("server.max_upload_bytes must be at least 1KB, got %d", c.Server.MaxUploadBytes)
	}
	if len(c.Server.AllowedExtensions) == 0 {
		return errors.New("server.allowed_extensions must not be empty")
	}

	if c.Dictionary.URL != "" {
		u, err := url.Parse(c.Dictionary.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("dictionary.url must be an http(s) URL, got %q", c.Dictionary.URL)
		}
	}
	if c.Dictionary.FetchTimeout <= 0 {
		return fmt.Errorf("dictionary.fetch_timeout must be positive, got %s", c.Dictionary.FetchTimeout)
	}

	if c.Swipe.MinLength < 2 {
		return fmt.Errorf("swipe.min_word_length must be at least 2, got %d", c.Swipe.MinLength)
	}
	if c.Swipe.MaxLength < c.Swipe.MinLength {
		return fmt.Errorf("swipe.max_word_length (%d) is below swipe.min_word_length (%d)", c.Swipe.MaxLength, c.Swipe.MinLength)
	}
	if c.Swipe.MaxLength > 10 {
		return fmt.Errorf("swipe.max_word_length must be at most 10, got %d", c.Swipe.MaxLength)
	}
	if c.Swipe.MaxResults < 1 {
		return fmt.Errorf("swipe.max_results must be positive, got %d", c.Swipe.MaxResults)
	}
	if c.Swipe.ScorePerLetter < 1 {
		return fmt.Errorf("swipe.score_per_letter must be positive, got %d", c.Swipe.ScorePerLetter)
	}
	if c.Swipe.MaxAlphabet < c.Swipe.MinLength || c.Swipe.MaxAlphabet > 10 {
		return fmt.Errorf("swipe.max_alphabet must be between swipe.min_word_length and 10, got %d", c.Swipe.MaxAlphabet)
	}

	if c.Detection.MinViableCount < 1 {
		return fmt.Errorf("detection.min_viable_count must be positive, got %d", c.Detection.MinViableCount)
	}
	if c.Detection.DedupeTolerance < 0 {
		return fmt.Errorf("detection.dedupe_tolerance must not be negative, got %v", c.Detection.DedupeTolerance)
	}
	for _, p := range c.Detection.Presets {
		if p.MinRadius <= 0 || p.MaxRadius < p.MinRadius {
			return fmt.Errorf("detection preset %q has invalid radius range %d-%d", p.Name, p.MinRadius, p.MaxRadius)
		}
	}

	if c.OCR.Language == "" {
		return errors.New("ocr.language is required")
	}
	return nil
}

// Level returns the parsed log level. Validate guarantees it parses.
func (c *Config) Level() logging.Level {
	l, _ := logging.ParseLevel(c.LogLevel)
	return l
}
