package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	ServerPort  string `mapstructure:"SERVER_PORT"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	MaxFileSize int64  `mapstructure:"MAX_FILE_SIZE"`

	// OCR
	TesseractDataPath  string        `mapstructure:"TESSDATA_PREFIX"`
	OCRProvider        string        `mapstructure:"OCR_PROVIDER"` // "auto", "paddle", "tesseract"
	PaddleOCRURL       string        `mapstructure:"PADDLE_OCR_URL"`
	OCRTimeout         time.Duration `mapstructure:"OCR_TIMEOUT"`
	OCRBinarize        bool          `mapstructure:"OCR_BINARIZE"`
	BreakerMaxRequests uint32        `mapstructure:"BREAKER_MAX_REQUESTS"`
	BreakerTimeout     time.Duration `mapstructure:"BREAKER_TIMEOUT"`

	// Team store
	RedisURL string        `mapstructure:"REDIS_URL"`
	TeamTTL  time.Duration `mapstructure:"TEAM_TTL"`

	// Upload rate limiting, per client IP
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	// Interpretation
	DefaultHoleCount int `mapstructure:"DEFAULT_HOLE_COUNT"`
	RowTolerance     int `mapstructure:"ROW_TOLERANCE"`
}

// LoadConfig reads defaults, an optional .env file and the environment, in
// increasing order of precedence.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_FILE_SIZE", 10*1024*1024) // 10 MB

	v.SetDefault("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/")
	v.SetDefault("OCR_PROVIDER", "auto")
	v.SetDefault("PADDLE_OCR_URL", "http://localhost:8866/predict/ocr_system")
	v.SetDefault("OCR_TIMEOUT", "30s")
	v.SetDefault("OCR_BINARIZE", false)
	v.SetDefault("BREAKER_MAX_REQUESTS", 3)
	v.SetDefault("BREAKER_TIMEOUT", "60s")

	v.SetDefault("REDIS_URL", "") // empty keeps teams in memory
	v.SetDefault("TEAM_TTL", "72h")

	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	v.SetDefault("DEFAULT_HOLE_COUNT", 18)
	v.SetDefault("ROW_TOLERANCE", 20)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.OCRProvider = strings.ToLower(strings.TrimSpace(cfg.OCRProvider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DefaultHoleCount {
	case 9, 13, 16, 18:
	default:
		return fmt.Errorf("DEFAULT_HOLE_COUNT must be 9, 13, 16 or 18, got %d", c.DefaultHoleCount)
	}

	switch c.OCRProvider {
	case "auto", "paddle", "tesseract":
	default:
		return fmt.Errorf("unknown OCR_PROVIDER %q", c.OCRProvider)
	}

	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.MaxFileSize)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
