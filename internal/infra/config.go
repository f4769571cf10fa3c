package infra

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config는 애플리케이션의 모든 설정을 담습니다.
// LoadConfig로 로드된 후에 환경 변수를 통해 일부 값을 덮어씁니다.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Engine struct {
		MinDeposit      decimal.Decimal `yaml:"min_deposit"`
		SlashRateBps    int64           `yaml:"slash_rate_bps"`
		CommitWindowSec int             `yaml:"commit_window_sec"`
		RevealWindowSec int             `yaml:"reveal_window_sec"`
	} `yaml:"engine"`

	Gateway struct {
		Enabled    bool   `yaml:"enabled"`
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"gateway"`

	Storage struct {
		Path string `yaml:"path"` // empty -> default under user config dir
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig는 설정 파일을 읽고 파싱합니다.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	// Engine
	if c.Engine.MinDeposit.IsNegative() {
		return fmt.Errorf("min deposit must not be negative: %s", c.Engine.MinDeposit)
	}
	if c.Engine.SlashRateBps < 0 || c.Engine.SlashRateBps > 10000 {
		return fmt.Errorf("slash rate must be within [0, 10000] bps: %d", c.Engine.SlashRateBps)
	}
	if c.Engine.CommitWindowSec <= 0 {
		return fmt.Errorf("commit window must be positive")
	}
	if c.Engine.RevealWindowSec <= 0 {
		return fmt.Errorf("reveal window must be positive")
	}

	// Gateway
	if c.Gateway.Enabled && !strings.Contains(c.Gateway.ListenAddr, ":") {
		return fmt.Errorf("invalid gateway listen address: %s", c.Gateway.ListenAddr)
	}

	return nil
}

// overrideWithEnv는 환경 변수가 존재할 경우 설정 값을 덮어씁니다.
func overrideWithEnv(cfg *Config) {
	if path := os.Getenv("AUCTION_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if addr := os.Getenv("AUCTION_GATEWAY_ADDR"); addr != "" {
		cfg.Gateway.ListenAddr = addr
	}
	if level := os.Getenv("AUCTION_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
