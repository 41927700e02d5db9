package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	Cfg = &cfg

	return nil
}

// applyDefaults 填充同步参数缺省值，配置文件漏写时不至于关闭缓存
func applyDefaults(cfg *Config) {
	if cfg.Sync.CacheTTLHours <= 0 {
		cfg.Sync.CacheTTLHours = 12
	}
	if cfg.Sync.FullFetchIntervalHours <= 0 {
		cfg.Sync.FullFetchIntervalHours = 7 * 24
	}
	if cfg.Sync.SweepDelayMs <= 0 {
		cfg.Sync.SweepDelayMs = 1000
	}
	if cfg.Upstream.YoutubeMaxPages <= 0 {
		cfg.Upstream.YoutubeMaxPages = 150
	}
	if cfg.Upstream.TiktokMaxPages <= 0 {
		cfg.Upstream.TiktokMaxPages = 100
	}
	if cfg.Upstream.RatePerSecond <= 0 {
		cfg.Upstream.RatePerSecond = 2
	}
}
