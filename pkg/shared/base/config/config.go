// 指示: miu200521358
// Package config は環境変数由来の実行設定を提供する。
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config は焼き込み処理の実行設定を表す。Fps が0の場合はリタゲ元クリップのFPSで焼き込む。
type Config struct {
	LogLevel      string  `env:"MU_RETARGET_LOG_LEVEL"      envDefault:"info"`
	Fps           float64 `env:"MU_RETARGET_FPS"`
	MaxIterations int     `env:"MU_RETARGET_MAX_ITERATIONS" envDefault:"25"`
	Tolerance     float64 `env:"MU_RETARGET_TOLERANCE"      envDefault:"0.001"`
	KeyframeAll   bool    `env:"MU_RETARGET_KEYFRAME_ALL"   envDefault:"true"`
	RootMotion    bool    `env:"MU_RETARGET_ROOT_MOTION"`
	Verbose       bool    `env:"MU_RETARGET_VERBOSE"`
}

// Load は環境変数から設定を読み込む。
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は設定値の範囲を検証する。
func (c Config) Validate() error {
	if c.Fps < 0 {
		return fmt.Errorf("FPSは0以上を指定してください: %v", c.Fps)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("最大反復回数は正の値を指定してください: %d", c.MaxIterations)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("許容誤差は正の値を指定してください: %v", c.Tolerance)
	}
	return nil
}
