// 指示: miu200521358
// Package logging はロガー契約とプロセス既定ロガーを提供する。
package logging

import (
	"fmt"
	"strings"
	"sync"
)

// LogLevel はログ出力レベルを表す。
type LogLevel int

const (
	// LOG_LEVEL_DEBUG はデバッグレベル。
	LOG_LEVEL_DEBUG LogLevel = 10
	// LOG_LEVEL_INFO は情報レベル。
	LOG_LEVEL_INFO LogLevel = 20
	// LOG_LEVEL_WARN は警告レベル。
	LOG_LEVEL_WARN LogLevel = 30
	// LOG_LEVEL_ERROR はエラーレベル。
	LOG_LEVEL_ERROR LogLevel = 40
)

// VerboseIndex は冗長ログの出力系統を表す。
type VerboseIndex int

const (
	// VERBOSE_INDEX_RETARGET はリタゲ処理の冗長ログ系統。
	VERBOSE_INDEX_RETARGET VerboseIndex = iota
	// VERBOSE_INDEX_IK はIK解決の冗長ログ系統。
	VERBOSE_INDEX_IK
	// VERBOSE_INDEX_BAKE は焼き込み処理の冗長ログ系統。
	VERBOSE_INDEX_BAKE
)

// ILogger はログ出力の契約を表す。
type ILogger interface {
	// Level は現在のログレベルを返す。
	Level() LogLevel
	// SetLevel はログレベルを設定する。
	SetLevel(level LogLevel)
	// Debug はデバッグログを出力する。
	Debug(format string, params ...any)
	// Info は情報ログを出力する。
	Info(format string, params ...any)
	// Warn は警告ログを出力する。
	Warn(format string, params ...any)
	// Error はエラーログを出力する。
	Error(format string, params ...any)
	// EnableVerbose は冗長ログ系統の有効状態を切り替える。
	EnableVerbose(index VerboseIndex, enabled bool)
	// IsVerboseEnabled は冗長ログ系統が有効か判定する。
	IsVerboseEnabled(index VerboseIndex) bool
	// Verbose は冗長ログを出力する。
	Verbose(index VerboseIndex, format string, params ...any)
}

var (
	defaultMu     sync.RWMutex
	defaultLogger ILogger
)

// DefaultLogger はプロセス既定ロガーを返す。未設定時はnil。
func DefaultLogger() ILogger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger はプロセス既定ロガーを差し替える。
func SetDefaultLogger(logger ILogger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// ParseLogLevel は文字列からログレベルを解決する。
func ParseLogLevel(value string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LOG_LEVEL_DEBUG, nil
	case "", "info":
		return LOG_LEVEL_INFO, nil
	case "warn", "warning":
		return LOG_LEVEL_WARN, nil
	case "error":
		return LOG_LEVEL_ERROR, nil
	default:
		return LOG_LEVEL_INFO, fmt.Errorf("未対応のログレベルです: %s", value)
	}
}

// String はログレベルの表示名を返す。
func (l LogLevel) String() string {
	switch {
	case l <= LOG_LEVEL_DEBUG:
		return "debug"
	case l <= LOG_LEVEL_INFO:
		return "info"
	case l <= LOG_LEVEL_WARN:
		return "warn"
	default:
		return "error"
	}
}
