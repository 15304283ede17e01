// 指示: miu200521358
// Package mlogging は log/slog を用いたロガー実装を提供する。
package mlogging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/miu200521358/mu_retarget/pkg/shared/base/logging"
)

// Logger はslogへ委譲するロガー実装。
type Logger struct {
	mu       sync.RWMutex
	level    logging.LogLevel
	levelVar *slog.LevelVar
	slogger  *slog.Logger
	verbose  map[logging.VerboseIndex]bool
}

// NewLogger はLoggerを生成する。writerがnilの場合は標準エラーへ出力する。
func NewLogger(writer io.Writer) *Logger {
	if writer == nil {
		writer = os.Stderr
	}
	levelVar := &slog.LevelVar{}
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: levelVar})
	logger := &Logger{
		levelVar: levelVar,
		slogger:  slog.New(handler),
		verbose:  map[logging.VerboseIndex]bool{},
	}
	logger.SetLevel(logging.LOG_LEVEL_INFO)
	return logger
}

// Level は現在のログレベルを返す。
func (l *Logger) Level() logging.LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetLevel はログレベルを設定する。
func (l *Logger) SetLevel(level logging.LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.levelVar.Set(toSlogLevel(level))
}

// Debug はデバッグログを出力する。
func (l *Logger) Debug(format string, params ...any) {
	l.log(slog.LevelDebug, format, params...)
}

// Info は情報ログを出力する。
func (l *Logger) Info(format string, params ...any) {
	l.log(slog.LevelInfo, format, params...)
}

// Warn は警告ログを出力する。
func (l *Logger) Warn(format string, params ...any) {
	l.log(slog.LevelWarn, format, params...)
}

// Error はエラーログを出力する。
func (l *Logger) Error(format string, params ...any) {
	l.log(slog.LevelError, format, params...)
}

// EnableVerbose は冗長ログ系統の有効状態を切り替える。
func (l *Logger) EnableVerbose(index logging.VerboseIndex, enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose[index] = enabled
}

// IsVerboseEnabled は冗長ログ系統が有効か判定する。
func (l *Logger) IsVerboseEnabled(index logging.VerboseIndex) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose[index]
}

// Verbose は冗長ログを出力する。系統が無効な場合は何もしない。
func (l *Logger) Verbose(index logging.VerboseIndex, format string, params ...any) {
	if !l.IsVerboseEnabled(index) {
		return
	}
	l.slogger.LogAttrs(
		context.Background(),
		slog.LevelInfo,
		fmt.Sprintf(format, params...),
		slog.Int("verbose", int(index)),
	)
}

// log はslogへ整形済みメッセージを渡す。
func (l *Logger) log(level slog.Level, format string, params ...any) {
	if !l.slogger.Enabled(context.Background(), level) {
		return
	}
	l.slogger.Log(context.Background(), level, fmt.Sprintf(format, params...))
}

// toSlogLevel はログレベルをslogのレベルへ変換する。
func toSlogLevel(level logging.LogLevel) slog.Level {
	switch {
	case level <= logging.LOG_LEVEL_DEBUG:
		return slog.LevelDebug
	case level <= logging.LOG_LEVEL_INFO:
		return slog.LevelInfo
	case level <= logging.LOG_LEVEL_WARN:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
