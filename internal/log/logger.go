package log

import (
	"log/slog"
	"os"
	"time"

	"github.com/phsym/console-slog"
)

// Logger 日志接口, 参数使用 Format 的占位符规则
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Error(args ...any)
	Fatal(args ...any)
}

func init() {
	SetLogger(NewSlogLogger(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339Nano,
	}))))
}

var (
	Debug func(args ...any)
	Info  func(args ...any)
	Error func(args ...any)
	Fatal func(args ...any)
)

// SetLogger rewrites the default logger
func SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	Debug = logger.Debug
	Info = logger.Info
	Error = logger.Error
	Fatal = logger.Fatal
}
