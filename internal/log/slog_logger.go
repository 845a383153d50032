package log

import (
	"context"
	"log/slog"
	"os"
)

// SlogLogger 把 Logger 接口适配到 *slog.Logger
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger 构造函数, l 为 nil 时使用 slog.Default()
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(args ...any) {
	s.log(slog.LevelDebug, args...)
}

func (s *SlogLogger) Info(args ...any) {
	s.log(slog.LevelInfo, args...)
}

func (s *SlogLogger) Error(args ...any) {
	s.log(slog.LevelError, args...)
}

func (s *SlogLogger) Fatal(args ...any) {
	s.log(slog.LevelError, args...)
	os.Exit(1)
}

// log 末尾的 error 参数作为 error 属性输出, 其余参数按 Format 规则拼成消息
func (s *SlogLogger) log(level slog.Level, args ...any) {
	ctx := context.Background()
	if !s.l.Enabled(ctx, level) {
		return
	}
	if n := len(args); n > 1 {
		if err, ok := args[n-1].(error); ok {
			s.l.Log(ctx, level, FormatArgs(args[:n-1]...), slog.Any("error", err))
			return
		}
	}
	s.l.Log(ctx, level, FormatArgs(args...))
}
