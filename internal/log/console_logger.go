package log

import (
	"log"
	"os"
)

// ConsoleLogger 基于标准库 log 的控制台日志, 没有级别过滤
type ConsoleLogger log.Logger

func NewConsoleLogger() *ConsoleLogger {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)
	return (*ConsoleLogger)(logger)
}

func (c *ConsoleLogger) Debug(args ...any) {
	_ = (*log.Logger)(c).Output(2, "[DEBUG] "+FormatArgs(args...))
}

func (c *ConsoleLogger) Info(args ...any) {
	_ = (*log.Logger)(c).Output(2, "[INFO] "+FormatArgs(args...))
}

func (c *ConsoleLogger) Error(args ...any) {
	_ = (*log.Logger)(c).Output(2, "[ERROR] "+FormatArgs(args...))
}

func (c *ConsoleLogger) Fatal(args ...any) {
	_ = (*log.Logger)(c).Output(2, "[FATAL] "+FormatArgs(args...))
	os.Exit(1)
}
