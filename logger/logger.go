package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"personalization_api/config"
)

// Logger 全局日志记录器
var Logger *slog.Logger

// Init 根据配置初始化slog日志系统
func Init(cfg *config.Config) error {
	level := cfg.Log.Level
	format := cfg.Log.Format
	output := cfg.Log.Output
	filePath := cfg.Log.FilePath

	// 创建日志目录
	if filePath != "" {
		logDir := filepath.Dir(filePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return err
		}
	}

	// 设置日志级别
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	// 设置输出目标
	var writer io.Writer
	switch strings.ToLower(output) {
	case "file":
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		writer = file
	case "both":
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		writer = io.MultiWriter(os.Stdout, file)
	default:
		writer = os.Stdout
	}

	// 设置日志格式
	opts := &slog.HandlerOptions{
		Level: logLevel,
	}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	// 设置默认logger和全局Logger变量
	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	return nil
}

// base 未初始化时退回默认logger（测试场景）
func base() *slog.Logger {
	if Logger != nil {
		return Logger
	}
	return slog.Default()
}

// Debug 记录调试级别的日志
func Debug(msg string, args ...any) {
	base().Debug(msg, args...)
}

// Info 记录信息级别的日志
func Info(msg string, args ...any) {
	base().Info(msg, args...)
}

// Warn 记录警告级别的日志
func Warn(msg string, args ...any) {
	base().Warn(msg, args...)
}

// Error 记录错误级别的日志
func Error(msg string, args ...any) {
	base().Error(msg, args...)
}
