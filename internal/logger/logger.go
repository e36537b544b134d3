package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 请求日志与错误日志分别追加写入独立文件，
// 便于单独轮转和排查

// NewRequestLogger 请求日志
func NewRequestLogger(dev bool) (*zap.Logger, error) {
	return newFileLogger("logs/reqLog.log", dev)
}

// NewErrorLogger 错误日志
func NewErrorLogger(dev bool) (*zap.Logger, error) {
	return newFileLogger("logs/errLog.log", dev)
}

func newFileLogger(path string, dev bool) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"
	config.OutputPaths = []string{path}
	if dev {
		// 开发模式同时输出到终端
		config.OutputPaths = append(config.OutputPaths, "stderr")
	}

	return config.Build()
}
