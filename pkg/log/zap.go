package log

import (
	"fmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"os"
	"path/filepath"
	"tldr/pkg/config"
)

// InitializeZapLogger logs human-readable lines to stdout and, when a log file is configured,
// JSON lines to that file, rotated at max_size_mb keeping max_backups old files.
func InitializeZapLogger(cfg *config.Config) (Log, error) {
	if logger != nil {
		return logger, nil
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging level, %s", cfg.Logging.Level)
	}

	consoleEncoder := zap.NewDevelopmentEncoderConfig()
	consoleEncoder.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	consoleEncoder.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoder), zapcore.Lock(os.Stdout), level),
	}

	if path := cfg.LogPath(); len(path) > 0 {
		if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("error creating log directory, %w", err)
		}

		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(newLogFile(cfg)), level))
	}

	logger = NewZapLogger(zap.New(zapcore.NewTee(cores...)))
	return logger, nil
}

func newLogFile(cfg *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.LogPath(),
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
}

func NewZapLogger(z *zap.Logger) Log {
	return &zapLogger{logger: z}
}

type zapLogger struct {
	logger *zap.Logger
}

func (zl *zapLogger) Close() error {
	// stdout cannot be synced on some platforms
	_ = zl.logger.Sync()
	return nil
}

func (zl *zapLogger) Log(l Labeler, message string, severity Severity) {
	var fields []zap.Field
	if l != nil {
		labels := l.Labels()
		fields = make([]zap.Field, 0, len(labels))
		for k, v := range labels {
			fields = append(fields, zap.String(k, v))
		}
	}

	switch {
	case severity >= Critical:
		zl.logger.DPanic(message, fields...)
	case severity >= Error:
		zl.logger.Error(message, fields...)
	case severity >= Warning:
		zl.logger.Warn(message, fields...)
	case severity >= Info:
		zl.logger.Info(message, fields...)
	default:
		zl.logger.Debug(message, fields...)
	}
}

func (zl *zapLogger) Rawf(severity Severity, format string, args ...any) {
	zl.Log(nil, fmt.Sprintf(format, args...), severity)
}

func (zl *zapLogger) Default(l Labeler, message any) { zl.Defaultf(l, "%s", message) }
func (zl *zapLogger) Defaultf(l Labeler, format string, args ...any) {
	zl.Log(l, fmt.Sprintf(format, args...), Default)
}

func (zl *zapLogger) Debug(l Labeler, message any) { zl.Debugf(l, "%s", message) }
func (zl *zapLogger) Debugf(l Labeler, format string, args ...any) {
	zl.Log(l, fmt.Sprintf(format, args...), Debug)
}

func (zl *zapLogger) Info(l Labeler, message any) { zl.Infof(l, "%s", message) }
func (zl *zapLogger) Infof(l Labeler, format string, args ...any) {
	zl.Log(l, fmt.Sprintf(format, args...), Info)
}

func (zl *zapLogger) Notice(l Labeler, message any) { zl.Noticef(l, "%s", message) }
func (zl *zapLogger) Noticef(l Labeler, format string, args ...any) {
	zl.Log(l, fmt.Sprintf(format, args...), Notice)
}

func (zl *zapLogger) Warning(l Labeler, message any) { zl.Warningf(l, "%s", message) }
func (zl *zapLogger) Warningf(l Labeler, format string, args ...any) {
	zl.Log(l, fmt.Sprintf(format, args...), Warning)
}

func (zl *zapLogger) Error(l Labeler, message any) { zl.Errorf(l, "%s", message) }
func (zl *zapLogger) Errorf(l Labeler, format string, args ...any) {
	zl.Log(l, fmt.Sprintf(format, args...), Error)
}

func (zl *zapLogger) Critical(l Labeler, message any) { zl.Criticalf(l, "%s", message) }
func (zl *zapLogger) Criticalf(l Labeler, format string, args ...any) {
	zl.Log(l, fmt.Sprintf(format, args...), Critical)
}

func (zl *zapLogger) Alert(l Labeler, message any) { zl.Alertf(l, "%s", message) }
func (zl *zapLogger) Alertf(l Labeler, format string, args ...any) {
	zl.Log(l, fmt.Sprintf(format, args...), Alert)
}

func (zl *zapLogger) Emergency(l Labeler, message any) { zl.Emergencyf(l, "%s", message) }
func (zl *zapLogger) Emergencyf(l Labeler, format string, args ...any) {
	zl.Log(l, fmt.Sprintf(format, args...), Emergency)
}
