// Structured logging for the simulator, adapted from the framework this
// repository was grown from: a package-level root logger, component
// sub-loggers, and config-driven level/format/rotation.

package cfs

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LoggerConfigUseJSONDefault          = false
	LoggerConfigLevelDefault            = "info"
	LoggerConfigLogFileDefault          = "" // i.e. stderr
	LoggerConfigLogFileMaxSizeMBDefault = 10
	LoggerConfigLogFileMaxBackupDefault = 1

	// The field added to every log entry emitted via NewCompLogger:
	loggerComponentFieldName = "comp"
)

// CollectableLogger wraps logrus.Logger and caches whether debug-level
// logging is enabled, so hot paths (the per-burst trace, in particular) can
// skip building a log message when it would be discarded anyway. It also
// implements testutils.CollectableLog (via the `any`-typed level methods)
// so tests can redirect it without importing logrus themselves.
type CollectableLogger struct {
	logrus.Logger
	IsEnabledForDebug bool
}

func (log *CollectableLogger) GetOutput() io.Writer {
	return log.Out
}

func (log *CollectableLogger) GetLevel() any {
	return log.Logger.GetLevel()
}

func (log *CollectableLogger) SetLevel(level any) {
	if lvl, ok := level.(logrus.Level); ok {
		log.Logger.SetLevel(lvl)
		log.IsEnabledForDebug = log.IsLevelEnabled(logrus.DebugLevel)
	}
}

// LoggerConfig is the log_config section of SimConfig.
type LoggerConfig struct {
	UseJSON             bool   `yaml:"use_json"`
	Level               string `yaml:"level"`
	LogFile             string `yaml:"log_file"`
	LogFileMaxSizeMB    int    `yaml:"log_file_max_size_mb"`
	LogFileMaxBackupNum int    `yaml:"log_file_max_backup_num"`
}

func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		UseJSON:             LoggerConfigUseJSONDefault,
		Level:               LoggerConfigLevelDefault,
		LogFile:             LoggerConfigLogFileDefault,
		LogFileMaxSizeMB:    LoggerConfigLogFileMaxSizeMBDefault,
		LogFileMaxBackupNum: LoggerConfigLogFileMaxBackupDefault,
	}
}

var LogTextFormatter = &logrus.TextFormatter{
	DisableColors:   true,
	FullTimestamp:   true,
	TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
}

var LogJSONFormatter = &logrus.JSONFormatter{
	TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
}

var RootLogger = &CollectableLogger{
	Logger: logrus.Logger{
		Out:          os.Stderr,
		Formatter:    LogTextFormatter,
		Level:        logrus.InfoLevel,
		ReportCaller: false,
	},
}

// NewCompLogger returns a sub-logger tagging every entry with the given
// component name.
func NewCompLogger(compName string) *logrus.Entry {
	return RootLogger.WithField(loggerComponentFieldName, compName)
}

// SetLogger applies cfg (level, format, destination) to RootLogger.
func SetLogger(cfg *LoggerConfig) error {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}

	if cfg.Level != "" {
		level, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("log_config.level: %v", err)
		}
		RootLogger.SetLevel(level)
	}

	if cfg.UseJSON {
		RootLogger.SetFormatter(LogJSONFormatter)
	} else {
		RootLogger.SetFormatter(LogTextFormatter)
	}

	switch cfg.LogFile {
	case "", "stderr":
		RootLogger.SetOutput(os.Stderr)
	case "stdout":
		RootLogger.SetOutput(os.Stdout)
	default:
		logDir := path.Dir(cfg.LogFile)
		if _, err := os.Stat(logDir); err != nil {
			if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
				return err
			}
		}
		RootLogger.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogFileMaxSizeMB,
			MaxBackups: cfg.LogFileMaxBackupNum,
		})
	}

	return nil
}
