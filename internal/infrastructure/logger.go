package infrastructure

import (
	"io"
	"os"
	"strings"

	"github.com/krobus00/dashboard-service/internal/config"
	"github.com/krobus00/dashboard-service/internal/constant"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 50
	logFileMaxBackups = 5
	logFileMaxAgeDays = 14
)

// ConfigureLogger applies the log section to the global logrus logger.
func ConfigureLogger(env string, cfg config.LogConfig) error {
	logrus.SetReportCaller(cfg.ShowCaller)

	if env == constant.ProductionEnvironment {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(logLevel)

	logrus.SetOutput(logOutput(cfg.OutputFile))
	return nil
}

func logOutput(outputFile string) io.Writer {
	outputFile = strings.TrimSpace(outputFile)
	if outputFile == "" {
		return os.Stdout
	}

	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   outputFile,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
		Compress:   true,
	})
}
