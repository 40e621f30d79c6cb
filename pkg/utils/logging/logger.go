package logging

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where logs go
type Options struct {
	// Env prefixes the log file name
	Env string
	// Dir holds the log files, "logs" when empty
	Dir string
	// Verbose lowers the console level to Debug
	Verbose bool
	// NoFile disables the JSON file output
	NoFile bool
}

// InitLogger builds a logger that writes human-readable lines to stdout and,
// unless disabled, every Debug-and-above entry as JSON to <dir>/<env>_<timestamp>.log
func InitLogger(opts Options) (*zap.Logger, error) {
	consoleConfig := zap.NewDevelopmentEncoderConfig()
	consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleLevel := zapcore.InfoLevel
	if opts.Verbose {
		consoleLevel = zapcore.DebugLevel
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.AddSync(os.Stdout), consoleLevel),
	}

	if !opts.NoFile {
		logFile, err := openLogFile(opts)
		if err != nil {
			return nil, err
		}

		fileConfig := zap.NewProductionEncoderConfig()
		fileConfig.TimeKey = "timestamp"
		fileConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileConfig), zapcore.AddSync(logFile), zapcore.DebugLevel))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func openLogFile(opts Options) (*os.File, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create logs directory")
	}

	env := opts.Env
	if env == "" {
		env = "dev"
	}
	name := filepath.Join(dir, env+"_"+time.Now().Format("2006-01-02_15-04-05")+".log")
	logFile, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}
	return logFile, nil
}
