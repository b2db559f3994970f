package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/adanyl0v/go-todo-lambda/internal/config"
)

var globalLogger zerolog.Logger

func InitDefaultLogger() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	logCtx := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller()
	// Set by the Lambda runtime, empty elsewhere.
	if lambdacontext.FunctionName != "" {
		logCtx = logCtx.
			Str("function", lambdacontext.FunctionName).
			Str("function_version", lambdacontext.FunctionVersion)
	} else {
		logCtx = logCtx.Int("pid", os.Getpid())
	}
	globalLogger = logCtx.Logger()

	globalLogger.Info().Msg("initialized default logger")
}

func MustInitApplicationLogger() {
	cfg := config.Global()

	level, err := levelForEnv(cfg.Env)
	if err != nil {
		globalLogger.Error().
			Str("env", cfg.Env).
			Msg("unknown env")
		panic(err)
	}
	zerolog.SetGlobalLevel(level)

	w := io.Writer(os.Stdout)
	if cfg.Env == config.EnvLocal {
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	}
	if cfg.LogFile != "" {
		w = zerolog.MultiLevelWriter(w, newLogFile(cfg.LogFile))
	}

	globalLogger = globalLogger.Output(w).
		With().
		Str("env", cfg.Env).
		Str("storage_driver", cfg.Storage.Driver).
		Logger()
	globalLogger.Info().
		Str("level", level.String()).
		Str("log_file", cfg.LogFile).
		Msg("initialized application logger")
}

func levelForEnv(env string) (zerolog.Level, error) {
	switch env {
	case config.EnvDev:
		return zerolog.DebugLevel, nil
	case config.EnvProd:
		return zerolog.InfoLevel, nil
	case config.EnvLocal:
		return zerolog.TraceLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown env: %s", env)
	}
}

func newLogFile(filename string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}
