package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/ironhex/combat/internal/config"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/logging"
	intOtel "github.com/ironhex/combat/internal/otel"
)

// session holds the logging and telemetry set up for one command.
type session struct {
	slog    *logging.SlogManager
	otel    *intOtel.Provider
	logFile *os.File
	gelf    io.Closer
	logsDir string
	// game is read by the log context provider once a battle starts.
	game *game.Game
}

// openSession loads the configuration from configDir and sets up logging.
// A missing config file is not an error: the defaults apply.
func openSession(configDir string) (*session, error) {
	s := &session{slog: logging.NewSlogManager()}
	s.slog.Setup(nil, "warn", nil)
	Logger = s.slog.Logger()

	if err := config.Load(configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults", "dir", configDir, "error", err)
	}
	level := viper.GetString("logLevel")

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	logPath := logging.LogFilePath(logsDir, AppName, SessionStartTime)
	if _, err := os.Stat(logPath); err == nil {
		_ = os.Rename(logPath, logPath+".old")
	}
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	s.logFile = f
	s.logsDir = logsDir

	otelCfg := config.GetOTelConfig()
	s.otel, err = intOtel.New(intOtel.Config{
		Enabled:        otelCfg.Enabled,
		ServiceName:    otelCfg.ServiceName,
		ServiceVersion: Version,
		BatchTimeout:   otelCfg.BatchTimeout,
		LogWriter:      f,
		Endpoint:       otelCfg.Endpoint,
		Insecure:       otelCfg.Insecure,
	})
	if err != nil {
		Logger.Error("Failed to initialize OTel provider", "error", err)
		s.otel, _ = intOtel.New(intOtel.Config{})
	}
	var provider *sdklog.LoggerProvider
	if s.otel.Enabled() {
		provider = s.otel.LoggerProvider()
	}

	opts := []logging.Option{logging.WithContext(s.logContext)}
	if gl := config.GetGraylogConfig(); gl.Enabled {
		w, err := logging.NewGELFWriter(gl.Address)
		if err != nil {
			Logger.Error("Failed to connect to Graylog", "address", gl.Address, "error", err)
		} else {
			s.gelf = w
			opts = append(opts, logging.WithWriter(w))
		}
	}

	s.slog.Setup(f, level, provider, opts...)
	Logger = s.slog.Logger()
	ManagerLogger = logging.NewZerolog(level, nil, f)
	Logger.Info("Logging to file", "path", logPath, "version", Version)
	return s, nil
}

func (s *session) logContext() []slog.Attr {
	if s.game == nil {
		return nil
	}
	return s.game.LogContext()
}

// Close flushes telemetry and closes the log outputs.
func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.slog.Flush(ctx); err != nil {
		Logger.Warn("Failed to flush logs", "error", err)
	}
	if err := s.otel.Shutdown(ctx); err != nil {
		Logger.Warn("Failed to shut down OTel", "error", err)
	}
	if s.gelf != nil {
		_ = s.gelf.Close()
	}
	Logger = slog.Default()
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
}
