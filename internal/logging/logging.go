package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mahima-jayshri/studentdb/internal/config"
)

// DefaultLogFilePath is used when no log file is configured.
const DefaultLogFilePath = "studentdb.log"

const timeFormat = "2006-01-02 15:04:05"

// Apply sets the global log level and output writers. The rotating file
// always receives the log. The console copy goes to stderr and only when
// verbosity is raised, so stdout stays clean for the menu.
func Apply(cfg config.Log, verbosity int) {
	applyLevel(cfg.Level, verbosity)
	applyOutputs(cfg, verbosity)
}

func applyLevel(level string, verbosity int) {
	switch {
	case verbosity >= 2:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case verbosity == 1:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case level == "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case level == "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case level == "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case level == "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func applyOutputs(cfg config.Log, verbosity int) {
	logFilePath := cfg.File
	if logFilePath == "" {
		logFilePath = DefaultLogFilePath
	}

	var writers []io.Writer
	if verbosity > 0 {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat})
	}

	if err := ensureLogDir(logFilePath); err != nil {
		if len(writers) == 0 {
			writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat})
		}
		log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
		log.Error().Err(err).Str("path", logFilePath).Msg("Failed to prepare log directory; file logging disabled")
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	writers = append(writers, zerolog.ConsoleWriter{
		Out:        fileWriter,
		TimeFormat: timeFormat,
		NoColor:    true,
	})

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
