package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/motoloc/motocrm/internal/config"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger

// Init installs a text slog handler writing to cfg.Log.File, or to stderr
// when toStderr is set. The returned closer releases the log file.
func Init(cfg *config.Config, toStderr bool) (io.Closer, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if !toStderr {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return nil, err
		}

		// Open log file in append mode
		file, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out, closer = file, file
	}

	Setup(out, level)
	return closer, nil
}

// Setup installs a text handler on w as the default logger
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	// Create text handler (human readable)
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// Redirect standard log package output to the same sink
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags)

	return Logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
