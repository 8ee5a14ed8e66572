package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the rotating log file inside the log directory.
const FileName = "flow-metrics.log"

// Init initializes the global logger with dual sinks: os.Stderr and a rotating file.
// Stdout is never written to, it carries the MCP stdio protocol.
func Init(verbose bool) error {
	// Init runs before config.Load, so LOGS_FOLDER may still live in the binary's .env.
	exePath, err := os.Executable()
	if err == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
	}

	fileWriter, ferr := newFileWriter(Dir(exeDir))
	if ferr != nil {
		// Console only; a read-only install must still serve metrics.
		log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
		return ferr
	}

	multi := zerolog.MultiLevelWriter(io.Writer(consoleWriter), fileWriter)
	log.Logger = zerolog.New(multi).
		With().
		Timestamp().
		Logger()
	return nil
}

// Dir resolves the log directory: LOGS_FOLDER, else <DATA_PATH>/logs, else
// logs next to the binary.
func Dir(exeDir string) string {
	if dir := os.Getenv("LOGS_FOLDER"); dir != "" {
		return dir
	}
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = exeDir
	}
	if dataPath == "" {
		dataPath = "."
	}
	return filepath.Join(dataPath, "logs")
}

func newFileWriter(logDir string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}

	testFile := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return nil, fmt.Errorf("log directory %q is not writable: %w", logDir, err)
	}
	_ = os.Remove(testFile)

	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}, nil
}
