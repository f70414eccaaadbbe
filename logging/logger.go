package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/chime/config"
	"github.com/grovetools/chime/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()

	// Load configuration from chime.yml
	cfg, err := config.LoadDefault()
	var logCfg Config
	if err == nil {
		// Use UnmarshalExtension to safely decode the logging part
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			// Log a warning if parsing fails, but continue with defaults
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	// Configure Level
	levelStr := "info" // Default level
	if os.Getenv("CHIME_LOG_LEVEL") != "" {
		levelStr = os.Getenv("CHIME_LOG_LEVEL")
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Configure Caller Reporting
	if os.Getenv("CHIME_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	// Configure Formatter
	preset := logCfg.Format.Preset
	if env := os.Getenv("CHIME_LOG_FORMAT"); env != "" {
		preset = env
	}
	switch preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	// Configure Output Sinks
	var writers []io.Writer

	// Configure File Sink. Every component shares the hub log file unless a
	// path is configured; entries are distinguished by their component field.
	var logFilePath string
	switch {
	case os.Getenv("CHIME_LOG_FILE") != "":
		logFilePath = expandPath(os.Getenv("CHIME_LOG_FILE"))
	case logCfg.File.Enabled && logCfg.File.Path != "":
		logFilePath = expandPath(logCfg.File.Path)
	default:
		logFilePath = paths.LogFile()
	}

	if logFilePath != "" {
		dir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			// Don't warn about default log dir creation failures
			if logCfg.File.Enabled {
				logger.Warnf("Failed to create log directory %s: %v", dir, err)
			}
		} else {
			file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err == nil {
				writers = append(writers, file)
			} else {
				// Only warn if explicitly configured
				if logCfg.File.Enabled {
					logger.Warnf("Failed to open log file %s: %v", logFilePath, err)
				}
			}
		}
	}

	// Determine if we should write structured logs to stderr
	shouldLogToStderr := false
	stderrMode := "auto"
	if logCfg.Format.StructuredToStderr != "" {
		stderrMode = logCfg.Format.StructuredToStderr
	}

	switch stderrMode {
	case "always":
		shouldLogToStderr = true
	case "never":
		shouldLogToStderr = false
	case "auto":
		// "auto" mode: log to stderr if debug is enabled, or if not in an interactive terminal
		isDebug := os.Getenv("CHIME_DEBUG") == "1" || logger.GetLevel() == logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		// Only show structured logs on stderr in debug mode or when stderr is
		// piped (CI, redirects); interactive use stays quiet.
		if isDebug || !isInteractive {
			shouldLogToStderr = true
		}
	}

	if shouldLogToStderr {
		writers = append(writers, os.Stderr)
	}

	// Configure the output based on the number of writers
	if len(writers) == 0 {
		// No writers configured. Suppress output entirely rather than
		// defaulting to stderr.
		logger.SetOutput(io.Discard)
	} else if len(writers) == 1 {
		logger.SetOutput(writers[0])
	} else {
		mw := io.MultiWriter(writers...)
		logger.SetOutput(mw)
	}

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// SetLevel changes the level on every component logger already created.
// The hub calls this when a config reload carries a new logging level;
// loggers created afterwards pick the level up from the config file.
func SetLevel(levelStr string) {
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return
	}

	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, entry := range loggers {
		entry.Logger.SetLevel(level)
	}
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
