// Package logger provides the bot's logging system.
// Messages go to the console with colors, to logrus-managed files under the
// log directory, and optionally to Discord webhooks.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelCritical LogLevel = iota
	LevelError
	LevelWarn
	LevelSuccess
	LevelInfo
	LevelDebug
	LevelSystem
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelCritical:
		return "CRITICAL"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelSuccess:
		return "SUCCESS"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelSystem:
		return "SYSTEM"
	default:
		return "UNKNOWN"
	}
}

// Color returns the ANSI color code for the log level
func (l LogLevel) Color() string {
	switch l {
	case LevelCritical:
		return "\033[1;31m" // Bold Red
	case LevelError:
		return "\033[31m" // Red
	case LevelWarn:
		return "\033[33m" // Yellow
	case LevelSuccess:
		return "\033[32m" // Green
	case LevelInfo:
		return "\033[36m" // Cyan
	case LevelDebug:
		return "\033[35m" // Magenta
	case LevelSystem:
		return "\033[34m" // Blue
	default:
		return "\033[0m" // Reset
	}
}

// DiscordColor returns the Discord embed color for the log level
func (l LogLevel) DiscordColor() int {
	switch l {
	case LevelCritical, LevelError:
		return 0xFF0000 // Red
	case LevelWarn:
		return 0xFFFF00 // Yellow
	case LevelSuccess:
		return 0x00FF00 // Green
	case LevelInfo:
		return 0x0000FF // Blue
	case LevelDebug:
		return 0x800080 // Purple
	case LevelSystem:
		return 0x808080 // Grey
	default:
		return 0xFFFFFF // White
	}
}

// logrusLevel maps a bot level onto the closest logrus level. Critical is
// written as error so logrus never exits or panics on our behalf.
func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case LevelCritical, LevelError:
		return logrus.ErrorLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelDebug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

const (
	colorReset  = "\033[0m"
	embedFooter = "💫 Developed by PancyStudio | PancyStore Go"
)

// Options configures a Logger.
type Options struct {
	// Dir holds combined.log and error.log. Empty disables file output.
	Dir          string
	ErrorWebhook string
	LogsWebhook  string
	// Debug enables debug messages; they are dropped otherwise.
	Debug bool
	// Console receives the colored output. Defaults to os.Stdout.
	Console io.Writer
}

// Logger is the main logging structure
type Logger struct {
	logrus          *logrus.Logger
	console         io.Writer
	debug           bool
	errorWebhookURL string
	logsWebhookURL  string
	logFile         *os.File
	errorFile       *os.File
	httpClient      *http.Client
	mu              sync.Mutex
}

// logger is the global logger instance
var (
	logger *Logger
	once   sync.Once
)

// Init initializes the global logger instance
func Init(opts Options) *Logger {
	once.Do(func() {
		logger = NewLogger(opts)
	})
	return logger
}

// Get returns the global logger instance. Before Init it is a console-only
// logger with debug output enabled.
func Get() *Logger {
	once.Do(func() {
		logger = NewLogger(Options{Debug: true})
	})
	return logger
}

// NewLogger creates a new Logger instance
func NewLogger(opts Options) *Logger {
	l := &Logger{
		logrus:          logrus.New(),
		console:         opts.Console,
		debug:           opts.Debug,
		errorWebhookURL: opts.ErrorWebhook,
		logsWebhookURL:  opts.LogsWebhook,
		httpClient:      &http.Client{Timeout: 5 * time.Second},
	}
	if l.console == nil {
		l.console = os.Stdout
	}

	l.logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	l.logrus.SetLevel(logrus.DebugLevel)
	l.logrus.SetOutput(io.Discard)

	if opts.Dir == "" {
		return l
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		fmt.Fprintf(l.console, "Error creando el directorio de logs: %v\n", err)
		return l
	}

	var err error
	l.logFile, err = os.OpenFile(filepath.Join(opts.Dir, "combined.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(l.console, "Error abriendo combined.log: %v\n", err)
	} else {
		l.logrus.SetOutput(l.logFile)
	}

	l.errorFile, err = os.OpenFile(filepath.Join(opts.Dir, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(l.console, "Error abriendo error.log: %v\n", err)
	} else {
		l.logrus.AddHook(&fileHook{
			writer:    l.errorFile,
			formatter: l.logrus.Formatter,
			levels:    []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel},
		})
	}

	return l
}

// fileHook copies entries of the given levels to a second file.
type fileHook struct {
	writer    io.Writer
	formatter logrus.Formatter
	levels    []logrus.Level
}

func (h *fileHook) Levels() []logrus.Level {
	return h.levels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}

// SetConsole swaps the writer that receives the colored output and returns
// the previous one.
func (l *Logger) SetConsole(w io.Writer) io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.console
	l.console = w
	return prev
}

// log is the internal logging function
func (l *Logger) log(level LogLevel, message string, prefix string) {
	if level == LevelDebug && !l.debug {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	fmt.Fprintf(l.console, "[%s] [%s%s%s] [%s]: %s\n",
		timestamp,
		level.Color(),
		level.String(),
		colorReset,
		prefix,
		message,
	)

	l.logrus.WithFields(logrus.Fields{
		"kind":   level.String(),
		"prefix": prefix,
	}).Log(level.logrusLevel(), message)

	go l.sendToWebhook(level, message, prefix)
}

type webhookPayload struct {
	Embeds []webhookEmbed `json:"embeds"`
}

type webhookEmbed struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Color       int               `json:"color"`
	Timestamp   string            `json:"timestamp"`
	Footer      map[string]string `json:"footer"`
}

// sendToWebhook sends the log message to the appropriate Discord webhook
func (l *Logger) sendToWebhook(level LogLevel, message, prefix string) {
	var webhookURL string

	if level <= LevelError && l.errorWebhookURL != "" {
		webhookURL = l.errorWebhookURL
	} else if l.logsWebhookURL != "" && level > LevelError && level != LevelDebug {
		webhookURL = l.logsWebhookURL
	}

	if webhookURL == "" {
		return
	}

	payload := webhookPayload{Embeds: []webhookEmbed{{
		Title:       fmt.Sprintf("[%s] %s", level.String(), prefix),
		Description: fmt.Sprintf("```%s```", message),
		Color:       level.DiscordColor(),
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer:      map[string]string{"text": embedFooter},
	}}}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}

// Close closes the log files
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logrus.SetOutput(io.Discard)
	l.logrus.ReplaceHooks(make(logrus.LevelHooks))
	if l.logFile != nil {
		l.logFile.Close()
		l.logFile = nil
	}
	if l.errorFile != nil {
		l.errorFile.Close()
		l.errorFile = nil
	}
}

// Logging methods

// Critical logs a critical message
func (l *Logger) Critical(message string, prefix string) {
	l.log(LevelCritical, message, prefix)
}

// Error logs an error message
func (l *Logger) Error(message string, prefix string) {
	l.log(LevelError, message, prefix)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, prefix string) {
	l.log(LevelWarn, message, prefix)
}

// Success logs a success message
func (l *Logger) Success(message string, prefix string) {
	l.log(LevelSuccess, message, prefix)
}

// Info logs an info message
func (l *Logger) Info(message string, prefix string) {
	l.log(LevelInfo, message, prefix)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, prefix string) {
	l.log(LevelDebug, message, prefix)
}

// System logs a system message
func (l *Logger) System(message string, prefix string) {
	l.log(LevelSystem, message, prefix)
}

// Package-level functions for convenience

// Critical logs a critical message using the global logger
func Critical(message string, prefix string) {
	Get().Critical(message, prefix)
}

// Error logs an error message using the global logger
func Error(message string, prefix string) {
	Get().Error(message, prefix)
}

// Warn logs a warning message using the global logger
func Warn(message string, prefix string) {
	Get().Warn(message, prefix)
}

// Success logs a success message using the global logger
func Success(message string, prefix string) {
	Get().Success(message, prefix)
}

// Info logs an info message using the global logger
func Info(message string, prefix string) {
	Get().Info(message, prefix)
}

// Debug logs a debug message using the global logger
func Debug(message string, prefix string) {
	Get().Debug(message, prefix)
}

// System logs a system message using the global logger
func System(message string, prefix string) {
	Get().System(message, prefix)
}
