// Package errors provides error handling and recovery mechanisms for the bot.
// It counts recovered panics and reported failures and shuts the process
// down when too many happen in a short burst.
package errors

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/goccy/go-json"
)

// ErrorHandler manages error counting and reporting
type ErrorHandler struct {
	errorCount    atomic.Int32
	totalErrors   atomic.Int64
	webhookURL    string
	stopOnce      sync.Once
	stopChan      chan struct{}
	shutdownFunc  func()
	exitFunc      func(code int)
	maxErrors     int32
	resetInterval time.Duration
	checkInterval time.Duration
	httpClient    *http.Client
}

// Options tunes the burst detection. Zero values keep the defaults.
type Options struct {
	MaxErrors     int32
	ResetInterval time.Duration
	CheckInterval time.Duration
	// Exit replaces os.Exit, mainly for tests.
	Exit func(code int)
}

// ReportErrorOptions contains options for reporting an error
type ReportErrorOptions struct {
	Error   string
	Message string
}

var (
	handler *ErrorHandler
	once    sync.Once
)

// Init initializes the global error handler
func Init(webhookURL string, shutdownFunc func()) *ErrorHandler {
	once.Do(func() {
		handler = NewErrorHandler(webhookURL, shutdownFunc, Options{})
	})
	return handler
}

// Get returns the global error handler instance
func Get() *ErrorHandler {
	return handler
}

// NewErrorHandler creates a new ErrorHandler instance and starts its monitors.
func NewErrorHandler(webhookURL string, shutdownFunc func(), opts Options) *ErrorHandler {
	h := &ErrorHandler{
		webhookURL:    webhookURL,
		stopChan:      make(chan struct{}),
		shutdownFunc:  shutdownFunc,
		exitFunc:      os.Exit,
		maxErrors:     15,
		resetInterval: 5 * time.Second,
		checkInterval: 1 * time.Second,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
	if opts.MaxErrors > 0 {
		h.maxErrors = opts.MaxErrors
	}
	if opts.ResetInterval > 0 {
		h.resetInterval = opts.ResetInterval
	}
	if opts.CheckInterval > 0 {
		h.checkInterval = opts.CheckInterval
	}
	if opts.Exit != nil {
		h.exitFunc = opts.Exit
	}

	h.start()
	return h
}

// start begins the error monitoring goroutines
func (h *ErrorHandler) start() {
	// Burst window reset
	go func() {
		ticker := time.NewTicker(h.resetInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				h.errorCount.Store(0)
			case <-h.stopChan:
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(h.checkInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if h.errorCount.Load() > h.maxErrors {
					h.shutdown()
					return
				}
			case <-h.stopChan:
				return
			}
		}
	}()
}

func (h *ErrorHandler) shutdown() {
	start := time.Now()
	logger.Warn("Se detectó un número demasiado alto de errores", "CRITICAL")
	logger.Warn("Apagando...", "CRITICAL")

	h.Report(ReportErrorOptions{
		Error:   "Critical Error",
		Message: "Número inusual de errores. Apagando...",
	})

	if h.shutdownFunc != nil {
		h.shutdownFunc()
	}

	logger.Warn(fmt.Sprintf("Finalizando proceso... Tiempo total: %v", time.Since(start)), "CRITICAL")
	h.exitFunc(1)
}

// Stop stops the error monitoring goroutines
func (h *ErrorHandler) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
	})
}

// IncrementError increments the error count
func (h *ErrorHandler) IncrementError() {
	count := h.errorCount.Add(1)
	h.totalErrors.Add(1)
	logger.Error(fmt.Sprintf("Conteo de errores: %d", count), "AntiCrash")
}

// TotalErrors returns how many errors were counted since start.
func (h *ErrorHandler) TotalErrors() int64 {
	return h.totalErrors.Load()
}

// HandlePanic handles a recovered panic
func (h *ErrorHandler) HandlePanic(recovered interface{}) {
	h.IncrementError()
	logger.Debug("Panic no controlado", "AntiCrash")
	logger.Error(fmt.Sprintf("%v", recovered), "SYS")
}

type reportEmbed struct {
	Author      map[string]string `json:"author"`
	Description string            `json:"description"`
	Color       int               `json:"color"`
	Footer      map[string]string `json:"footer"`
	Timestamp   string            `json:"timestamp"`
}

// Report sends an error report to the Discord webhook
func (h *ErrorHandler) Report(data ReportErrorOptions) {
	if h.webhookURL == "" {
		return
	}

	payload := map[string][]reportEmbed{
		"embeds": {{
			Author:      map[string]string{"name": fmt.Sprintf("Error %s", data.Error)},
			Description: data.Message,
			Color:       0xFF0000,
			Footer:      map[string]string{"text": "PancyStore Go"},
			Timestamp:   time.Now().Format(time.RFC3339),
		}},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		logger.Error(fmt.Sprintf("No se pudo serializar el reporte: %v", err), "AntiCrash")
		return
	}

	req, err := http.NewRequest(http.MethodPost, h.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		logger.Error(fmt.Sprintf("No se pudo crear la petición al webhook: %v", err), "AntiCrash")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("No se pudo enviar el reporte: %v", err), "AntiCrash")
		return
	}
	defer resp.Body.Close()

	logger.Warn(fmt.Sprintf("Reporte enviado al webhook, estado: %d", resp.StatusCode), "AntiCrash")
}

// Recover handles a value returned by recover(). It is safe with a nil
// global handler.
func Recover(r interface{}) {
	if r == nil {
		return
	}
	if handler != nil {
		handler.HandlePanic(r)
		return
	}
	logger.Error(fmt.Sprintf("Panic recuperado (sin handler): %v", r), "AntiCrash")
}

// RecoverMiddleware returns a recovery function for use in deferred calls
func RecoverMiddleware() func() {
	return func() {
		Recover(recover())
	}
}
