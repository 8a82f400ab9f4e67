// Package web provides the HTTP status API with routing and middleware.
// It uses the Gin framework.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"time"

	pkgerrors "github.com/PancyStudios/PancyStoreGo/pkg/errors"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// Options configures a Server.
type Options struct {
	// WebhookURL receives a copy of every request log. Optional.
	WebhookURL string
	// AllowedHosts restricts the Host header. Empty allows any host.
	AllowedHosts string
	// Limiter enforces the per-IP request policy. A private one is created when nil.
	Limiter *ratelimit.Limiter
}

// Server represents the web server
type Server struct {
	engine           *gin.Engine
	httpServer       *http.Server
	webhookURL       string
	allowedHostRegex *regexp.Regexp
	limiter          *ratelimit.Limiter
	httpClient       *http.Client
}

var (
	server *Server
)

// Init initializes the global web server
func Init(opts Options) *Server {
	server = NewServer(opts)
	return server
}

// Get returns the global web server
func Get() *Server {
	return server
}

// NewServer creates a new web server
func NewServer(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		pkgerrors.Recover(recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Ocurrió un error inesperado.",
			"status":  500,
		})
	}))

	s := &Server{
		engine:     engine,
		webhookURL: opts.WebhookURL,
		limiter:    opts.Limiter,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	if opts.AllowedHosts != "" {
		s.allowedHostRegex = regexp.MustCompile(opts.AllowedHosts)
	}
	if s.limiter == nil {
		s.limiter = ratelimit.New()
	}

	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())

	s.setupErrorHandlers()

	return s
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// logsMiddleware logs incoming requests and rejects unknown hosts.
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.allowedHostRegex == nil || s.allowedHostRegex.MatchString(c.Request.Host) {
			logger.Debug(fmt.Sprintf("Nueva solicitud: %s %s", c.Request.Method, c.Request.URL.Path), "WebServer")
			go s.sendLogToWebhook(requestSummary(c), false)
			c.Next()
			return
		}

		logger.Warn(fmt.Sprintf("Solicitud sospechosa: %s %s | %s", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")
		go s.sendLogToWebhook(requestSummary(c), true)
		c.AbortWithStatus(http.StatusForbidden)
	}
}

type loggedRequest struct {
	Method  string
	Path    string
	IP      string
	Headers http.Header
	Query   string
}

// requestSummary copies what the webhook needs; the gin context must not be
// used after the handler returns.
func requestSummary(c *gin.Context) loggedRequest {
	return loggedRequest{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		IP:      c.ClientIP(),
		Headers: c.Request.Header.Clone(),
		Query:   c.Request.URL.RawQuery,
	}
}

// sendLogToWebhook sends a log message to the Discord webhook
func (s *Server) sendLogToWebhook(r loggedRequest, suspicious bool) {
	if s.webhookURL == "" {
		return
	}

	title := fmt.Sprintf("💫 | Nueva solicitud al servidor web de tipo %s", r.Method)
	color := 0x00AE86

	if suspicious {
		title = fmt.Sprintf("💫 | Solicitud Sospechosa Rechazada: %s %s", r.Method, r.Path)
		color = 0xFFA500
	}

	headers, _ := json.Marshal(r.Headers)
	query := r.Query
	if query == "" {
		query = "{}"
	}

	payload := gin.H{
		"embeds": []gin.H{{
			"title": title,
			"description": fmt.Sprintf(
				"> **Ruta:** `%s`\n> **IP:** `%s`\n> **Headers:** ```%s``` \n> **Query:** ```%s```",
				r.Path, r.IP, string(headers), query,
			),
			"color":     color,
			"timestamp": time.Now().Format(time.RFC3339),
		}},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}

// rateLimitMiddleware applies the per-IP sliding window policy.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := s.limiter.Check(c.ClientIP(), ratelimit.HTTPRequest)
		if err != nil {
			logger.Error(fmt.Sprintf("Error en el limitador HTTP: %v", err), "WebServer")
			c.Next()
			return
		}
		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes, por favor intente de nuevo más tarde.",
			})
			return
		}
		c.Next()
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La ruta solicitada no existe.",
			"status":  404,
		})
	})

	s.engine.HandleMethodNotAllowed = true
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "El método HTTP no está permitido para esta ruta.",
			"status":  405,
		})
	})
}

// Start serves on port until Shutdown is called.
func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info(fmt.Sprintf("🚀 Servidor escuchando en http://localhost:%s", port), "WebServer")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	go func() {
		if err := s.Start(port); err != nil {
			logger.Error(fmt.Sprintf("Error iniciando el servidor web: %v", err), "WebServer")
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Group creates a new router group
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}

// GET registers a GET route
func (s *Server) GET(path string, handlers ...gin.HandlerFunc) {
	s.engine.GET(path, handlers...)
}
