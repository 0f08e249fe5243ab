// Package web provides the keep-alive and status HTTP server.
// It uses Gin for routing and middleware.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// Options configures the server
type Options struct {
	// WebhookURL receives a log embed per request when set
	WebhookURL string
	// AllowedHosts rejects requests whose Host does not match, when set
	AllowedHosts string
	// APIToken guards the settings route; empty disables it
	APIToken string
	// RequestsPerMinute per client IP
	RequestsPerMinute int

	Bot      BotStatus
	Database DatabaseStatus
	Settings SettingsReader
}

// Server represents the web server
type Server struct {
	engine           *gin.Engine
	opts             Options
	allowedHostRegex *regexp.Regexp
	httpClient       *http.Client
	limiters         *lru.Cache[string, *rate.Limiter]
	limiterMu        sync.Mutex

	mu   sync.Mutex
	http *http.Server
}

const maxTrackedClients = 4096

// NewServer creates a new web server with every route registered
func NewServer(opts Options) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 100
	}

	limiters, err := lru.New[string, *rate.Limiter](maxTrackedClients)
	if err != nil {
		return nil, err
	}

	s := &Server{
		engine:     gin.New(),
		opts:       opts,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiters:   limiters,
	}
	if opts.AllowedHosts != "" {
		re, err := regexp.Compile(opts.AllowedHosts)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed hosts pattern: %w", err)
		}
		s.allowedHostRegex = re
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())

	s.setupErrorHandlers()
	s.setupRoutes()

	return s, nil
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// logsMiddleware logs requests and rejects hosts outside AllowedHosts
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.allowedHostRegex == nil || s.allowedHostRegex.MatchString(c.Request.Host) {
			logger.Debug(fmt.Sprintf("[LOG] New request: %s %s", c.Request.Method, c.Request.URL.Path), "WebServer")
			s.sendLogToWebhook(c, false)
			c.Next()
			return
		}

		logger.Warn(fmt.Sprintf("[LOG] Suspicious request: %s %s | %s", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")
		s.sendLogToWebhook(c, true)
		c.AbortWithStatus(http.StatusForbidden)
	}
}

// sendLogToWebhook posts a request summary to the Discord webhook in the background
func (s *Server) sendLogToWebhook(c *gin.Context, suspicious bool) {
	if s.opts.WebhookURL == "" {
		return
	}

	title := fmt.Sprintf("💫 | New %s request to the web server", c.Request.Method)
	color := 0x00AE86

	if suspicious {
		title = fmt.Sprintf("💫 | Suspicious request rejected: %s %s", c.Request.Method, c.Request.URL.Path)
		color = 0xFFA500
	}

	headers := c.Request.Header.Clone()
	headers.Del("Authorization")
	headerJSON, _ := json.Marshal(headers)
	query := c.Request.URL.RawQuery
	if query == "" {
		query = "{}"
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{map[string]interface{}{
			"title": title,
			"description": fmt.Sprintf(
				"> **Path:** `%s`\n> **IP:** `%s`\n> **Headers:** ```%s``` \n> **Query:** ```%s```",
				c.Request.URL.Path,
				c.ClientIP(),
				string(headerJSON),
				query,
			),
			"color":     color,
			"timestamp": time.Now().Format(time.RFC3339),
		}},
	}

	go func() {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return
		}
		req, err := http.NewRequest(http.MethodPost, s.opts.WebhookURL, bytes.NewBuffer(jsonData))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return
		}
		resp.Body.Close()
	}()
}

// limiterFor returns the token bucket of a client IP
func (s *Server) limiterFor(ip string) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	if l, ok := s.limiters.Get(ip); ok {
		return l
	}
	perMinute := s.opts.RequestsPerMinute
	l := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	s.limiters.Add(ip, l)
	return l
}

// rateLimitMiddleware limits each client IP to RequestsPerMinute
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please try again later.",
			})
			return
		}
		c.Next()
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.HandleMethodNotAllowed = true

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested route does not exist.",
			"status":  http.StatusNotFound,
		})
	})

	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "The HTTP method is not allowed for this route.",
			"status":  http.StatusMethodNotAllowed,
		})
	})
}

// Start serves on port until Shutdown is called
func (s *Server) Start(port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()

	logger.Info(fmt.Sprintf("🚀 Server listening on http://localhost:%s", port), "WebServer")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	go func() {
		if err := s.Start(port); err != nil {
			logger.Error(fmt.Sprintf("Error starting web server: %v", err), "WebServer")
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
