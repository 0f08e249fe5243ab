package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/config"
	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/models"
	"github.com/gin-gonic/gin"
)

// BotStatus reports the gateway state. *discord.ExtendedClient satisfies it.
type BotStatus interface {
	IsReady() bool
	Uptime() time.Duration
	GuildCount() int
	Latency() time.Duration
}

// DatabaseStatus reports the document store state. *database.Database satisfies it.
type DatabaseStatus interface {
	GetStatus() (string, bool)
}

// SettingsReader reads a guild's settings
type SettingsReader interface {
	GetGuildSettings(ctx context.Context, guildID string) (*models.GuildSettings, error)
}

const keepAliveText = "FloppaBot is alive!"

// setupRoutes registers the keep-alive and API routes
func (s *Server) setupRoutes() {
	s.engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, keepAliveText)
	})

	api := s.engine.Group("/api")
	{
		api.GET("/health", s.healthHandler)
		api.GET("/status", s.statusHandler)
		if s.opts.APIToken != "" && s.opts.Settings != nil {
			api.GET("/guilds/:id/settings", s.requireToken(), s.settingsHandler)
		}
	}
}

// healthHandler returns a simple health check response
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "FloppaBot Go is running",
	})
}

// statusHandler returns the bot and database status
func (s *Server) statusHandler(c *gin.Context) {
	dbStatus, dbOnline := "memory", true
	if s.opts.Database != nil {
		dbStatus, dbOnline = s.opts.Database.GetStatus()
	}

	bot := gin.H{"isOnline": false}
	if s.opts.Bot != nil {
		bot = gin.H{
			"isOnline":  s.opts.Bot.IsReady(),
			"guilds":    s.opts.Bot.GuildCount(),
			"uptime":    s.opts.Bot.Uptime().Round(time.Second).String(),
			"latencyMs": s.opts.Bot.Latency().Milliseconds(),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": config.Version,
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": bot,
	})
}

// requireToken checks the bearer token against APIToken
func (s *Server) requireToken() gin.HandlerFunc {
	want := []byte(s.opts.APIToken)
	return func(c *gin.Context) {
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			return
		}
		c.Next()
	}
}

// settingsHandler returns the stored settings of one guild
func (s *Server) settingsHandler(c *gin.Context) {
	settings, err := s.opts.Settings.GetGuildSettings(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if boterrors.Is(err, boterrors.ErrStoreUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if settings == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No settings stored for this guild"})
		return
	}
	c.JSON(http.StatusOK, settings)
}
