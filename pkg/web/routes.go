// Package web provides API routes for the web server.
package web

import (
	"errors"
	"net/http"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/metrics"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/PancyStudios/PancyStoreGo/pkg/tickets"
	"github.com/gin-gonic/gin"
)

// BotStatus is the part of the Discord client the API reports on.
type BotStatus interface {
	IsReady() bool
	GuildCount() int
	Identity() (id, username string)
}

// Deps holds what the API routes read from. Bot may be nil before login.
type Deps struct {
	Store   *database.Store
	Tickets *tickets.Manager
	Bot     BotStatus
}

type api struct {
	deps Deps
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, deps Deps) {
	h := &api{deps: deps}

	s.GET("/metrics", gin.WrapH(metrics.Handler()))

	group := s.Group("/api")
	{
		group.GET("/status", h.status)
		group.GET("/health", h.health)
		group.GET("/bot", h.botInfo)
		group.GET("/guilds/:guild/tickets", h.listTickets)
		group.GET("/guilds/:guild/tickets/:channel", h.getTicket)
	}
}

// status returns the bot and storage status
func (h *api) status(c *gin.Context) {
	storeStatus, storeOnline := "sin configurar", false
	if h.deps.Store != nil {
		storeStatus, storeOnline = h.deps.Store.Status()
	}

	botOnline := h.deps.Bot != nil && h.deps.Bot.IsReady()

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   storeStatus,
			"isOnline": storeOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

func (h *api) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyStore Go is running",
	})
}

func (h *api) botInfo(c *gin.Context) {
	if h.deps.Bot == nil || !h.deps.Bot.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	id, username := h.deps.Bot.Identity()
	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"username": username,
		"guilds":   h.deps.Bot.GuildCount(),
		"isReady":  true,
	})
}

// listTickets returns the tickets of a guild. ?open=true keeps open ones and
// ?opener=<id> keeps the ones a user opened.
func (h *api) listTickets(c *gin.Context) {
	if !h.ticketsAvailable(c) {
		return
	}
	guildID := c.Param("guild")

	var (
		list []models.Ticket
		err  error
	)
	switch {
	case c.Query("open") == "true":
		list, err = h.deps.Tickets.ListOpen(guildID)
	case c.Query("opener") != "":
		list, err = h.deps.Tickets.ListByOpener(guildID, c.Query("opener"))
	default:
		list, err = h.deps.Tickets.List(guildID)
	}
	if err != nil {
		storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guildId": guildID, "tickets": list})
}

func (h *api) getTicket(c *gin.Context) {
	if !h.ticketsAvailable(c) {
		return
	}
	t, err := h.deps.Tickets.Get(c.Param("guild"), c.Param("channel"))
	if err != nil {
		storageError(c, err)
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "No hay ticket para ese canal.",
			"status":  404,
		})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *api) ticketsAvailable(c *gin.Context) bool {
	if h.deps.Tickets != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":   "Service Unavailable",
		"message": "El gestor de tickets no está inicializado.",
		"status":  503,
	})
	return false
}

func storageError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, database.ErrInvalidKey) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{
		"error":   http.StatusText(status),
		"message": err.Error(),
		"status":  status,
	})
}
