package live

import (
	"github.com/gin-gonic/gin"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/broadcast"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/pipeline"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
	analysisstore "github.com/meladine121/reverse-engineertoolforweb-emergent/internal/stores/analysis"
)

// Register routes for the live monitoring module
func RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/live-session", PostLiveEvent) // Report a monitoring event for a session
	g.POST("/ai-insight", PostInsight)     // Generate an on-demand insight for a session
	g.GET("/live-sessions", ListSessions)  // List active monitoring sessions
	g.GET("/ws", ServeWS)                  // Subscribe to the live event stream
}

var sessions *registry.Registry
var hub *broadcast.Hub
var orchestrator *pipeline.Orchestrator
var store analysisstore.Store

// Init wires the live module with its session registry, fan-out hub,
// insight orchestrator, and persistence
func Init(r *registry.Registry, h *broadcast.Hub, o *pipeline.Orchestrator, s analysisstore.Store) {
	sessions = r
	hub = h
	orchestrator = o
	store = s
}
