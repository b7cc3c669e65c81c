package live

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/broadcast"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/pkg/sdk"
)

// PostLiveEvent handles POST requests reporting a monitoring event. The
// session is created on first contact, the event is appended to its
// in-memory log, persisted, and fanned out to websocket subscribers.
func PostLiveEvent(c *gin.Context) {
	// Parse request body
	var req sdk.LiveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	if !req.Event.IsValid() {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Unknown event type", string(req.Event.Type)).AsGinResponse())
		return
	}

	// Create the session on first contact, then append
	sessions.Upsert(req.SessionID, req.URL, req.Hostname)
	if err := sessions.AppendEvent(req.SessionID, req.Event); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to record event", err.Error()).AsGinResponse())
		return
	}

	// Persistence is best effort; the live stream must not stall on it.
	// The append still runs after a failed upsert: the session row may
	// exist from a concurrent first contact.
	if err := store.UpsertSessionDoc(c.Request.Context(), req.SessionID, req.URL, req.Hostname); err != nil {
		log.Printf("[LIVE]: Failed to upsert session %s: %v", req.SessionID, err)
	}
	if err := store.AppendSessionEvent(c.Request.Context(), req.SessionID, req.Event); err != nil {
		log.Printf("[LIVE]: Failed to persist event for session %s: %v", req.SessionID, err)
	}

	hub.Publish(broadcast.NewLiveEvent(req.SessionID, req.Event))

	c.JSON(sdk.NewSuccess("Event recorded successfully").AsGinResponse())
}

// PostInsight handles POST requests for an on-demand live insight
func PostInsight(c *gin.Context) {
	// Parse request body
	var req sdk.InsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	// When the caller does not supply events, use the session's own log
	events := req.Events
	if len(events) == 0 {
		if session, ok := sessions.Get(req.SessionID); ok {
			events = session.Events
		}
	}

	insight := orchestrator.LiveInsight(c.Request.Context(), req.SessionID, req.OpenRouterAPIKey, events)

	resp := sdk.InsightResponse{
		SessionID: req.SessionID,
		Insight:   insight,
	}
	c.JSON(sdk.NewSuccessResponse("Insight generated successfully", resp).AsGinResponse())
}

// ListSessions handles GET requests listing active monitoring sessions
func ListSessions(c *gin.Context) {
	active := sessions.ListActive()

	list := make([]sdk.LiveSession, 0, len(active))
	for _, s := range active {
		list = append(list, sdk.NewLiveSession(*s))
	}

	c.JSON(sdk.NewSuccessResponse("Sessions retrieved successfully", list).AsGinResponse())
}
