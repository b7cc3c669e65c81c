package analysis

import (
	"github.com/gin-gonic/gin"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/pipeline"
	analysisstore "github.com/meladine121/reverse-engineertoolforweb-emergent/internal/stores/analysis"
)

// Register routes for the analysis module
func RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/analyze", Analyze)         // Run a full website analysis
	g.GET("/analyses", ListAnalyses)    // List recent analysis results
	g.GET("/analyses/:id", GetAnalysis) // Get one analysis result by id
}

var orchestrator *pipeline.Orchestrator
var store analysisstore.Store

// Init wires the analysis module with its orchestrator and persistence
func Init(o *pipeline.Orchestrator, s analysisstore.Store) {
	orchestrator = o
	store = s
}
