package analysis

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/capture"
	analysisstore "github.com/meladine121/reverse-engineertoolforweb-emergent/internal/stores/analysis"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/pkg/sdk"
)

// Analyze handles POST requests to run a full website analysis
func Analyze(c *gin.Context) {
	// Parse request body
	var req sdk.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	if err := validateTargetURL(req.URL); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid target URL", err.Error()).AsGinResponse())
		return
	}

	// Run the analysis pipeline
	depth := capture.ParseDepth(req.Depth)
	result, err := orchestrator.Analyze(c.Request.Context(), req.URL, req.OpenRouterAPIKey, depth)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Analysis failed", err.Error()).AsGinResponse())
		return
	}

	// Persist the result; listing still works without it, so only log failures
	if err := store.InsertAnalysis(c.Request.Context(), result); err != nil {
		log.Printf("[ANALYSIS]: Failed to persist analysis %s: %v", result.ID, err)
	}

	c.JSON(sdk.NewSuccessResponse("Analysis completed successfully", result).AsGinResponse())
}

// ListAnalyses handles GET requests to list recent analysis results
func ListAnalyses(c *gin.Context) {
	results, err := store.ListAnalyses(c.Request.Context(), analysisstore.DefaultListLimit)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to list analyses", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Analyses retrieved successfully", results).AsGinResponse())
}

// GetAnalysis handles GET requests to retrieve one analysis result by id
func GetAnalysis(c *gin.Context) {
	id := c.Param("id")

	result, err := store.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, analysisstore.ErrNotFound) {
			c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Analysis not found", nil).AsGinResponse())
			return
		}
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Failed to get analysis", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Analysis retrieved successfully", result).AsGinResponse())
}

// validateTargetURL rejects targets that are not absolute http(s) URLs
func validateTargetURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("url must use http or https")
	}
	if parsed.Host == "" {
		return errors.New("url must include a host")
	}
	return nil
}
