package health

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/pkg/sdk"
)

// Return status of the API
func getStatus(c *gin.Context) {
	res := sdk.NewSuccessResponse("OK", sdk.HealthResponse{
		Status:    "healthy",
		Service:   "website-analyzer",
		Timestamp: time.Now().UTC(),
	})
	c.JSON(res.AsGinResponse())
}
