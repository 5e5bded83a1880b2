package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gl-setup/internal/controllers"
)

// Register builds the HTTP engine. allowOrigins configures CORS; an empty
// list disables cross-origin requests.
func Register(hc controllers.HierarchyController, allowOrigins []string) *gin.Engine {
	r := gin.Default()
	if len(allowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", controllers.Health)

	api := r.Group("/api/v1")
	api.GET("/health", controllers.Health)

	l := api.Group("/ledgers/:ledger/:kind")
	l.GET("/export", hc.Export)
	l.PUT("/import", hc.Import)
	l.POST("/rename", hc.Rename)
	l.GET("/nodes/:code/deletable", hc.Deletable)

	return r
}
