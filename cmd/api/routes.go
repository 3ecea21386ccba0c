package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/anujdalvisuperk/calling-assistant/internal/auth"
	"github.com/anujdalvisuperk/calling-assistant/internal/httpapi"
	"github.com/anujdalvisuperk/calling-assistant/internal/rbac"
	"github.com/anujdalvisuperk/calling-assistant/pkg/utils"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authManager *auth.Manager, db *sql.DB) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/v1/auth/signup", h.Signup)
	r.POST("/v1/auth/login", h.Login)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(auth.RequireAccessToken(authManager))
	{
		v1.GET("/me", h.Me)

		// Caller queue: fetch the next actionable task, report an outcome.
		tasks := v1.Group("/tasks")
		tasks.Use(rbac.RequireAnyRole(rbac.RoleCaller))
		{
			tasks.GET("/next", h.NextTask)
			tasks.POST("/:task_id/outcome", h.SubmitOutcome)
		}

		// Admin: imports, squad listing, dashboard aggregates.
		admin := v1.Group("/admin")
		admin.Use(rbac.RequireAdmin())
		{
			admin.POST("/imports", h.ImportContacts)
			admin.GET("/team", h.Team)
			admin.GET("/summary", h.Summary)
			admin.GET("/activity", h.CallActivity)
			admin.GET("/tasks/:task_id/history", h.TaskHistory)
		}
	}
}
