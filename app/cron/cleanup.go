// Package cron contains endpoints meant to be hit by an external scheduler
package cron

import (
	"fmt"
	"net/http"
	"time"

	"bitwise74/portal-api/app/respond"
	"bitwise74/portal-api/internal"

	"github.com/gin-gonic/gin"
)

// CleanupPendingApplications sweeps pending applications older than the
// retention window. The route sits behind the bearer secret middleware
func CleanupPendingApplications(c *gin.Context, d *internal.Deps) {
	n, err := d.Sweeper.Sweep(c.Request.Context(), time.Now())
	if err != nil {
		respond.Error(c, err, "Failed to clean up pending applications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Successfully cleaned up %d old pending applications.", n),
		"deleted": n,
	})
}
