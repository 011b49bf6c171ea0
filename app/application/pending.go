// Package application contains the training center application endpoints
package application

import (
	"net/http"

	"bitwise74/portal-api/app/respond"
	"bitwise74/portal-api/internal"
	"bitwise74/portal-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type pendingBody struct {
	UserID      string `json:"userId"`
	StudentName string `json:"studentName"`
	Course      string `json:"course"`
	Image       string `json:"image"`
	ImageID     string `json:"imageId"`
}

// PendingCreate stores an application that still has to be submitted. Its
// image is already hosted and gets deleted together with the record if the
// application is abandoned
func PendingCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data pendingBody
	if err := c.ShouldBindJSON(&data); err != nil {
		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))

		respond.BadRequest(c, "Invalid request body")
		return
	}

	p, err := d.Applications.CreatePending(c.Request.Context(), service.PendingInput{
		UserID:      data.UserID,
		StudentName: data.StudentName,
		Course:      data.Course,
		Image:       data.Image,
		ImageID:     data.ImageID,
	})
	if err != nil {
		respond.Error(c, err, "Failed to create pending application")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id": p.ID,
	})
}
