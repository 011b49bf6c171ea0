// Package user contains the signup endpoints
package user

import (
	"net/http"

	"bitwise74/portal-api/app/respond"
	"bitwise74/portal-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type signupBody struct {
	Name string `json:"name"`
	// Email holds either an email address or a phone number
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSignup registers a new account or refreshes an unverified one
func UserSignup(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data signupBody
	if err := c.ShouldBindJSON(&data); err != nil {
		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))

		respond.BadRequest(c, "Missing name, email, or password")
		return
	}

	res, err := d.Registrar.Register(c.Request.Context(), data.Name, data.Email, data.Password)
	if err != nil {
		respond.Error(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": string(res.Status),
		"userId":  res.AccountID,
	})
}
