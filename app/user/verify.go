package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"bitwise74/portal-api/app/respond"
	"bitwise74/portal-api/internal"
	"bitwise74/portal-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// flexCode accepts the code as either a JSON string or number
type flexCode string

func (f *flexCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexCode(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("code must be a string or a number")
	}
	*f = flexCode(numberText(n))

	return nil
}

// numberText prints integral numbers without fraction or exponent, so
// 123456.0 and 1.23456e5 both read as 123456
func numberText(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}

	v, err := n.Float64()
	if err != nil || v != math.Trunc(v) || math.Abs(v) >= 1<<63 {
		return n.String()
	}

	return strconv.FormatInt(int64(v), 10)
}

type verifyBody struct {
	UserID string   `json:"userId"`
	Code   flexCode `json:"code"`
}

// UserVerify finishes an email signup with the code that was mailed
func UserVerify(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data verifyBody
	if err := c.ShouldBindJSON(&data); err != nil {
		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))

		respond.BadRequest(c, "Missing user ID or verification code")
		return
	}

	out, err := d.Verifier.Verify(c.Request.Context(), data.UserID, string(data.Code))
	if err != nil {
		respond.Error(c, err, "Failed to verify user")
		return
	}

	if out == service.VerifiedWelcomeFailed {
		c.JSON(http.StatusAccepted, gin.H{
			"message": "Registration successful, but welcome email could not be sent.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User verified successfully",
	})
}
