package controllers

import (
	"net/http"

	"tooltrack/app"

	"github.com/gin-gonic/gin"
)

type NotificationController struct{ *Srv }

func GetNotificationController(s *Srv) *NotificationController {
	return &NotificationController{Srv: s}
}

// POST /notification/notify
// Broadcast on the greetings channel. Connectivity testing only; business
// notifications go out from the transaction workflow.
func (nc *NotificationController) Broadcast(c *gin.Context) {
	var in struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if err := nc.Notifier.Broadcast(c.Request.Context(), in.Message); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
