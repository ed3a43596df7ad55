package controllers

import (
	"net/http"

	"tooltrack/app"
	"tooltrack/models"
	"tooltrack/storage"

	"github.com/gin-gonic/gin"
)

type ReturnedController struct{ *Srv }

func GetReturnedController(s *Srv) *ReturnedController { return &ReturnedController{Srv: s} }

// POST /returned/add
// Closes out a borrow: records the return photo, completes the transaction
// and puts the tool back in circulation.
func (rc *ReturnedController) AddReturn(c *gin.Context) {
	var in struct {
		TransactionID  uint   `json:"transactionId" binding:"required"`
		ImageURL       string `json:"imageUrl,omitempty"`
		ConditionAfter string `json:"conditionAfter,omitempty"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	var after models.ToolCondition
	if in.ConditionAfter != "" {
		cond, err := models.ParseCondition(in.ConditionAfter)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return
		}
		after = cond
	}

	// The returner is whoever is logged in, not a field the client picks.
	user, err := rc.Repo.FindUserByEmail(c.Request.Context(), callerEmail(c))
	if err != nil {
		fail(c, err)
		return
	}

	tr, err := rc.Repo.CompleteReturn(c.Request.Context(), in.TransactionID, user.ID, in.ImageURL, after)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"transaction": tr})
}

// POST /returned/upload?name=&size=&currentChunkIndex=&totalChunks=
// Same chunk pipeline as tool images, different destination folder.
func (rc *ReturnedController) UploadChunk(c *gin.Context) {
	tc := ToolController{Srv: rc.Srv}
	tc.uploadChunk(c, storage.ReturnImageFolder)
}
