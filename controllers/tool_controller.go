package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"tooltrack/app"
	"tooltrack/db"
	"tooltrack/models"
	"tooltrack/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ToolController struct{ *Srv }

func GetToolController(s *Srv) *ToolController { return &ToolController{Srv: s} }

type toolUpsertReq struct {
	ID           uint       `json:"id,omitempty"`
	Name         string     `json:"name" binding:"required"`
	Category     string     `json:"category,omitempty"`
	SerialNo     string     `json:"serialNumber,omitempty"`
	Condition    string     `json:"condition,omitempty"`
	Location     string     `json:"location,omitempty"`
	Description  string     `json:"description,omitempty"`
	DateAcquired *time.Time `json:"dateAcquired,omitempty"`
	ImageURL     string     `json:"imageUrl,omitempty"`
	ImageName    string     `json:"imageName,omitempty"`
}

func (in *toolUpsertReq) toModel(c *gin.Context) (*models.Tool, bool) {
	t := &models.Tool{
		ID:           in.ID,
		Name:         in.Name,
		SerialNo:     in.SerialNo,
		Location:     in.Location,
		Description:  in.Description,
		DateAcquired: in.DateAcquired,
		ImageURL:     in.ImageURL,
		ImageName:    in.ImageName,
	}
	if in.Condition != "" {
		cond, err := models.ParseCondition(in.Condition)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return nil, false
		}
		t.Condition = cond
	}
	return t, true
}

// POST /toolitem/addTool
func (tc *ToolController) AddTool(c *gin.Context) {
	var in toolUpsertReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	t, ok := in.toModel(c)
	if !ok {
		return
	}
	created, err := tc.Repo.CreateTool(c.Request.Context(), t, in.Category)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"toolId": created.ID, "tool": created})
}

// POST /toolitem/editTool
func (tc *ToolController) EditTool(c *gin.Context) {
	var in toolUpsertReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.ID == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing tool id"})
		return
	}
	t, ok := in.toModel(c)
	if !ok {
		return
	}
	updated, err := tc.Repo.UpdateTool(c.Request.Context(), t, in.Category)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"tool": updated})
}

// GET /toolitem/getTool?tool_id=
func (tc *ToolController) GetTool(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("tool_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid tool_id"})
		return
	}
	t, err := tc.Repo.FindToolByID(c.Request.Context(), uint(id))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// GET /toolitem/getAllTool
func (tc *ToolController) ListTools(c *gin.Context) {
	tools, err := tc.Repo.ListTools(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"tools": tools})
}

// GET /toolitem/borrow/:toolId
// Borrow preview: the tool details the request form shows.
func (tc *ToolController) BorrowPreview(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("toolId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid tool id"})
		return
	}
	t, err := tc.Repo.FindToolByID(c.Request.Context(), uint(id))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"toolItem": t})
}

// GET /toolitem/search/tool/:toolName
func (tc *ToolController) SearchByName(c *gin.Context) {
	t, err := tc.Repo.FindToolByName(c.Request.Context(), c.Param("toolName"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"toolItem": t})
}

// GET /toolitem/search/tool/category/:category
func (tc *ToolController) SearchByCategory(c *gin.Context) {
	tools, err := tc.Repo.ListToolsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"toolItem": tools})
}

// GET /toolitem/getAllNames
func (tc *ToolController) ListNames(c *gin.Context) {
	names, err := tc.Repo.ListToolNames(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": names})
}

// GET /toolitem/getTotalTools
func (tc *ToolController) CountTools(c *gin.Context) {
	n, err := tc.Repo.CountTools(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"total": n})
}

// DELETE /toolitem/delete/:toolId
// The row goes first: a borrowed tool or one with an open request is a 409
// and its blobs stay put. Once the row is gone, a failed blob delete is only
// logged; orphaned blobs are preferable to ghost rows.
func (tc *ToolController) DeleteTool(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("toolId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid tool id"})
		return
	}
	ctx := c.Request.Context()
	t, err := tc.Repo.FindToolByID(ctx, uint(id))
	if err != nil {
		fail(c, err)
		return
	}

	if err := tc.Repo.DeleteTool(ctx, t.ID); err != nil {
		fail(c, err)
		return
	}

	if t.ImageName != "" {
		if err := tc.Storage.Delete(ctx, t.ImageName, storage.ToolImageFolder); err != nil && !errors.Is(err, db.ErrNotFound) {
			log.Printf("delete tool %d: image blob: %v", t.ID, err)
		}
	}
	if t.QRName != "" {
		if err := tc.Storage.Delete(ctx, t.QRName, storage.QRImageFolder); err != nil && !errors.Is(err, db.ErrNotFound) {
			log.Printf("delete tool %d: qr blob: %v", t.ID, err)
		}
	}

	c.JSON(http.StatusOK, app.H{"message": "tool deleted"})
}

// POST /toolitem/upload?name=&size=&currentChunkIndex=&totalChunks=
// Raw chunk bytes in the request body. The first chunk names the upload; the
// server prefixes a UUID so concurrent clients can't collide on a filename,
// and returns that name for the remaining chunks.
func (tc *ToolController) UploadChunk(c *gin.Context) {
	tc.uploadChunk(c, storage.ToolImageFolder)
}

func (tc *ToolController) uploadChunk(c *gin.Context, folder string) {
	name := c.Query("name")
	size, _ := strconv.ParseInt(c.Query("size"), 10, 64)
	index, err1 := strconv.Atoi(c.Query("currentChunkIndex"))
	total, err2 := strconv.Atoi(c.Query("totalChunks"))
	if name == "" || err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "name, currentChunkIndex and totalChunks are required"})
		return
	}
	if index == 0 {
		name = uuid.NewString() + "_" + name
	}

	url, done, err := tc.Uploader.Append(c.Request.Context(), name, size, index, total, c.Request.Body, folder)
	if err != nil {
		fail(c, err)
		return
	}
	if done {
		c.JSON(http.StatusOK, app.H{"imageUrl": url, "imageName": name})
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "chunk received", "uploadName": name})
}

// POST /toolitem/upload/abort?name=
func (tc *ToolController) AbortUpload(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "name is required"})
		return
	}
	if err := tc.Uploader.Abort(name); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "upload aborted"})
}
