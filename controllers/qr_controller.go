package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"tooltrack/app"
	"tooltrack/qr"
	"tooltrack/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QRController struct{ *Srv }

func GetQRController(s *Srv) *QRController { return &QRController{Srv: s} }

// POST /qrcode/create/:toolId
// Returns the raw PNG bytes for download.
func (qc *QRController) Create(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("toolId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid tool id"})
		return
	}
	png, err := qr.Generate(qr.ToolPayload(uint(id)))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%d_qrcode.png", id))
	c.Data(http.StatusOK, "image/png", png)
}

// POST /qrcode/upload?toolId=
// Generates the tool's QR code, pushes it to object storage, and stores the
// URL and object name on the tool record.
func (qc *QRController) Upload(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("toolId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid toolId"})
		return
	}
	ctx := c.Request.Context()
	toolID := uint(id)
	if _, err := qc.Repo.FindToolByID(ctx, toolID); err != nil {
		fail(c, err)
		return
	}

	png, err := qr.Generate(qr.ToolPayload(toolID))
	if err != nil {
		fail(c, err)
		return
	}

	// The gateway uploads from disk, so stage the image next to the chunked
	// uploads before shipping it.
	name := fmt.Sprintf("%s_%d.png", uuid.NewString(), toolID)
	local := filepath.Join(qc.Cfg.UploadDir, name)
	if err := os.MkdirAll(qc.Cfg.UploadDir, 0o755); err != nil {
		fail(c, err)
		return
	}
	if err := os.WriteFile(local, png, 0o644); err != nil {
		fail(c, err)
		return
	}
	defer os.Remove(local)

	url, err := qc.Storage.Upload(ctx, local, storage.QRImageFolder, name)
	if err != nil {
		fail(c, err)
		return
	}

	tool, err := qc.Repo.SetToolQR(ctx, toolID, url, name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"imageUrl": url, "qrCodeName": name, "tool": tool})
}
