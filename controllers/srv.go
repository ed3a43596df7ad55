// controllers/srv.go
package controllers

import (
	"errors"
	"net/http"

	"tooltrack/app"
	"tooltrack/db"
	"tooltrack/notify"
	"tooltrack/storage"
	"tooltrack/token"
	"tooltrack/upload"

	"github.com/gin-gonic/gin"
)

// Srv bundles the dependencies every controller needs.
type Srv struct {
	Repo     *db.Repo
	Storage  *storage.Gateway
	Uploader *upload.Assembler
	Notifier *notify.Dispatcher
	Issuer   *token.Issuer
	Cfg      app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:     db.NewRepo(a.DB),
		Storage:  a.Storage,
		Uploader: upload.NewAssembler(a.Storage, a.Config.UploadDir),
		Notifier: notify.NewDispatcher(a.RDB),
		Issuer:   a.Issuer,
		Cfg:      a.Config,
	}
}

// fail maps repo/upload sentinels onto HTTP statuses so every handler reports
// errors the same way.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrConflict):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrValidation),
		errors.Is(err, upload.ErrOutOfOrder),
		errors.Is(err, upload.ErrSizeMismatch),
		errors.Is(err, upload.ErrUnknownUpload):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}

// callerEmail returns the authenticated caller's email from the context.
func callerEmail(c *gin.Context) string {
	v, _ := c.Get(app.CtxEmail)
	email, _ := v.(string)
	return email
}
