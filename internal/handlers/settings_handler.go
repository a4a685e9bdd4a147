package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/settings"
)

type SettingsLister interface {
	List(ctx context.Context) ([]models.Setting, error)
}

type SettingsHandler struct {
	store SettingsLister
}

func NewSettingsHandler(store SettingsLister) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// List returns every setting decoded to its declared type.
func (h *SettingsHandler) List(c *gin.Context) {
	rows, err := h.store.List(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "settings_list_failed", "Error al leer la configuración.")
		return
	}

	out := make(map[string]any, len(rows))
	for i := range rows {
		v, err := settings.Decode(&rows[i])
		if err != nil {
			v = rows[i].Value
		}
		out[rows[i].Key] = v
	}
	httpresp.OK(c, out)
}
