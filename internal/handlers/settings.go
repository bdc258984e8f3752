package handlers

import (
	"errors"
	"net/http"

	"pixoonair/internal/models"

	"github.com/gin-gonic/gin"
)

// @Summary      Load settings
// @Description  Stored values merged over defaults.
// @Tags         settings
// @Produce      json
// @Success      200  {object}  models.AppSettings
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings [get]
// @Security     BearerAuth
func (h *Handler) getSettings(c *gin.Context) {
	st, err := h.services.Settings.LoadSettings(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load settings", "settings_load_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Save settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      models.AppSettings  true  "Settings"
// @Success      200   {object}  models.AppSettings
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/settings [put]
// @Security     BearerAuth
func (h *Handler) saveSettings(c *gin.Context) {
	var in models.AppSettings
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}
	if err := h.services.Settings.SaveSettings(c.Request.Context(), in); err != nil {
		if errors.Is(err, models.ErrInvalidGifFileType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to save settings", "settings_save_failed", err)
		return
	}
	c.JSON(http.StatusOK, in)
}
