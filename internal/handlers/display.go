package handlers

import (
	"errors"
	"net/http"

	"pixoonair/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK           = "ok"
	statusModeSet      = "mode_set"
	statusShuttingDown = "shutting_down"
	statusAlreadyQuit  = "already_shutting_down"

	errGetStatus       = "failed to load status"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// SetModeRequest is the payload of POST /api/v1/display/mode.
type SetModeRequest struct {
	// Mode to set. Allowed: normal, onAir
	Mode string `json:"mode" binding:"required" example:"onAir"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Change display mode
// @Description  Runs the action synchronously against the configured target device. A missing device is not an error.
// @Tags         display
// @Accept       json
// @Produce      json
// @Param        body  body      SetModeRequest  true  "Mode payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/display/mode [post]
// @Security     BearerAuth
func (h *Handler) setDisplayMode(c *gin.Context) {
	var req SetModeRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	mode, err := service.ParseDisplayMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Display.ChangeDisplayMode(c.Request.Context(), mode); err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, service.ErrUnknownChannel) {
			code = http.StatusConflict
		}
		h.logAndJSONError(c, code, err.Error(), "display_mode_failed", err, "mode", mode)
		return
	}

	resp := gin.H{"status": statusModeSet, "mode": mode}
	if h.services.Status != nil {
		if st, err := h.services.Status.GetStatus(c.Request.Context()); err == nil {
			resp["state"] = st
		}
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Get status
// @Description  Last camera edge and last display action.
// @Tags         display
// @Produce      json
// @Success      200  {object}  models.Status
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Status.GetStatus(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "status_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Quit application
// @Description  Stops the camera monitor and exits the process after a short delay.
// @Tags         system
// @Produce      json
// @Success      202  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/app/quit [post]
// @Security     BearerAuth
func (h *Handler) quitApp(c *gin.Context) {
	status := statusAlreadyQuit
	if h.services.Lifecycle.RequestExit() {
		status = statusShuttingDown
	}
	c.JSON(http.StatusAccepted, gin.H{"status": status})
}
