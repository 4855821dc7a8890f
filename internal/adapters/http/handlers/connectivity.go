package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotify-desktop/quotify/internal/adapters/http/dto"
	"github.com/quotify-desktop/quotify/internal/platform/connectivity"
	"github.com/quotify-desktop/quotify/internal/platform/logging"
)

// ConnectivityHandler exposes the online/offline flag the cache engine
// consults. The desktop shell toggles it when the OS reports a network
// change.
type ConnectivityHandler struct {
	flag *connectivity.Flag
}

// NewConnectivityHandler creates a new connectivity handler.
func NewConnectivityHandler(flag *connectivity.Flag) *ConnectivityHandler {
	if flag == nil {
		panic("ConnectivityHandler: flag is required")
	}

	return &ConnectivityHandler{flag: flag}
}

// connectivityResponse is the response structure for connectivity endpoints.
type connectivityResponse struct {
	Online bool `json:"online"`
}

// connectivityRequest is the body for updating the connectivity flag.
type connectivityRequest struct {
	Online *bool `json:"online" validate:"required"`
}

// GetConnectivity handles GET /api/v1/connectivity
func (h *ConnectivityHandler) GetConnectivity(c *gin.Context) {
	c.JSON(http.StatusOK, connectivityResponse{Online: h.flag.Online()})
}

// SetConnectivity handles PUT /api/v1/connectivity
func (h *ConnectivityHandler) SetConnectivity(c *gin.Context) {
	var req connectivityRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeValidation,
			"online must be a boolean",
		))

		return
	}

	h.flag.SetOnline(*req.Online)

	logging.FromContext(c.Request.Context()).Info("connectivity changed",
		"online", *req.Online)

	c.JSON(http.StatusOK, connectivityResponse{Online: h.flag.Online()})
}

// RegisterConnectivityRoutes registers connectivity routes on the given
// router group.
func (h *ConnectivityHandler) RegisterConnectivityRoutes(rg *gin.RouterGroup) {
	rg.GET("/connectivity", h.GetConnectivity)
	rg.PUT("/connectivity", h.SetConnectivity)
}
