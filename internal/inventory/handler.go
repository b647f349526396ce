package inventory

import (
	"net/http"
	"strconv"

	"estateportal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the catalog read endpoints to the UI.
type Handler struct {
	svc *Service
}

// NewHandler creates the inventory handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts inventory routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tree", h.GetTree)
	rg.GET("/units/:unitId", h.GetUnit)
}

// GetTree handles GET /inventory/tree?projectId=N
func (h *Handler) GetTree(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Query("projectId"), 10, 64)
	if err != nil || projectID <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "projectId query parameter is required", nil)
		return
	}

	ctx := requestContext(c)
	tree, err := h.svc.Tree(ctx, projectID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, tree)
}

// GetUnit handles GET /inventory/units/:unitId
func (h *Handler) GetUnit(c *gin.Context) {
	unitID, err := strconv.ParseInt(c.Param("unitId"), 10, 64)
	if err != nil || unitID <= 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid unit id", nil)
		return
	}

	ctx := requestContext(c)
	unit, err := h.svc.client.FetchUnit(ctx, unitID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, unit)
}
