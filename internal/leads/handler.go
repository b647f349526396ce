package leads

import (
	"context"
	"net/http"
	"strconv"

	"estateportal_backend/internal/leads/transport"
	"estateportal_backend/internal/salesapi"
	"estateportal_backend/platform/httpkit"
	"estateportal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
)

// Handler handles lead HTTP requests.
type Handler struct {
	orch *Orchestrator
	val  *validator.Validator
}

// NewHandler creates a new leads handler.
func NewHandler(orch *Orchestrator, val *validator.Validator) *Handler {
	return &Handler{orch: orch, val: val}
}

// RegisterRoutes mounts lead routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.GetLead)
	rg.POST("/:id/stage", h.AdvanceStage)
	rg.POST("/:id/activities", h.CreateActivity)
	rg.POST("/:id/activities/:activityId/status", h.ChangeActivityStatus)
	rg.GET("/:id/site-visits", h.ListVisits)
	rg.POST("/:id/site-visits", h.ScheduleVisit)
	rg.POST("/:id/site-visits/:visitId/reschedule", h.RescheduleVisit)
	rg.PATCH("/:id/site-visits/:visitId/result", h.SetVisitResult)
	rg.GET("/:id/site-visits/:visitId/history", h.GetVisitHistory)
	rg.PUT("/:id/interested-unit", h.SetInterestedUnit)
}

// GetLead handles GET /leads/:id
func (h *Handler) GetLead(c *gin.Context) {
	leadID, ok := pathID(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	lead, err := h.orch.GetLead(requestContext(c), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// AdvanceStage handles POST /leads/:id/stage
func (h *Handler) AdvanceStage(c *gin.Context) {
	leadID, ok := pathID(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	var req transport.AdvanceStageRequest
	if !h.bind(c, &req) {
		return
	}

	lead, err := h.orch.AdvanceStage(requestContext(c), leadID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// CreateActivity handles POST /leads/:id/activities
func (h *Handler) CreateActivity(c *gin.Context) {
	leadID, ok := pathID(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	var req transport.CreateActivityRequest
	if !h.bind(c, &req) {
		return
	}

	activity, err := h.orch.CreateActivity(requestContext(c), leadID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, activity)
}

// ChangeActivityStatus handles POST /leads/:id/activities/:activityId/status
func (h *Handler) ChangeActivityStatus(c *gin.Context) {
	leadID, ok := pathID(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}
	activityID, ok := pathID(c, "activityId", "invalid activity id")
	if !ok {
		return
	}

	var req transport.ChangeActivityStatusRequest
	if !h.bind(c, &req) {
		return
	}

	activity, err := h.orch.ChangeActivityStatus(requestContext(c), leadID, activityID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, activity)
}

// ListVisits handles GET /leads/:id/site-visits
func (h *Handler) ListVisits(c *gin.Context) {
	leadID, ok := pathID(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	visits, err := h.orch.ListVisits(requestContext(c), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, visits)
}

// ScheduleVisit handles POST /leads/:id/site-visits
func (h *Handler) ScheduleVisit(c *gin.Context) {
	leadID, ok := pathID(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	var req transport.ScheduleVisitRequest
	if !h.bind(c, &req) {
		return
	}

	visit, err := h.orch.ScheduleVisit(requestContext(c), leadID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, visit)
}

// RescheduleVisit handles POST /leads/:id/site-visits/:visitId/reschedule
func (h *Handler) RescheduleVisit(c *gin.Context) {
	leadID, ok := pathID(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}
	visitID, ok := pathID(c, "visitId", "invalid visit id")
	if !ok {
		return
	}

	var req transport.RescheduleVisitRequest
	if !h.bind(c, &req) {
		return
	}

	visit, err := h.orch.RescheduleVisit(requestContext(c), leadID, visitID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, visit)
}

// SetVisitResult handles PATCH /leads/:id/site-visits/:visitId/result
func (h *Handler) SetVisitResult(c *gin.Context) {
	leadID, ok := pathID(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}
	visitID, ok := pathID(c, "visitId", "invalid visit id")
	if !ok {
		return
	}

	var req transport.VisitResultRequest
	if !h.bind(c, &req) {
		return
	}

	visit, err := h.orch.SetVisitResult(requestContext(c), leadID, visitID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, visit)
}

// GetVisitHistory handles GET /leads/:id/site-visits/:visitId/history
func (h *Handler) GetVisitHistory(c *gin.Context) {
	leadID, ok := pathID(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}
	visitID, ok := pathID(c, "visitId", "invalid visit id")
	if !ok {
		return
	}

	history, err := h.orch.GetVisitHistory(requestContext(c), leadID, visitID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, history)
}

// SetInterestedUnit handles PUT /leads/:id/interested-unit
func (h *Handler) SetInterestedUnit(c *gin.Context) {
	leadID, ok := pathID(c, "id", msgInvalidLeadID)
	if !ok {
		return
	}

	var req transport.SetInterestedUnitRequest
	if !h.bind(c, &req) {
		return
	}

	unit, err := h.orch.SetInterestedUnit(requestContext(c), leadID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, unit)
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func pathID(c *gin.Context, name, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, message, nil)
		return 0, false
	}
	return id, true
}

// requestContext carries the caller's bearer token into upstream calls.
func requestContext(c *gin.Context) context.Context {
	return salesapi.WithToken(c.Request.Context(), httpkit.AuthToken(c))
}
