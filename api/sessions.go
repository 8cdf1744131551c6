package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlevasseur/stationnement/internal/domain"
	"github.com/mlevasseur/stationnement/internal/service/session"
)

type SessionHandler struct {
	service session.SessionUseCase
}

type startSessionRequest struct {
	VehicleID      int64  `json:"vehicle_id" binding:"required"`
	Kind           string `json:"kind" binding:"required"`
	ZoneID         string `json:"zone_id"`
	FacilityID     int64  `json:"facility_id"`
	PlannedHours   int    `json:"planned_hours"`
	PlannedMinutes int    `json:"planned_minutes"`
}

type closeSessionRequest struct {
	DepartedAt string `json:"departed_at"`
}

type sessionResponse struct {
	ID         string `json:"id"`
	VehicleID  int64  `json:"vehicle_id"`
	Kind       string `json:"kind"`
	ZoneID     string `json:"zone_id"`
	FacilityID int64  `json:"facility_id,omitempty"`
	Status     string `json:"status"`
	Cost       string `json:"cost"`
	CreatedAt  string `json:"created_at"`
}

func NewSessionHandler(service session.SessionUseCase) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.start)
	router.PUT("/:id/close", h.close)
	router.GET("/:id/status", h.status)
	router.GET("/:id/cost", h.cost)
}

func (h *SessionHandler) start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.StartSession(c.Request.Context(), session.StartSessionInput{
		VehicleID:      req.VehicleID,
		Kind:           domain.SessionKind(req.Kind),
		ZoneID:         domain.ZoneID(req.ZoneID),
		FacilityID:     req.FacilityID,
		PlannedHours:   req.PlannedHours,
		PlannedMinutes: req.PlannedMinutes,
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toSessionResponse(created))
}

func (h *SessionHandler) close(c *gin.Context) {
	var req closeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	departedAt := time.Now()
	if req.DepartedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.DepartedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		departedAt = parsed
	}

	closed, err := h.service.CloseSession(c.Request.Context(), c.Param("id"), departedAt)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(closed))
}

func (h *SessionHandler) status(c *gin.Context) {
	status, err := h.service.QueryStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(status)})
}

func (h *SessionHandler) cost(c *gin.Context) {
	cost, err := h.service.QueryCost(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cost": cost.Format()})
}

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		ID:         s.ID,
		VehicleID:  s.VehicleID,
		Kind:       string(s.Kind),
		ZoneID:     string(s.ZoneID),
		FacilityID: s.FacilityID,
		Status:     string(s.Status),
		Cost:       s.CostCents.Format(),
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrVehicleAlreadyActive), errors.Is(err, domain.ErrSessionNotActive):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownZone), errors.Is(err, domain.ErrInvalidInterval), errors.Is(err, domain.ErrCannotPriceOpenSession):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
