package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mlevasseur/stationnement/internal/domain"
	"github.com/mlevasseur/stationnement/internal/repository"
	"github.com/mlevasseur/stationnement/internal/service/session"
)

type VehicleHandler struct {
	vehicles repository.VehicleRepository
	sessions session.SessionUseCase
}

type createVehicleRequest struct {
	UserID      int64  `json:"user_id" binding:"required"`
	Plate       string `json:"plate" binding:"required"`
	Model       string `json:"model"`
	IsPrincipal bool   `json:"is_principal"`
}

type vehicleResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Plate       string `json:"plate"`
	Model       string `json:"model"`
	IsPrincipal bool   `json:"is_principal"`
}

func NewVehicleHandler(vehicles repository.VehicleRepository, sessions session.SessionUseCase) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, sessions: sessions}
}

func (h *VehicleHandler) Register(router *gin.RouterGroup) {
	router.POST("/vehicles", h.create)
	router.PUT("/vehicles/:id/principal", h.setPrincipal)
	router.GET("/users/:id/vehicles", h.listByUser)
	router.GET("/users/:id/history", h.history)
}

func (h *VehicleHandler) create(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle := &domain.Vehicle{
		UserID:      req.UserID,
		Plate:       req.Plate,
		Model:       req.Model,
		IsPrincipal: req.IsPrincipal,
	}
	if err := h.vehicles.Create(c.Request.Context(), vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toVehicleResponse(vehicle))
}

func (h *VehicleHandler) setPrincipal(c *gin.Context) {
	vehicleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		UserID int64 `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.vehicles.SetPrincipal(c.Request.Context(), req.UserID, vehicleID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *VehicleHandler) listByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicles, err := h.vehicles.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]vehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		out = append(out, toVehicleResponse(&vehicles[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *VehicleHandler) history(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.sessions.ListHistory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func toVehicleResponse(v *domain.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:          v.ID,
		UserID:      v.UserID,
		Plate:       v.Plate,
		Model:       v.Model,
		IsPrincipal: v.IsPrincipal,
	}
}
