package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlevasseur/stationnement/internal/domain"
	"github.com/mlevasseur/stationnement/internal/service/facilities"
	"github.com/mlevasseur/stationnement/internal/tariff"
)

// ZoneHandler serves the static zone panels and the facility listing.
type ZoneHandler struct {
	catalog    *tariff.Catalog
	facilities facilities.FacilityUseCase
}

type zoneWindowResponse struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	ExtendedOnly bool   `json:"extended_only,omitempty"`
}

type zoneTierResponse struct {
	UpToMinutes int    `json:"up_to_minutes"`
	Price       string `json:"price"`
}

type zoneResponse struct {
	ID           string               `json:"id"`
	Label        string               `json:"label"`
	Windows      []zoneWindowResponse `json:"windows"`
	MaxMinutes   int                  `json:"max_minutes"`
	Tiers        []zoneTierResponse   `json:"tiers"`
	Majoration   string               `json:"majoration"`
	GraceMinutes int                  `json:"grace_minutes,omitempty"`
	FreeWithDisc bool                 `json:"free_with_disc,omitempty"`
}

func NewZoneHandler(catalog *tariff.Catalog, facilitySvc facilities.FacilityUseCase) *ZoneHandler {
	return &ZoneHandler{catalog: catalog, facilities: facilitySvc}
}

func (h *ZoneHandler) Register(router *gin.RouterGroup) {
	router.GET("/zones", h.listZones)
	router.GET("/facilities", h.listFacilities)
}

func (h *ZoneHandler) listZones(c *gin.Context) {
	zones := h.catalog.Zones()
	out := make([]zoneResponse, 0, len(zones))
	for _, z := range zones {
		out = append(out, toZoneResponse(z))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ZoneHandler) listFacilities(c *gin.Context) {
	list, err := h.facilities.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func toZoneResponse(z *domain.Zone) zoneResponse {
	windows := make([]zoneWindowResponse, 0, len(z.Windows))
	for _, w := range z.Windows {
		windows = append(windows, zoneWindowResponse{
			Start:        minuteLabel(w.StartMinute),
			End:          minuteLabel(w.EndMinute),
			ExtendedOnly: w.ExtendedOnly,
		})
	}
	tiers := make([]zoneTierResponse, 0, len(z.Tiers))
	for _, t := range z.Tiers {
		tiers = append(tiers, zoneTierResponse{
			UpToMinutes: int(t.Threshold / time.Minute),
			Price:       t.PriceCents.Format(),
		})
	}

	resp := zoneResponse{
		ID:           string(z.ID),
		Label:        z.ID.Label(),
		Windows:      windows,
		MaxMinutes:   int(z.MaxDuration / time.Minute),
		Tiers:        tiers,
		Majoration:   z.OveragePenalty.Format(),
		FreeWithDisc: z.FreeWithDisc,
	}
	if z.Grace != nil {
		resp.GraceMinutes = int(z.Grace.MaxFree / time.Minute)
	}
	return resp
}

func minuteLabel(m int) string {
	return time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("15:04")
}
