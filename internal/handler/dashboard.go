package handler

import (
	"net/http"
	"time"

	"github.com/Berdoom/Nidec-01/internal/apierror"
	"github.com/Berdoom/Nidec-01/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc   service.DashboardService
	reloj *service.Reloj
}

func NewDashboardHandler(svc service.DashboardService, reloj *service.Reloj) *DashboardHandler {
	return &DashboardHandler{svc: svc, reloj: reloj}
}

// fechaODefault reads ?fecha=, falling back to the plant's business date.
func fechaODefault(c *gin.Context, reloj *service.Reloj) (time.Time, bool) {
	raw := c.Query("fecha")
	if raw == "" {
		return reloj.FechaNegocio(), true
	}
	parsed, err := service.ParseFecha(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Fecha invalida, formato esperado YYYY-MM-DD"))
		return time.Time{}, false
	}
	return parsed, true
}

func (h *DashboardHandler) Admin(c *gin.Context) {
	fecha, ok := fechaODefault(c, h.reloj)
	if !ok {
		return
	}
	resp, err := h.svc.Admin(c.Request.Context(), fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) Grupo(c *gin.Context) {
	grupo, ok := grupoParam(c)
	if !ok {
		return
	}
	fecha, ok := fechaODefault(c, h.reloj)
	if !ok {
		return
	}
	resp, err := h.svc.Grupo(c.Request.Context(), grupo, fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
