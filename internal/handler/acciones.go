package handler

import (
	"net/http"

	"github.com/Berdoom/Nidec-01/internal/apierror"
	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/middleware"
	"github.com/Berdoom/Nidec-01/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccionesHandler struct{ svc service.AccionesService }

func NewAccionesHandler(svc service.AccionesService) *AccionesHandler {
	return &AccionesHandler{svc: svc}
}

// Listar returns the unified queue. With no query string the user's saved
// filter applies, so the screen reopens where the admin left it.
func (h *AccionesHandler) Listar(c *gin.Context) {
	acceso := middleware.GetAcceso(c)

	var f dto.AccionesFiltro
	if c.Request.URL.RawQuery == "" {
		f = h.svc.FiltroGuardado(c.Request.Context(), acceso.Username)
	} else if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	items, err := h.svc.Listar(c.Request.Context(), acceso.Username, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "filtro": f})
}

func (h *AccionesHandler) Pendientes(c *gin.Context) {
	n, err := h.svc.Pendientes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pendientes": n})
}

func (h *AccionesHandler) ActualizarDesviacion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarStatusDesviacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ActualizarDesviacion(c.Request.Context(), middleware.GetActor(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AccionesHandler) ResolverSolicitud(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ResolverSolicitudRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ResolverSolicitud(c.Request.Context(), middleware.GetActor(c), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
