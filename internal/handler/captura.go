package handler

import (
	"net/http"
	"strings"

	"github.com/Berdoom/Nidec-01/internal/apierror"
	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/middleware"
	"github.com/Berdoom/Nidec-01/internal/service"

	"github.com/gin-gonic/gin"
)

type CapturaHandler struct {
	svc   service.CapturaService
	reloj *service.Reloj
}

func NewCapturaHandler(svc service.CapturaService, reloj *service.Reloj) *CapturaHandler {
	return &CapturaHandler{svc: svc, reloj: reloj}
}

// grupoParam normalizes the :grupo URL segment and enforces data visibility.
func grupoParam(c *gin.Context) (string, bool) {
	grupo := strings.ToUpper(c.Param("grupo"))
	if !middleware.GetAcceso(c).PuedeVer(grupo) {
		c.JSON(http.StatusForbidden, apierror.New("No tienes acceso a los datos de este grupo"))
		return "", false
	}
	return grupo, true
}

func (h *CapturaHandler) Datos(c *gin.Context) {
	grupo, ok := grupoParam(c)
	if !ok {
		return
	}
	fecha, ok := fechaODefault(c, h.reloj)
	if !ok {
		return
	}
	resp, err := h.svc.DatosCaptura(c.Request.Context(), fecha, grupo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CapturaHandler) Guardar(c *gin.Context) {
	grupo, ok := grupoParam(c)
	if !ok {
		return
	}
	var req dto.GuardarCapturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.GuardarCaptura(c.Request.Context(), middleware.GetActor(c), grupo, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *CapturaHandler) GuardarRazon(c *gin.Context) {
	var req dto.RazonDesviacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if !middleware.GetAcceso(c).PuedeVer(strings.ToUpper(req.Grupo)) {
		c.JSON(http.StatusForbidden, apierror.New("No tienes acceso a los datos de este grupo"))
		return
	}
	if err := h.svc.GuardarRazon(c.Request.Context(), middleware.GetActor(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *CapturaHandler) CrearSolicitud(c *gin.Context) {
	var req dto.SolicitudCorreccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CrearSolicitud(c.Request.Context(), middleware.GetActor(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// BorradoMaestro requires its own dedicated permission plus an explicit
// confirmation phrase in the body; an admin click alone is not enough.
func (h *CapturaHandler) BorradoMaestro(c *gin.Context) {
	var req struct {
		Grupo        string `json:"grupo" validate:"required"`
		Fecha        string `json:"fecha" validate:"required"`
		Confirmacion string `json:"confirmacion" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Confirmacion != "BORRAR TODO" {
		c.JSON(http.StatusBadRequest, apierror.New("Confirmación incorrecta"))
		return
	}
	if err := h.svc.BorradoMaestro(c.Request.Context(), middleware.GetActor(c), req.Grupo, req.Fecha); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
