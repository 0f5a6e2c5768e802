package handler

import (
	"fmt"
	"net/http"

	"github.com/Berdoom/Nidec-01/internal/apierror"
	"github.com/Berdoom/Nidec-01/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct {
	svc   service.ReportesService
	reloj *service.Reloj
}

func NewReportesHandler(svc service.ReportesService, reloj *service.Reloj) *ReportesHandler {
	return &ReportesHandler{svc: svc, reloj: reloj}
}

func (h *ReportesHandler) Reporte(c *gin.Context) {
	grupo, ok := grupoParam(c)
	if !ok {
		return
	}
	fecha, ok := fechaODefault(c, h.reloj)
	if !ok {
		return
	}
	resp, err := h.svc.Reporte(c.Request.Context(), grupo, fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Rango(c *gin.Context) {
	grupo, ok := grupoParam(c)
	if !ok {
		return
	}
	desde, err := service.ParseFecha(c.Query("desde"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro 'desde' invalido, formato esperado YYYY-MM-DD"))
		return
	}
	hasta, err := service.ParseFecha(c.Query("hasta"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro 'hasta' invalido, formato esperado YYYY-MM-DD"))
		return
	}
	resp, err := h.svc.Rango(c.Request.Context(), grupo, desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Exportar(c *gin.Context) {
	grupo, ok := grupoParam(c)
	if !ok {
		return
	}
	desde, err := service.ParseFecha(c.Query("desde"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro 'desde' invalido, formato esperado YYYY-MM-DD"))
		return
	}
	hasta, err := service.ParseFecha(c.Query("hasta"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametro 'hasta' invalido, formato esperado YYYY-MM-DD"))
		return
	}
	raw, nombre, err := h.svc.ExportarExcel(c.Request.Context(), grupo, desde, hasta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nombre))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", raw)
}
