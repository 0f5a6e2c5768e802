package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Berdoom/Nidec-01/internal/apierror"
	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/middleware"
	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProgramaHandler struct{ svc service.ProgramaService }

func NewProgramaHandler(svc service.ProgramaService) *ProgramaHandler {
	return &ProgramaHandler{svc: svc}
}

// Permission tiers of a board; the Tablero descriptor maps each tier to the
// concrete permission of the program behind :codigo.
type nivelTablero int

const (
	nivelVista nivelTablero = iota
	nivelEdicion
	nivelAdmin
)

// tableroParam resolves :codigo and enforces the requested tier against the
// caller's snapshot. Admin implies edit implies view.
func tableroParam(c *gin.Context, nivel nivelTablero) (model.Tablero, bool) {
	codigo := strings.ToUpper(c.Param("codigo"))
	t, ok := model.TableroPorCodigo(codigo)
	if !ok {
		c.JSON(http.StatusNotFound, apierror.New("Programa no encontrado"))
		return model.Tablero{}, false
	}
	a := middleware.GetAcceso(c)
	permitido := false
	switch nivel {
	case nivelVista:
		permitido = a.Tiene(t.PermisoVista) || a.Tiene(t.PermisoEdicion) || a.Tiene(t.PermisoAdmin)
	case nivelEdicion:
		permitido = a.Tiene(t.PermisoEdicion) || a.Tiene(t.PermisoAdmin)
	case nivelAdmin:
		permitido = a.Tiene(t.PermisoAdmin)
	}
	if !permitido {
		c.JSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
		return model.Tablero{}, false
	}
	return t, true
}

func filtroQuery(c *gin.Context) dto.OrdenFiltro {
	f := dto.OrdenFiltro{
		Status:     c.Query("status"),
		Clave:      strings.TrimSpace(c.Query("clave")),
		Secundaria: strings.TrimSpace(c.Query("secundaria")),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		f.Page = page
	}
	return f
}

func (h *ProgramaHandler) Listar(c *gin.Context) {
	t, ok := tableroParam(c, nivelVista)
	if !ok {
		return
	}
	resp, err := h.svc.Listado(c.Request.Context(), t.Codigo, filtroQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProgramaHandler) Exportar(c *gin.Context) {
	t, ok := tableroParam(c, nivelVista)
	if !ok {
		return
	}
	raw, nombre, err := h.svc.ExportarExcel(c.Request.Context(), t.Codigo, filtroQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nombre))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", raw)
}

func (h *ProgramaHandler) CrearOrden(c *gin.Context) {
	t, ok := tableroParam(c, nivelEdicion)
	if !ok {
		return
	}
	var req dto.CrearOrdenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearOrden(c.Request.Context(), middleware.GetActor(c), t.Codigo, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProgramaHandler) EditarOrden(c *gin.Context) {
	t, ok := tableroParam(c, nivelAdmin)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.EditarOrdenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EditarOrden(c.Request.Context(), middleware.GetActor(c), t.Codigo, id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ProgramaHandler) EliminarOrden(c *gin.Context) {
	t, ok := tableroParam(c, nivelAdmin)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarOrden(c.Request.Context(), middleware.GetActor(c), t.Codigo, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProgramaHandler) CambiarStatus(c *gin.Context) {
	t, ok := tableroParam(c, nivelEdicion)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	status, err := h.svc.CambiarStatus(c.Request.Context(), middleware.GetActor(c), t.Codigo, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *ProgramaHandler) ActualizarCelda(c *gin.Context) {
	t, ok := tableroParam(c, nivelEdicion)
	if !ok {
		return
	}
	var req dto.ActualizarCeldaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	esAdmin := middleware.GetAcceso(c).Tiene(t.PermisoAdmin)
	if err := h.svc.ActualizarCelda(c.Request.Context(), middleware.GetActor(c), t.Codigo, esAdmin, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ProgramaHandler) CrearColumna(c *gin.Context) {
	t, ok := tableroParam(c, nivelAdmin)
	if !ok {
		return
	}
	var req dto.CrearColumnaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearColumna(c.Request.Context(), middleware.GetActor(c), t.Codigo, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProgramaHandler) EliminarColumna(c *gin.Context) {
	t, ok := tableroParam(c, nivelAdmin)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarColumna(c.Request.Context(), middleware.GetActor(c), t.Codigo, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProgramaHandler) ReordenarColumnas(c *gin.Context) {
	t, ok := tableroParam(c, nivelAdmin)
	if !ok {
		return
	}
	var req dto.ReordenarColumnasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ReordenarColumnas(c.Request.Context(), middleware.GetActor(c), t.Codigo, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ProgramaHandler) CambiarAncho(c *gin.Context) {
	t, ok := tableroParam(c, nivelEdicion)
	if !ok {
		return
	}
	var req dto.AnchoColumnaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarAncho(c.Request.Context(), t.Codigo, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ProgramaHandler) AlternarEditable(c *gin.Context) {
	t, ok := tableroParam(c, nivelAdmin)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	editable, err := h.svc.AlternarEditableColumna(c.Request.Context(), middleware.GetActor(c), t.Codigo, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"editable_por_grupo": editable})
}
