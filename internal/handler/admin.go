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

type AdminHandler struct{ svc service.AdminService }

func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func (h *AdminHandler) ListarUsuarios(c *gin.Context) {
	f := dto.UsuarioFiltro{
		Username:       c.Query("username"),
		NombreCompleto: c.Query("nombre_completo"),
		RolID:          c.Query("rol_id"),
		TurnoID:        c.Query("turno_id"),
	}
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) CrearUsuario(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearUsuario(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AdminHandler) ActualizarUsuario(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarUsuario(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) EliminarUsuario(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.EliminarUsuario(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Roles y permisos ──────────────────────────────────────────────────────────

func (h *AdminHandler) ListarRoles(c *gin.Context) {
	resp, err := h.svc.ListarRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) CrearRol(c *gin.Context) {
	var req dto.CrearRolRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearRol(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AdminHandler) EliminarRol(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.EliminarRol(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ListarPermisos(c *gin.Context) {
	resp, err := h.svc.ListarPermisos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) AsignarPermisos(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.AsignarPermisosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AsignarPermisos(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) AsignarAccesos(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.AsignarAccesosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AsignarAccesos(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Turnos ────────────────────────────────────────────────────────────────────

func (h *AdminHandler) ListarTurnos(c *gin.Context) {
	resp, err := h.svc.ListarTurnos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) CrearTurno(c *gin.Context) {
	var req dto.CrearTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearTurno(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AdminHandler) EliminarTurno(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.EliminarTurno(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
