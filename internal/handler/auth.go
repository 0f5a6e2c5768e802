package handler

import (
	"errors"
	"net/http"

	"github.com/Berdoom/Nidec-01/internal/apierror"
	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/middleware"
	"github.com/Berdoom/Nidec-01/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := dto.Actor{Username: req.Username, IP: c.ClientIP()}
	resp, err := h.svc.Login(c.Request.Context(), actor, req)
	if err != nil {
		if errors.Is(err, service.ErrCredenciales) {
			c.JSON(http.StatusUnauthorized, apierror.New("Usuario o contraseña incorrectos"))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Perfil returns the logged-in user plus the live permission snapshot, so the
// frontend can build its menu without decoding the token.
func (h *AuthHandler) Perfil(c *gin.Context) {
	acceso := middleware.GetAcceso(c)
	user, err := h.svc.Perfil(c.Request.Context(), acceso.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"superusuario": acceso.Superusuario,
		"permisos":     acceso.Permisos,
		"visibles":     acceso.Visibles,
	})
}
