package handler

import (
	"net/http"

	"github.com/Berdoom/Nidec-01/internal/apierror"
	"github.com/Berdoom/Nidec-01/internal/dto"
	"github.com/Berdoom/Nidec-01/internal/model"
	"github.com/Berdoom/Nidec-01/internal/service"

	"github.com/gin-gonic/gin"
)

type BitacoraHandler struct{ svc service.BitacoraService }

func NewBitacoraHandler(svc service.BitacoraService) *BitacoraHandler {
	return &BitacoraHandler{svc: svc}
}

func (h *BitacoraHandler) Listar(c *gin.Context) {
	var f dto.BitacoraFiltro
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registros": resp, "limite": service.LimiteBitacora})
}

// Catalogos feeds the viewer's filter dropdowns.
func (h *BitacoraHandler) Catalogos(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categorias":  model.CategoriasBitacora,
		"severidades": model.SeveridadesBitacora,
	})
}
