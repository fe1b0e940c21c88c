package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bcardoso2/frigo-galeno-api/internal/apierror"
	"github.com/Bcardoso2/frigo-galeno-api/internal/repository"
)

// AlertasHandler lista e resolve alertas de escassez de matéria-prima
// gravados pelo worker assíncrono.
type AlertasHandler struct {
	repo repository.AlertaEscassezRepository
}

func NewAlertasHandler(repo repository.AlertaEscassezRepository) *AlertasHandler {
	return &AlertasHandler{repo: repo}
}

func (h *AlertasHandler) ListarPendentes(c *gin.Context) {
	alertas, err := h.repo.ListPendentes(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	resp := make([]gin.H, len(alertas))
	for i, a := range alertas {
		resp[i] = gin.H{
			"id":         a.ID.String(),
			"venda_id":   a.VendaID.String(),
			"parte":      a.Parte,
			"falta_kg":   a.FaltaKg,
			"created_at": a.CreatedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AlertasHandler) MarcarRevisado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.repo.MarcarRevisado(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
