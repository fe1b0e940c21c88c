package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bcardoso2/frigo-galeno-api/internal/apierror"
	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
	"github.com/Bcardoso2/frigo-galeno-api/internal/service"
)

// AssociacoesHandler administra o mapeamento produto → parte da carcaça usado
// no rateio de matéria-prima.
type AssociacoesHandler struct{ svc service.RateioService }

func NewAssociacoesHandler(svc service.RateioService) *AssociacoesHandler {
	return &AssociacoesHandler{svc: svc}
}

func (h *AssociacoesHandler) Associar(c *gin.Context) {
	var req dto.AssociarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	assoc, err := h.svc.Associar(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, associacaoResponse(assoc))
}

func (h *AssociacoesHandler) Remover(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Remover(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AssociacoesHandler) ListarPorProduto(c *gin.Context) {
	produtoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	assocs, err := h.svc.ListarPorProduto(c.Request.Context(), produtoID)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]dto.AssociacaoResponse, len(assocs))
	for i := range assocs {
		resp[i] = associacaoResponse(&assocs[i])
	}
	c.JSON(http.StatusOK, resp)
}

func associacaoResponse(a *model.ProdutoEstoqueAnimal) dto.AssociacaoResponse {
	return dto.AssociacaoResponse{
		ID:         a.ID.String(),
		ProdutoID:  a.ProdutoID.String(),
		Parte:      a.Parte,
		Percentual: a.Percentual,
	}
}
