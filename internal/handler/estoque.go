package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bcardoso2/frigo-galeno-api/internal/apierror"
	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
	"github.com/Bcardoso2/frigo-galeno-api/internal/service"
)

type EstoqueHandler struct{ svc service.EstoqueService }

func NewEstoqueHandler(svc service.EstoqueService) *EstoqueHandler {
	return &EstoqueHandler{svc: svc}
}

func (h *EstoqueHandler) Get(c *gin.Context) {
	produtoID, err := uuid.Parse(c.Param("produto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	est, err := h.svc.GetEstoque(c.Request.Context(), produtoID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, estoqueResponse(est))
}

func (h *EstoqueHandler) Listar(c *gin.Context) {
	estoques, err := h.svc.ListEstoque(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]dto.EstoqueResponse, len(estoques))
	for i := range estoques {
		resp[i] = estoqueResponse(&estoques[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Definir fixa o saldo absoluto de um produto (recebimento/ajuste do admin).
func (h *EstoqueHandler) Definir(c *gin.Context) {
	produtoID, err := uuid.Parse(c.Param("produto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarEstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	est, err := h.svc.DefinirEstoque(c.Request.Context(), produtoID, req.QuantidadeKg)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, estoqueResponse(est))
}

func (h *EstoqueHandler) ListarMovimentos(c *gin.Context) {
	produtoID, err := uuid.Parse(c.Param("produto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	movimentos, err := h.svc.ListMovimentos(c.Request.Context(), produtoID, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]dto.MovimentoEstoqueResponse, len(movimentos))
	for i, m := range movimentos {
		resp[i] = dto.MovimentoEstoqueResponse{
			ID:            m.ID.String(),
			ProdutoID:     m.ProdutoID.String(),
			Tipo:          m.Tipo,
			QuantidadeKg:  m.QuantidadeKg,
			SaldoAnterior: m.SaldoAnterior,
			SaldoNovo:     m.SaldoNovo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func estoqueResponse(e *model.Estoque) dto.EstoqueResponse {
	resp := dto.EstoqueResponse{
		ProdutoID:       e.ProdutoID.String(),
		QuantidadeKg:    e.QuantidadeKg,
		DataAtualizacao: e.DataAtualizacao.Format(time.RFC3339),
	}
	if e.Produto != nil {
		resp.Produto = e.Produto.Nome
	}
	return resp
}
