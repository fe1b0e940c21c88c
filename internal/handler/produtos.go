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

type ProdutosHandler struct{ svc service.ProdutoService }

func NewProdutosHandler(svc service.ProdutoService) *ProdutosHandler {
	return &ProdutosHandler{svc: svc}
}

func (h *ProdutosHandler) Criar(c *gin.Context) {
	var req dto.CriarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, produtoResponse(p))
}

func (h *ProdutosHandler) Atualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, produtoResponse(p))
}

func (h *ProdutosHandler) Desativar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Desativar(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProdutosHandler) Reativar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.Reativar(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProdutosHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, produtoResponse(p))
}

func (h *ProdutosHandler) Listar(c *gin.Context) {
	var filter dto.ProdutoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	produtos, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := dto.ProdutoListResponse{
		Data:  make([]dto.ProdutoResponse, len(produtos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range produtos {
		resp.Data[i] = produtoResponse(&produtos[i])
	}
	c.JSON(http.StatusOK, resp)
}

func produtoResponse(p *model.Produto) dto.ProdutoResponse {
	return dto.ProdutoResponse{
		ID:            p.ID.String(),
		Nome:          p.Nome,
		CodigoProduto: p.CodigoProduto,
		PrecoKg:       p.PrecoKg,
		Descricao:     p.Descricao,
		Ativo:         p.Ativo,
	}
}
