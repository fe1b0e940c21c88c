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

type EstoqueAnimalHandler struct{ svc service.EstoqueAnimalService }

func NewEstoqueAnimalHandler(svc service.EstoqueAnimalService) *EstoqueAnimalHandler {
	return &EstoqueAnimalHandler{svc: svc}
}

// CriarLote registra a entrada de uma peça de carcaça e atualiza o agregado.
func (h *EstoqueAnimalHandler) CriarLote(c *gin.Context) {
	var req dto.CriarLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	lote, err := h.svc.CriarLote(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, loteResponse(lote))
}

func (h *EstoqueAnimalHandler) AtualizarLote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AtualizarLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	lote, err := h.svc.AtualizarLote(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, loteResponse(lote))
}

func (h *EstoqueAnimalHandler) RemoverLote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.RemoverLote(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EstoqueAnimalHandler) GetLote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	lote, err := h.svc.GetLote(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, loteResponse(lote))
}

func (h *EstoqueAnimalHandler) ListarLotes(c *gin.Context) {
	lotes, err := h.svc.ListarLotes(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]dto.LoteResponse, len(lotes))
	for i := range lotes {
		resp[i] = loteResponse(&lotes[i])
	}
	c.JSON(http.StatusOK, resp)
}

// ListarAgregados retorna o peso total por parte (dianteiro/traseiro).
func (h *EstoqueAnimalHandler) ListarAgregados(c *gin.Context) {
	aggs, err := h.svc.ListarAgregados(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := make([]dto.AgregadoResponse, len(aggs))
	for i, a := range aggs {
		resp[i] = dto.AgregadoResponse{Parte: a.Parte, PesoTotalKg: a.PesoTotalKg}
	}
	c.JSON(http.StatusOK, resp)
}

func loteResponse(l *model.EstoqueAnimal) dto.LoteResponse {
	return dto.LoteResponse{
		ID:          l.ID.String(),
		Parte:       l.Parte,
		PesoKg:      l.PesoKg,
		DataEntrada: l.DataEntrada.Format("2006-01-02"),
		Fornecedor:  l.Fornecedor,
	}
}
