package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bcardoso2/frigo-galeno-api/internal/apierror"
	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/middleware"
	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
	"github.com/Bcardoso2/frigo-galeno-api/internal/service"
)

type VendasHandler struct{ svc service.VendaService }

func NewVendasHandler(svc service.VendaService) *VendasHandler { return &VendasHandler{svc: svc} }

// RegistrarVenda cria a venda de forma atômica: itens, desconto de estoque e
// baixa de matéria-prima numa única transação.
func (h *VendasHandler) RegistrarVenda(c *gin.Context) {
	var req dto.RegistrarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token mal formado"))
		return
	}

	venda, err := h.svc.RegistrarVenda(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendaResponse(venda))
}

// CancelarVenda restaura estoque e matéria-prima e marca cancelada=true.
func (h *VendasHandler) CancelarVenda(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CancelarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	venda, err := h.svc.CancelarVenda(c.Request.Context(), id, req.Motivo)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, vendaResponse(venda))
}

func (h *VendasHandler) GetVenda(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	venda, err := h.svc.GetVenda(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, vendaResponse(venda))
}

func (h *VendasHandler) ListarVendas(c *gin.Context) {
	var filter dto.VendaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	vendas, total, err := h.svc.ListVendas(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp := dto.VendaListResponse{
		Data:  make([]dto.VendaResponse, len(vendas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range vendas {
		resp.Data[i] = vendaResponse(&vendas[i])
	}
	c.JSON(http.StatusOK, resp)
}

// ResumoDiario consolida as vendas do dia (query ?data=YYYY-MM-DD, default hoje).
func (h *VendasHandler) ResumoDiario(c *gin.Context) {
	dia := time.Now()
	if raw := c.Query("data"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Data inválida, use YYYY-MM-DD"))
			return
		}
		dia = parsed
	}
	resumo, err := h.svc.ResumoDiario(c.Request.Context(), dia)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resumo)
}

func vendaResponse(v *model.Venda) dto.VendaResponse {
	itens := make([]dto.ItemVendaResponse, len(v.Itens))
	for i, item := range v.Itens {
		nome := ""
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		itens[i] = dto.ItemVendaResponse{
			Produto:      nome,
			ProdutoID:    item.ProdutoID.String(),
			QuantidadeKg: item.QuantidadeKg,
			PrecoKg:      item.PrecoKg,
			ValorTotal:   item.ValorTotal,
		}
	}
	return dto.VendaResponse{
		ID:                   v.ID.String(),
		UsuarioID:            v.UsuarioID.String(),
		Itens:                itens,
		ValorTotal:           v.ValorTotal,
		FormaPagamento:       v.FormaPagamento,
		Finalizada:           v.Finalizada,
		Cancelada:            v.Cancelada,
		MotivoCancelamento:   v.MotivoCancelamento,
		Observacao:           v.Observacao,
		EscassezMateriaPrima: v.EscassezMateriaPrima,
		DataHora:             v.DataHora.Format(time.RFC3339),
	}
}
