package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VendaFilter é vinculado à query string de GET /v1/vendas.
type VendaFilter struct {
	DataInicio string `form:"data_inicio"`               // YYYY-MM-DD
	DataFim    string `form:"data_fim"`                  // YYYY-MM-DD
	Status     string `form:"status,default=finalizada"` // finalizada | cancelada | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VendaListResponse struct {
	Data  []VendaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request ────────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProdutoID    string          `json:"produto_id"    validate:"required,uuid"`
	QuantidadeKg decimal.Decimal `json:"quantidade_kg" validate:"required,gt=0"`
	CodigoBarras *string         `json:"codigo_barras" validate:"omitempty"`
}

type RegistrarVendaRequest struct {
	Itens []ItemVendaRequest `json:"itens" validate:"required,min=1,dive"`
	// FormaPagamento vazia assume "dinheiro".
	FormaPagamento string  `json:"forma_pagamento" validate:"omitempty,oneof=dinheiro pix cartao_credito cartao_debito outro"`
	Observacao     *string `json:"observacao"`
}

type CancelarVendaRequest struct {
	Motivo string `json:"motivo"`
}

// ─── Response ───────────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	Produto      string          `json:"produto"`
	ProdutoID    string          `json:"produto_id"`
	QuantidadeKg decimal.Decimal `json:"quantidade_kg"`
	PrecoKg      decimal.Decimal `json:"preco_kg"`
	ValorTotal   decimal.Decimal `json:"valor_total"`
}

type VendaResponse struct {
	ID                   string              `json:"id"`
	UsuarioID            string              `json:"usuario_id"`
	Itens                []ItemVendaResponse `json:"itens"`
	ValorTotal           decimal.Decimal     `json:"valor_total"`
	FormaPagamento       string              `json:"forma_pagamento"`
	Finalizada           bool                `json:"finalizada"`
	Cancelada            bool                `json:"cancelada"`
	MotivoCancelamento   *string             `json:"motivo_cancelamento,omitempty"`
	Observacao           *string             `json:"observacao,omitempty"`
	EscassezMateriaPrima bool                `json:"escassez_materia_prima"`
	DataHora             string              `json:"data_hora"`
}

// ─── Resumo diário ──────────────────────────────────────────────────────────

type ProdutoResumo struct {
	Nome         string          `json:"nome"`
	QuantidadeKg decimal.Decimal `json:"quantidade_kg"`
	Valor        decimal.Decimal `json:"valor"`
}

type ResumoDiarioResponse struct {
	Data              string                     `json:"data"`
	TotalVendas       int                        `json:"total_vendas"`
	TotalValor        decimal.Decimal            `json:"total_valor"`
	TotalQuantidadeKg decimal.Decimal            `json:"total_quantidade_kg"`
	TicketMedio       decimal.Decimal            `json:"ticket_medio"`
	ValorMedioKg      decimal.Decimal            `json:"valor_medio_kg"`
	PorFormaPagamento map[string]decimal.Decimal `json:"por_forma_pagamento"`
	TopProdutos       []ProdutoResumo            `json:"top_produtos"`
}
