package dto

import "github.com/shopspring/decimal"

type AtualizarEstoqueRequest struct {
	QuantidadeKg decimal.Decimal `json:"quantidade_kg" validate:"required,min=0"`
}

type EstoqueResponse struct {
	ProdutoID       string          `json:"produto_id"`
	Produto         string          `json:"produto,omitempty"`
	QuantidadeKg    decimal.Decimal `json:"quantidade_kg"`
	DataAtualizacao string          `json:"data_atualizacao"`
}

type MovimentoEstoqueResponse struct {
	ID            string          `json:"id"`
	ProdutoID     string          `json:"produto_id"`
	Tipo          string          `json:"tipo"`
	QuantidadeKg  decimal.Decimal `json:"quantidade_kg"`
	SaldoAnterior decimal.Decimal `json:"saldo_anterior"`
	SaldoNovo     decimal.Decimal `json:"saldo_novo"`
	Motivo        string          `json:"motivo,omitempty"`
	CreatedAt     string          `json:"created_at"`
}
