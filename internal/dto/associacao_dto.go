package dto

import "github.com/shopspring/decimal"

type AssociarProdutoRequest struct {
	ProdutoID string `json:"produto_id" validate:"required,uuid"`
	Parte     string `json:"parte"      validate:"required,oneof=dianteiro traseiro"`
	// Percentual default 100 quando omitido. Os percentuais de um produto não
	// precisam somar 100 — são normalizados na hora do rateio.
	Percentual *decimal.Decimal `json:"percentual" validate:"omitempty,gt=0"`
}

type AssociacaoResponse struct {
	ID         string          `json:"id"`
	ProdutoID  string          `json:"produto_id"`
	Parte      string          `json:"parte"`
	Percentual decimal.Decimal `json:"percentual"`
}
