package dto

import "github.com/shopspring/decimal"

type CriarLoteRequest struct {
	Parte       string          `json:"parte"        validate:"required,oneof=dianteiro traseiro"`
	PesoKg      decimal.Decimal `json:"peso_kg"      validate:"required,gt=0"`
	DataEntrada string          `json:"data_entrada" validate:"required,datetime=2006-01-02"`
	Fornecedor  *string         `json:"fornecedor"`
}

type AtualizarLoteRequest struct {
	Parte       *string          `json:"parte"        validate:"omitempty,oneof=dianteiro traseiro"`
	PesoKg      *decimal.Decimal `json:"peso_kg"      validate:"omitempty,min=0"`
	DataEntrada *string          `json:"data_entrada" validate:"omitempty,datetime=2006-01-02"`
	Fornecedor  *string          `json:"fornecedor"`
}

type LoteResponse struct {
	ID          string          `json:"id"`
	Parte       string          `json:"parte"`
	PesoKg      decimal.Decimal `json:"peso_kg"`
	DataEntrada string          `json:"data_entrada"`
	Fornecedor  *string         `json:"fornecedor,omitempty"`
}

type AgregadoResponse struct {
	Parte       string          `json:"parte"`
	PesoTotalKg decimal.Decimal `json:"peso_total_kg"`
}
