package dto

import "github.com/shopspring/decimal"

type ProdutoFilter struct {
	Nome   string `form:"nome"`
	Codigo string `form:"codigo"`
	Ativo  string `form:"ativo"` // "false" | "all" | default ativos
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CriarProdutoRequest struct {
	Nome          string          `json:"nome"           validate:"required"`
	CodigoProduto string          `json:"codigo_produto" validate:"required"`
	PrecoKg       decimal.Decimal `json:"preco_kg"       validate:"required,min=0"`
	Descricao     *string         `json:"descricao"`
}

type AtualizarProdutoRequest struct {
	Nome          *string          `json:"nome"`
	CodigoProduto *string          `json:"codigo_produto"`
	PrecoKg       *decimal.Decimal `json:"preco_kg" validate:"omitempty,min=0"`
	Descricao     *string          `json:"descricao"`
}

type ProdutoResponse struct {
	ID            string          `json:"id"`
	Nome          string          `json:"nome"`
	CodigoProduto string          `json:"codigo_produto"`
	PrecoKg       decimal.Decimal `json:"preco_kg"`
	Descricao     *string         `json:"descricao,omitempty"`
	Ativo         bool            `json:"ativo"`
}

type ProdutoListResponse struct {
	Data  []ProdutoResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ConsultaPrecoResponse é servida pelo endpoint público de consulta de preço,
// com cache em Redis.
type ConsultaPrecoResponse struct {
	Nome          string          `json:"nome"`
	CodigoProduto string          `json:"codigo_produto"`
	PrecoKg       decimal.Decimal `json:"preco_kg"`
}
