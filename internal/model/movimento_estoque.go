package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovimentoEstoque registra cada alteração de saldo de um produto.
// Criado automaticamente ao vender, cancelar venda ou ajustar estoque.
type MovimentoEstoque struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo          string          `gorm:"not null"` // "venda" | "cancelamento" | "ajuste_manual"
	QuantidadeKg  decimal.Decimal `gorm:"type:decimal(10,3);not null"` // positivo = entrada, negativo = saída
	SaldoAnterior decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	SaldoNovo     decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // venda_id quando aplicável
	CreatedAt     time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (MovimentoEstoque) TableName() string { return "movimentos_estoque" }
