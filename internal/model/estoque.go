package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estoque mantém o saldo em kg de produto acabado. Uma linha por produto,
// criada na primeira entrada de estoque e nunca removida. O saldo jamais
// fica negativo: o desconto é validado antes de aplicar, não truncado.
type Estoque struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID       uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	QuantidadeKg    decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	DataAtualizacao time.Time       `gorm:"not null"`

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (Estoque) TableName() string { return "estoque" }
