package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto é um corte vendido por peso. O preço é sempre por kg.
type Produto struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome          string    `gorm:"index;not null"`
	CodigoProduto string    `gorm:"uniqueIndex;not null"`
	Descricao     *string
	PrecoKg       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Ativo         bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Produto) TableName() string { return "produtos" }
