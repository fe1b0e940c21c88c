package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProdutoEstoqueAnimal associa um produto a uma parte do animal com um
// percentual de rateio. Os percentuais de um produto não precisam somar 100:
// são normalizados pela própria soma no momento do uso.
type ProdutoEstoqueAnimal struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID  uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_produto_parte;not null"`
	Parte      string          `gorm:"type:varchar(20);uniqueIndex:idx_produto_parte;not null"`
	Percentual decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (ProdutoEstoqueAnimal) TableName() string { return "produto_estoque_animal" }
