package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Partes do animal que alimentam os produtos. Cada peça recebida entra
// como um lote datado de uma dessas partes.
const (
	ParteDianteiro = "dianteiro"
	ParteTraseiro  = "traseiro"
)

// ParteValida reporta se o nome da parte é um dos valores aceitos.
func ParteValida(parte string) bool {
	return parte == ParteDianteiro || parte == ParteTraseiro
}

// EstoqueAnimal é um lote de matéria-prima: uma peça datada de dianteiro ou
// traseiro. O peso nunca fica negativo — o consumo para em zero. Lotes são
// criados pelo recebimento e mutados apenas pelo consumo/restauração.
type EstoqueAnimal struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Parte       string          `gorm:"type:varchar(20);not null;index"`
	PesoKg      decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	DataEntrada time.Time       `gorm:"not null;index"`
	Fornecedor  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (EstoqueAnimal) TableName() string { return "estoque_animal" }

// EstoqueAnimalTipo é o agregado por parte: peso_total_kg = Σ peso dos lotes.
// Recalculado a partir dos lotes após cada mutação, na mesma transação —
// nunca mantido por aritmética incremental, para não acumular desvio.
type EstoqueAnimalTipo struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Parte       string          `gorm:"type:varchar(20);uniqueIndex;not null"`
	PesoTotalKg decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	UpdatedAt   time.Time
}

func (EstoqueAnimalTipo) TableName() string { return "estoque_animal_tipo" }
