package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertaEscassez registra faltas de matéria-prima detectadas durante o rateio
// de uma venda. Gravado pelo worker assíncrono para revisão posterior — a
// venda em si nunca é bloqueada por falta de matéria-prima.
type AlertaEscassez struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Parte     string          `gorm:"type:varchar(20);not null"`
	FaltaKg   decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	Revisado  bool            `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (AlertaEscassez) TableName() string { return "alertas_escassez" }
