package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario com controle de acesso por perfil.
// Role: "admin" | "operador"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Login        string    `gorm:"uniqueIndex;not null"`
	Nome         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Ativo        bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }
