package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
)

type AlertaEscassezRepository interface {
	Create(ctx context.Context, a *model.AlertaEscassez) error
	ListPendentes(ctx context.Context) ([]model.AlertaEscassez, error)
	MarcarRevisado(ctx context.Context, id uuid.UUID) error
}

type alertaRepo struct{ db *gorm.DB }

func NewAlertaEscassezRepository(db *gorm.DB) AlertaEscassezRepository { return &alertaRepo{db: db} }

func (r *alertaRepo) Create(ctx context.Context, a *model.AlertaEscassez) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *alertaRepo) ListPendentes(ctx context.Context) ([]model.AlertaEscassez, error) {
	var alertas []model.AlertaEscassez
	err := r.db.WithContext(ctx).
		Where("revisado = false").
		Order("created_at DESC").
		Find(&alertas).Error
	return alertas, err
}

func (r *alertaRepo) MarcarRevisado(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.AlertaEscassez{}).
		Where("id = ?", id).Update("revisado", true).Error
}
