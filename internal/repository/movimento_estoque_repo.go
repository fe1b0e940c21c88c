package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
)

type MovimentoEstoqueRepository interface {
	// CreateTx grava o movimento na mesma transação da venda/cancelamento.
	CreateTx(tx *gorm.DB, m *model.MovimentoEstoque) error
	ListByProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error)
}

type movimentoEstoqueRepo struct{ db *gorm.DB }

func NewMovimentoEstoqueRepository(db *gorm.DB) MovimentoEstoqueRepository {
	return &movimentoEstoqueRepo{db: db}
}

func (r *movimentoEstoqueRepo) CreateTx(tx *gorm.DB, m *model.MovimentoEstoque) error {
	return tx.Create(m).Error
}

func (r *movimentoEstoqueRepo) ListByProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error) {
	if limit <= 0 {
		limit = 50
	}
	var movs []model.MovimentoEstoque
	err := r.db.WithContext(ctx).
		Where("produto_id = ?", produtoID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movs).Error
	return movs, err
}
