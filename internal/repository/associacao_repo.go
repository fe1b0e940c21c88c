package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
)

// AssociacaoRepository gerencia o rateio produto → parte do animal.
type AssociacaoRepository interface {
	// Upsert cria a associação ou atualiza o percentual se já existir.
	Upsert(ctx context.Context, produtoID uuid.UUID, parte string, percentual decimal.Decimal) (*model.ProdutoEstoqueAnimal, error)
	// Delete remove a associação; gorm.ErrRecordNotFound se o id não existir.
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProdutoEstoqueAnimal, error)
	ListByProduto(ctx context.Context, produtoID uuid.UUID) ([]model.ProdutoEstoqueAnimal, error)

	// ListByProdutoTx lê as associações dentro da transação da venda.
	ListByProdutoTx(tx *gorm.DB, produtoID uuid.UUID) ([]model.ProdutoEstoqueAnimal, error)
}

type associacaoRepo struct{ db *gorm.DB }

func NewAssociacaoRepository(db *gorm.DB) AssociacaoRepository { return &associacaoRepo{db: db} }

func (r *associacaoRepo) Upsert(ctx context.Context, produtoID uuid.UUID, parte string, percentual decimal.Decimal) (*model.ProdutoEstoqueAnimal, error) {
	var assoc model.ProdutoEstoqueAnimal
	err := r.db.WithContext(ctx).
		Where("produto_id = ? AND parte = ?", produtoID, parte).
		First(&assoc).Error
	switch {
	case err == nil:
		assoc.Percentual = percentual
		if err := r.db.WithContext(ctx).Save(&assoc).Error; err != nil {
			return nil, err
		}
	case err == gorm.ErrRecordNotFound:
		assoc = model.ProdutoEstoqueAnimal{ProdutoID: produtoID, Parte: parte, Percentual: percentual}
		if err := r.db.WithContext(ctx).Create(&assoc).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return &assoc, nil
}

// Delete devolve gorm.ErrRecordNotFound quando o id não existe; o DELETE em
// si não erra em linha ausente, então o contrato vem de RowsAffected.
func (r *associacaoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.ProdutoEstoqueAnimal{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *associacaoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProdutoEstoqueAnimal, error) {
	var assoc model.ProdutoEstoqueAnimal
	err := r.db.WithContext(ctx).First(&assoc, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &assoc, nil
}

func (r *associacaoRepo) ListByProduto(ctx context.Context, produtoID uuid.UUID) ([]model.ProdutoEstoqueAnimal, error) {
	var assocs []model.ProdutoEstoqueAnimal
	err := r.db.WithContext(ctx).
		Where("produto_id = ?", produtoID).
		Order("percentual DESC").
		Find(&assocs).Error
	return assocs, err
}

func (r *associacaoRepo) ListByProdutoTx(tx *gorm.DB, produtoID uuid.UUID) ([]model.ProdutoEstoqueAnimal, error) {
	var assocs []model.ProdutoEstoqueAnimal
	err := tx.Where("produto_id = ?", produtoID).
		Order("percentual DESC").
		Find(&assocs).Error
	return assocs, err
}
