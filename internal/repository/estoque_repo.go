package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
)

// EstoqueRepository dá acesso ao saldo de produto acabado.
// As variantes ...Tx operam dentro da transação ativa da venda; o lock de
// linha (FOR UPDATE) serializa check-and-deduct de vendas concorrentes
// sobre o mesmo produto.
type EstoqueRepository interface {
	FindByProdutoID(ctx context.Context, produtoID uuid.UUID) (*model.Estoque, error)
	List(ctx context.Context) ([]model.Estoque, error)
	Upsert(ctx context.Context, produtoID uuid.UUID, quantidadeKg decimal.Decimal) (*model.Estoque, error)

	// FindByProdutoTxLocked busca o saldo com lock de linha (SELECT … FOR UPDATE).
	FindByProdutoTxLocked(tx *gorm.DB, produtoID uuid.UUID) (*model.Estoque, error)
	UpdateQuantidadeTx(tx *gorm.DB, produtoID uuid.UUID, quantidadeKg decimal.Decimal) error
	CreateTx(tx *gorm.DB, e *model.Estoque) error

	DB() *gorm.DB
}

type estoqueRepo struct{ db *gorm.DB }

func NewEstoqueRepository(db *gorm.DB) EstoqueRepository { return &estoqueRepo{db: db} }

func (r *estoqueRepo) FindByProdutoID(ctx context.Context, produtoID uuid.UUID) (*model.Estoque, error) {
	var e model.Estoque
	err := r.db.WithContext(ctx).Where("produto_id = ?", produtoID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *estoqueRepo) List(ctx context.Context) ([]model.Estoque, error) {
	var estoques []model.Estoque
	err := r.db.WithContext(ctx).Preload("Produto").Find(&estoques).Error
	return estoques, err
}

// Upsert define o saldo absoluto de um produto (recebimento/ajuste de admin).
// Cria a linha na primeira entrada; a linha nunca é removida depois.
func (r *estoqueRepo) Upsert(ctx context.Context, produtoID uuid.UUID, quantidadeKg decimal.Decimal) (*model.Estoque, error) {
	var e model.Estoque
	err := r.db.WithContext(ctx).Where("produto_id = ?", produtoID).First(&e).Error
	switch {
	case err == nil:
		e.QuantidadeKg = quantidadeKg
		e.DataAtualizacao = time.Now()
		if err := r.db.WithContext(ctx).Save(&e).Error; err != nil {
			return nil, err
		}
	case err == gorm.ErrRecordNotFound:
		e = model.Estoque{ProdutoID: produtoID, QuantidadeKg: quantidadeKg, DataAtualizacao: time.Now()}
		if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return &e, nil
}

func (r *estoqueRepo) FindByProdutoTxLocked(tx *gorm.DB, produtoID uuid.UUID) (*model.Estoque, error) {
	var e model.Estoque
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("produto_id = ?", produtoID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *estoqueRepo) UpdateQuantidadeTx(tx *gorm.DB, produtoID uuid.UUID, quantidadeKg decimal.Decimal) error {
	return tx.Model(&model.Estoque{}).Where("produto_id = ?", produtoID).
		Updates(map[string]interface{}{
			"quantidade_kg":    quantidadeKg,
			"data_atualizacao": time.Now(),
		}).Error
}

func (r *estoqueRepo) CreateTx(tx *gorm.DB, e *model.Estoque) error {
	return tx.Create(e).Error
}

func (r *estoqueRepo) DB() *gorm.DB { return r.db }
