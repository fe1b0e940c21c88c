package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
)

type VendaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error)
	// ListPeriodo retorna as vendas não canceladas do intervalo, com itens.
	ListPeriodo(ctx context.Context, inicio, fim time.Time) ([]model.Venda, error)
	// MarcarCanceladaTx grava cancelada=true e o motivo dentro da transação.
	// Condicional em cancelada=false; gorm.ErrRecordNotFound se a venda já
	// estava cancelada (ou não existe), forçando o rollback das restaurações.
	MarcarCanceladaTx(tx *gorm.DB, id uuid.UUID, motivo string) error
	// MarcarEscassezTx liga o flag de escassez de matéria-prima da venda.
	MarcarEscassezTx(tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) DB() *gorm.DB { return r.db }

func (r *vendaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venda) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *vendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	err := r.db.WithContext(ctx).
		Preload("Itens.Produto").
		Preload("Usuario").
		First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendaRepo) List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var vendas []model.Venda
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venda{})

	switch filter.Status {
	case "cancelada":
		q = q.Where("cancelada = true")
	case "all":
		// sem filtro
	default:
		q = q.Where("cancelada = false")
	}
	if filter.DataInicio != "" {
		q = q.Where("data_hora >= ?", filter.DataInicio)
	}
	if filter.DataFim != "" {
		q = q.Where("data_hora <= ?", filter.DataFim)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Itens.Produto").Preload("Usuario").
		Order("data_hora DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&vendas).Error

	return vendas, total, err
}

func (r *vendaRepo) ListPeriodo(ctx context.Context, inicio, fim time.Time) ([]model.Venda, error) {
	var vendas []model.Venda
	err := r.db.WithContext(ctx).
		Preload("Itens.Produto").
		Where("data_hora >= ? AND data_hora < ? AND cancelada = false", inicio, fim).
		Find(&vendas).Error
	return vendas, err
}

func (r *vendaRepo) MarcarEscassezTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Venda{}).Where("id = ?", id).
		Update("escassez_materia_prima", true).Error
}

// MarcarCanceladaTx é condicional em cancelada=false: dois cancelamentos
// concorrentes da mesma venda serializam aqui — o segundo afeta zero linhas,
// recebe gorm.ErrRecordNotFound e a transação inteira (restaurações incluídas)
// sofre rollback.
func (r *vendaRepo) MarcarCanceladaTx(tx *gorm.DB, id uuid.UUID, motivo string) error {
	res := tx.Model(&model.Venda{}).
		Where("id = ? AND cancelada = false", id).
		Updates(map[string]interface{}{
			"cancelada":           true,
			"motivo_cancelamento": motivo,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
