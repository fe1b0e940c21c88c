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

// EstoqueAnimalRepository dá acesso aos lotes de matéria-prima e ao agregado
// por parte. O consumo FIFO trava os lotes tocados (FOR UPDATE) e o agregado é
// sempre recalculado a partir dos lotes, dentro da mesma transação.
type EstoqueAnimalRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.EstoqueAnimal, error)
	List(ctx context.Context) ([]model.EstoqueAnimal, error)

	// Mutations de lote rodam em transação para que o agregado seja
	// recalculado junto (RecalcularAgregadoTx).
	CreateTx(tx *gorm.DB, lote *model.EstoqueAnimal) error
	SaveTx(tx *gorm.DB, lote *model.EstoqueAnimal) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// FindDisponiveisTxLocked retorna os lotes com peso > 0 da parte,
	// mais antigos primeiro (FIFO), com lock de linha.
	FindDisponiveisTxLocked(tx *gorm.DB, parte string) ([]model.EstoqueAnimal, error)
	// FindMaisRecenteTxLocked retorna o lote de data_entrada mais recente da
	// parte, com lock, ou gorm.ErrRecordNotFound se a parte não tem lotes.
	FindMaisRecenteTxLocked(tx *gorm.DB, parte string) (*model.EstoqueAnimal, error)
	// FindMaisRecenteTxQualquerParte retorna o lote mais recente dentre todas
	// as partes, para a estratégia de restauração "lote_recente".
	FindMaisRecenteTxQualquerParte(tx *gorm.DB) (*model.EstoqueAnimal, error)
	UpdatePesoTx(tx *gorm.DB, id uuid.UUID, pesoKg decimal.Decimal) error

	// RecalcularAgregadoTx refaz EstoqueAnimalTipo.peso_total_kg = Σ lotes da parte.
	RecalcularAgregadoTx(tx *gorm.DB, parte string) error
	GetAgregado(ctx context.Context, parte string) (*model.EstoqueAnimalTipo, error)
	ListAgregados(ctx context.Context) ([]model.EstoqueAnimalTipo, error)
	// PartesComLoteTx lista as partes que possuem ao menos um lote com peso > 0.
	PartesComLoteTx(tx *gorm.DB) ([]string, error)

	DB() *gorm.DB
}

type estoqueAnimalRepo struct{ db *gorm.DB }

func NewEstoqueAnimalRepository(db *gorm.DB) EstoqueAnimalRepository {
	return &estoqueAnimalRepo{db: db}
}

func (r *estoqueAnimalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.EstoqueAnimal, error) {
	var lote model.EstoqueAnimal
	err := r.db.WithContext(ctx).First(&lote, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lote, nil
}

func (r *estoqueAnimalRepo) List(ctx context.Context) ([]model.EstoqueAnimal, error) {
	var lotes []model.EstoqueAnimal
	err := r.db.WithContext(ctx).Order("data_entrada DESC").Find(&lotes).Error
	return lotes, err
}

func (r *estoqueAnimalRepo) CreateTx(tx *gorm.DB, lote *model.EstoqueAnimal) error {
	return tx.Create(lote).Error
}

func (r *estoqueAnimalRepo) SaveTx(tx *gorm.DB, lote *model.EstoqueAnimal) error {
	return tx.Save(lote).Error
}

func (r *estoqueAnimalRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.EstoqueAnimal{}, "id = ?", id).Error
}

func (r *estoqueAnimalRepo) FindDisponiveisTxLocked(tx *gorm.DB, parte string) ([]model.EstoqueAnimal, error) {
	var lotes []model.EstoqueAnimal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("parte = ? AND peso_kg > 0", parte).
		Order("data_entrada ASC, created_at ASC").
		Find(&lotes).Error
	return lotes, err
}

func (r *estoqueAnimalRepo) FindMaisRecenteTxLocked(tx *gorm.DB, parte string) (*model.EstoqueAnimal, error) {
	var lote model.EstoqueAnimal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("parte = ?", parte).
		Order("data_entrada DESC").
		First(&lote).Error
	if err != nil {
		return nil, err
	}
	return &lote, nil
}

func (r *estoqueAnimalRepo) FindMaisRecenteTxQualquerParte(tx *gorm.DB) (*model.EstoqueAnimal, error) {
	var lote model.EstoqueAnimal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("data_entrada DESC").
		First(&lote).Error
	if err != nil {
		return nil, err
	}
	return &lote, nil
}

func (r *estoqueAnimalRepo) UpdatePesoTx(tx *gorm.DB, id uuid.UUID, pesoKg decimal.Decimal) error {
	return tx.Model(&model.EstoqueAnimal{}).Where("id = ?", id).
		Update("peso_kg", pesoKg).Error
}

func (r *estoqueAnimalRepo) RecalcularAgregadoTx(tx *gorm.DB, parte string) error {
	var total decimal.Decimal
	row := tx.Model(&model.EstoqueAnimal{}).
		Where("parte = ?", parte).
		Select("COALESCE(SUM(peso_kg), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return err
	}

	var agg model.EstoqueAnimalTipo
	err := tx.Where("parte = ?", parte).First(&agg).Error
	switch {
	case err == nil:
		return tx.Model(&agg).Updates(map[string]interface{}{
			"peso_total_kg": total,
			"updated_at":    time.Now(),
		}).Error
	case err == gorm.ErrRecordNotFound:
		return tx.Create(&model.EstoqueAnimalTipo{Parte: parte, PesoTotalKg: total}).Error
	default:
		return err
	}
}

func (r *estoqueAnimalRepo) GetAgregado(ctx context.Context, parte string) (*model.EstoqueAnimalTipo, error) {
	var agg model.EstoqueAnimalTipo
	err := r.db.WithContext(ctx).Where("parte = ?", parte).First(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *estoqueAnimalRepo) ListAgregados(ctx context.Context) ([]model.EstoqueAnimalTipo, error) {
	var aggs []model.EstoqueAnimalTipo
	err := r.db.WithContext(ctx).Order("parte ASC").Find(&aggs).Error
	return aggs, err
}

func (r *estoqueAnimalRepo) PartesComLoteTx(tx *gorm.DB) ([]string, error) {
	var partes []string
	err := tx.Model(&model.EstoqueAnimal{}).
		Where("peso_kg > 0").
		Distinct("parte").
		Order("parte ASC").
		Pluck("parte", &partes).Error
	return partes, err
}

func (r *estoqueAnimalRepo) DB() *gorm.DB { return r.db }
