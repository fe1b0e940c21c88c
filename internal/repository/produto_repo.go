package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
)

// ProdutoRepository define o contrato de acesso a produtos.
// Os services dependem desta interface, não da implementação GORM,
// o que permite testes unitários com stubs em memória.
type ProdutoRepository interface {
	Create(ctx context.Context, p *model.Produto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Produto, error)
	List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error)
	Update(ctx context.Context, p *model.Produto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reativar(ctx context.Context, id uuid.UUID) error

	// FindByIDTx busca o produto dentro da transação ativa da venda.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Produto, error)

	// DB expõe o *gorm.DB para que os services abram transações.
	DB() *gorm.DB
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := tx.First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Where("codigo_produto = ?", codigo).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var produtos []model.Produto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produto{})

	// Ativo: "false" = inativos, "all" = todos, qualquer outro = ativos (default)
	switch filter.Ativo {
	case "false":
		q = q.Where("ativo = false")
	case "all":
		// sem filtro
	default:
		q = q.Where("ativo = true")
	}

	if filter.Nome != "" {
		q = q.Where("nome ILIKE ?", "%"+filter.Nome+"%")
	}
	if filter.Codigo != "" {
		q = q.Where("codigo_produto = ?", filter.Codigo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nome ASC").Limit(filter.Limit).Offset(offset).Find(&produtos).Error
	return produtos, total, err
}

func (r *produtoRepo) Update(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *produtoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Produto{}).Where("id = ?", id).Update("ativo", false).Error
}

func (r *produtoRepo) Reativar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Produto{}).Where("id = ?", id).Update("ativo", true).Error
}

func (r *produtoRepo) DB() *gorm.DB { return r.db }
