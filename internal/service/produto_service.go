package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
	"github.com/Bcardoso2/frigo-galeno-api/internal/repository"
)

// ProdutoService mantém o catálogo. Preço vive no produto e é congelado no
// item no momento da venda; alterações aqui só afetam vendas futuras.
type ProdutoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*model.Produto, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*model.Produto, error)
	Desativar(ctx context.Context, id uuid.UUID) error
	Reativar(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	GetPorCodigo(ctx context.Context, codigo string) (*model.Produto, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error)
}

type produtoService struct {
	repo repository.ProdutoRepository
	rdb  *redis.Client
}

func NewProdutoService(repo repository.ProdutoRepository, rdb *redis.Client) ProdutoService {
	return &produtoService{repo: repo, rdb: rdb}
}

func precoCacheKey(codigo string) string { return fmt.Sprintf("preco:%s", codigo) }

func (s *produtoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*model.Produto, error) {
	if req.PrecoKg.IsNegative() {
		return nil, ErrEntradaInvalida
	}
	if _, err := s.repo.FindByCodigo(ctx, req.CodigoProduto); err == nil {
		return nil, ErrCodigoProdutoExiste
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &model.Produto{
		Nome:          req.Nome,
		CodigoProduto: req.CodigoProduto,
		PrecoKg:       req.PrecoKg,
		Descricao:     req.Descricao,
		Ativo:         true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*model.Produto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProdutoNaoEncontrado
	}
	if err != nil {
		return nil, err
	}

	codigoAnterior := p.CodigoProduto
	if req.Nome != nil {
		p.Nome = *req.Nome
	}
	if req.CodigoProduto != nil && *req.CodigoProduto != p.CodigoProduto {
		if _, err := s.repo.FindByCodigo(ctx, *req.CodigoProduto); err == nil {
			return nil, ErrCodigoProdutoExiste
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		p.CodigoProduto = *req.CodigoProduto
	}
	if req.PrecoKg != nil {
		if req.PrecoKg.IsNegative() {
			return nil, ErrEntradaInvalida
		}
		p.PrecoKg = *req.PrecoKg
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarCache(ctx, codigoAnterior, p.CodigoProduto)
	return p, nil
}

func (s *produtoService) Desativar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProdutoNaoEncontrado
	}
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarCache(ctx, p.CodigoProduto)
	return nil
}

func (s *produtoService) Reativar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProdutoNaoEncontrado
	} else if err != nil {
		return err
	}
	return s.repo.Reativar(ctx, id)
}

func (s *produtoService) Get(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProdutoNaoEncontrado
	}
	return p, err
}

func (s *produtoService) GetPorCodigo(ctx context.Context, codigo string) (*model.Produto, error) {
	p, err := s.repo.FindByCodigo(ctx, codigo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProdutoNaoEncontrado
	}
	return p, err
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// invalidarCache apaga as entradas de consulta de preço dos códigos dados.
// Falha de cache não derruba a operação.
func (s *produtoService) invalidarCache(ctx context.Context, codigos ...string) {
	if s.rdb == nil {
		return
	}
	for _, codigo := range codigos {
		if err := s.rdb.Del(ctx, precoCacheKey(codigo)).Err(); err != nil {
			log.Warn().Err(err).Str("codigo", codigo).Msg("falha ao invalidar cache de preço")
		}
	}
}
