package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/config"
	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
	"github.com/Bcardoso2/frigo-galeno-api/internal/repository"
)

// ParteQuantidade é uma fatia do rateio: quantos kg de uma venda (ou
// cancelamento) recaem sobre uma parte da carcaça.
type ParteQuantidade struct {
	Parte        string
	QuantidadeKg decimal.Decimal
}

// RateioService traduz quantidade vendida de um produto em consumo de
// matéria-prima por parte, segundo as associações produto→parte cadastradas.
// Percentuais são normalizados pela soma: 60/40 ratea 60%/40% mesmo que o
// cadastro some 100, e 50 sozinho vale 100%.
type RateioService interface {
	Associar(ctx context.Context, req dto.AssociarProdutoRequest) (*model.ProdutoEstoqueAnimal, error)
	Remover(ctx context.Context, id uuid.UUID) error
	ListarPorProduto(ctx context.Context, produtoID uuid.UUID) ([]model.ProdutoEstoqueAnimal, error)

	// ResolverTx calcula o rateio de uma saída. Produto sem associação
	// devolve nil: não toca matéria-prima.
	ResolverTx(tx *gorm.DB, produtoID uuid.UUID, quantidadeKg decimal.Decimal) ([]ParteQuantidade, error)
	// ResolverRestauracaoTx calcula para onde devolver matéria-prima num
	// cancelamento. Sem associação cadastrada, aplica a estratégia de
	// fallback configurada (RATEIO_FALLBACK).
	ResolverRestauracaoTx(tx *gorm.DB, produtoID uuid.UUID, quantidadeKg decimal.Decimal) ([]ParteQuantidade, error)
}

type rateioService struct {
	assocRepo repository.AssociacaoRepository
	poolRepo  repository.EstoqueAnimalRepository
	fallback  string
}

func NewRateioService(assocRepo repository.AssociacaoRepository, poolRepo repository.EstoqueAnimalRepository, fallback string) RateioService {
	if fallback == "" {
		fallback = config.FallbackDivisaoIgual
	}
	return &rateioService{assocRepo: assocRepo, poolRepo: poolRepo, fallback: fallback}
}

func (s *rateioService) Associar(ctx context.Context, req dto.AssociarProdutoRequest) (*model.ProdutoEstoqueAnimal, error) {
	produtoID, err := uuid.Parse(req.ProdutoID)
	if err != nil {
		return nil, ErrEntradaInvalida
	}
	if !model.ParteValida(req.Parte) {
		return nil, ErrEntradaInvalida
	}
	percentual := decimal.NewFromInt(100)
	if req.Percentual != nil {
		if req.Percentual.LessThanOrEqual(decimal.Zero) {
			return nil, ErrEntradaInvalida
		}
		percentual = *req.Percentual
	}
	return s.assocRepo.Upsert(ctx, produtoID, req.Parte, percentual)
}

func (s *rateioService) Remover(ctx context.Context, id uuid.UUID) error {
	err := s.assocRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAssociacaoInexistente
	}
	return err
}

func (s *rateioService) ListarPorProduto(ctx context.Context, produtoID uuid.UUID) ([]model.ProdutoEstoqueAnimal, error) {
	return s.assocRepo.ListByProduto(ctx, produtoID)
}

func (s *rateioService) ResolverTx(tx *gorm.DB, produtoID uuid.UUID, quantidadeKg decimal.Decimal) ([]ParteQuantidade, error) {
	assocs, err := s.assocRepo.ListByProdutoTx(tx, produtoID)
	if err != nil {
		return nil, err
	}
	return ratear(assocs, quantidadeKg), nil
}

func (s *rateioService) ResolverRestauracaoTx(tx *gorm.DB, produtoID uuid.UUID, quantidadeKg decimal.Decimal) ([]ParteQuantidade, error) {
	assocs, err := s.assocRepo.ListByProdutoTx(tx, produtoID)
	if err != nil {
		return nil, err
	}
	if len(assocs) > 0 {
		return ratear(assocs, quantidadeKg), nil
	}

	switch s.fallback {
	case config.FallbackProporcional:
		// Proporcional às associações — sem cadastro não há proporção.
		return nil, nil
	case config.FallbackLoteRecente:
		lote, err := s.poolRepo.FindMaisRecenteTxQualquerParte(tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []ParteQuantidade{{Parte: lote.Parte, QuantidadeKg: quantidadeKg}}, nil
	default: // divisão igual entre as partes que têm lote
		partes, err := s.poolRepo.PartesComLoteTx(tx)
		if err != nil {
			return nil, err
		}
		if len(partes) == 0 {
			return nil, nil
		}
		cota := quantidadeKg.DivRound(decimal.NewFromInt(int64(len(partes))), 3)
		out := make([]ParteQuantidade, 0, len(partes))
		acumulado := decimal.Zero
		for i, parte := range partes {
			q := cota
			if i == len(partes)-1 {
				q = quantidadeKg.Sub(acumulado)
			}
			out = append(out, ParteQuantidade{Parte: parte, QuantidadeKg: q})
			acumulado = acumulado.Add(q)
		}
		return out, nil
	}
}

// ratear normaliza os percentuais pela soma e distribui a quantidade. O resto
// de arredondamento vai para a última parte, preservando a soma exata.
func ratear(assocs []model.ProdutoEstoqueAnimal, quantidadeKg decimal.Decimal) []ParteQuantidade {
	if len(assocs) == 0 {
		return nil
	}
	total := decimal.Zero
	for _, a := range assocs {
		total = total.Add(a.Percentual)
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	out := make([]ParteQuantidade, 0, len(assocs))
	acumulado := decimal.Zero
	for i, a := range assocs {
		var q decimal.Decimal
		if i == len(assocs)-1 {
			q = quantidadeKg.Sub(acumulado)
		} else {
			q = quantidadeKg.Mul(a.Percentual).DivRound(total, 3)
		}
		out = append(out, ParteQuantidade{Parte: a.Parte, QuantidadeKg: q})
		acumulado = acumulado.Add(q)
	}
	return out
}
