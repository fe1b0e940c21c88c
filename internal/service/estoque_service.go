package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
	"github.com/Bcardoso2/frigo-galeno-api/internal/repository"
)

// EstoqueService é o livro-razão de produto acabado. Desconto é operação com
// pré-condição (saldo suficiente), nunca truncamento: a venda inteira falha
// antes de qualquer mutação se o saldo não cobre o pedido.
type EstoqueService interface {
	GetEstoque(ctx context.Context, produtoID uuid.UUID) (*model.Estoque, error)
	ListEstoque(ctx context.Context) ([]model.Estoque, error)
	// DefinirEstoque fixa o saldo absoluto (recebimento/ajuste administrativo).
	DefinirEstoque(ctx context.Context, produtoID uuid.UUID, quantidadeKg decimal.Decimal) (*model.Estoque, error)
	ListMovimentos(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error)

	// DescontarTx subtrai dentro da transação ativa. Falha com
	// ErrEstoqueInsuficiente se o saldo atual for menor que o pedido.
	DescontarTx(tx *gorm.DB, produtoID uuid.UUID, quantidadeKg decimal.Decimal, motivo string, referenciaID *uuid.UUID) error
	// RestaurarTx devolve saldo; cria a linha de estoque se ainda não existir
	// (saldo inicia no valor restaurado).
	RestaurarTx(tx *gorm.DB, produtoID uuid.UUID, quantidadeKg decimal.Decimal, motivo string, referenciaID *uuid.UUID) error
}

type estoqueService struct {
	repo       repository.EstoqueRepository
	movimentos repository.MovimentoEstoqueRepository
}

func NewEstoqueService(repo repository.EstoqueRepository, movimentos repository.MovimentoEstoqueRepository) EstoqueService {
	return &estoqueService{repo: repo, movimentos: movimentos}
}

func (s *estoqueService) GetEstoque(ctx context.Context, produtoID uuid.UUID) (*model.Estoque, error) {
	est, err := s.repo.FindByProdutoID(ctx, produtoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEstoqueNaoEncontrado
	}
	return est, err
}

func (s *estoqueService) ListEstoque(ctx context.Context) ([]model.Estoque, error) {
	return s.repo.List(ctx)
}

func (s *estoqueService) DefinirEstoque(ctx context.Context, produtoID uuid.UUID, quantidadeKg decimal.Decimal) (*model.Estoque, error) {
	if quantidadeKg.IsNegative() {
		return nil, ErrEntradaInvalida
	}
	return s.repo.Upsert(ctx, produtoID, quantidadeKg)
}

func (s *estoqueService) ListMovimentos(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error) {
	return s.movimentos.ListByProduto(ctx, produtoID, limit)
}

func (s *estoqueService) DescontarTx(tx *gorm.DB, produtoID uuid.UUID, quantidadeKg decimal.Decimal, motivo string, referenciaID *uuid.UUID) error {
	est, err := s.repo.FindByProdutoTxLocked(tx, produtoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: produto %s sem estoque cadastrado", ErrEstoqueInsuficiente, produtoID)
	}
	if err != nil {
		return err
	}
	if est.QuantidadeKg.LessThan(quantidadeKg) {
		return fmt.Errorf("%w: disponível %s kg, pedido %s kg",
			ErrEstoqueInsuficiente, est.QuantidadeKg, quantidadeKg)
	}

	novo := est.QuantidadeKg.Sub(quantidadeKg)
	if err := s.repo.UpdateQuantidadeTx(tx, produtoID, novo); err != nil {
		return err
	}

	return s.movimentos.CreateTx(tx, &model.MovimentoEstoque{
		ProdutoID:     produtoID,
		Tipo:          "venda",
		QuantidadeKg:  quantidadeKg.Neg(),
		SaldoAnterior: est.QuantidadeKg,
		SaldoNovo:     novo,
		Motivo:        motivo,
		ReferenciaID:  referenciaID,
	})
}

func (s *estoqueService) RestaurarTx(tx *gorm.DB, produtoID uuid.UUID, quantidadeKg decimal.Decimal, motivo string, referenciaID *uuid.UUID) error {
	est, err := s.repo.FindByProdutoTxLocked(tx, produtoID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.repo.CreateTx(tx, &model.Estoque{
			ProdutoID:       produtoID,
			QuantidadeKg:    quantidadeKg,
			DataAtualizacao: nowFunc(),
		}); err != nil {
			return err
		}
		return s.movimentos.CreateTx(tx, &model.MovimentoEstoque{
			ProdutoID:     produtoID,
			Tipo:          "cancelamento",
			QuantidadeKg:  quantidadeKg,
			SaldoAnterior: decimal.Zero,
			SaldoNovo:     quantidadeKg,
			Motivo:        motivo,
			ReferenciaID:  referenciaID,
		})
	case err != nil:
		return err
	}

	novo := est.QuantidadeKg.Add(quantidadeKg)
	if err := s.repo.UpdateQuantidadeTx(tx, produtoID, novo); err != nil {
		return err
	}
	return s.movimentos.CreateTx(tx, &model.MovimentoEstoque{
		ProdutoID:     produtoID,
		Tipo:          "cancelamento",
		QuantidadeKg:  quantidadeKg,
		SaldoAnterior: est.QuantidadeKg,
		SaldoNovo:     novo,
		Motivo:        motivo,
		ReferenciaID:  referenciaID,
	})
}
