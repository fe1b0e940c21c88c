package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinirEstoqueCriaEAtualiza(t *testing.T) {
	repo := newStubEstoqueRepo()
	svc := NewEstoqueService(repo, &stubMovimentoRepo{})
	produtoID := uuid.New()

	est, err := svc.DefinirEstoque(context.Background(), produtoID, decimal.RequireFromString("50"))
	require.NoError(t, err)
	assert.True(t, est.QuantidadeKg.Equal(decimal.RequireFromString("50")))

	est, err = svc.DefinirEstoque(context.Background(), produtoID, decimal.RequireFromString("80"))
	require.NoError(t, err)
	assert.True(t, est.QuantidadeKg.Equal(decimal.RequireFromString("80")))
}

func TestDefinirEstoqueNegativoRejeitado(t *testing.T) {
	svc := NewEstoqueService(newStubEstoqueRepo(), &stubMovimentoRepo{})
	_, err := svc.DefinirEstoque(context.Background(), uuid.New(), decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, ErrEntradaInvalida)
}

func TestGetEstoqueInexistente(t *testing.T) {
	svc := NewEstoqueService(newStubEstoqueRepo(), &stubMovimentoRepo{})
	_, err := svc.GetEstoque(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrEstoqueNaoEncontrado)
}

func TestDescontarExigeSaldoSuficiente(t *testing.T) {
	repo := newStubEstoqueRepo()
	movs := &stubMovimentoRepo{}
	svc := NewEstoqueService(repo, movs)
	produtoID := uuid.New()
	_, _ = repo.Upsert(context.Background(), produtoID, decimal.RequireFromString("10"))

	err := svc.DescontarTx(nil, produtoID, decimal.RequireFromString("10.001"), "venda", nil)
	require.ErrorIs(t, err, ErrEstoqueInsuficiente)
	assert.Empty(t, movs.movimentos)

	// saldo exato passa — nunca fica negativo
	err = svc.DescontarTx(nil, produtoID, decimal.RequireFromString("10"), "venda", nil)
	require.NoError(t, err)

	est, _ := repo.FindByProdutoID(context.Background(), produtoID)
	assert.True(t, est.QuantidadeKg.IsZero())
	require.Len(t, movs.movimentos, 1)
	assert.True(t, movs.movimentos[0].QuantidadeKg.Equal(decimal.RequireFromString("-10")))
}

func TestRestaurarCriaLinhaQuandoNaoExiste(t *testing.T) {
	repo := newStubEstoqueRepo()
	movs := &stubMovimentoRepo{}
	svc := NewEstoqueService(repo, movs)
	produtoID := uuid.New()

	err := svc.RestaurarTx(nil, produtoID, decimal.RequireFromString("7"), "cancelamento de venda", nil)
	require.NoError(t, err)

	est, err := repo.FindByProdutoID(context.Background(), produtoID)
	require.NoError(t, err)
	assert.True(t, est.QuantidadeKg.Equal(decimal.RequireFromString("7")))

	require.Len(t, movs.movimentos, 1)
	assert.Equal(t, "cancelamento", movs.movimentos[0].Tipo)
	assert.True(t, movs.movimentos[0].SaldoAnterior.IsZero())
	assert.True(t, movs.movimentos[0].SaldoNovo.Equal(decimal.RequireFromString("7")))
}

func TestRestaurarSomaAoSaldoExistente(t *testing.T) {
	repo := newStubEstoqueRepo()
	movs := &stubMovimentoRepo{}
	svc := NewEstoqueService(repo, movs)
	produtoID := uuid.New()
	_, _ = repo.Upsert(context.Background(), produtoID, decimal.RequireFromString("3"))

	err := svc.RestaurarTx(nil, produtoID, decimal.RequireFromString("4"), "cancelamento de venda", nil)
	require.NoError(t, err)

	est, _ := repo.FindByProdutoID(context.Background(), produtoID)
	assert.True(t, est.QuantidadeKg.Equal(decimal.RequireFromString("7")))
}
