package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bcardoso2/frigo-galeno-api/internal/config"
	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
)

type vendaFixture struct {
	svc        VendaService
	vendas     *stubVendaRepo
	produtos   *stubProdutoRepo
	estoque    *stubEstoqueRepo
	movimentos *stubMovimentoRepo
	pool       *stubEstoqueAnimalRepo
	assocs     *stubAssociacaoRepo
}

func newVendaFixture() *vendaFixture {
	f := &vendaFixture{
		vendas:     newStubVendaRepo(),
		produtos:   newStubProdutoRepo(),
		estoque:    newStubEstoqueRepo(),
		movimentos: &stubMovimentoRepo{},
		pool:       newStubEstoqueAnimalRepo(),
		assocs:     newStubAssociacaoRepo(),
	}
	f.vendas.produtos = f.produtos
	estoqueSvc := NewEstoqueService(f.estoque, f.movimentos)
	poolSvc := NewEstoqueAnimalService(f.pool)
	rateioSvc := NewRateioService(f.assocs, f.pool, config.FallbackDivisaoIgual)
	f.svc = NewVendaService(f.vendas, f.produtos, estoqueSvc, poolSvc, rateioSvc, nil)
	return f
}

func (f *vendaFixture) addProduto(nome, codigo, preco string) *model.Produto {
	p := &model.Produto{
		ID:            uuid.New(),
		Nome:          nome,
		CodigoProduto: codigo,
		PrecoKg:       decimal.RequireFromString(preco),
		Ativo:         true,
	}
	f.produtos.produtos[p.ID] = p
	return p
}

func (f *vendaFixture) setEstoque(produtoID uuid.UUID, qtd string) {
	_, _ = f.estoque.Upsert(context.Background(), produtoID, decimal.RequireFromString(qtd))
}

func (f *vendaFixture) saldo(produtoID uuid.UUID) decimal.Decimal {
	e, err := f.estoque.FindByProdutoID(context.Background(), produtoID)
	if err != nil {
		return decimal.Zero
	}
	return e.QuantidadeKg
}

func itemReq(produtoID uuid.UUID, qtd string) dto.ItemVendaRequest {
	return dto.ItemVendaRequest{
		ProdutoID:    produtoID.String(),
		QuantidadeKg: decimal.RequireFromString(qtd),
	}
}

func TestRegistrarVendaDescontaEstoqueECalculaTotal(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Picanha", "PIC001", "10.00")
	f.setEstoque(p.ID, "100")

	venda, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "30")},
	})
	require.NoError(t, err)

	assert.True(t, venda.ValorTotal.Equal(decimal.RequireFromString("300.00")), "total %s", venda.ValorTotal)
	assert.True(t, venda.Finalizada)
	assert.False(t, venda.Cancelada)
	assert.Equal(t, model.PagamentoDinheiro, venda.FormaPagamento)
	assert.True(t, f.saldo(p.ID).Equal(decimal.RequireFromString("70")), "saldo %s", f.saldo(p.ID))

	movs, _ := f.movimentos.ListByProduto(context.Background(), p.ID, 10)
	require.Len(t, movs, 1)
	assert.Equal(t, "venda", movs[0].Tipo)
	assert.True(t, movs[0].QuantidadeKg.Equal(decimal.RequireFromString("-30")))
	assert.True(t, movs[0].SaldoAnterior.Equal(decimal.RequireFromString("100")))
	assert.True(t, movs[0].SaldoNovo.Equal(decimal.RequireFromString("70")))
}

func TestRegistrarVendaArredondaValorDoItem(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Costela", "COS001", "9.99")
	f.setEstoque(p.ID, "50")

	venda, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "1.333")},
	})
	require.NoError(t, err)

	// 1.333 × 9.99 = 13.316... → 13.32
	require.Len(t, venda.Itens, 1)
	assert.True(t, venda.Itens[0].ValorTotal.Equal(decimal.RequireFromString("13.32")),
		"valor %s", venda.Itens[0].ValorTotal)
}

func TestRegistrarVendaEstoqueInsuficienteBloqueia(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Alcatra", "ALC001", "8.50")
	f.setEstoque(p.ID, "10")

	_, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "15")},
	})
	require.ErrorIs(t, err, ErrEstoqueInsuficiente)

	// saldo intacto: a pré-condição falha antes de qualquer mutação
	assert.True(t, f.saldo(p.ID).Equal(decimal.RequireFromString("10")))
	movs, _ := f.movimentos.ListByProduto(context.Background(), p.ID, 10)
	assert.Empty(t, movs)
}

func TestRegistrarVendaProdutoSemEstoqueCadastradoBloqueia(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Maminha", "MAM001", "7.00")

	_, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "1")},
	})
	assert.ErrorIs(t, err, ErrEstoqueInsuficiente)
}

func TestRegistrarVendaProdutoInexistente(t *testing.T) {
	f := newVendaFixture()
	_, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(uuid.New(), "1")},
	})
	assert.ErrorIs(t, err, ErrProdutoNaoEncontrado)
}

func TestRegistrarVendaProdutoInativo(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Cupim", "CUP001", "12.00")
	p.Ativo = false
	f.setEstoque(p.ID, "20")

	_, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "1")},
	})
	assert.ErrorIs(t, err, ErrProdutoInativo)
}

func TestRegistrarVendaFormaPagamentoInvalida(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Filé", "FIL001", "20.00")
	f.setEstoque(p.ID, "5")

	_, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens:          []dto.ItemVendaRequest{itemReq(p.ID, "1")},
		FormaPagamento: "cheque",
	})
	assert.ErrorIs(t, err, ErrEntradaInvalida)
}

func TestRegistrarVendaRateiaMateriaPrima(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Carne moída", "MOI001", "5.00")
	f.setEstoque(p.ID, "100")
	f.assocs.add(p.ID, model.ParteDianteiro, "60")
	f.assocs.add(p.ID, model.ParteTraseiro, "40")
	f.pool.addLote(model.ParteDianteiro, "50", "2026-08-01")
	f.pool.addLote(model.ParteTraseiro, "50", "2026-08-01")

	venda, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "10")},
	})
	require.NoError(t, err)
	assert.False(t, venda.EscassezMateriaPrima)

	// 60% → dianteiro (6kg), 40% → traseiro (4kg)
	assert.True(t, f.pool.agregados[model.ParteDianteiro].Equal(decimal.RequireFromString("44")),
		"dianteiro %s", f.pool.agregados[model.ParteDianteiro])
	assert.True(t, f.pool.agregados[model.ParteTraseiro].Equal(decimal.RequireFromString("46")),
		"traseiro %s", f.pool.agregados[model.ParteTraseiro])
}

func TestRegistrarVendaEscassezNaoBloqueia(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Acém", "ACE001", "6.00")
	f.setEstoque(p.ID, "100")
	f.assocs.add(p.ID, model.ParteDianteiro, "100")
	f.pool.addLote(model.ParteDianteiro, "3", "2026-08-01")

	venda, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "10")},
	})
	require.NoError(t, err)

	// venda completa; matéria-prima consumida parcialmente e flag ligado
	assert.True(t, venda.EscassezMateriaPrima)
	assert.True(t, f.saldo(p.ID).Equal(decimal.RequireFromString("90")))
	assert.True(t, f.pool.agregados[model.ParteDianteiro].IsZero())
}

func TestRegistrarVendaSemAssociacaoNaoTocaMateriaPrima(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Linguiça", "LIN001", "4.00")
	f.setEstoque(p.ID, "30")
	f.pool.addLote(model.ParteDianteiro, "20", "2026-08-01")

	venda, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "5")},
	})
	require.NoError(t, err)
	assert.False(t, venda.EscassezMateriaPrima)
	assert.True(t, f.pool.agregados[model.ParteDianteiro].Equal(decimal.RequireFromString("20")))
}

func TestCancelarVendaRestauraEstoque(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Picanha", "PIC001", "10.00")
	f.setEstoque(p.ID, "100")

	venda, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "30")},
	})
	require.NoError(t, err)
	require.True(t, f.saldo(p.ID).Equal(decimal.RequireFromString("70")))

	cancelada, err := f.svc.CancelarVenda(context.Background(), venda.ID, "cliente desistiu")
	require.NoError(t, err)

	assert.True(t, cancelada.Cancelada)
	require.NotNil(t, cancelada.MotivoCancelamento)
	assert.Equal(t, "cliente desistiu", *cancelada.MotivoCancelamento)
	assert.True(t, f.saldo(p.ID).Equal(decimal.RequireFromString("100")))

	movs, _ := f.movimentos.ListByProduto(context.Background(), p.ID, 10)
	require.Len(t, movs, 2)
	assert.Equal(t, "cancelamento", movs[1].Tipo)
	assert.True(t, movs[1].QuantidadeKg.Equal(decimal.RequireFromString("30")))
}

func TestCancelarVendaMotivoPadrao(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Fraldinha", "FRA001", "9.00")
	f.setEstoque(p.ID, "50")

	venda, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "2")},
	})
	require.NoError(t, err)

	cancelada, err := f.svc.CancelarVenda(context.Background(), venda.ID, "")
	require.NoError(t, err)
	require.NotNil(t, cancelada.MotivoCancelamento)
	assert.Equal(t, "Não informado", *cancelada.MotivoCancelamento)
}

func TestCancelarVendaJaCancelada(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Picanha", "PIC001", "10.00")
	f.setEstoque(p.ID, "100")

	venda, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "10")},
	})
	require.NoError(t, err)

	_, err = f.svc.CancelarVenda(context.Background(), venda.ID, "erro de digitação")
	require.NoError(t, err)

	_, err = f.svc.CancelarVenda(context.Background(), venda.ID, "de novo")
	assert.ErrorIs(t, err, ErrVendaJaCancelada)
	// saldo restaurado uma única vez
	assert.True(t, f.saldo(p.ID).Equal(decimal.RequireFromString("100")))
}

// vendaRepoLeituraDefasada devolve a venda como se ainda não estivesse
// cancelada, simulando um cancelamento concorrente que commita entre a
// leitura de guarda e o update condicional.
type vendaRepoLeituraDefasada struct {
	*stubVendaRepo
}

func (r *vendaRepoLeituraDefasada) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	v, err := r.stubVendaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	copia := *v
	copia.Cancelada = false
	copia.MotivoCancelamento = nil
	return &copia, nil
}

func TestCancelarVendaConcorrentePerdeNoUpdateCondicional(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Picanha", "PIC001", "10.00")
	f.setEstoque(p.ID, "100")

	venda, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "10")},
	})
	require.NoError(t, err)

	_, err = f.svc.CancelarVenda(context.Background(), venda.ID, "erro de digitação")
	require.NoError(t, err)

	// Segundo cancelamento com leitura defasada: a guarda passa, mas o
	// update condicional afeta zero linhas e a operação falha.
	estoqueSvc := NewEstoqueService(f.estoque, f.movimentos)
	poolSvc := NewEstoqueAnimalService(f.pool)
	rateioSvc := NewRateioService(f.assocs, f.pool, config.FallbackDivisaoIgual)
	svcDefasado := NewVendaService(&vendaRepoLeituraDefasada{f.vendas}, f.produtos, estoqueSvc, poolSvc, rateioSvc, nil)

	_, err = svcDefasado.CancelarVenda(context.Background(), venda.ID, "de novo")
	assert.ErrorIs(t, err, ErrVendaJaCancelada)

	// O registro mantém o motivo do primeiro cancelamento.
	gravada, err := f.vendas.FindByID(context.Background(), venda.ID)
	require.NoError(t, err)
	require.NotNil(t, gravada.MotivoCancelamento)
	assert.Equal(t, "erro de digitação", *gravada.MotivoCancelamento)
}

func TestCancelarVendaInexistente(t *testing.T) {
	f := newVendaFixture()
	_, err := f.svc.CancelarVenda(context.Background(), uuid.New(), "x")
	assert.ErrorIs(t, err, ErrVendaNaoEncontrada)
}

func TestCancelarVendaDevolveMateriaPrimaAoLoteMaisRecente(t *testing.T) {
	f := newVendaFixture()
	p := f.addProduto("Carne moída", "MOI001", "5.00")
	f.setEstoque(p.ID, "100")
	f.assocs.add(p.ID, model.ParteDianteiro, "100")
	antigo := f.pool.addLote(model.ParteDianteiro, "10", "2026-08-01")
	recente := f.pool.addLote(model.ParteDianteiro, "10", "2026-08-20")

	venda, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p.ID, "4")},
	})
	require.NoError(t, err)
	// FIFO: consumo sai do lote mais antigo
	assert.True(t, f.pool.lotes[antigo.ID].PesoKg.Equal(decimal.RequireFromString("6")))

	_, err = f.svc.CancelarVenda(context.Background(), venda.ID, "teste")
	require.NoError(t, err)

	// restauração entra no lote mais recente
	assert.True(t, f.pool.lotes[recente.ID].PesoKg.Equal(decimal.RequireFromString("14")),
		"recente %s", f.pool.lotes[recente.ID].PesoKg)
	assert.True(t, f.pool.agregados[model.ParteDianteiro].Equal(decimal.RequireFromString("20")))
}

func TestResumoDiario(t *testing.T) {
	f := newVendaFixture()
	p1 := f.addProduto("Picanha", "PIC001", "10.00")
	p2 := f.addProduto("Alcatra", "ALC001", "8.00")
	f.setEstoque(p1.ID, "100")
	f.setEstoque(p2.ID, "100")

	hoje := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return hoje }
	defer func() { nowFunc = time.Now }()

	_, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p1.ID, "2")},
	})
	require.NoError(t, err)
	_, err = f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens:          []dto.ItemVendaRequest{itemReq(p2.ID, "5")},
		FormaPagamento: model.PagamentoPix,
	})
	require.NoError(t, err)

	cancelavel, err := f.svc.RegistrarVenda(context.Background(), uuid.New(), dto.RegistrarVendaRequest{
		Itens: []dto.ItemVendaRequest{itemReq(p1.ID, "1")},
	})
	require.NoError(t, err)
	_, err = f.svc.CancelarVenda(context.Background(), cancelavel.ID, "teste")
	require.NoError(t, err)

	resumo, err := f.svc.ResumoDiario(context.Background(), hoje)
	require.NoError(t, err)

	// cancelada fica fora do resumo
	assert.Equal(t, 2, resumo.TotalVendas)
	assert.True(t, resumo.TotalValor.Equal(decimal.RequireFromString("60.00")), "total %s", resumo.TotalValor)
	assert.True(t, resumo.TotalQuantidadeKg.Equal(decimal.RequireFromString("7")))
	assert.True(t, resumo.TicketMedio.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, resumo.PorFormaPagamento[model.PagamentoDinheiro].Equal(decimal.RequireFromString("20.00")))
	assert.True(t, resumo.PorFormaPagamento[model.PagamentoPix].Equal(decimal.RequireFromString("40.00")))
	require.Len(t, resumo.TopProdutos, 2)
	assert.Equal(t, "Alcatra", resumo.TopProdutos[0].Nome)
}
