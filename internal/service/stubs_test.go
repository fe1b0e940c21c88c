package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
	"github.com/Bcardoso2/frigo-galeno-api/internal/repository"
)

// Stubs de repositório em memória. DB() devolve nil, então runTx executa o
// corpo da transação direto — os cenários de rollback são cobertos pelos
// retornos de erro dos services antes de qualquer mutação.

// ── Produto ──────────────────────────────────────────────────────────────────

type stubProdutoRepo struct {
	produtos map[uuid.UUID]*model.Produto
}

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{produtos: make(map[uuid.UUID]*model.Produto)}
}

func (r *stubProdutoRepo) Create(_ context.Context, p *model.Produto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.produtos[p.ID] = p
	return nil
}

func (r *stubProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProdutoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Produto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProdutoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Produto, error) {
	for _, p := range r.produtos {
		if p.CodigoProduto == codigo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProdutoRepo) List(_ context.Context, _ dto.ProdutoFilter) ([]model.Produto, int64, error) {
	out := make([]model.Produto, 0, len(r.produtos))
	for _, p := range r.produtos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProdutoRepo) Update(_ context.Context, p *model.Produto) error {
	r.produtos[p.ID] = p
	return nil
}

func (r *stubProdutoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.produtos[id]; ok {
		p.Ativo = false
	}
	return nil
}

func (r *stubProdutoRepo) Reativar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.produtos[id]; ok {
		p.Ativo = true
	}
	return nil
}

func (r *stubProdutoRepo) DB() *gorm.DB { return nil }

var _ repository.ProdutoRepository = (*stubProdutoRepo)(nil)

// ── Estoque ──────────────────────────────────────────────────────────────────

type stubEstoqueRepo struct {
	saldos map[uuid.UUID]*model.Estoque
}

func newStubEstoqueRepo() *stubEstoqueRepo {
	return &stubEstoqueRepo{saldos: make(map[uuid.UUID]*model.Estoque)}
}

func (r *stubEstoqueRepo) FindByProdutoID(_ context.Context, produtoID uuid.UUID) (*model.Estoque, error) {
	e, ok := r.saldos[produtoID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *stubEstoqueRepo) List(_ context.Context) ([]model.Estoque, error) {
	out := make([]model.Estoque, 0, len(r.saldos))
	for _, e := range r.saldos {
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubEstoqueRepo) Upsert(_ context.Context, produtoID uuid.UUID, quantidadeKg decimal.Decimal) (*model.Estoque, error) {
	e, ok := r.saldos[produtoID]
	if !ok {
		e = &model.Estoque{ID: uuid.New(), ProdutoID: produtoID}
		r.saldos[produtoID] = e
	}
	e.QuantidadeKg = quantidadeKg
	e.DataAtualizacao = time.Now()
	return e, nil
}

func (r *stubEstoqueRepo) FindByProdutoTxLocked(_ *gorm.DB, produtoID uuid.UUID) (*model.Estoque, error) {
	e, ok := r.saldos[produtoID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// Cópia: a leitura no banco real devolve um snapshot da linha, não um
	// ponteiro que UpdateQuantidadeTx mutaria por baixo do chamador.
	copia := *e
	return &copia, nil
}

func (r *stubEstoqueRepo) UpdateQuantidadeTx(_ *gorm.DB, produtoID uuid.UUID, quantidadeKg decimal.Decimal) error {
	e, ok := r.saldos[produtoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.QuantidadeKg = quantidadeKg
	e.DataAtualizacao = time.Now()
	return nil
}

func (r *stubEstoqueRepo) CreateTx(_ *gorm.DB, e *model.Estoque) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.saldos[e.ProdutoID] = e
	return nil
}

func (r *stubEstoqueRepo) DB() *gorm.DB { return nil }

var _ repository.EstoqueRepository = (*stubEstoqueRepo)(nil)

// ── Movimentos ───────────────────────────────────────────────────────────────

type stubMovimentoRepo struct {
	movimentos []model.MovimentoEstoque
}

func (r *stubMovimentoRepo) CreateTx(_ *gorm.DB, m *model.MovimentoEstoque) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimentos = append(r.movimentos, *m)
	return nil
}

func (r *stubMovimentoRepo) ListByProduto(_ context.Context, produtoID uuid.UUID, _ int) ([]model.MovimentoEstoque, error) {
	var out []model.MovimentoEstoque
	for _, m := range r.movimentos {
		if m.ProdutoID == produtoID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.MovimentoEstoqueRepository = (*stubMovimentoRepo)(nil)

// ── Estoque animal ───────────────────────────────────────────────────────────

type stubEstoqueAnimalRepo struct {
	lotes     map[uuid.UUID]*model.EstoqueAnimal
	agregados map[string]decimal.Decimal
}

func newStubEstoqueAnimalRepo() *stubEstoqueAnimalRepo {
	return &stubEstoqueAnimalRepo{
		lotes:     make(map[uuid.UUID]*model.EstoqueAnimal),
		agregados: make(map[string]decimal.Decimal),
	}
}

func (r *stubEstoqueAnimalRepo) addLote(parte string, peso string, dataEntrada string) *model.EstoqueAnimal {
	dt, _ := time.Parse("2006-01-02", dataEntrada)
	lote := &model.EstoqueAnimal{
		ID:          uuid.New(),
		Parte:       parte,
		PesoKg:      decimal.RequireFromString(peso),
		DataEntrada: dt,
	}
	r.lotes[lote.ID] = lote
	_ = r.RecalcularAgregadoTx(nil, parte)
	return lote
}

func (r *stubEstoqueAnimalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.EstoqueAnimal, error) {
	l, ok := r.lotes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubEstoqueAnimalRepo) List(_ context.Context) ([]model.EstoqueAnimal, error) {
	out := make([]model.EstoqueAnimal, 0, len(r.lotes))
	for _, l := range r.lotes {
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubEstoqueAnimalRepo) CreateTx(_ *gorm.DB, lote *model.EstoqueAnimal) error {
	if lote.ID == uuid.Nil {
		lote.ID = uuid.New()
	}
	r.lotes[lote.ID] = lote
	return nil
}

func (r *stubEstoqueAnimalRepo) SaveTx(_ *gorm.DB, lote *model.EstoqueAnimal) error {
	r.lotes[lote.ID] = lote
	return nil
}

func (r *stubEstoqueAnimalRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.lotes, id)
	return nil
}

func (r *stubEstoqueAnimalRepo) FindDisponiveisTxLocked(_ *gorm.DB, parte string) ([]model.EstoqueAnimal, error) {
	var out []model.EstoqueAnimal
	for _, l := range r.lotes {
		if l.Parte == parte && l.PesoKg.GreaterThan(decimal.Zero) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DataEntrada.Before(out[j].DataEntrada) })
	return out, nil
}

func (r *stubEstoqueAnimalRepo) FindMaisRecenteTxLocked(_ *gorm.DB, parte string) (*model.EstoqueAnimal, error) {
	var found *model.EstoqueAnimal
	for _, l := range r.lotes {
		if l.Parte != parte {
			continue
		}
		if found == nil || l.DataEntrada.After(found.DataEntrada) {
			found = l
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return found, nil
}

func (r *stubEstoqueAnimalRepo) FindMaisRecenteTxQualquerParte(_ *gorm.DB) (*model.EstoqueAnimal, error) {
	var found *model.EstoqueAnimal
	for _, l := range r.lotes {
		if found == nil || l.DataEntrada.After(found.DataEntrada) {
			found = l
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return found, nil
}

func (r *stubEstoqueAnimalRepo) UpdatePesoTx(_ *gorm.DB, id uuid.UUID, pesoKg decimal.Decimal) error {
	l, ok := r.lotes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.PesoKg = pesoKg
	return nil
}

func (r *stubEstoqueAnimalRepo) RecalcularAgregadoTx(_ *gorm.DB, parte string) error {
	total := decimal.Zero
	for _, l := range r.lotes {
		if l.Parte == parte {
			total = total.Add(l.PesoKg)
		}
	}
	r.agregados[parte] = total
	return nil
}

func (r *stubEstoqueAnimalRepo) GetAgregado(_ context.Context, parte string) (*model.EstoqueAnimalTipo, error) {
	total, ok := r.agregados[parte]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.EstoqueAnimalTipo{Parte: parte, PesoTotalKg: total}, nil
}

func (r *stubEstoqueAnimalRepo) ListAgregados(_ context.Context) ([]model.EstoqueAnimalTipo, error) {
	partes := make([]string, 0, len(r.agregados))
	for parte := range r.agregados {
		partes = append(partes, parte)
	}
	sort.Strings(partes)
	out := make([]model.EstoqueAnimalTipo, 0, len(partes))
	for _, parte := range partes {
		out = append(out, model.EstoqueAnimalTipo{Parte: parte, PesoTotalKg: r.agregados[parte]})
	}
	return out, nil
}

func (r *stubEstoqueAnimalRepo) PartesComLoteTx(_ *gorm.DB) ([]string, error) {
	set := make(map[string]bool)
	for _, l := range r.lotes {
		if l.PesoKg.GreaterThan(decimal.Zero) {
			set[l.Parte] = true
		}
	}
	partes := make([]string, 0, len(set))
	for parte := range set {
		partes = append(partes, parte)
	}
	sort.Strings(partes)
	return partes, nil
}

func (r *stubEstoqueAnimalRepo) DB() *gorm.DB { return nil }

var _ repository.EstoqueAnimalRepository = (*stubEstoqueAnimalRepo)(nil)

// ── Associações ──────────────────────────────────────────────────────────────

type stubAssociacaoRepo struct {
	assocs map[uuid.UUID]*model.ProdutoEstoqueAnimal
}

func newStubAssociacaoRepo() *stubAssociacaoRepo {
	return &stubAssociacaoRepo{assocs: make(map[uuid.UUID]*model.ProdutoEstoqueAnimal)}
}

func (r *stubAssociacaoRepo) add(produtoID uuid.UUID, parte string, percentual string) {
	a := &model.ProdutoEstoqueAnimal{
		ID:         uuid.New(),
		ProdutoID:  produtoID,
		Parte:      parte,
		Percentual: decimal.RequireFromString(percentual),
	}
	r.assocs[a.ID] = a
}

func (r *stubAssociacaoRepo) Upsert(_ context.Context, produtoID uuid.UUID, parte string, percentual decimal.Decimal) (*model.ProdutoEstoqueAnimal, error) {
	for _, a := range r.assocs {
		if a.ProdutoID == produtoID && a.Parte == parte {
			a.Percentual = percentual
			return a, nil
		}
	}
	a := &model.ProdutoEstoqueAnimal{
		ID:         uuid.New(),
		ProdutoID:  produtoID,
		Parte:      parte,
		Percentual: percentual,
	}
	r.assocs[a.ID] = a
	return a, nil
}

func (r *stubAssociacaoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.assocs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.assocs, id)
	return nil
}

func (r *stubAssociacaoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProdutoEstoqueAnimal, error) {
	a, ok := r.assocs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAssociacaoRepo) ListByProduto(_ context.Context, produtoID uuid.UUID) ([]model.ProdutoEstoqueAnimal, error) {
	return r.ListByProdutoTx(nil, produtoID)
}

func (r *stubAssociacaoRepo) ListByProdutoTx(_ *gorm.DB, produtoID uuid.UUID) ([]model.ProdutoEstoqueAnimal, error) {
	var out []model.ProdutoEstoqueAnimal
	for _, a := range r.assocs {
		if a.ProdutoID == produtoID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Percentual.GreaterThan(out[j].Percentual) })
	return out, nil
}

var _ repository.AssociacaoRepository = (*stubAssociacaoRepo)(nil)

// ── Vendas ───────────────────────────────────────────────────────────────────

type stubVendaRepo struct {
	vendas map[uuid.UUID]*model.Venda
	// produtos, quando presente, simula o Preload("Itens.Produto") do repo real.
	produtos *stubProdutoRepo
}

func newStubVendaRepo() *stubVendaRepo {
	return &stubVendaRepo{vendas: make(map[uuid.UUID]*model.Venda)}
}

func (r *stubVendaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venda) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Itens {
		if v.Itens[i].ID == uuid.Nil {
			v.Itens[i].ID = uuid.New()
		}
		v.Itens[i].VendaID = v.ID
	}
	r.vendas[v.ID] = v
	return nil
}

func (r *stubVendaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVendaRepo) List(_ context.Context, _ dto.VendaFilter) ([]model.Venda, int64, error) {
	out := make([]model.Venda, 0, len(r.vendas))
	for _, v := range r.vendas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVendaRepo) ListPeriodo(_ context.Context, inicio, fim time.Time) ([]model.Venda, error) {
	var out []model.Venda
	for _, v := range r.vendas {
		if v.Cancelada {
			continue
		}
		if !v.DataHora.Before(inicio) && v.DataHora.Before(fim) {
			copia := *v
			copia.Itens = make([]model.VendaItem, len(v.Itens))
			copy(copia.Itens, v.Itens)
			if r.produtos != nil {
				for i := range copia.Itens {
					copia.Itens[i].Produto = r.produtos.produtos[copia.Itens[i].ProdutoID]
				}
			}
			out = append(out, copia)
		}
	}
	return out, nil
}

func (r *stubVendaRepo) MarcarEscassezTx(_ *gorm.DB, id uuid.UUID) error {
	v, ok := r.vendas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.EscassezMateriaPrima = true
	return nil
}

// Como no repo real, o update é condicional em cancelada=false.
func (r *stubVendaRepo) MarcarCanceladaTx(_ *gorm.DB, id uuid.UUID, motivo string) error {
	v, ok := r.vendas[id]
	if !ok || v.Cancelada {
		return gorm.ErrRecordNotFound
	}
	v.Cancelada = true
	v.MotivoCancelamento = &motivo
	return nil
}

func (r *stubVendaRepo) DB() *gorm.DB { return nil }

var _ repository.VendaRepository = (*stubVendaRepo)(nil)
