package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
	"github.com/Bcardoso2/frigo-galeno-api/internal/repository"
	"github.com/Bcardoso2/frigo-galeno-api/internal/worker"
)

const motivoCancelamentoPadrao = "Não informado"

// VendaService registra e cancela vendas. Registro e cancelamento são
// atômicos: venda, itens, desconto/restauração de estoque e movimentação de
// matéria-prima acontecem numa única transação, com lock de linha nos saldos.
type VendaService interface {
	RegistrarVenda(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVendaRequest) (*model.Venda, error)
	CancelarVenda(ctx context.Context, id uuid.UUID, motivo string) (*model.Venda, error)
	GetVenda(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	ListVendas(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error)
	// ResumoDiario consolida as vendas não canceladas do dia.
	ResumoDiario(ctx context.Context, dia time.Time) (*dto.ResumoDiarioResponse, error)
}

type vendaService struct {
	vendas     repository.VendaRepository
	produtos   repository.ProdutoRepository
	estoque    EstoqueService
	pool       EstoqueAnimalService
	rateio     RateioService
	dispatcher *worker.Dispatcher
}

func NewVendaService(
	vendas repository.VendaRepository,
	produtos repository.ProdutoRepository,
	estoque EstoqueService,
	pool EstoqueAnimalService,
	rateio RateioService,
	dispatcher *worker.Dispatcher,
) VendaService {
	return &vendaService{
		vendas:     vendas,
		produtos:   produtos,
		estoque:    estoque,
		pool:       pool,
		rateio:     rateio,
		dispatcher: dispatcher,
	}
}

func (s *vendaService) RegistrarVenda(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVendaRequest) (*model.Venda, error) {
	if len(req.Itens) == 0 {
		return nil, ErrEntradaInvalida
	}
	formaPagamento := req.FormaPagamento
	if formaPagamento == "" {
		formaPagamento = model.PagamentoDinheiro
	}
	if !model.FormaPagamentoValida(formaPagamento) {
		return nil, ErrEntradaInvalida
	}
	for _, item := range req.Itens {
		if item.QuantidadeKg.LessThanOrEqual(decimal.Zero) {
			return nil, ErrEntradaInvalida
		}
	}

	venda := &model.Venda{
		UsuarioID:      usuarioID,
		DataHora:       nowFunc(),
		FormaPagamento: formaPagamento,
		Finalizada:     true,
		Observacao:     req.Observacao,
	}
	var faltas []worker.AlertaEscassezJob

	err := runTx(ctx, s.vendas.DB(), func(tx *gorm.DB) error {
		total := decimal.Zero
		itens := make([]model.VendaItem, 0, len(req.Itens))

		for _, item := range req.Itens {
			produtoID, err := uuid.Parse(item.ProdutoID)
			if err != nil {
				return ErrEntradaInvalida
			}
			produto, err := s.produtos.FindByIDTx(tx, produtoID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProdutoNaoEncontrado
			}
			if err != nil {
				return err
			}
			if !produto.Ativo {
				return ErrProdutoInativo
			}

			valorItem := item.QuantidadeKg.Mul(produto.PrecoKg).Round(2)
			itens = append(itens, model.VendaItem{
				ProdutoID:    produto.ID,
				QuantidadeKg: item.QuantidadeKg,
				PrecoKg:      produto.PrecoKg,
				ValorTotal:   valorItem,
				CodigoBarras: item.CodigoBarras,
			})
			total = total.Add(valorItem)
		}

		venda.ValorTotal = total
		venda.Itens = itens
		if err := s.vendas.Create(ctx, tx, venda); err != nil {
			return err
		}

		for _, item := range venda.Itens {
			if err := s.estoque.DescontarTx(tx, item.ProdutoID, item.QuantidadeKg, "venda", &venda.ID); err != nil {
				return err
			}

			partes, err := s.rateio.ResolverTx(tx, item.ProdutoID, item.QuantidadeKg)
			if err != nil {
				return err
			}
			for _, pq := range partes {
				res, err := s.pool.ConsumirTx(tx, pq.Parte, pq.QuantidadeKg)
				if err != nil {
					return err
				}
				if res.FaltaKg.GreaterThan(decimal.Zero) {
					venda.EscassezMateriaPrima = true
					faltas = append(faltas, worker.AlertaEscassezJob{
						VendaID: venda.ID,
						Parte:   pq.Parte,
						FaltaKg: res.FaltaKg,
					})
				}
			}
		}

		if venda.EscassezMateriaPrima {
			return s.vendas.MarcarEscassezTx(tx, venda.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Alertas ficam fora da transação: a venda já está firmada e o registro
	// do alerta não pode desfazê-la.
	for _, job := range faltas {
		if err := s.dispatcher.EnqueueAlertaEscassez(ctx, job); err != nil {
			log.Error().Err(err).
				Str("venda_id", job.VendaID.String()).
				Str("parte", job.Parte).
				Msg("falha ao enfileirar alerta de escassez")
		}
	}

	log.Info().
		Str("venda_id", venda.ID.String()).
		Str("valor_total", venda.ValorTotal.String()).
		Int("itens", len(venda.Itens)).
		Bool("escassez", venda.EscassezMateriaPrima).
		Msg("venda registrada")
	return venda, nil
}

func (s *vendaService) CancelarVenda(ctx context.Context, id uuid.UUID, motivo string) (*model.Venda, error) {
	venda, err := s.vendas.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVendaNaoEncontrada
	}
	if err != nil {
		return nil, err
	}
	if venda.Cancelada {
		return nil, ErrVendaJaCancelada
	}
	if motivo == "" {
		motivo = motivoCancelamentoPadrao
	}

	err = runTx(ctx, s.vendas.DB(), func(tx *gorm.DB) error {
		for _, item := range venda.Itens {
			if err := s.estoque.RestaurarTx(tx, item.ProdutoID, item.QuantidadeKg, "cancelamento de venda", &venda.ID); err != nil {
				return err
			}

			partes, err := s.rateio.ResolverRestauracaoTx(tx, item.ProdutoID, item.QuantidadeKg)
			if err != nil {
				return err
			}
			for _, pq := range partes {
				if err := s.pool.RestaurarTx(tx, pq.Parte, pq.QuantidadeKg); err != nil {
					return err
				}
			}
		}
		// A checagem de Cancelada acima é feita sem lock; um cancelamento
		// concorrente pode ter vencido a corrida. O update condicional decide:
		// zero linhas afetadas desfaz as restaurações desta transação.
		if err := s.vendas.MarcarCanceladaTx(tx, venda.ID, motivo); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVendaJaCancelada
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	venda.Cancelada = true
	venda.MotivoCancelamento = &motivo

	log.Info().
		Str("venda_id", venda.ID.String()).
		Str("motivo", motivo).
		Msg("venda cancelada")
	return venda, nil
}

func (s *vendaService) GetVenda(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	venda, err := s.vendas.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVendaNaoEncontrada
	}
	return venda, err
}

func (s *vendaService) ListVendas(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	return s.vendas.List(ctx, filter)
}

func (s *vendaService) ResumoDiario(ctx context.Context, dia time.Time) (*dto.ResumoDiarioResponse, error) {
	inicio := time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, dia.Location())
	fim := inicio.AddDate(0, 0, 1)

	vendas, err := s.vendas.ListPeriodo(ctx, inicio, fim)
	if err != nil {
		return nil, err
	}

	resumo := &dto.ResumoDiarioResponse{
		Data:              inicio.Format("2006-01-02"),
		TotalVendas:       len(vendas),
		TotalValor:        decimal.Zero,
		TotalQuantidadeKg: decimal.Zero,
		TicketMedio:       decimal.Zero,
		ValorMedioKg:      decimal.Zero,
		PorFormaPagamento: map[string]decimal.Decimal{},
	}

	porProduto := map[string]*dto.ProdutoResumo{}
	for _, v := range vendas {
		resumo.TotalValor = resumo.TotalValor.Add(v.ValorTotal)
		resumo.PorFormaPagamento[v.FormaPagamento] = resumo.PorFormaPagamento[v.FormaPagamento].Add(v.ValorTotal)
		for _, item := range v.Itens {
			resumo.TotalQuantidadeKg = resumo.TotalQuantidadeKg.Add(item.QuantidadeKg)
			nome := item.ProdutoID.String()
			if item.Produto != nil {
				nome = item.Produto.Nome
			}
			p, ok := porProduto[nome]
			if !ok {
				p = &dto.ProdutoResumo{Nome: nome, QuantidadeKg: decimal.Zero, Valor: decimal.Zero}
				porProduto[nome] = p
			}
			p.QuantidadeKg = p.QuantidadeKg.Add(item.QuantidadeKg)
			p.Valor = p.Valor.Add(item.ValorTotal)
		}
	}

	if len(vendas) > 0 {
		resumo.TicketMedio = resumo.TotalValor.DivRound(decimal.NewFromInt(int64(len(vendas))), 2)
	}
	if resumo.TotalQuantidadeKg.GreaterThan(decimal.Zero) {
		resumo.ValorMedioKg = resumo.TotalValor.DivRound(resumo.TotalQuantidadeKg, 2)
	}

	for _, p := range porProduto {
		resumo.TopProdutos = append(resumo.TopProdutos, *p)
	}
	sort.Slice(resumo.TopProdutos, func(i, j int) bool {
		return resumo.TopProdutos[i].Valor.GreaterThan(resumo.TopProdutos[j].Valor)
	})
	if len(resumo.TopProdutos) > 5 {
		resumo.TopProdutos = resumo.TopProdutos[:5]
	}

	return resumo, nil
}
