package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Bcardoso2/frigo-galeno-api/internal/dto"
	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
	"github.com/Bcardoso2/frigo-galeno-api/internal/repository"
)

// ConsumoLote descreve quanto foi tirado de um lote durante um consumo FIFO.
type ConsumoLote struct {
	LoteID       uuid.UUID
	QuantidadeKg decimal.Decimal
}

// ResultadoConsumo resume um consumo de matéria-prima. FaltaKg > 0 indica que
// a parte não tinha peso suficiente: o consumo foi parcial e a falta fica a
// cargo do chamador (alerta, flag na venda) — nunca aborta a operação.
type ResultadoConsumo struct {
	Parte       string
	ConsumidoKg decimal.Decimal
	FaltaKg     decimal.Decimal
	Lotes       []ConsumoLote
}

// EstoqueAnimalService administra os lotes de matéria-prima (peças de
// dianteiro/traseiro) e o agregado por parte. Consumo é FIFO por data de
// entrada: peça mais antiga esvazia primeiro, reduzindo perda por validade.
type EstoqueAnimalService interface {
	CriarLote(ctx context.Context, req dto.CriarLoteRequest) (*model.EstoqueAnimal, error)
	AtualizarLote(ctx context.Context, id uuid.UUID, req dto.AtualizarLoteRequest) (*model.EstoqueAnimal, error)
	RemoverLote(ctx context.Context, id uuid.UUID) error
	GetLote(ctx context.Context, id uuid.UUID) (*model.EstoqueAnimal, error)
	ListarLotes(ctx context.Context) ([]model.EstoqueAnimal, error)
	ListarAgregados(ctx context.Context) ([]model.EstoqueAnimalTipo, error)

	// ConsumirTx percorre os lotes da parte em ordem FIFO, subtraindo de cada
	// um até esgotar o pedido ou os lotes. Recalcula o agregado em seguida,
	// na mesma transação.
	ConsumirTx(tx *gorm.DB, parte string, quantidadeKg decimal.Decimal) (*ResultadoConsumo, error)
	// RestaurarTx devolve peso ao lote de entrada mais recente da parte.
	// Sem lote na parte, é no-op registrado em log: o peso sai do
	// rastreamento de matéria-prima.
	RestaurarTx(tx *gorm.DB, parte string, quantidadeKg decimal.Decimal) error
}

type estoqueAnimalService struct {
	repo repository.EstoqueAnimalRepository
}

func NewEstoqueAnimalService(repo repository.EstoqueAnimalRepository) EstoqueAnimalService {
	return &estoqueAnimalService{repo: repo}
}

func (s *estoqueAnimalService) CriarLote(ctx context.Context, req dto.CriarLoteRequest) (*model.EstoqueAnimal, error) {
	if !model.ParteValida(req.Parte) {
		return nil, ErrEntradaInvalida
	}
	dataEntrada, err := time.Parse("2006-01-02", req.DataEntrada)
	if err != nil {
		return nil, ErrEntradaInvalida
	}

	lote := &model.EstoqueAnimal{
		Parte:       req.Parte,
		PesoKg:      req.PesoKg,
		DataEntrada: dataEntrada,
		Fornecedor:  req.Fornecedor,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, lote); err != nil {
			return err
		}
		return s.repo.RecalcularAgregadoTx(tx, lote.Parte)
	})
	if err != nil {
		return nil, err
	}
	return lote, nil
}

func (s *estoqueAnimalService) AtualizarLote(ctx context.Context, id uuid.UUID, req dto.AtualizarLoteRequest) (*model.EstoqueAnimal, error) {
	lote, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLoteNaoEncontrado
	}
	if err != nil {
		return nil, err
	}

	parteAnterior := lote.Parte
	if req.Parte != nil {
		if !model.ParteValida(*req.Parte) {
			return nil, ErrEntradaInvalida
		}
		lote.Parte = *req.Parte
	}
	if req.PesoKg != nil {
		if req.PesoKg.IsNegative() {
			return nil, ErrEntradaInvalida
		}
		lote.PesoKg = *req.PesoKg
	}
	if req.DataEntrada != nil {
		dataEntrada, err := time.Parse("2006-01-02", *req.DataEntrada)
		if err != nil {
			return nil, ErrEntradaInvalida
		}
		lote.DataEntrada = dataEntrada
	}
	if req.Fornecedor != nil {
		lote.Fornecedor = req.Fornecedor
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SaveTx(tx, lote); err != nil {
			return err
		}
		if err := s.repo.RecalcularAgregadoTx(tx, lote.Parte); err != nil {
			return err
		}
		if parteAnterior != lote.Parte {
			return s.repo.RecalcularAgregadoTx(tx, parteAnterior)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lote, nil
}

func (s *estoqueAnimalService) RemoverLote(ctx context.Context, id uuid.UUID) error {
	lote, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrLoteNaoEncontrado
	}
	if err != nil {
		return err
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteTx(tx, id); err != nil {
			return err
		}
		return s.repo.RecalcularAgregadoTx(tx, lote.Parte)
	})
}

func (s *estoqueAnimalService) GetLote(ctx context.Context, id uuid.UUID) (*model.EstoqueAnimal, error) {
	lote, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLoteNaoEncontrado
	}
	return lote, err
}

func (s *estoqueAnimalService) ListarLotes(ctx context.Context) ([]model.EstoqueAnimal, error) {
	return s.repo.List(ctx)
}

func (s *estoqueAnimalService) ListarAgregados(ctx context.Context) ([]model.EstoqueAnimalTipo, error) {
	return s.repo.ListAgregados(ctx)
}

func (s *estoqueAnimalService) ConsumirTx(tx *gorm.DB, parte string, quantidadeKg decimal.Decimal) (*ResultadoConsumo, error) {
	lotes, err := s.repo.FindDisponiveisTxLocked(tx, parte)
	if err != nil {
		return nil, err
	}

	res := &ResultadoConsumo{Parte: parte, ConsumidoKg: decimal.Zero}
	restante := quantidadeKg
	for _, lote := range lotes {
		if restante.LessThanOrEqual(decimal.Zero) {
			break
		}
		retirada := decimal.Min(lote.PesoKg, restante)
		if err := s.repo.UpdatePesoTx(tx, lote.ID, lote.PesoKg.Sub(retirada)); err != nil {
			return nil, err
		}
		res.Lotes = append(res.Lotes, ConsumoLote{LoteID: lote.ID, QuantidadeKg: retirada})
		res.ConsumidoKg = res.ConsumidoKg.Add(retirada)
		restante = restante.Sub(retirada)
	}
	res.FaltaKg = restante

	if err := s.repo.RecalcularAgregadoTx(tx, parte); err != nil {
		return nil, err
	}

	if res.FaltaKg.GreaterThan(decimal.Zero) {
		log.Warn().
			Str("parte", parte).
			Str("pedido_kg", quantidadeKg.String()).
			Str("falta_kg", res.FaltaKg.String()).
			Msg("matéria-prima insuficiente — consumo parcial")
	}
	return res, nil
}

func (s *estoqueAnimalService) RestaurarTx(tx *gorm.DB, parte string, quantidadeKg decimal.Decimal) error {
	lote, err := s.repo.FindMaisRecenteTxLocked(tx, parte)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().
			Str("parte", parte).
			Str("quantidade_kg", quantidadeKg.String()).
			Msg("parte sem lotes — restauração de matéria-prima descartada")
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePesoTx(tx, lote.ID, lote.PesoKg.Add(quantidadeKg)); err != nil {
		return err
	}
	return s.repo.RecalcularAgregadoTx(tx, parte)
}
