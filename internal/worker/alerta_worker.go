package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
	"github.com/Bcardoso2/frigo-galeno-api/internal/repository"
)

// AlertaWorker persiste alertas de escassez de matéria-prima fora da
// transação da venda. A gravação tenta de novo com backoff antes de desistir;
// um alerta perdido ainda está coberto pelo log da venda.
type AlertaWorker struct {
	alertas repository.AlertaEscassezRepository
}

func NewAlertaWorker(alertas repository.AlertaEscassezRepository) *AlertaWorker {
	return &AlertaWorker{alertas: alertas}
}

func (w *AlertaWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload AlertaEscassezJob
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return
	}

	alerta := &model.AlertaEscassez{
		VendaID: payload.VendaID,
		Parte:   payload.Parte,
		FaltaKg: payload.FaltaKg,
	}
	err := withRetry(ctx, 3, func(attempt int) error {
		if err := w.alertas.Create(ctx, alerta); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("venda_id", payload.VendaID.String()).
				Msg("alerta_worker: create failed, retrying")
			return err
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).
			Str("venda_id", payload.VendaID.String()).
			Str("parte", payload.Parte).
			Msg("alerta_worker: alerta perdido após retries")
		return
	}
	log.Info().
		Str("venda_id", payload.VendaID.String()).
		Str("parte", payload.Parte).
		Str("falta_kg", payload.FaltaKg.String()).
		Msg("alerta de escassez registrado")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
