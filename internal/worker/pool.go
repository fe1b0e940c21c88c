package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const QueueAlertasEscassez = "jobs:alertas_escassez"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AlertaEscassezJob carrega uma falta de matéria-prima detectada numa venda.
type AlertaEscassezJob struct {
	VendaID uuid.UUID       `json:"venda_id"`
	Parte   string          `json:"parte"`
	FaltaKg decimal.Decimal `json:"falta_kg"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueAlertaEscassez pushes a shortage alert job to Redis. A nil dispatcher
// or nil client is a no-op, so callers without Redis wired keep working.
func (d *Dispatcher) EnqueueAlertaEscassez(ctx context.Context, payload AlertaEscassezJob) error {
	if d == nil || d.rdb == nil {
		return nil
	}
	return d.enqueue(ctx, QueueAlertasEscassez, "alerta_escassez", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the alert queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, alertas *AlertaWorker) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, alertas)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, alertas *AlertaWorker) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueAlertasEscassez).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, result[1], alertas)
		}
	}
}

func processJob(ctx context.Context, raw string, alertas *AlertaWorker) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}
	switch job.Type {
	case "alerta_escassez":
		alertas.Process(ctx, job.Payload)
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type")
	}
}
