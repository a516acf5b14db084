// Package batch fans records out to the composer under bounded concurrency.
// A run is a fixed worker pool fed one (record, template kind) unit at a
// time, with a weighted semaphore capping the estimated in-flight memory and
// a per-unit deadline so one slow document cannot stall the batch.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"docforge/internal/domain"
	"docforge/internal/infra"
	"docforge/internal/metrics"
)

const (
	defaultMaxWorkers  = 4
	defaultTimeout     = 30 * time.Second
	defaultMemoryLimit = 512 << 20

	// unitWeight is the rough in-flight byte estimate charged per unit:
	// source imagery plus the rendered artifact buffer.
	unitWeight = 4 << 20
)

// Composer is the per-unit work the processor schedules.
type Composer interface {
	Compose(ctx context.Context, rec domain.Record, kind domain.TemplateKind) (domain.DocumentResult, error)
}

// Config bounds one batch run. Zero values take defaults; negative values are
// rejected before any unit is scheduled.
type Config struct {
	MaxWorkers    int
	Timeout       time.Duration
	MemoryLimit   int64
	AdmissionWait time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxWorkers == 0 {
		c.MaxWorkers = defaultMaxWorkers
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.MemoryLimit == 0 {
		c.MemoryLimit = defaultMemoryLimit
	}
	if c.AdmissionWait == 0 {
		c.AdmissionWait = c.Timeout
	}
	return c
}

func (c Config) validate() error {
	if c.MaxWorkers < 0 {
		return fmt.Errorf("max workers must not be negative, got %d", c.MaxWorkers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.MemoryLimit < 0 {
		return fmt.Errorf("memory limit must not be negative, got %d", c.MemoryLimit)
	}
	if c.AdmissionWait < 0 {
		return fmt.Errorf("admission wait must not be negative, got %s", c.AdmissionWait)
	}
	return nil
}

// Processor runs batches against a composer.
type Processor struct {
	composer Composer
	log      infra.Logger
}

func NewProcessor(composer Composer, log infra.Logger) *Processor {
	return &Processor{composer: composer, log: log}
}

type unit struct {
	rec  domain.Record
	kind domain.TemplateKind
}

// Run composes every (record, kind) pair and reports one result per unit in
// submission order. A unit failure never aborts the run; cancellation stops
// scheduling new units and records the rest as cancelled. The returned error
// is non-nil only for configuration mistakes, before any work starts.
func (p *Processor) Run(ctx context.Context, records []domain.Record, kinds []domain.TemplateKind, cfg Config) (domain.BatchReport, error) {
	if err := cfg.validate(); err != nil {
		return domain.BatchReport{}, fmt.Errorf("batch config: %w", err)
	}
	cfg = cfg.withDefaults()

	units := make([]unit, 0, len(records)*len(kinds))
	for _, rec := range records {
		for _, kind := range kinds {
			units = append(units, unit{rec: rec, kind: kind})
		}
	}
	results := make([]domain.DocumentResult, len(units))

	// Clamp the per-unit weight so a small memory limit throttles to one
	// unit at a time instead of deadlocking the run.
	weight := int64(unitWeight)
	if weight > cfg.MemoryLimit {
		weight = cfg.MemoryLimit
	}
	mem := semaphore.NewWeighted(cfg.MemoryLimit)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.MaxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.runUnit(ctx, units[i], cfg, mem, weight)
			}
		}()
	}

	scheduled := len(units)
	for i := range units {
		select {
		case jobs <- i:
		case <-ctx.Done():
			scheduled = i
		}
		if scheduled != len(units) {
			break
		}
	}
	close(jobs)
	wg.Wait()

	for i := scheduled; i < len(units); i++ {
		results[i] = cancelledResult(units[i])
	}

	report := domain.BatchReport{Success: true, Results: results}
	for _, res := range results {
		if res.Success {
			report.ProcessedCount++
		} else {
			report.FailedCount++
		}
	}

	p.log.Info().
		Int("units", len(units)).
		Int("processed", report.ProcessedCount).
		Int("failed", report.FailedCount).
		Int("workers", cfg.MaxWorkers).
		Msg("batch finished")
	return report, nil
}

func (p *Processor) runUnit(ctx context.Context, u unit, cfg Config, mem *semaphore.Weighted, weight int64) domain.DocumentResult {
	admitCtx, cancelAdmit := context.WithTimeout(ctx, cfg.AdmissionWait)
	defer cancelAdmit()
	if err := mem.Acquire(admitCtx, weight); err != nil {
		if ctx.Err() != nil {
			return cancelledResult(u)
		}
		metrics.DocumentsProcessed.WithLabelValues(string(u.kind), "capacity").Inc()
		return failedResult(u, &domain.CapacityError{RecordID: u.rec.ID(), Kind: u.kind})
	}
	metrics.InflightMemory.Add(float64(weight))
	defer func() {
		mem.Release(weight)
		metrics.InflightMemory.Sub(float64(weight))
	}()

	unitCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	res, err := p.composer.Compose(unitCtx, u.rec, u.kind)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			err = &domain.TimeoutError{RecordID: u.rec.ID(), Kind: u.kind}
			metrics.DocumentsProcessed.WithLabelValues(string(u.kind), "timeout").Inc()
		case ctx.Err() != nil:
			return cancelledResult(u)
		default:
			metrics.DocumentsProcessed.WithLabelValues(string(u.kind), "failed").Inc()
		}
		p.log.Warn().
			Str("record_id", u.rec.ID()).
			Str("kind", string(u.kind)).
			Err(err).
			Msg("unit failed")
		return failedResult(u, err)
	}

	metrics.DocumentsProcessed.WithLabelValues(string(u.kind), "ok").Inc()
	return res
}

func failedResult(u unit, err error) domain.DocumentResult {
	return domain.DocumentResult{
		RecordID:     u.rec.ID(),
		TemplateKind: u.kind,
		Error:        err.Error(),
	}
}

func cancelledResult(u unit) domain.DocumentResult {
	return domain.DocumentResult{
		RecordID:     u.rec.ID(),
		TemplateKind: u.kind,
		Error:        domain.ErrBatchCancelled.Error(),
	}
}
