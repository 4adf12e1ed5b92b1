// Package worker implements the Validation Worker & Queue Contract
// (spec.md §4.J): a ticking loop that dequeues commands, dispatches to
// the scan/report pipeline or the repair pipeline, and always
// acknowledges — adapted from the teacher's worker.Pool goroutine loop
// (media-worker/internal/worker/pool.go), generalized from a fixed
// Redis BLPOP job struct to the spec's generic {type,payload} envelope
// over an arbitrary queue.Queue.
package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/clock"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/queue"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/repair"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/report"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/scan"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/store"
)

const (
	typeValidateAll = "VALIDATE_ALL"
	typeRepairAll   = "REPAIR_ALL"
)

// envelope is the wire message schema spec.md §4.J defines.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type validateAllPayload struct {
	IncludeCollections []string `json:"includeCollections"`
	ExcludeCollections []string `json:"excludeCollections"`
}

type repairAllPayload struct {
	ReportID string `json:"reportId"`
}

// Config bounds the worker's tick cadence and in-flight concurrency.
type Config struct {
	// ProcessingInterval is the tick period (default 5s).
	ProcessingInterval time.Duration
	// BatchSize is the max messages dequeued per tick (default 10).
	BatchSize int
	// MaxConcurrentBatches bounds in-flight message processing per tick
	// (default 5).
	MaxConcurrentBatches int
	// DefaultIncludeCollections seeds a VALIDATE_ALL run's collection
	// selection when the message itself specifies neither
	// includeCollections nor excludeCollections (spec.md §6's
	// MEDIA_COLLECTION setting: the collection validated by default when
	// a caller doesn't scope the run itself).
	DefaultIncludeCollections []string
}

func (c Config) intervalOrDefault() time.Duration {
	if c.ProcessingInterval <= 0 {
		return 5 * time.Second
	}
	return c.ProcessingInterval
}

func (c Config) batchSizeOrDefault() int {
	if c.BatchSize <= 0 {
		return 10
	}
	return c.BatchSize
}

func (c Config) maxConcurrentOrDefault() int {
	if c.MaxConcurrentBatches <= 0 {
		return 5
	}
	return c.MaxConcurrentBatches
}

// Worker drives the tick loop described in spec.md §4.J.
type Worker struct {
	queue    queue.Queue
	store    store.Store
	scanner  *scan.Engine
	reports  *report.Aggregator
	planner  *repair.Planner
	executor *repair.Executor
	clock    clock.Clock
	ids      clock.IDGenerator
	cfg      Config
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New builds a Worker. log is the teacher's convention of a
// package-scoped zerolog.Logger passed in rather than the global
// singleton, so tests can capture output.
func New(
	q queue.Queue,
	st store.Store,
	scanner *scan.Engine,
	reports *report.Aggregator,
	planner *repair.Planner,
	executor *repair.Executor,
	clk clock.Clock,
	ids clock.IDGenerator,
	cfg Config,
	log zerolog.Logger,
) *Worker {
	return &Worker{
		queue:    q,
		store:    st,
		scanner:  scanner,
		reports:  reports,
		planner:  planner,
		executor: executor,
		clock:    clk,
		ids:      ids,
		cfg:      cfg,
		log:      log,
	}
}

// Start installs the periodic tick. A second Start call while already
// running is a no-op (spec.md §4.J: "Ticking is idempotent").
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true

	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.loop(loopCtx)
}

// Stop removes the tick and waits for the in-flight tick to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
}

func (w *Worker) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.intervalOrDefault())
	defer ticker.Stop()

	w.log.Info().Msg("validation worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("validation worker stopping")
			return
		case <-ticker.C:
			// A tick in progress defers the next rather than overlapping
			// (spec.md §5); ticker.C already coalesces ticks missed while
			// Tick blocks, so a slow tick simply skips ahead.
			w.Tick(ctx)
		}
	}
}

// Tick dequeues up to BatchSize messages and processes them with
// bounded in-flight concurrency. Exported so tests and a manual
// "process now" hook can drive one tick directly.
func (w *Worker) Tick(ctx context.Context) {
	messages, err := w.queue.Receive(ctx, w.cfg.batchSizeOrDefault())
	if err != nil {
		w.log.Error().Err(err).Msg("failed to receive messages")
		return
	}
	if len(messages) == 0 {
		return
	}

	sem := semaphore.NewWeighted(int64(w.cfg.maxConcurrentOrDefault()))
	grp, grpCtx := errgroup.WithContext(ctx)

	for _, msg := range messages {
		msg := msg
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		grp.Go(func() error {
			defer sem.Release(1)
			w.process(grpCtx, msg)
			return nil
		})
	}
	_ = grp.Wait()
}

// process implements the per-message state machine: received → parsed
// → executing → acknowledged, or received → unparseable → acknowledged.
// No message is left un-acknowledged after this returns (spec.md §4.J).
func (w *Worker) process(ctx context.Context, msg queue.Message) {
	defer w.ack(ctx, msg.ID)

	var env envelope
	if err := json.Unmarshal([]byte(msg.Data), &env); err != nil {
		w.log.Warn().Str("message_id", msg.ID).Err(err).Msg("unparseable queue message, acknowledging")
		return
	}

	switch env.Type {
	case typeValidateAll:
		w.handleValidateAll(ctx, msg.ID, env.Payload)
	case typeRepairAll:
		w.handleRepairAll(ctx, msg.ID, env.Payload)
	default:
		w.log.Warn().Str("message_id", msg.ID).Str("type", env.Type).Msg("unknown message type, acknowledging")
	}
}

func (w *Worker) ack(ctx context.Context, id string) {
	if err := w.queue.Ack(ctx, id); err != nil {
		w.log.Error().Str("message_id", id).Err(err).Msg("failed to acknowledge message")
	}
}

func (w *Worker) handleValidateAll(ctx context.Context, msgID string, raw json.RawMessage) {
	var payload validateAllPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			w.log.Warn().Str("message_id", msgID).Err(err).Msg("malformed VALIDATE_ALL payload, acknowledging")
			return
		}
	}

	include := payload.IncludeCollections
	if len(include) == 0 && len(payload.ExcludeCollections) == 0 {
		include = w.cfg.DefaultIncludeCollections
	}

	start := w.clock.Now()
	results, err := w.scanner.All(ctx, scan.Options{
		IncludeCollections: include,
		ExcludeCollections: payload.ExcludeCollections,
	})
	if err != nil {
		w.log.Error().Str("message_id", msgID).Err(err).Msg("validation run failed")
		return
	}
	end := w.clock.Now()

	rpt := w.reports.Generate(results, start, end)
	if err := w.reports.Persist(ctx, rpt); err != nil {
		w.log.Error().Str("message_id", msgID).Str("report_id", rpt.ID).Err(err).Msg("failed to persist validation report")
		return
	}

	w.log.Info().Str("message_id", msgID).Str("report_id", rpt.ID).Int("total_fields", rpt.TotalFields).Msg("validation run complete")
}

func (w *Worker) handleRepairAll(ctx context.Context, msgID string, raw json.RawMessage) {
	var payload repairAllPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.ReportID == "" {
		w.log.Warn().Str("message_id", msgID).Msg("missing reportId in REPAIR_ALL payload, acknowledging")
		return
	}

	reportVal, found, err := w.store.LoadReport(ctx, store.ReportKindValidation, payload.ReportID)
	if err != nil {
		w.log.Error().Str("message_id", msgID).Str("report_id", payload.ReportID).Err(err).Msg("failed to load report for repair")
		return
	}
	if !found {
		w.log.Warn().Str("message_id", msgID).Str("report_id", payload.ReportID).Msg("repair requested for unknown report, acknowledging")
		return
	}

	rpt := report.FromValue(reportVal)
	plan := w.planner.FromReport(ctx, rpt)
	if len(plan.Unrepairable) > 0 {
		w.log.Warn().Str("message_id", msgID).Int("unrepairable", len(plan.Unrepairable)).Msg("some invalid fields have no applicable repair")
	}

	results := w.executor.Apply(ctx, plan.Items)
	repairRpt := buildRepairReport(w.ids, w.clock, results)
	if err := persistRepairReport(ctx, w.store, repairRpt); err != nil {
		w.log.Error().Str("message_id", msgID).Str("repair_report_id", repairRpt.ID).Err(err).Msg("failed to persist repair report")
		return
	}

	w.log.Info().Str("message_id", msgID).Str("repair_report_id", repairRpt.ID).Int("fields_repaired", repairRpt.TotalFieldsRepaired).Msg("repair run complete")
}
