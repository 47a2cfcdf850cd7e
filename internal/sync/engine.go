package sync

import (
	"context"
	"reflect"
	stdsync "sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rgtechno/tallybridge/internal/models"
	"github.com/rgtechno/tallybridge/internal/repository"
)

// Record is one reconcilable row. NaturalKey identifies it across systems;
// Projection returns a copy with identity and bookkeeping fields cleared so
// two rows can be compared on business value alone.
type Record[T any] interface {
	NaturalKey() string
	Projection() T
}

// Store persists one module's records.
type Store[T Record[T]] interface {
	LoadAll(ctx context.Context) ([]T, error)
	InsertBatch(ctx context.Context, records []T) error
	UpsertBatch(ctx context.Context, records []T) error
}

// Module binds a remote report to its local store.
type Module[T Record[T]] struct {
	Name      string
	BatchSize int
	Fetch     func(ctx context.Context) ([]T, error)
	Store     Store[T]
}

// Report summarizes one run.
type Report struct {
	Module    string  `json:"module"`
	Trigger   Trigger `json:"trigger"`
	Total     int     `json:"total"`
	New       int     `json:"new"`
	Changed   int     `json:"changed"`
	Unchanged int     `json:"unchanged"`
	Duration  string  `json:"duration"`
}

// Engine carries the shared run machinery: the gate, the audit log and the
// per-module run locks.
type Engine struct {
	gate  *Gate
	logs  *repository.SyncLogRepository
	log   *logrus.Logger
	locks stdsync.Map
}

func NewEngine(gate *Gate, logs *repository.SyncLogRepository, log *logrus.Logger) *Engine {
	return &Engine{gate: gate, logs: logs, log: log}
}

func (e *Engine) lock(moduleName string) *stdsync.Mutex {
	mu, _ := e.locks.LoadOrStore(moduleName, &stdsync.Mutex{})
	return mu.(*stdsync.Mutex)
}

// Run reconciles one module against the remote system. The gate is checked
// before any remote call; a run already in flight for the same module is
// rejected rather than queued. Automatic runs append one audit row; manual
// runs hand the report back to the caller.
func Run[T Record[T]](ctx context.Context, e *Engine, m Module[T], trigger Trigger) (*Report, error) {
	if err := e.gate.Allowed(ctx, m.Name, trigger); err != nil {
		return nil, err
	}

	mu := e.lock(m.Name)
	if !mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer mu.Unlock()

	start := time.Now()
	report, err := reconcile(ctx, m)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"module":  m.Name,
			"trigger": trigger,
		}).WithError(err).Error("sync failed")
		if trigger == TriggerAuto {
			if logErr := e.logs.Append(ctx, m.Name, models.SyncLogFail); logErr != nil {
				e.log.WithError(logErr).Error("failed to append sync log")
			}
		}
		return nil, err
	}

	report.Trigger = trigger
	report.Duration = time.Since(start).String()
	e.log.WithFields(logrus.Fields{
		"module":    m.Name,
		"trigger":   trigger,
		"total":     report.Total,
		"new":       report.New,
		"changed":   report.Changed,
		"unchanged": report.Unchanged,
		"duration":  report.Duration,
	}).Info("sync completed")

	if trigger == TriggerAuto {
		if logErr := e.logs.Append(ctx, m.Name, models.SyncLogSuccess); logErr != nil {
			e.log.WithError(logErr).Error("failed to append sync log")
		}
	}
	return report, nil
}

func reconcile[T Record[T]](ctx context.Context, m Module[T]) (*Report, error) {
	remote, err := m.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	local, err := m.Store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]T, len(local))
	for _, rec := range local {
		existing[rec.NaturalKey()] = rec
	}

	var fresh, changed []T
	seen := make(map[string]bool, len(remote))
	unchanged := 0
	for _, rec := range remote {
		key := rec.NaturalKey()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		current, ok := existing[key]
		switch {
		case !ok:
			fresh = append(fresh, rec)
		case !reflect.DeepEqual(rec.Projection(), current.Projection()):
			changed = append(changed, rec)
		default:
			unchanged++
		}
	}

	if err := applyBatches(ctx, fresh, m.BatchSize, m.Store.InsertBatch); err != nil {
		return nil, err
	}
	if err := applyBatches(ctx, changed, m.BatchSize, m.Store.UpsertBatch); err != nil {
		return nil, err
	}

	return &Report{
		Module:    m.Name,
		Total:     len(fresh) + len(changed) + unchanged,
		New:       len(fresh),
		Changed:   len(changed),
		Unchanged: unchanged,
	}, nil
}

// applyBatches writes fixed-size batches concurrently. Each batch commits on
// its own; a failed batch never rolls back its siblings, and the next run
// converges whatever was left behind.
func applyBatches[T any](ctx context.Context, records []T, size int, apply func(context.Context, []T) error) error {
	if len(records) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(records)
	}

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]
		g.Go(func() error {
			return apply(ctx, batch)
		})
	}
	return g.Wait()
}
