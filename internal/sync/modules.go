package sync

import (
	"context"
	"errors"
	"time"

	"github.com/rgtechno/tallybridge/internal/models"
	"github.com/rgtechno/tallybridge/internal/repository"
	"github.com/rgtechno/tallybridge/internal/tally"
)

// ErrUnknownModule is returned for a sync request naming no known module.
var ErrUnknownModule = errors.New("unknown sync module")

// Batch sizes and remote timeouts per module. The item master is the heavy
// report, so it gets the long timeout; ledger modules carry child rows and
// use the larger batch.
const (
	masterBatchSize = 500
	ledgerBatchSize = 1500

	itemsTimeout   = 120 * time.Second
	defaultTimeout = 60 * time.Second
)

type runner func(ctx context.Context, trigger Trigger) (*Report, error)

// Service exposes the five reconcilable modules behind their settings-facing
// names.
type Service struct {
	engine  *Engine
	runners map[string]runner
	order   []string
}

func NewService(
	engine *Engine,
	client *tally.Client,
	items *repository.ItemRepository,
	stocks *repository.StockLevelRepository,
	vendors *repository.VendorRepository,
	outstandings *repository.OutstandingRepository,
	statements *repository.StatementRepository,
) *Service {
	s := &Service{engine: engine, runners: map[string]runner{}}

	register(s, Module[models.Item]{
		Name:      models.ModuleProducts,
		BatchSize: masterBatchSize,
		Store:     items,
		Fetch: func(ctx context.Context) ([]models.Item, error) {
			body, err := client.Export(ctx, tally.ItemsRequest(time.Now()), itemsTimeout)
			if err != nil {
				return nil, err
			}
			return tally.DecodeItems(body)
		},
	})
	register(s, Module[models.StockLevel]{
		Name:      models.ModuleStocks,
		BatchSize: masterBatchSize,
		Store:     stocks,
		Fetch: func(ctx context.Context) ([]models.StockLevel, error) {
			body, err := client.Export(ctx, tally.StockSummaryRequest(time.Now()), defaultTimeout)
			if err != nil {
				return nil, err
			}
			return tally.DecodeStockLevels(body)
		},
	})
	register(s, Module[models.Vendor]{
		Name:      models.ModuleVendors,
		BatchSize: masterBatchSize,
		Store:     vendors,
		Fetch: func(ctx context.Context) ([]models.Vendor, error) {
			body, err := client.Export(ctx, tally.VendorsRequest(), defaultTimeout)
			if err != nil {
				return nil, err
			}
			return tally.DecodeVendors(body)
		},
	})
	register(s, Module[models.OutstandingLedger]{
		Name:      models.ModuleOutstanding,
		BatchSize: ledgerBatchSize,
		Store:     outstandings,
		Fetch: func(ctx context.Context) ([]models.OutstandingLedger, error) {
			body, err := client.Export(ctx, tally.OutstandingRequest(time.Now()), defaultTimeout)
			if err != nil {
				return nil, err
			}
			return tally.DecodeOutstandings(body)
		},
	})
	register(s, Module[models.LedgerStatement]{
		Name:      models.ModuleLedgerStatement,
		BatchSize: ledgerBatchSize,
		Store:     statements,
		Fetch: func(ctx context.Context) ([]models.LedgerStatement, error) {
			body, err := client.Export(ctx, tally.LedgerStatementsRequest(time.Now()), defaultTimeout)
			if err != nil {
				return nil, err
			}
			return tally.DecodeStatements(body)
		},
	})

	return s
}

func register[T Record[T]](s *Service, m Module[T]) {
	s.runners[m.Name] = func(ctx context.Context, trigger Trigger) (*Report, error) {
		return Run(ctx, s.engine, m, trigger)
	}
	s.order = append(s.order, m.Name)
}

// Modules lists the registered module names in registration order.
func (s *Service) Modules() []string {
	return s.order
}

// TriggerManual runs one module on the manual path.
func (s *Service) TriggerManual(ctx context.Context, moduleName string) (*Report, error) {
	run, ok := s.runners[moduleName]
	if !ok {
		return nil, ErrUnknownModule
	}
	return run(ctx, TriggerManual)
}

// RunAuto walks every module on the scheduled path. Disabled modules are
// skipped; one module's failure never blocks the rest.
func (s *Service) RunAuto(ctx context.Context) {
	for _, name := range s.order {
		if _, err := s.runners[name](ctx, TriggerAuto); err != nil {
			if errors.Is(err, ErrSyncDisabled) || errors.Is(err, ErrSyncInProgress) {
				s.engine.log.WithField("module", name).Debug("auto sync skipped")
			}
			// run failures are logged by the engine; keep walking
		}
	}
}
