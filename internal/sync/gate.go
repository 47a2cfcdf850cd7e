package sync

import (
	"context"
	"errors"

	"github.com/rgtechno/tallybridge/internal/repository"
)

// Trigger distinguishes user-initiated syncs from scheduled ones; the two
// paths are gated independently.
type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerAuto   Trigger = "auto"
)

var (
	// ErrSyncDisabled is returned when the module's gate blocks the
	// requested trigger path.
	ErrSyncDisabled = errors.New("sync is disabled for this module")

	// ErrSyncInProgress is returned when the module is already mid-run.
	ErrSyncInProgress = errors.New("a sync for this module is already running")
)

// Gate answers whether a module may sync on a given path. It is consulted
// before any remote call is made.
type Gate struct {
	settings *repository.SyncControlRepository
}

func NewGate(settings *repository.SyncControlRepository) *Gate {
	return &Gate{settings: settings}
}

func (g *Gate) Allowed(ctx context.Context, moduleName string, trigger Trigger) error {
	setting, err := g.settings.Get(ctx, moduleName)
	if err != nil {
		return err
	}
	enabled := setting.IsManualSyncEnabled
	if trigger == TriggerAuto {
		enabled = setting.IsAutoSyncEnabled
	}
	if !enabled {
		return ErrSyncDisabled
	}
	return nil
}
