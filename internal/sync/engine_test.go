package sync

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rgtechno/tallybridge/internal/models"
	"github.com/rgtechno/tallybridge/internal/repository"
)

type fakeStore struct {
	items    map[string]models.Item
	inserted int
	upserted int
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]models.Item{}}
}

func (s *fakeStore) LoadAll(ctx context.Context) ([]models.Item, error) {
	out := make([]models.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	return out, nil
}

func (s *fakeStore) InsertBatch(ctx context.Context, items []models.Item) error {
	s.inserted += len(items)
	for _, it := range items {
		s.items[it.ItemName] = it
	}
	return nil
}

func (s *fakeStore) UpsertBatch(ctx context.Context, items []models.Item) error {
	s.upserted += len(items)
	for _, it := range items {
		s.items[it.ItemName] = it
	}
	return nil
}

func testEngine(t *testing.T) (*Engine, *repository.SyncControlRepository, *repository.SyncLogRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SyncControlSetting{}, &models.SyncLog{}))

	settings := repository.NewSyncControlRepository(db)
	logs := repository.NewSyncLogRepository(db)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewEngine(NewGate(settings), logs, log), settings, logs
}

func enableModule(t *testing.T, settings *repository.SyncControlRepository, name string) {
	t.Helper()
	require.NoError(t, settings.Upsert(context.Background(), models.SyncControlSetting{
		ModuleName:          name,
		IsAutoSyncEnabled:   true,
		IsManualSyncEnabled: true,
	}))
}

func itemModule(store *fakeStore, fetched []models.Item, calls *int) Module[models.Item] {
	return Module[models.Item]{
		Name:      models.ModuleProducts,
		BatchSize: 2,
		Store:     store,
		Fetch: func(ctx context.Context) ([]models.Item, error) {
			if calls != nil {
				*calls++
			}
			return fetched, nil
		},
	}
}

func TestRunBlockedByGateMakesNoRemoteCall(t *testing.T) {
	engine, _, _ := testEngine(t)
	store := newFakeStore()
	calls := 0

	// no gate row exists, so both paths are disabled
	_, err := Run(context.Background(), engine, itemModule(store, nil, &calls), TriggerManual)
	require.ErrorIs(t, err, ErrSyncDisabled)
	require.Equal(t, 0, calls)
}

func TestRunPartitionsNewChangedUnchanged(t *testing.T) {
	engine, settings, _ := testEngine(t)
	enableModule(t, settings, models.ModuleProducts)
	store := newFakeStore()
	store.items["Washer"] = models.Item{ID: "w1", ItemName: "Washer", SellingPrice: 5}
	store.items["Nut M6"] = models.Item{ID: "n1", ItemName: "Nut M6", SellingPrice: 2}

	remote := []models.Item{
		{ItemName: "Hex Bolt M8", SellingPrice: 12.5}, // new
		{ItemName: "Washer", SellingPrice: 6},         // changed
		{ItemName: "Nut M6", SellingPrice: 2},         // unchanged
	}

	report, err := Run(context.Background(), engine, itemModule(store, remote, nil), TriggerManual)
	require.NoError(t, err)
	require.Equal(t, 3, report.Total)
	require.Equal(t, 1, report.New)
	require.Equal(t, 1, report.Changed)
	require.Equal(t, 1, report.Unchanged)
	require.Equal(t, 1, store.inserted)
	require.Equal(t, 1, store.upserted)
}

func TestRunIsIdempotent(t *testing.T) {
	engine, settings, _ := testEngine(t)
	enableModule(t, settings, models.ModuleProducts)
	store := newFakeStore()

	remote := []models.Item{
		{ItemName: "Hex Bolt M8", SellingPrice: 12.5},
		{ItemName: "Washer", SellingPrice: 5},
	}

	first, err := Run(context.Background(), engine, itemModule(store, remote, nil), TriggerManual)
	require.NoError(t, err)
	require.Equal(t, 2, first.New)

	second, err := Run(context.Background(), engine, itemModule(store, remote, nil), TriggerManual)
	require.NoError(t, err)
	require.Equal(t, 0, second.New)
	require.Equal(t, 0, second.Changed)
	require.Equal(t, 2, second.Unchanged)
}

func TestRunDeduplicatesRemoteRows(t *testing.T) {
	engine, settings, _ := testEngine(t)
	enableModule(t, settings, models.ModuleProducts)
	store := newFakeStore()

	remote := []models.Item{
		{ItemName: "Hex Bolt M8", SellingPrice: 12.5},
		{ItemName: "Hex Bolt M8", SellingPrice: 99},
		{ItemName: ""},
	}

	report, err := Run(context.Background(), engine, itemModule(store, remote, nil), TriggerManual)
	require.NoError(t, err)
	require.Equal(t, 1, report.Total)
	require.Equal(t, 12.5, store.items["Hex Bolt M8"].SellingPrice)
}

func TestRunAppendsSyncLogOnAutoOnly(t *testing.T) {
	engine, settings, logs := testEngine(t)
	enableModule(t, settings, models.ModuleProducts)
	store := newFakeStore()
	ctx := context.Background()

	_, err := Run(ctx, engine, itemModule(store, nil, nil), TriggerManual)
	require.NoError(t, err)
	entries, err := logs.List(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = Run(ctx, engine, itemModule(store, nil, nil), TriggerAuto)
	require.NoError(t, err)
	entries, err = logs.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, models.ModuleProducts, entries[0].SyncType)
	require.Equal(t, models.SyncLogSuccess, entries[0].Status)
}

func TestRunRejectsOverlappingRuns(t *testing.T) {
	engine, settings, _ := testEngine(t)
	enableModule(t, settings, models.ModuleProducts)
	store := newFakeStore()

	release := make(chan struct{})
	started := make(chan struct{})
	blocking := Module[models.Item]{
		Name:      models.ModuleProducts,
		BatchSize: 2,
		Store:     store,
		Fetch: func(ctx context.Context) ([]models.Item, error) {
			close(started)
			<-release
			return nil, nil
		},
	}

	done := make(chan error, 1)
	go func() {
		_, err := Run(context.Background(), engine, blocking, TriggerManual)
		done <- err
	}()

	<-started
	_, err := Run(context.Background(), engine, itemModule(store, nil, nil), TriggerManual)
	require.ErrorIs(t, err, ErrSyncInProgress)

	close(release)
	require.NoError(t, <-done)
}
